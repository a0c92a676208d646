package game

import (
	"math"

	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

// PermanentBuffDuration marks buffs that outlast any bounded run
const PermanentBuffDuration = 999

// factor treats a zero multiplier as absent
func factor(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}

// CostMultipliers returns the composed stamina and sanity cost multipliers
func CostMultipliers(buffs []types.Buff) (stamina, sanity float64) {
	stamina, sanity = 1, 1
	for _, b := range buffs {
		stamina *= factor(b.Effect.StaminaCostMod)
		sanity *= factor(b.Effect.SanityCostMod)
	}
	return stamina, sanity
}

// RiskModifier is the additive risk adjustment of all active buffs
func RiskModifier(buffs []types.Buff) int {
	total := 0
	for _, b := range buffs {
		total += b.Effect.Risk
	}
	return total
}

// SalaryModifier is the product of all active salary multipliers
func SalaryModifier(buffs []types.Buff) float64 {
	m := 1.0
	for _, b := range buffs {
		m *= factor(b.Effect.SalaryMod)
	}
	return m
}

// AdjustEffect passes the cost and risk deltas of a raw effect through the
// active buffs. Only negative stamina/sanity deltas are scaled and only
// positive risk deltas are reduced, never below zero.
func AdjustEffect(buffs []types.Buff, sanityRate float64, raw types.EffectDescriptor) types.EffectDescriptor {
	out := raw
	staminaMod, sanityMod := CostMultipliers(buffs)

	if out.Stamina < 0 {
		out.Stamina = int(math.Round(float64(out.Stamina) * staminaMod))
	}
	if out.Sanity < 0 {
		out.Sanity = int(math.Round(float64(out.Sanity) * sanityMod * factor(sanityRate)))
	}
	if out.Risk > 0 {
		out.Risk = max(0, out.Risk+RiskModifier(buffs))
	}
	return out
}

// EffectiveLuck is the luck used for event weighting
func EffectiveLuck(rules config.GameConfig, s types.RunState, ind types.Industry) int {
	luck := s.Attributes.Luck
	for _, b := range s.ActiveBuffs {
		luck += b.Effect.LuckMod
	}
	if ind.Modifiers.LuckBonus {
		luck += rules.LuckBonusAmount
	}
	return luck
}

// TickBuffs decrements every duration and drops buffs that ran out
func TickBuffs(buffs []types.Buff) []types.Buff {
	out := make([]types.Buff, 0, len(buffs))
	for _, b := range buffs {
		b.Duration--
		if b.Duration > 0 {
			out = append(out, b)
		}
	}
	return out
}
