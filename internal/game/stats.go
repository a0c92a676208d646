package game

import (
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

// BlankRunState is the default every decoded run is laid over
func BlankRunState() types.RunState {
	return types.RunState{
		Stamina:       100,
		MaxStamina:    100,
		Sanity:        100,
		MaxSanity:     100,
		SanityRate:    1,
		Level:         1,
		Week:          1,
		Industry:      types.IndustryInternet,
		Location:      types.LocationWorkstation,
		Attributes:    types.Attributes{Grind: 1, EQ: 1, Tech: 1, Health: 1, Luck: 1},
		Relationships: types.Relationships{Boss: 30, Colleague: 30, HR: 30},
		ActiveBuffs:   []types.Buff{},
		Titles:        []string{},
	}
}

// ValidateAllocation checks a creation request against the point pool.
// Every attribute starts at 1; the pool is the base points plus the legacy
// points the player chose to spend, which may not exceed what is available.
func ValidateAllocation(rules config.GameConfig, req types.CreationRequest, legacyAvailable int) error {
	a := req.Attributes
	if a.Grind < 1 || a.EQ < 1 || a.Tech < 1 || a.Health < 1 || a.Luck < 1 {
		return ErrInvalidAllocation
	}
	if req.SpentLegacyPoints < 0 || req.SpentLegacyPoints > legacyAvailable {
		return ErrInvalidAllocation
	}
	if a.Sum()-5 > rules.AttributePoints+req.SpentLegacyPoints {
		return ErrInvalidAllocation
	}
	return nil
}

// NewRunState derives the opening state of a career
func NewRunState(c *Catalog, rules config.GameConfig, attrs types.Attributes, industry types.IndustryType, legacyUsed int) types.RunState {
	ind := c.Industry(industry)
	mods := ind.Modifiers

	s := BlankRunState()
	s.Industry = ind.Type
	s.Attributes = attrs
	s.MaxStamina = 50 + attrs.Health*8 + mods.StaminaBonus
	s.Stamina = s.MaxStamina
	s.MaxSanity = mods.MaxSanityCap
	s.Sanity = max(10, mods.MaxSanityCap-mods.InitialSanityPenalty)
	s.Money = 1000 + attrs.Luck*300 + attrs.Tech*100
	s.Level = min(c.LevelCount(), 1+attrs.Tech/5)
	s.Salary = SalaryFor(c, s.Level, ind, attrs)
	s.Expenses = rules.BaseExpense
	s.LegacyPointsUsed = legacyUsed

	for _, g := range ind.StartingBuffs {
		if b, ok := c.Buff(g.ID, g.Duration); ok {
			s.ActiveBuffs = append(s.ActiveBuffs, b)
		}
	}
	return s
}

// SalaryFor computes the weekly salary of a level inside an industry.
// Tech-gated industries pay half while Tech is below 10.
func SalaryFor(c *Catalog, level int, ind types.Industry, attrs types.Attributes) int {
	salary := float64(c.Level(level).Salary) * ind.Modifiers.SalaryMultiplier
	if ind.Modifiers.TechSalaryGate && attrs.Tech < 10 {
		salary /= 2
	}
	return int(salary)
}

// cloneRun copies a run so mutations never leak into the original
func cloneRun(s types.RunState) types.RunState {
	out := s
	out.ActiveBuffs = append([]types.Buff{}, s.ActiveBuffs...)
	out.Titles = append([]string{}, s.Titles...)
	return out
}

// clampRelationship bounds a relationship score to [0, 100]
func clampRelationship(v int) int {
	return max(0, min(100, v))
}

// addCapped applies a delta; increases stop at the cap, decreases are not floored
func addCapped(value, delta, cap int) int {
	if delta > 0 {
		return min(cap, value+delta)
	}
	return value + delta
}
