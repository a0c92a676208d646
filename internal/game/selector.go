package game

import (
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

// Selector picks the event a run faces each week
type Selector struct {
	catalog *Catalog
	rules   config.GameConfig
	dice    *DiceRoller
}

// NewSelector creates a selector drawing from dice
func NewSelector(c *Catalog, rules config.GameConfig, dice *DiceRoller) *Selector {
	return &Selector{catalog: c, rules: rules, dice: dice}
}

// IsSmallWeek decides whether the run's current week is a small week.
// Lucky players occasionally dodge one.
func (sel *Selector) IsSmallWeek(s types.RunState) bool {
	ind := sel.catalog.Industry(s.Industry)
	if !ind.Modifiers.SmallWeek || s.Week%2 != 0 {
		return false
	}
	if EffectiveLuck(sel.rules, s, ind) > sel.rules.SmallWeekLuckBypass && sel.dice.Chance(sel.rules.SmallWeekBypassChance) {
		return false
	}
	return true
}

// GoodChance is the percentage chance of drawing from the rare/epic subset
func (sel *Selector) GoodChance(luck int) float64 {
	return sel.rules.GoodChanceBase + float64(luck)*sel.rules.GoodChancePerLuck
}

// Select returns this week's event. Scripted milestones win over chained
// crises, which win over the weighted draw.
func (sel *Selector) Select(s types.RunState) types.Event {
	ind := sel.catalog.Industry(s.Industry)

	if m := ind.Milestone; m != nil && m.Interval > 0 && s.Week%m.Interval == 0 {
		if e, ok := sel.catalog.Scripted(m.EventID, ind.Type, s.Week); ok {
			return e
		}
	}

	if slot, ok := sel.chainedSlot(s); ok {
		return sel.catalog.Chained(slot, ind.Type)
	}

	return sel.Draw(sel.catalog.Pool(ind.Type), EffectiveLuck(sel.rules, s, ind), s.IsSmallWeek)
}

// chainedSlot finds the critical resource, stamina first, then sanity, then money
func (sel *Selector) chainedSlot(s types.RunState) (string, bool) {
	switch {
	case s.Stamina < sel.rules.ChainedStaminaThreshold:
		return ChainedStamina, true
	case s.Sanity < sel.rules.ChainedSanityThreshold:
		return ChainedSanity, true
	case s.Money < sel.rules.ChainedMoneyThreshold:
		return ChainedMoney, true
	}
	return "", false
}

// Draw performs the luck-weighted draw over a pool
func (sel *Selector) Draw(pool []types.Event, luck int, smallWeek bool) types.Event {
	var good, normal []types.Event
	for _, e := range pool {
		if e.Rarity.Good() {
			good = append(good, e)
		} else {
			normal = append(normal, e)
		}
	}

	roll := sel.dice.Percent()
	forceNormal := smallWeek && sel.dice.Chance(sel.rules.SmallWeekRoutineBias)

	if !forceNormal && roll < sel.GoodChance(luck) && len(good) > 0 {
		return good[sel.dice.Intn(len(good))]
	}
	if len(normal) == 0 {
		return good[sel.dice.Intn(len(good))]
	}
	return normal[sel.dice.Intn(len(normal))]
}
