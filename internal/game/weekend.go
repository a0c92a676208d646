package game

import (
	"fmt"
	"math"

	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

// Weekend resolves weekend activities and the passive weekend recovery
type Weekend struct {
	catalog  *Catalog
	rules    config.GameConfig
	resolver *Resolver
	dice     *DiceRoller
}

// NewWeekend creates the weekend resolver
func NewWeekend(c *Catalog, rules config.GameConfig, resolver *Resolver, dice *DiceRoller) *Weekend {
	return &Weekend{catalog: c, rules: rules, resolver: resolver, dice: dice}
}

// InvestChance is the percentage chance an investment doubles
func (w *Weekend) InvestChance(luck int) float64 {
	return math.Min(w.rules.WeekendInvestCap, w.rules.WeekendInvestBase+float64(luck)*w.rules.WeekendInvestPerLuck)
}

// Effect computes the raw descriptor of an activity, or why it cannot be done
func (w *Weekend) Effect(s types.RunState, activity types.WeekendActivity) (types.EffectDescriptor, error) {
	r := w.rules
	switch activity {
	case types.WeekendSleep:
		return types.EffectDescriptor{
			Stamina: r.WeekendSleepStamina,
			Sanity:  r.WeekendSleepSanity,
			Message: "睡到自然醒，世界都清净了。",
		}, nil

	case types.WeekendInvest:
		if s.Money < r.WeekendInvestStake {
			return types.EffectDescriptor{}, ErrInsufficientFunds
		}
		luck := EffectiveLuck(r, s, w.catalog.Industry(s.Industry))
		if w.dice.Percent() < w.InvestChance(luck) {
			return types.EffectDescriptor{
				Money:   r.WeekendInvestStake,
				Message: fmt.Sprintf("眼光毒辣，本金翻倍，赚了 %d。", r.WeekendInvestStake),
			}, nil
		}
		return types.EffectDescriptor{
			Money:   -r.WeekendInvestStake,
			Sanity:  -5,
			Message: fmt.Sprintf("一根大阴线，%d 打了水漂。", r.WeekendInvestStake),
		}, nil

	case types.WeekendOutsource:
		if s.Attributes.Tech <= r.WeekendOutsourceTech {
			return types.EffectDescriptor{}, ErrRequirementNotMet
		}
		return types.EffectDescriptor{
			Money:   s.Attributes.Tech * r.WeekendOutsourceRate,
			Sanity:  -r.WeekendOutsourceSanity,
			Message: "接了个私活，周末也没闲着。",
		}, nil

	case types.WeekendStudy:
		if s.Money < r.WeekendStudyCost {
			return types.EffectDescriptor{}, ErrInsufficientFunds
		}
		return types.EffectDescriptor{
			Money:      -r.WeekendStudyCost,
			Exp:        r.WeekendStudyExp,
			Attributes: &types.Attributes{Tech: 1},
			Message:    "报了个班，感觉自己又行了。",
		}, nil

	case types.WeekendGig:
		return types.EffectDescriptor{
			Money:   r.WeekendGigMoney,
			Stamina: -r.WeekendGigStaminaCost,
			Message: "跑了两天外卖，腿都不是自己的了。",
		}, nil

	case types.WeekendSocial:
		if s.Money < r.WeekendSocialCost {
			return types.EffectDescriptor{}, ErrInsufficientFunds
		}
		return types.EffectDescriptor{
			Money:         -r.WeekendSocialCost,
			Sanity:        r.WeekendSocialSanity,
			Relationships: &types.Relationships{Colleague: r.WeekendSocialColleague},
			Message:       "和朋友吃了顿火锅，满血复活。",
		}, nil
	}
	return types.EffectDescriptor{}, ErrUnknownActivity
}

// Spend applies an activity followed by the passive weekend recovery.
// Small weeks recover less and cost sanity.
func (w *Weekend) Spend(s types.RunState, activity types.WeekendActivity) (types.RunState, types.EffectDescriptor, error) {
	raw, err := w.Effect(s, activity)
	if err != nil {
		return s, types.EffectDescriptor{}, err
	}

	next, applied, _ := w.resolver.Apply(s, raw)

	rate := w.rules.BigWeekRecoveryRate
	if next.IsSmallWeek {
		rate = w.rules.SmallWeekRecoveryRate
		next.Sanity -= w.rules.SmallWeekSanityPenalty
		applied.Sanity -= w.rules.SmallWeekSanityPenalty
	}
	recovery := int(float64(next.MaxStamina) * rate)
	before := next.Stamina
	next.Stamina = addCapped(next.Stamina, recovery, next.MaxStamina)
	applied.Stamina += next.Stamina - before

	return next, applied, nil
}
