package game

import (
	"errors"

	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/interfaces"
	"github.com/user/career-survival/internal/types"
	"go.uber.org/zap"
)

// DecisionEngine provides heuristic decision making for auto-pilot careers
type DecisionEngine struct {
	diceRoller *DiceRoller
	rules      config.GameConfig
}

// NewDecisionEngine creates a new decision engine
func NewDecisionEngine(rules config.GameConfig, dice *DiceRoller) *DecisionEngine {
	return &DecisionEngine{
		diceRoller: dice,
		rules:      rules,
	}
}

// Allocate spreads the creation pool randomly over the attributes
func (de *DecisionEngine) Allocate(points int) types.Attributes {
	a := types.Attributes{Grind: 1, EQ: 1, Tech: 1, Health: 1, Luck: 1}
	for i := 0; i < points; i++ {
		switch de.diceRoller.Roll(5) {
		case 1:
			a.Grind++
		case 2:
			a.EQ++
		case 3:
			a.Tech++
		case 4:
			a.Health++
		default:
			a.Luck++
		}
	}
	return a
}

// ChooseOption picks the unlocked option with the best score for the run
func (de *DecisionEngine) ChooseOption(s types.RunState, event types.Event) int {
	// Resources count for more the closer they are to running out
	staminaWeight := 1.0
	if s.MaxStamina > 0 && s.Stamina*2 < s.MaxStamina {
		staminaWeight = 3
	}
	sanityWeight := 1.0
	if s.MaxSanity > 0 && s.Sanity*2 < s.MaxSanity {
		sanityWeight = 3
	}
	moneyWeight := 0.01
	if s.Money < 0 {
		moneyWeight = 0.05
	}

	best, bestScore := -1, 0.0
	for i, option := range event.Options {
		if !OptionAvailable(option, s) {
			continue
		}
		d := AdjustEffect(s.ActiveBuffs, s.SanityRate, Evaluate(option.Effect, s))

		score := float64(d.Stamina)*staminaWeight + float64(d.Sanity)*sanityWeight
		score += float64(d.Money)*moneyWeight + float64(d.Exp)*0.2
		score += float64(d.Level)*50 + float64(d.Salary)*0.01 - float64(d.Risk)*0.5
		if d.AddBuff != nil {
			if b, ok := de.buffSign(d.AddBuff.ID); ok {
				score += b
			}
		}
		score += float64(de.diceRoller.Roll(10))

		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// buffSign scores well-known buffs without a catalog lookup
func (de *DecisionEngine) buffSign(id string) (float64, bool) {
	switch id {
	case "momentum", "boss_favor", "inspired", "stability":
		return 15, true
	case "back_pain", "depressed", "insomnia", "996":
		return -15, true
	}
	return 0, false
}

// ChoosePostWork works overtime only while both resources are comfortable
func (de *DecisionEngine) ChoosePostWork(s types.RunState) types.PostWorkChoice {
	if s.Stamina*2 > s.MaxStamina && s.Sanity > 40 && s.Stamina > de.rules.OvertimeStamina*2 {
		return types.PostWorkOvertime
	}
	return types.PostWorkLeave
}

// ChooseWeekend picks the weekend activity the run needs most
func (de *DecisionEngine) ChooseWeekend(s types.RunState) types.WeekendActivity {
	r := de.rules
	switch {
	case s.Stamina*5 < s.MaxStamina*2:
		return types.WeekendSleep
	case s.Sanity < 40 && s.Money >= r.WeekendSocialCost:
		return types.WeekendSocial
	case s.Sanity < 40:
		return types.WeekendSleep
	case s.Attributes.Tech > r.WeekendOutsourceTech:
		return types.WeekendOutsource
	case s.Money >= r.WeekendStudyCost+r.BaseExpense*2:
		return types.WeekendStudy
	case s.Stamina > r.WeekendGigStaminaCost*2:
		return types.WeekendGig
	}
	return types.WeekendSleep
}

// Simulate plays a whole career on auto-pilot and returns its last view
func Simulate(engine *Engine, de *DecisionEngine, playerID string, industry types.IndustryType, store interfaces.Store, logger *zap.Logger) (*types.GameView, error) {
	session := NewSession(playerID, engine, store, logger)
	if session.Active() {
		return nil, ErrRunActive
	}

	req := types.CreationRequest{
		Attributes: de.Allocate(engine.Rules.AttributePoints),
		Industry:   industry,
	}
	if err := session.Create(req); err != nil {
		return nil, err
	}
	return Drive(session, de)
}

// Drive answers every phase of an active session until it terminates
func Drive(session *Session, de *DecisionEngine) (*types.GameView, error) {
	// Six transitions per week plus slack for the opening and the ending
	limit := (session.engine.Rules.MaxWeeks + 2) * 6
	for step := 0; session.Active(); step++ {
		if step > limit {
			return session.View(), errors.New("auto-pilot did not finish the run")
		}
		if err := Step(session, de); err != nil {
			return session.View(), err
		}
	}
	return session.View(), nil
}

// Step answers the current phase of a session with one decision
func Step(session *Session, de *DecisionEngine) error {
	run, ok := session.Run()
	if !ok {
		return ErrRunNotFound
	}

	switch run.Phase {
	case types.PhaseWeekIntro, types.PhaseSettlement, types.PhaseRetiring:
		return session.Advance()
	case types.PhaseEvent:
		return session.Choose(de.ChooseOption(run, *run.CurrentEvent))
	case types.PhaseResult:
		return session.PostWork(de.ChoosePostWork(run))
	case types.PhaseWeekend:
		err := session.SpendWeekend(de.ChooseWeekend(run))
		if errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrRequirementNotMet) {
			return session.SpendWeekend(types.WeekendSleep)
		}
		return err
	}
	return ErrRunOver
}
