package game

import (
	"fmt"
	"strings"

	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

// statValue reads a named stat off a run
func statValue(s types.RunState, stat string) (int, bool) {
	switch strings.ToLower(stat) {
	case "grind":
		return s.Attributes.Grind, true
	case "eq":
		return s.Attributes.EQ, true
	case "tech":
		return s.Attributes.Tech, true
	case "health":
		return s.Attributes.Health, true
	case "luck":
		return s.Attributes.Luck, true
	case "stamina":
		return s.Stamina, true
	case "sanity":
		return s.Sanity, true
	case "money":
		return s.Money, true
	case "risk":
		return s.Risk, true
	case "level":
		return s.Level, true
	case "exp":
		return s.Exp, true
	case "week":
		return s.Week, true
	case "boss":
		return s.Relationships.Boss, true
	case "colleague":
		return s.Relationships.Colleague, true
	case "hr":
		return s.Relationships.HR, true
	}
	return 0, false
}

// EvalCondition reports whether the condition holds for the run.
// Unknown stats and operators never hold.
func EvalCondition(c types.Condition, s types.RunState) bool {
	v, ok := statValue(s, c.Stat)
	if !ok {
		return false
	}
	switch c.Op {
	case ">":
		return v > c.Value
	case ">=":
		return v >= c.Value
	case "<":
		return v < c.Value
	case "<=":
		return v <= c.Value
	case "==", "=":
		return v == c.Value
	case "!=":
		return v != c.Value
	}
	return false
}

// OptionAvailable reports whether an option's gate passes
func OptionAvailable(o types.Option, s types.RunState) bool {
	return o.Requires == nil || EvalCondition(*o.Requires, s)
}

// Evaluate interprets an effect spec against the run, producing the raw descriptor
func Evaluate(spec types.EffectSpec, s types.RunState) types.EffectDescriptor {
	switch spec.Op {
	case types.EffectBranch:
		for _, b := range spec.Branches {
			if EvalCondition(b.When, s) {
				return b.Then
			}
		}
		return spec.Delta
	case types.EffectRestore:
		d := spec.Delta
		d.Stamina += max(0, s.MaxStamina-s.Stamina)
		d.Sanity += max(0, s.MaxSanity-s.Sanity)
		return d
	default:
		return spec.Delta
	}
}

// Resolver applies effect descriptors to runs
type Resolver struct {
	catalog *Catalog
	rules   config.GameConfig
}

// NewResolver creates a resolver over a catalog
func NewResolver(c *Catalog, rules config.GameConfig) *Resolver {
	return &Resolver{catalog: c, rules: rules}
}

// Apply runs a raw descriptor through the buffs and folds it into a copy of
// the run. It returns the new run, the descriptor as actually applied and any
// promotion or demotion notices.
func (r *Resolver) Apply(s types.RunState, raw types.EffectDescriptor) (types.RunState, types.EffectDescriptor, []string) {
	next := cloneRun(s)
	applied := AdjustEffect(s.ActiveBuffs, s.SanityRate, raw)
	var notes []string

	if applied.MaxStamina != 0 {
		next.MaxStamina = max(1, next.MaxStamina+applied.MaxStamina)
		next.Stamina = min(next.Stamina, next.MaxStamina)
	}
	next.Stamina = addCapped(next.Stamina, applied.Stamina, next.MaxStamina)
	next.Sanity = addCapped(next.Sanity, applied.Sanity, next.MaxSanity)
	next.Money += applied.Money
	next.Exp += applied.Exp
	next.Risk = max(0, next.Risk+applied.Risk)

	if a := applied.Attributes; a != nil {
		next.Attributes = next.Attributes.Add(*a)
		next.Attributes.Grind = max(1, next.Attributes.Grind)
		next.Attributes.EQ = max(1, next.Attributes.EQ)
		next.Attributes.Tech = max(1, next.Attributes.Tech)
		next.Attributes.Health = max(1, next.Attributes.Health)
		next.Attributes.Luck = max(1, next.Attributes.Luck)
	}

	if rel := applied.Relationships; rel != nil {
		next.Relationships.Boss = clampRelationship(next.Relationships.Boss + rel.Boss)
		next.Relationships.Colleague = clampRelationship(next.Relationships.Colleague + rel.Colleague)
		next.Relationships.HR = clampRelationship(next.Relationships.HR + rel.HR)
	}

	if applied.Level != 0 {
		level := max(1, min(r.catalog.LevelCount(), next.Level+applied.Level))
		if level != next.Level {
			ind := r.catalog.Industry(next.Industry)
			title := r.catalog.Level(level).Title
			if level > next.Level {
				notes = append(notes, fmt.Sprintf("晋升！你现在是 %s", title))
			} else {
				notes = append(notes, fmt.Sprintf("降级…你现在是 %s", title))
			}
			next.Level = level
			next.Salary = SalaryFor(r.catalog, level, ind, next.Attributes)
		}
	}
	next.Salary = max(0, next.Salary+applied.Salary)

	if g := applied.AddBuff; g != nil {
		if b, ok := r.catalog.Buff(g.ID, g.Duration); ok {
			next.ActiveBuffs = append(next.ActiveBuffs, b)
		}
	}
	if applied.Title != "" && !next.HasTitle(applied.Title) {
		next.Titles = append(next.Titles, applied.Title)
	}
	if applied.RevengeImmune {
		next.RevengeImmune = true
	}

	return next, applied, notes
}
