package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

func TestEvalCondition(t *testing.T) {
	s := BlankRunState()
	s.Attributes.Tech = 21
	s.Money = -5
	s.Relationships.HR = 80

	tests := []struct {
		name string
		cond types.Condition
		want bool
	}{
		{"greater", types.Condition{Stat: "tech", Op: ">", Value: 20}, true},
		{"greater boundary", types.Condition{Stat: "tech", Op: ">", Value: 21}, false},
		{"at least", types.Condition{Stat: "tech", Op: ">=", Value: 21}, true},
		{"less", types.Condition{Stat: "money", Op: "<", Value: 0}, true},
		{"at most", types.Condition{Stat: "hr", Op: "<=", Value: 79}, false},
		{"equal", types.Condition{Stat: "week", Op: "==", Value: 1}, true},
		{"not equal", types.Condition{Stat: "level", Op: "!=", Value: 1}, false},
		{"case insensitive stat", types.Condition{Stat: "Tech", Op: ">", Value: 20}, true},
		{"unknown stat", types.Condition{Stat: "charisma", Op: ">", Value: 0}, false},
		{"unknown op", types.Condition{Stat: "tech", Op: "~", Value: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvalCondition(tt.cond, s))
		})
	}
}

func TestEvaluateBranchAndRestore(t *testing.T) {
	c := testCatalog(t)
	delivery, _ := c.Scripted("metro_delivery", types.IndustryMetro, 4)
	spec := delivery.Options[0].Effect

	s := BlankRunState()

	// Test case 1: high tech takes the bonus branch
	s.Attributes.Tech = 36
	assert.Equal(t, 10000, Evaluate(spec, s).Money)

	// Test case 2: low tech takes the penalty branch
	s.Attributes.Tech = 19
	d := Evaluate(spec, s)
	assert.Equal(t, -5000, d.Money)
	assert.Equal(t, -1, d.Level)

	// Test case 3: no branch matches
	s.Attributes.Tech = 25
	d = Evaluate(spec, s)
	assert.Equal(t, 0, d.Money)
	assert.Equal(t, "验收通过，无功无过。", d.Message)

	// Test case 4: restore refills both resources
	s.Stamina, s.MaxStamina = 10, 80
	s.Sanity, s.MaxSanity = 60, 100
	leisure, _ := c.ShopItem("leisure_max")
	d = Evaluate(leisure.Effect, s)
	assert.Equal(t, 70, d.Stamina)
	assert.Equal(t, 40, d.Sanity)
}

func TestResolverApply(t *testing.T) {
	c := testCatalog(t)
	r := NewResolver(c, config.DefaultGameConfig())

	s := BlankRunState()
	s.Stamina, s.MaxStamina = 50, 60
	s.Sanity, s.MaxSanity = 95, 100
	s.Money = 100
	s.Risk = 5

	// Test case 1: gains are capped, costs are not floored
	next, applied, notes := r.Apply(s, types.EffectDescriptor{
		Stamina: 30,
		Sanity:  10,
		Money:   -300,
		Risk:    -20,
		Exp:     15,
	})
	assert.Equal(t, 60, next.Stamina)
	assert.Equal(t, 100, next.Sanity)
	assert.Equal(t, -200, next.Money)
	assert.Equal(t, 0, next.Risk)
	assert.Equal(t, 15, next.Exp)
	assert.Equal(t, 30, applied.Stamina)
	assert.Empty(t, notes)

	next, _, _ = r.Apply(s, types.EffectDescriptor{Stamina: -80})
	assert.Equal(t, -30, next.Stamina)

	// The input run is untouched
	assert.Equal(t, 50, s.Stamina)
	assert.Equal(t, 100, s.Money)

	// Test case 2: max stamina shrink drags stamina along
	next, _, _ = r.Apply(s, types.EffectDescriptor{MaxStamina: -20})
	assert.Equal(t, 40, next.MaxStamina)
	assert.Equal(t, 40, next.Stamina)

	// Test case 3: attributes floor at 1, relationships clamp
	next, _, _ = r.Apply(s, types.EffectDescriptor{
		Attributes:    &types.Attributes{Luck: -10, Tech: 3},
		Relationships: &types.Relationships{Boss: 90, Colleague: -50},
	})
	assert.Equal(t, 1, next.Attributes.Luck)
	assert.Equal(t, 4, next.Attributes.Tech)
	assert.Equal(t, 100, next.Relationships.Boss)
	assert.Equal(t, 0, next.Relationships.Colleague)

	// Test case 4: buffs and titles
	next, _, _ = r.Apply(s, types.EffectDescriptor{
		AddBuff: &types.BuffGrant{ID: "momentum", Duration: 8},
		Title:   "记账达人",
	})
	next, _, _ = r.Apply(next, types.EffectDescriptor{
		AddBuff:       &types.BuffGrant{ID: "momentum", Duration: 8},
		Title:         "记账达人",
		RevengeImmune: true,
	})
	assert.Len(t, next.ActiveBuffs, 2)
	assert.Equal(t, []string{"记账达人"}, next.Titles)
	assert.True(t, next.RevengeImmune)

	// Unknown buffs are ignored
	next, _, _ = r.Apply(s, types.EffectDescriptor{AddBuff: &types.BuffGrant{ID: "ghost", Duration: 1}})
	assert.Empty(t, next.ActiveBuffs)
}

func TestResolverLevelChanges(t *testing.T) {
	c := testCatalog(t)
	r := NewResolver(c, config.DefaultGameConfig())

	s := BlankRunState()
	s.Industry = types.IndustryInternet
	s.Salary = 3600

	// Test case 1: promotion recomputes the salary before the salary delta
	next, _, notes := r.Apply(s, types.EffectDescriptor{Level: 1, Salary: 500})
	assert.Equal(t, 2, next.Level)
	assert.Equal(t, 6500, next.Salary)
	if assert.Len(t, notes, 1) {
		assert.Contains(t, notes[0], "T5 初级工程师")
	}

	// Test case 2: demotion below the ladder is clamped and silent
	next, _, notes = r.Apply(s, types.EffectDescriptor{Level: -1})
	assert.Equal(t, 1, next.Level)
	assert.Equal(t, 3600, next.Salary)
	assert.Empty(t, notes)

	// Test case 3: salary never goes negative
	next, _, _ = r.Apply(s, types.EffectDescriptor{Salary: -10000})
	assert.Equal(t, 0, next.Salary)

	// Test case 4: level beyond the top is clamped
	s.Level = 7
	next, _, _ = r.Apply(s, types.EffectDescriptor{Level: 1})
	assert.Equal(t, 7, next.Level)
}

func TestResolverScalesCostsThroughBuffs(t *testing.T) {
	c := testCatalog(t)
	r := NewResolver(c, config.DefaultGameConfig())

	s := BlankRunState()
	back, _ := c.Buff("back_pain", 4)
	s.ActiveBuffs = []types.Buff{back}

	next, applied, _ := r.Apply(s, types.EffectDescriptor{Stamina: -20})
	assert.Equal(t, -30, applied.Stamina)
	assert.Equal(t, 70, next.Stamina)
}
