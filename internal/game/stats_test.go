package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

func TestNewRunStateDerivation(t *testing.T) {
	c := testCatalog(t)
	rules := config.DefaultGameConfig()
	ones := types.Attributes{Grind: 1, EQ: 1, Tech: 1, Health: 1, Luck: 1}

	// Test case 1: minimum internet build
	s := NewRunState(c, rules, ones, types.IndustryInternet, 0)
	assert.Equal(t, 58, s.MaxStamina)
	assert.Equal(t, 58, s.Stamina)
	assert.Equal(t, 100, s.MaxSanity)
	assert.Equal(t, 90, s.Sanity)
	assert.Equal(t, 1400, s.Money)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 3600, s.Salary)
	assert.Equal(t, rules.BaseExpense, s.Expenses)
	assert.Equal(t, 1, s.Week)
	assert.Equal(t, types.Relationships{Boss: 30, Colleague: 30, HR: 30}, s.Relationships)
	assert.Empty(t, s.ActiveBuffs)

	// Test case 2: tech drives the starting level
	techy := ones
	techy.Tech = 12
	s = NewRunState(c, rules, techy, types.IndustryInternet, 0)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, 9600, s.Salary)
	assert.Equal(t, 1000+300+1200, s.Money)

	// Test case 3: police gets extra stamina
	s = NewRunState(c, rules, ones, types.IndustryPolice, 0)
	assert.Equal(t, 108, s.MaxStamina)
	assert.Equal(t, 100, s.Sanity)

	// Test case 4: design caps sanity
	s = NewRunState(c, rules, ones, types.IndustryDesign, 0)
	assert.Equal(t, 50, s.MaxSanity)
	assert.Equal(t, 50, s.Sanity)
}

func TestMetroStartsWithStability(t *testing.T) {
	c := testCatalog(t)
	ones := types.Attributes{Grind: 1, EQ: 1, Tech: 1, Health: 1, Luck: 1}

	s := NewRunState(c, config.DefaultGameConfig(), ones, types.IndustryMetro, 0)
	assert.Equal(t, 78, s.MaxStamina)
	assert.Equal(t, 120, s.MaxSanity)
	assert.Equal(t, 120, s.Sanity)
	if assert.Len(t, s.ActiveBuffs, 1) {
		assert.Equal(t, "stability", s.ActiveBuffs[0].ID)
		assert.Equal(t, PermanentBuffDuration, s.ActiveBuffs[0].Duration)
	}
}

func TestPharmaTechGate(t *testing.T) {
	c := testCatalog(t)
	pharma := c.Industry(types.IndustryPharma)

	low := types.Attributes{Grind: 1, EQ: 1, Tech: 9, Health: 1, Luck: 1}
	high := types.Attributes{Grind: 1, EQ: 1, Tech: 10, Health: 1, Luck: 1}

	assert.Equal(t, 1500, SalaryFor(c, 1, pharma, low))
	assert.Equal(t, 3000, SalaryFor(c, 1, pharma, high))
	assert.Equal(t, 8000, SalaryFor(c, 3, pharma, high))
}

func TestValidateAllocation(t *testing.T) {
	rules := config.DefaultGameConfig()

	valid := types.Attributes{Grind: 5, EQ: 5, Tech: 5, Health: 5, Luck: 5}
	assert.NoError(t, ValidateAllocation(rules, types.CreationRequest{Attributes: valid}, 0))

	// Underspending is allowed
	under := types.Attributes{Grind: 1, EQ: 1, Tech: 1, Health: 1, Luck: 1}
	assert.NoError(t, ValidateAllocation(rules, types.CreationRequest{Attributes: under}, 0))

	// Overspending is not
	over := valid
	over.Luck = 6
	assert.ErrorIs(t, ValidateAllocation(rules, types.CreationRequest{Attributes: over}, 0), ErrInvalidAllocation)

	// Legacy points extend the pool up to what is available
	assert.NoError(t, ValidateAllocation(rules, types.CreationRequest{Attributes: over, SpentLegacyPoints: 1}, 3))
	assert.ErrorIs(t, ValidateAllocation(rules, types.CreationRequest{Attributes: over, SpentLegacyPoints: 4}, 3), ErrInvalidAllocation)
	assert.ErrorIs(t, ValidateAllocation(rules, types.CreationRequest{Attributes: valid, SpentLegacyPoints: -1}, 3), ErrInvalidAllocation)

	// Attributes never go below 1
	zero := valid
	zero.EQ = 0
	assert.ErrorIs(t, ValidateAllocation(rules, types.CreationRequest{Attributes: zero}, 0), ErrInvalidAllocation)
}

func TestCloneRunIsolation(t *testing.T) {
	s := BlankRunState()
	s.Titles = append(s.Titles, "a")

	c := cloneRun(s)
	c.Titles[0] = "b"
	c.ActiveBuffs = append(c.ActiveBuffs, types.Buff{ID: "x"})

	assert.Equal(t, "a", s.Titles[0])
	assert.Empty(t, s.ActiveBuffs)
}
