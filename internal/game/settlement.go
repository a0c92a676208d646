package game

import (
	"fmt"
	"math"

	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

// ProgressiveTax deducts each bracket from the income left by the previous one
func ProgressiveTax(brackets []config.TaxBracket, income float64) float64 {
	for _, b := range brackets {
		if income > float64(b.Threshold) {
			income -= (income - float64(b.Threshold)) * b.Rate
		}
	}
	return income
}

// RequiredExp is the experience needed to leave a level
func RequiredExp(level int) int {
	return level*1000 + level*500
}

// Settlement runs the weekly economic pass
type Settlement struct {
	catalog *Catalog
	rules   config.GameConfig
}

// NewSettlement creates the settlement pass
func NewSettlement(c *Catalog, rules config.GameConfig) *Settlement {
	return &Settlement{catalog: c, rules: rules}
}

// Multiplier is the salary multiplier from relationships, industry and buffs
func (st *Settlement) Multiplier(s types.RunState) float64 {
	ind := st.catalog.Industry(s.Industry)
	m := 1.0
	if s.Relationships.Boss >= st.rules.BossBonusThreshold {
		m += st.rules.BossBonusRate
	}
	if ind.Modifiers.EQSalaryScaling {
		m += float64(s.Attributes.EQ) * st.rules.EQSalaryRate
	}
	return m * SalaryModifier(s.ActiveBuffs)
}

// Settle pays the week out: income, tax, lifestyle expense, revenge spending
// and debt tracking. The report's Bankrupt flag is set once the debt streak
// reaches the limit.
func (st *Settlement) Settle(s types.RunState) (types.RunState, types.SettlementReport) {
	next := cloneRun(s)
	report := types.SettlementReport{Week: s.Week}

	report.Multiplier = st.Multiplier(s)
	gross := float64(s.Salary) * report.Multiplier
	net := ProgressiveTax(st.rules.TaxBrackets, gross)
	report.GrossIncome = int(math.Round(gross))
	report.NetIncome = int(math.Round(net))
	report.Tax = report.GrossIncome - report.NetIncome

	next.Money += report.NetIncome

	expense := st.rules.BaseExpense + int(math.Round(float64(max(0, next.Money))*st.rules.LifestyleCreepRate))
	next.Money -= expense
	next.Expenses = expense
	report.Expense = expense

	if next.Sanity < st.rules.RevengeSpendingThreshold && !next.RevengeImmune {
		next.Money -= st.rules.RevengeSpendingAmount
		report.RevengePenalty = st.rules.RevengeSpendingAmount
	}

	if next.Money < 0 {
		next.DebtWeeks++
	} else {
		next.DebtWeeks = 0
	}
	report.DebtWeeks = next.DebtWeeks
	report.Bankrupt = next.DebtWeeks >= st.rules.DebtLimit

	return next, report
}

// CloseWeek levels the run up when it has the experience, then moves to the next week
func (st *Settlement) CloseWeek(s types.RunState) (types.RunState, bool, []string) {
	next := cloneRun(s)
	var notes []string
	leveled := false

	if next.Level < st.catalog.LevelCount() && next.Exp >= RequiredExp(next.Level) {
		next.Level++
		next.Exp = 0
		next.Sanity = next.MaxSanity
		next.Salary = SalaryFor(st.catalog, next.Level, st.catalog.Industry(next.Industry), next.Attributes)
		leveled = true
		notes = append(notes, fmt.Sprintf("晋升！你现在是 %s", st.catalog.Level(next.Level).Title))
	}

	next.Week++
	return next, leveled, notes
}
