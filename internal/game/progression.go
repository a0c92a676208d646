package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/types"
)

// Progression maintains the cross-run meta record
type Progression struct {
	catalog *Catalog
	rules   config.GameConfig
}

// NewProgression creates the meta progression rules
func NewProgression(c *Catalog, rules config.GameConfig) *Progression {
	return &Progression{catalog: c, rules: rules}
}

// DefaultMeta is the meta record of a player who never finished a run
func (p *Progression) DefaultMeta() types.MetaProgress {
	return types.MetaProgress{
		UnlockedBadges:     []string{},
		GameHistory:        []types.GameRecord{},
		UnlockedIndustries: []types.IndustryType{p.catalog.DefaultIndustry().Type},
	}
}

// LegacyPoints is the bonus allocation a new run may draw on
func (p *Progression) LegacyPoints(meta types.MetaProgress) int {
	if p.rules.LegacyDivisor <= 0 {
		return 0
	}
	return meta.TotalCareerPoints / p.rules.LegacyDivisor
}

// CheckUnlock unlocks the successor of the run's industry once the run has
// survived long enough. It never adds an industry twice.
func (p *Progression) CheckUnlock(meta types.MetaProgress, s types.RunState) (types.MetaProgress, types.IndustryType, bool) {
	if s.Week < p.rules.UnlockWeek {
		return meta, "", false
	}
	next, ok := p.catalog.NextIndustry(s.Industry)
	if !ok || meta.IsUnlocked(next) {
		return meta, "", false
	}
	out := meta
	out.UnlockedIndustries = append(append([]types.IndustryType{}, meta.UnlockedIndustries...), next)
	return out, next, true
}

// RecordRun folds a finished run into the meta record
func (p *Progression) RecordRun(meta types.MetaProgress, s types.RunState, ending types.EndingInfo, at time.Time) types.MetaProgress {
	record := types.GameRecord{
		ID:       uuid.New().String(),
		Date:     at.Format("2006-01-02"),
		Industry: s.Industry,
		Week:     s.Week,
		Money:    s.Money,
		Level:    s.Level,
		Ending:   ending.Label,
		Cause:    ending.Cause,
		Victory:  ending.Victory,
	}

	out := meta
	out.GameHistory = append([]types.GameRecord{record}, meta.GameHistory...)
	if p.rules.HistoryLimit > 0 && len(out.GameHistory) > p.rules.HistoryLimit {
		out.GameHistory = out.GameHistory[:p.rules.HistoryLimit]
	}
	out.TotalCareerPoints = meta.TotalCareerPoints + s.Week
	out.HighScoreWeeks = max(meta.HighScoreWeeks, s.Week)
	return out
}
