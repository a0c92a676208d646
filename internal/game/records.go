package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/user/career-survival/internal/types"
)

// Store key prefixes of the persisted records
const (
	RunKeyPrefix  = "industry_survival_v1"
	MetaKeyPrefix = "industry_meta_v1"
)

// RunKey is the store key of a player's run in progress
func RunKey(playerID string) string {
	return RunKeyPrefix + ":" + playerID
}

// MetaKey is the store key of a player's meta record
func MetaKey(playerID string) string {
	return MetaKeyPrefix + ":" + playerID
}

// integer fields older clients may have written as fractional numbers
var legacyIntFields = map[string]bool{
	"stamina": true, "maxStamina": true, "sanity": true, "maxSanity": true,
	"money": true, "salary": true, "expenses": true, "level": true, "exp": true,
	"week": true, "risk": true, "debtWeeks": true, "overtimeHours": true,
	"legacyPointsUsed": true,
}

// EncodeRun serializes a run for the store
func EncodeRun(s types.RunState) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run: %w", err)
	}
	return string(data), nil
}

// DecodeRun restores a persisted run laid over the blank defaults.
// A run without a positive week is reported as absent.
func DecodeRun(raw string) (types.RunState, bool, error) {
	if raw == "" {
		return BlankRunState(), false, nil
	}
	s := BlankRunState()
	s.Week = 0

	data, err := normalizeLegacyNumbers([]byte(raw))
	if err != nil {
		return BlankRunState(), false, fmt.Errorf("failed to parse run: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return BlankRunState(), false, fmt.Errorf("failed to parse run: %w", err)
	}
	if s.Week <= 0 {
		return BlankRunState(), false, nil
	}

	if s.ActiveBuffs == nil {
		s.ActiveBuffs = []types.Buff{}
	}
	if s.Titles == nil {
		s.Titles = []string{}
	}
	if s.SanityRate == 0 {
		s.SanityRate = 1
	}
	if s.Phase == "" || s.Phase == types.PhaseCreation || s.Phase.Terminal() {
		s.Phase = types.PhaseWeekIntro
	}
	// A run saved mid-event without its event can only resume at week start
	if s.Phase == types.PhaseEvent && s.CurrentEvent == nil {
		s.Phase = types.PhaseWeekIntro
	}
	return s, true, nil
}

// EncodeMeta serializes a meta record for the store
func EncodeMeta(m types.MetaProgress) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal meta: %w", err)
	}
	return string(data), nil
}

// DecodeMeta restores a meta record, defaulting what older saves lack
func DecodeMeta(raw string, defaults types.MetaProgress) (types.MetaProgress, error) {
	if raw == "" {
		return defaults, nil
	}

	var m types.MetaProgress
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return defaults, fmt.Errorf("failed to parse meta: %w", err)
	}
	if len(m.UnlockedIndustries) == 0 {
		m.UnlockedIndustries = defaults.UnlockedIndustries
	}
	if m.UnlockedBadges == nil {
		m.UnlockedBadges = []string{}
	}
	if m.GameHistory == nil {
		m.GameHistory = []types.GameRecord{}
	}
	return m, nil
}

// normalizeLegacyNumbers rounds fractional values of integer fields
func normalizeLegacyNumbers(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	changed := false
	for key, v := range fields {
		n, ok := v.(json.Number)
		if !ok || !legacyIntFields[key] {
			continue
		}
		if _, err := n.Int64(); err == nil {
			continue
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		fields[key] = int64(math.Round(f))
		changed = true
	}

	if !changed {
		return data, nil
	}
	return json.Marshal(fields)
}
