package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/career-survival/internal/types"
)

var balanced = types.Attributes{Grind: 5, EQ: 5, Tech: 5, Health: 5, Luck: 5}

func newTestSession(t *testing.T, seed int64) (*Session, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	s := NewSession("player", testEngine(t, seed), store, nil)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return s, store
}

// startRun creates a run and overwrites it with the mutation
func startRun(t *testing.T, s *Session, industry types.IndustryType, mutate func(*types.RunState)) {
	t.Helper()
	require.NoError(t, s.Create(types.CreationRequest{Attributes: balanced, Industry: industry}))
	if mutate == nil {
		return
	}
	run, ok := s.Run()
	require.True(t, ok)
	mutate(&run)
	s.commit(run)
}

func singleOption(delta types.EffectDescriptor) *types.Event {
	return &types.Event{
		ID:       "test_event",
		Category: types.CategoryCrisis,
		Rarity:   types.RarityCommon,
		Title:    "测试",
		Options:  []types.Option{{Label: "ok", Effect: types.EffectSpec{Delta: delta}}},
	}
}

func TestSessionCreate(t *testing.T) {
	s, store := newTestSession(t, 1)
	assert.Equal(t, types.PhaseCreation, s.Phase())
	assert.False(t, s.Active())

	// Test case 1: locked industry
	err := s.Create(types.CreationRequest{Attributes: balanced, Industry: types.IndustryRealEstate})
	assert.ErrorIs(t, err, ErrIndustryLocked)

	// Test case 2: overspent allocation
	over := balanced
	over.Tech = 10
	err = s.Create(types.CreationRequest{Attributes: over, Industry: types.IndustryInternet})
	assert.ErrorIs(t, err, ErrInvalidAllocation)
	assert.Equal(t, 0, store.Len())

	// Test case 3: a valid run opens on week one
	startRun(t, s, types.IndustryInternet, nil)
	run, ok := s.Run()
	require.True(t, ok)
	assert.Equal(t, types.PhaseWeekIntro, run.Phase)
	assert.Equal(t, 1, run.Week)
	assert.NotEmpty(t, run.RunID)
	require.NotNil(t, run.CurrentEvent)
	assert.Equal(t, run.CurrentEvent.Location, run.Location)

	raw, ok, err := store.Get(RunKey("player"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, raw, run.RunID)

	// Test case 4: only one run at a time
	err = s.Create(types.CreationRequest{Attributes: balanced, Industry: types.IndustryInternet})
	assert.ErrorIs(t, err, ErrRunActive)
}

func TestSessionCreateWithLegacyPoints(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(MetaKey("player"), `{"totalCareerPoints": 30}`))
	s := NewSession("player", testEngine(t, 1), store, nil)

	info := s.CreationInfo()
	assert.Equal(t, 20, info.BasePoints)
	assert.Equal(t, 3, info.LegacyPoints)
	assert.Equal(t, []types.IndustryType{types.IndustryInternet}, info.UnlockedIndustries)
	assert.Len(t, info.Industries, 6)

	attrs := balanced
	attrs.Luck = 8
	require.NoError(t, s.Create(types.CreationRequest{Attributes: attrs, Industry: types.IndustryInternet, SpentLegacyPoints: 3}))
	run, _ := s.Run()
	assert.Equal(t, 3, run.LegacyPointsUsed)
	assert.Equal(t, 8, run.Attributes.Luck)
}


func unlockAll(s *Session) {
	for _, ind := range s.engine.Catalog.Industries() {
		if !s.meta.IsUnlocked(ind.Type) {
			s.meta.UnlockedIndustries = append(s.meta.UnlockedIndustries, ind.Type)
		}
	}
}

func TestSessionMetroOath(t *testing.T) {
	s, _ := newTestSession(t, 1)
	unlockAll(s)

	startRun(t, s, types.IndustryMetro, nil)
	view := s.View()
	assert.Contains(t, view.Notifications, "【入职宣誓】地铁车辆垄断")
	if assert.Len(t, view.Run.ActiveBuffs, 1) {
		// Ticked once by the first week start
		assert.Equal(t, PermanentBuffDuration-1, view.Run.ActiveBuffs[0].Duration)
	}
}

func TestSessionWeekFlow(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.CurrentEvent = singleOption(types.EffectDescriptor{Exp: 10, Message: "done"})
	})

	// Week intro shows the event before it can be answered
	view := s.View()
	require.NotNil(t, view.Event)
	assert.Equal(t, "test_event", view.Event.ID)
	assert.ErrorIs(t, s.Choose(0), ErrWrongPhase)

	require.NoError(t, s.Advance())
	assert.Equal(t, types.PhaseEvent, s.Phase())

	require.NoError(t, s.Choose(0))
	run, _ := s.Run()
	assert.Equal(t, types.PhaseResult, run.Phase)
	assert.Equal(t, 10, run.Exp)
	require.NotNil(t, run.LastEffect)
	assert.Equal(t, "done", run.LastEffect.Message)

	// Overtime
	require.NoError(t, s.PostWork(types.PostWorkOvertime))
	after, _ := s.Run()
	assert.Equal(t, types.PhaseWeekend, after.Phase)
	assert.Equal(t, 30, after.Exp)
	assert.Equal(t, run.Stamina-20, after.Stamina)
	assert.Equal(t, 10, after.OvertimeHours)

	// Weekend settles and closes the week
	require.NoError(t, s.SpendWeekend(types.WeekendSleep))
	view = s.View()
	assert.Equal(t, types.PhaseSettlement, view.Phase)
	require.NotNil(t, view.Settlement)
	assert.Equal(t, 1, view.Settlement.Week)
	assert.Equal(t, 2, view.Run.Week)
	assert.Nil(t, view.Event)

	// The next week starts with a fresh event
	require.NoError(t, s.Advance())
	view = s.View()
	assert.Equal(t, types.PhaseWeekIntro, view.Phase)
	assert.NotNil(t, view.Event)
	assert.Nil(t, view.Settlement)
	assert.Nil(t, view.LastEffect)
}

func TestSessionLeaveOnTime(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseResult
		r.Sanity = 50
	})

	assert.ErrorIs(t, s.PostWork("nap"), ErrInvalidOption)
	require.NoError(t, s.PostWork(types.PostWorkLeave))
	run, _ := s.Run()
	assert.Equal(t, 60, run.Sanity)
	assert.Equal(t, 0, run.OvertimeHours)
}

func TestSessionOptionValidation(t *testing.T) {
	s, store := newTestSession(t, 5)
	c := s.engine.Catalog
	var outage types.Event
	for _, e := range c.Pool(types.IndustryInternet) {
		if e.ID == "i_1" {
			outage = e
		}
	}
	require.Equal(t, "i_1", outage.ID)

	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseEvent
		r.CurrentEvent = &outage
	})
	before, _, _ := store.Get(RunKey("player"))

	// The Tech>20 option is locked for a Tech 5 build
	view := s.View()
	require.NotNil(t, view.Event)
	assert.True(t, view.Event.Options[0].Locked)
	assert.False(t, view.Event.Options[1].Locked)

	assert.ErrorIs(t, s.Choose(0), ErrOptionLocked)
	assert.ErrorIs(t, s.Choose(2), ErrInvalidOption)
	assert.ErrorIs(t, s.Choose(-1), ErrInvalidOption)
	assert.ErrorIs(t, s.Retire(), ErrWrongPhase)
	assert.ErrorIs(t, s.SpendWeekend(types.WeekendSleep), ErrWrongPhase)
	assert.ErrorIs(t, s.Advance(), ErrWrongPhase)

	// Rejected actions leave the run and its record alone
	after, _, _ := store.Get(RunKey("player"))
	assert.Equal(t, before, after)
	assert.Equal(t, types.PhaseEvent, s.Phase())

	require.NoError(t, s.Choose(1))
	run, _ := s.Run()
	assert.Equal(t, 10, run.Risk)
}

func TestSessionICU(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseEvent
		r.Money = 6000
		r.CurrentEvent = singleOption(types.EffectDescriptor{Stamina: -1000})
	})

	require.NoError(t, s.Choose(0))
	run, _ := s.Run()
	assert.Equal(t, types.PhaseResult, run.Phase)
	assert.Equal(t, 1000, run.Money)
	assert.Equal(t, 30, run.Stamina)
	assert.False(t, run.ReviveUsed)
	assert.NotEmpty(t, s.View().Notifications)
}

func TestSessionStaminaExhaustion(t *testing.T) {
	s, store := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseEvent
		r.Week = 6
		r.Money = 4999
		r.CurrentEvent = singleOption(types.EffectDescriptor{Stamina: -1000})
	})

	require.NoError(t, s.Choose(0))
	view := s.View()
	assert.Equal(t, types.PhaseGameOver, view.Phase)
	require.NotNil(t, view.Ending)
	assert.Equal(t, types.EndingStaminaExhaustion, view.Ending.Cause)
	assert.Equal(t, "过劳倒下", view.Ending.Label)
	assert.False(t, view.Ending.Victory)
	assert.Equal(t, 0, view.Run.Stamina)
	assert.False(t, s.Active())

	// The run record is cleared and the meta record updated
	_, ok, _ := store.Get(RunKey("player"))
	assert.False(t, ok)
	if assert.Len(t, s.Meta().GameHistory, 1) {
		r := s.Meta().GameHistory[0]
		assert.Equal(t, "2024-05-01", r.Date)
		assert.Equal(t, 6, r.Week)
		assert.Equal(t, "过劳倒下", r.Ending)
	}
	assert.Equal(t, 6, s.Meta().TotalCareerPoints)

	raw, ok, _ := store.Get(MetaKey("player"))
	require.True(t, ok)
	meta, err := DecodeMeta(raw, s.engine.Progression.DefaultMeta())
	require.NoError(t, err)
	assert.Equal(t, 6, meta.HighScoreWeeks)

	// Nothing more can happen to a finished run
	assert.ErrorIs(t, s.Advance(), ErrRunOver)
	assert.ErrorIs(t, s.Buy("coffee"), ErrRunOver)

	// A new run can be created afterwards
	require.NoError(t, s.Create(types.CreationRequest{Attributes: balanced, Industry: types.IndustryInternet}))
	assert.True(t, s.Active())
	assert.Nil(t, s.View().Ending)
}

func TestSessionHRRevive(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseEvent
		r.Money = 0
		r.Relationships.HR = 90
		r.CurrentEvent = singleOption(types.EffectDescriptor{Stamina: -1000})
	})

	// Test case 1: the first collapse is rescued
	require.NoError(t, s.Choose(0))
	run, _ := s.Run()
	assert.Equal(t, types.PhaseResult, run.Phase)
	assert.True(t, run.ReviveUsed)
	assert.Equal(t, 40, run.Relationships.HR)
	assert.Equal(t, run.MaxStamina/2, run.Stamina)
	assert.Contains(t, s.View().Notifications[0], "Linda")

	// Test case 2: the rescue is spent
	run.Phase = types.PhaseEvent
	run.Relationships.HR = 100
	run.CurrentEvent = singleOption(types.EffectDescriptor{Sanity: -1000})
	s.commit(run)

	require.NoError(t, s.Choose(0))
	view := s.View()
	assert.Equal(t, types.PhaseGameOver, view.Phase)
	assert.Equal(t, types.EndingSanityCollapse, view.Ending.Cause)
	assert.Equal(t, "精神崩溃", view.Ending.Label)
	assert.Equal(t, 0, view.Run.Sanity)
}

func TestSessionSanityRevive(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseEvent
		r.Relationships.HR = 80
		r.CurrentEvent = singleOption(types.EffectDescriptor{Sanity: -1000})
	})

	require.NoError(t, s.Choose(0))
	run, _ := s.Run()
	assert.Equal(t, run.MaxSanity/2, run.Sanity)
	assert.Equal(t, 30, run.Relationships.HR)
}

func TestSessionWeeklyDrainCanKill(t *testing.T) {
	s, _ := newTestSession(t, 5)
	unlockAll(s)
	startRun(t, s, types.IndustryPolice, func(r *types.RunState) {
		r.Phase = types.PhaseSettlement
		r.Week = 2
		r.Sanity = 5
	})

	require.NoError(t, s.Advance())
	view := s.View()
	assert.Equal(t, types.PhaseGameOver, view.Phase)
	assert.Equal(t, types.EndingSanityCollapse, view.Ending.Cause)
}

func TestSessionBankruptcy(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseWeekend
		r.Money = -50000
		r.DebtWeeks = 2
		r.Salary = 0
	})

	require.NoError(t, s.SpendWeekend(types.WeekendSleep))
	view := s.View()
	assert.Equal(t, types.PhaseGameOver, view.Phase)
	require.NotNil(t, view.Settlement)
	assert.True(t, view.Settlement.Bankrupt)
	assert.Equal(t, 3, view.Settlement.DebtWeeks)
	assert.Equal(t, types.EndingBankruptcy, view.Ending.Cause)
	assert.Equal(t, "破产清算", view.Ending.Label)
}

func TestSessionBankruptcyRevive(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseWeekend
		r.Money = -50000
		r.DebtWeeks = 2
		r.Salary = 0
		r.Relationships.HR = 85
	})

	require.NoError(t, s.SpendWeekend(types.WeekendSleep))
	run, _ := s.Run()
	assert.Equal(t, types.PhaseSettlement, run.Phase)
	assert.Equal(t, 0, run.Money)
	assert.Equal(t, 0, run.DebtWeeks)
	assert.Equal(t, 35, run.Relationships.HR)
	assert.True(t, run.ReviveUsed)
	assert.Equal(t, 2, run.Week)
}

func TestSessionWeekendRejectionKeepsPhase(t *testing.T) {
	s, store := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseWeekend
		r.Money = 100
	})
	before, _, _ := store.Get(RunKey("player"))

	assert.ErrorIs(t, s.SpendWeekend(types.WeekendSocial), ErrInsufficientFunds)
	assert.ErrorIs(t, s.SpendWeekend("karaoke"), ErrUnknownActivity)

	after, _, _ := store.Get(RunKey("player"))
	assert.Equal(t, before, after)
	assert.Equal(t, types.PhaseWeekend, s.Phase())
}

func TestSessionBuy(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseEvent
		r.Money = 100
		r.Stamina = 20
	})

	require.NoError(t, s.Buy("coffee"))
	run, _ := s.Run()
	assert.Equal(t, types.PhaseEvent, run.Phase)
	assert.Equal(t, 70, run.Money)
	assert.Equal(t, 30, run.Stamina)
	assert.Equal(t, []string{"续上了。"}, s.View().Notifications)

	assert.ErrorIs(t, s.Buy("game"), ErrInsufficientFunds)
	assert.ErrorIs(t, s.Buy("yacht"), ErrUnknownItem)
	again, _ := s.Run()
	assert.Equal(t, run, again)
}

func TestSessionRetire(t *testing.T) {
	s, _ := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseResult
		r.Week = 20
	})

	require.NoError(t, s.Retire())
	assert.Equal(t, types.PhaseRetiring, s.Phase())
	assert.ErrorIs(t, s.Buy("coffee"), ErrWrongPhase)
	assert.ErrorIs(t, s.PostWork(types.PostWorkLeave), ErrWrongPhase)

	require.NoError(t, s.Advance())
	view := s.View()
	assert.Equal(t, types.PhaseVictory, view.Phase)
	assert.Equal(t, types.EndingEarlyRetirement, view.Ending.Cause)
	assert.Equal(t, "提前退休", view.Ending.Label)
	assert.True(t, view.Ending.Victory)
	assert.Equal(t, 20, s.Meta().GameHistory[0].Week)
}

func TestSessionVictory(t *testing.T) {
	tests := []struct {
		name     string
		industry types.IndustryType
		cause    types.Ending
		label    string
	}{
		{"honorable retirement", types.IndustryInternet, types.EndingHonorableRetirement, "光荣退休"},
		{"industrial leader", types.IndustryMetro, types.EndingIndustrialLeader, "大国工匠"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newTestSession(t, 5)
			unlockAll(s)
			startRun(t, s, tt.industry, func(r *types.RunState) {
				r.Phase = types.PhaseWeekend
				r.Week = 52
				r.Money = 100000
			})

			require.NoError(t, s.SpendWeekend(types.WeekendSleep))
			run, _ := s.Run()
			assert.Equal(t, 53, run.Week)
			assert.Equal(t, types.PhaseSettlement, run.Phase)

			require.NoError(t, s.Advance())
			view := s.View()
			assert.Equal(t, types.PhaseVictory, view.Phase)
			assert.Equal(t, tt.cause, view.Ending.Cause)
			assert.Equal(t, tt.label, view.Ending.Label)
			assert.True(t, view.Ending.Victory)

			_, ok, _ := store.Get(RunKey("player"))
			assert.False(t, ok)
			assert.Equal(t, 53, s.Meta().HighScoreWeeks)
		})
	}
}

func TestSessionUnlocksAtWeekTen(t *testing.T) {
	s, store := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, func(r *types.RunState) {
		r.Phase = types.PhaseSettlement
		r.Week = 10
	})

	require.NoError(t, s.Advance())
	assert.True(t, s.Meta().IsUnlocked(types.IndustryRealEstate))
	assert.Contains(t, s.View().Notifications, "解锁新行业：地产巨头")

	raw, ok, _ := store.Get(MetaKey("player"))
	require.True(t, ok)
	meta, err := DecodeMeta(raw, s.engine.Progression.DefaultMeta())
	require.NoError(t, err)
	assert.True(t, meta.IsUnlocked(types.IndustryRealEstate))

	// Later weeks do not notify again
	run, _ := s.Run()
	run.Phase = types.PhaseSettlement
	run.Week = 11
	s.commit(run)
	require.NoError(t, s.Advance())
	assert.NotContains(t, s.View().Notifications, "解锁新行业：地产巨头")
	assert.Len(t, s.Meta().UnlockedIndustries, 2)
}

func TestSessionResumesFromStore(t *testing.T) {
	s, store := newTestSession(t, 5)
	startRun(t, s, types.IndustryInternet, nil)
	require.NoError(t, s.Advance())
	original, _ := s.Run()

	resumed := NewSession("player", s.engine, store, nil)
	run, ok := resumed.Run()
	require.True(t, ok)
	assert.Equal(t, original.RunID, run.RunID)
	assert.Equal(t, types.PhaseEvent, run.Phase)
	assert.Equal(t, original.CurrentEvent.ID, run.CurrentEvent.ID)
	assert.True(t, resumed.Active())

	// Other players are unaffected
	other := NewSession("someone-else", s.engine, store, nil)
	assert.False(t, other.Active())
}

func TestSessionRestartsWeekWithoutEvent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(RunKey("player"), `{"week": 4, "stamina": 80, "maxStamina": 100, "sanity": 70, "maxSanity": 100, "money": 3000}`))

	s := NewSession("player", testEngine(t, 5), store, nil)
	require.True(t, s.Active())
	assert.Equal(t, types.PhaseWeekIntro, s.Phase())
	assert.Nil(t, s.View().Event)

	require.NoError(t, s.Advance())
	view := s.View()
	assert.Equal(t, types.PhaseWeekIntro, view.Phase)
	require.NotNil(t, view.Event)
	assert.Equal(t, 4, view.Run.Week)
	assert.NotEmpty(t, view.Run.RunID)
}

func TestSessionWithoutStore(t *testing.T) {
	s := NewSession("player", testEngine(t, 5), nil, nil)
	require.NoError(t, s.Create(types.CreationRequest{Attributes: balanced, Industry: types.IndustryInternet}))
	require.NoError(t, s.Advance())
	assert.Equal(t, types.PhaseEvent, s.Phase())
}
