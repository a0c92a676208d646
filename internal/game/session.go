package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/interfaces"
	"github.com/user/career-survival/internal/types"
	"go.uber.org/zap"
)

// Engine bundles the rule components shared by every session
type Engine struct {
	Catalog     *Catalog
	Rules       config.GameConfig
	Selector    *Selector
	Resolver    *Resolver
	Settlement  *Settlement
	Weekend     *Weekend
	Shop        *Shop
	Progression *Progression
}

// NewEngine wires the rule components around one dice roller
func NewEngine(c *Catalog, rules config.GameConfig, dice *DiceRoller) *Engine {
	resolver := NewResolver(c, rules)
	return &Engine{
		Catalog:     c,
		Rules:       rules,
		Selector:    NewSelector(c, rules, dice),
		Resolver:    resolver,
		Settlement:  NewSettlement(c, rules),
		Weekend:     NewWeekend(c, rules, resolver, dice),
		Shop:        NewShop(c, resolver),
		Progression: NewProgression(c, rules),
	}
}

// EndingLabel is the display text of an ending
func (e *Engine) EndingLabel(cause types.Ending, industry types.IndustryType) string {
	switch cause {
	case types.EndingEarlyRetirement:
		return "提前退休"
	case types.EndingIndustrialLeader:
		if v := e.Catalog.Industry(industry).VictoryEnding; v != "" {
			return v
		}
		return "光荣退休"
	case types.EndingBankruptcy:
		return "破产清算"
	case types.EndingStaminaExhaustion:
		return "过劳倒下"
	case types.EndingSanityCollapse:
		return "精神崩溃"
	}
	return "光荣退休"
}

// Session is one player's run state machine. The run is threaded through pure
// transition steps and only committed once a transition completes, so a
// rejected action leaves the session untouched.
type Session struct {
	PlayerID string

	engine *Engine
	store  interfaces.Store
	logger *zap.Logger
	now    func() time.Time

	run           *types.RunState
	meta          types.MetaProgress
	report        *types.SettlementReport
	ending        *types.EndingInfo
	notifications []string
}

// NewSession loads a player's run and meta record from the store.
// Unreadable records fall back to their defaults.
func NewSession(playerID string, engine *Engine, store interfaces.Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		PlayerID: playerID,
		engine:   engine,
		store:    store,
		logger:   logger,
		now:      time.Now,
		meta:     engine.Progression.DefaultMeta(),
	}
	if store == nil {
		return s
	}

	if raw, ok, err := store.Get(MetaKey(playerID)); err != nil {
		logger.Error("Failed to read meta record", zap.String("player_id", playerID), zap.Error(err))
	} else if ok {
		meta, err := DecodeMeta(raw, engine.Progression.DefaultMeta())
		if err != nil {
			logger.Warn("Discarding unreadable meta record", zap.String("player_id", playerID), zap.Error(err))
		}
		s.meta = meta
	}

	if raw, ok, err := store.Get(RunKey(playerID)); err != nil {
		logger.Error("Failed to read run record", zap.String("player_id", playerID), zap.Error(err))
	} else if ok {
		run, present, err := DecodeRun(raw)
		if err != nil {
			logger.Warn("Discarding unreadable run record", zap.String("player_id", playerID), zap.Error(err))
		}
		if present {
			if run.RunID == "" {
				run.RunID = uuid.New().String()
			}
			s.run = &run
		}
	}
	return s
}

// Phase is the current state of the machine
func (s *Session) Phase() types.Phase {
	if s.run == nil {
		return types.PhaseCreation
	}
	return s.run.Phase
}

// Active reports whether a run is in progress
func (s *Session) Active() bool {
	return s.run != nil && !s.run.Phase.Terminal()
}

// Run returns a copy of the current run, if any
func (s *Session) Run() (types.RunState, bool) {
	if s.run == nil {
		return types.RunState{}, false
	}
	return cloneRun(*s.run), true
}

// Meta returns the player's meta record
func (s *Session) Meta() types.MetaProgress {
	return s.meta
}

// CreationInfo is what a new run may be created with
func (s *Session) CreationInfo() types.CreationInfo {
	return types.CreationInfo{
		BasePoints:         s.engine.Rules.AttributePoints,
		LegacyPoints:       s.engine.Progression.LegacyPoints(s.meta),
		UnlockedIndustries: append([]types.IndustryType{}, s.meta.UnlockedIndustries...),
		Industries:         s.engine.Catalog.Industries(),
	}
}

// View is the presentation snapshot after the last transition
func (s *Session) View() *types.GameView {
	view := &types.GameView{
		Phase:         s.Phase(),
		Meta:          s.meta,
		Notifications: append([]string(nil), s.notifications...),
		Ending:        s.ending,
	}
	if s.run == nil {
		return view
	}

	run := cloneRun(*s.run)
	view.Run = &run
	view.LastEffect = run.LastEffect
	view.Settlement = s.report
	if e := run.CurrentEvent; e != nil && (run.Phase == types.PhaseWeekIntro || run.Phase == types.PhaseEvent || run.Phase == types.PhaseResult) {
		ev := &types.EventView{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Category:    e.Category,
			Rarity:      e.Rarity,
			Location:    e.Location,
			Options:     make([]types.OptionView, len(e.Options)),
		}
		for i, o := range e.Options {
			ev.Options[i] = types.OptionView{Index: i, Label: o.Label, Locked: !OptionAvailable(o, run)}
		}
		view.Event = ev
	}
	return view
}

// Create starts a new career from a creation request
func (s *Session) Create(req types.CreationRequest) error {
	if s.Active() {
		return ErrRunActive
	}
	c := s.engine.Catalog
	ind := c.Industry(req.Industry)
	if !s.meta.IsUnlocked(ind.Type) {
		return ErrIndustryLocked
	}
	if err := ValidateAllocation(s.engine.Rules, req, s.engine.Progression.LegacyPoints(s.meta)); err != nil {
		return err
	}

	run := NewRunState(c, s.engine.Rules, req.Attributes, ind.Type, req.SpentLegacyPoints)
	run.RunID = uuid.New().String()
	s.begin()
	s.logger.Info("Run created",
		zap.String("player_id", s.PlayerID),
		zap.String("run_id", run.RunID),
		zap.String("industry", string(run.Industry)))
	if len(ind.StartingBuffs) > 0 {
		s.notify(fmt.Sprintf("【入职宣誓】%s", ind.Name))
	}
	s.startWeek(run)
	return nil
}

// Advance moves past the informational phases: week intro, settlement and retirement
func (s *Session) Advance() error {
	if err := s.requireActive(); err != nil {
		return err
	}
	run := cloneRun(*s.run)
	switch run.Phase {
	case types.PhaseWeekIntro, types.PhaseSettlement, types.PhaseRetiring:
	default:
		return ErrWrongPhase
	}
	s.begin()

	switch run.Phase {
	case types.PhaseWeekIntro:
		// Older saves stop between weeks without a selected event
		if run.CurrentEvent == nil {
			s.startWeek(run)
			return nil
		}
		run.Phase = types.PhaseEvent
		s.commit(run)
	case types.PhaseSettlement:
		s.startWeek(run)
	case types.PhaseRetiring:
		s.finish(run, types.EndingEarlyRetirement)
	}
	return nil
}

// Choose resolves an option of the current event
func (s *Session) Choose(index int) error {
	if err := s.requirePhase(types.PhaseEvent); err != nil {
		return err
	}
	e := s.run.CurrentEvent
	if e == nil || index < 0 || index >= len(e.Options) {
		return ErrInvalidOption
	}
	option := e.Options[index]
	if !OptionAvailable(option, *s.run) {
		return ErrOptionLocked
	}

	s.begin()
	raw := Evaluate(option.Effect, *s.run)
	next, applied, notes := s.engine.Resolver.Apply(*s.run, raw)
	next.LastEffect = &applied
	next.Phase = types.PhaseResult
	s.notify(notes...)

	s.logger.Debug("Option resolved",
		zap.String("player_id", s.PlayerID),
		zap.String("event_id", e.ID),
		zap.Int("option", index),
		zap.Int("week", next.Week))

	if next, ok := s.survive(next); ok {
		s.commit(next)
	}
	return nil
}

// PostWork applies the after-hours choice and moves to the weekend
func (s *Session) PostWork(choice types.PostWorkChoice) error {
	if err := s.requirePhase(types.PhaseResult); err != nil {
		return err
	}
	r := s.engine.Rules

	var raw types.EffectDescriptor
	switch choice {
	case types.PostWorkOvertime:
		raw = types.EffectDescriptor{Exp: r.OvertimeExp, Stamina: -r.OvertimeStamina, Message: "又是加班到深夜。"}
	case types.PostWorkLeave:
		raw = types.EffectDescriptor{Sanity: r.LeaveSanity, Message: "准点下班，晚风很舒服。"}
	default:
		return ErrInvalidOption
	}

	s.begin()
	next, applied, _ := s.engine.Resolver.Apply(*s.run, raw)
	if choice == types.PostWorkOvertime {
		next.OvertimeHours += r.OvertimeHours
	}
	next.LastEffect = &applied
	next.Phase = types.PhaseWeekend

	if next, ok := s.survive(next); ok {
		s.commit(next)
	}
	return nil
}

// SpendWeekend resolves a weekend activity and settles the week
func (s *Session) SpendWeekend(activity types.WeekendActivity) error {
	if err := s.requirePhase(types.PhaseWeekend); err != nil {
		return err
	}
	next, applied, err := s.engine.Weekend.Spend(*s.run, activity)
	if err != nil {
		return err
	}

	s.begin()
	next.LastEffect = &applied
	next, ok := s.survive(next)
	if !ok {
		return nil
	}

	next, report := s.engine.Settlement.Settle(next)
	if report.Bankrupt {
		revived, ok := s.revive(next, types.EndingBankruptcy)
		if !ok {
			s.report = &report
			s.finish(next, types.EndingBankruptcy)
			return nil
		}
		next = revived
	}

	next, leveled, notes := s.engine.Settlement.CloseWeek(next)
	report.LeveledUp = leveled
	s.notify(notes...)
	if leveled {
		s.logger.Info("Level up",
			zap.String("player_id", s.PlayerID),
			zap.Int("level", next.Level))
	}

	s.report = &report
	next.Phase = types.PhaseSettlement
	s.commit(next)
	return nil
}

// Buy purchases a shop item without changing phase
func (s *Session) Buy(itemID string) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if s.run.Phase == types.PhaseRetiring {
		return ErrWrongPhase
	}
	next, applied, err := s.engine.Shop.Buy(*s.run, itemID)
	if err != nil {
		return err
	}

	s.notifications = nil
	next.LastEffect = &applied
	s.notify(applied.Message)
	s.commit(next)
	return nil
}

// Retire leaves the career early; only possible right after an event result
func (s *Session) Retire() error {
	if err := s.requirePhase(types.PhaseResult); err != nil {
		return err
	}
	run := cloneRun(*s.run)
	s.begin()
	run.Phase = types.PhaseRetiring
	s.commit(run)
	return nil
}

// startWeek runs the week-start steps and selects the week's event
func (s *Session) startWeek(run types.RunState) {
	e := s.engine

	if meta, unlocked, ok := e.Progression.CheckUnlock(s.meta, run); ok {
		s.meta = meta
		s.saveMeta()
		s.notify(fmt.Sprintf("解锁新行业：%s", e.Catalog.Industry(unlocked).Name))
		s.logger.Info("Industry unlocked",
			zap.String("player_id", s.PlayerID),
			zap.String("industry", string(unlocked)))
	}

	if run.Week > e.Rules.MaxWeeks {
		cause := types.EndingHonorableRetirement
		if e.Catalog.Industry(run.Industry).VictoryEnding != "" {
			cause = types.EndingIndustrialLeader
		}
		s.finish(run, cause)
		return
	}

	run.ActiveBuffs = TickBuffs(run.ActiveBuffs)

	if drain := e.Catalog.Industry(run.Industry).Modifiers.WeeklySanityDrain; drain > 0 {
		run.Sanity -= drain
	}
	run, ok := s.survive(run)
	if !ok {
		return
	}

	run.IsSmallWeek = e.Selector.IsSmallWeek(run)
	event := e.Selector.Select(run)
	run.CurrentEvent = &event
	run.Location = event.Location
	run.LastEffect = nil
	run.Phase = types.PhaseWeekIntro

	s.logger.Debug("Week started",
		zap.String("player_id", s.PlayerID),
		zap.Int("week", run.Week),
		zap.String("event_id", event.ID),
		zap.Bool("small_week", run.IsSmallWeek))
	s.commit(run)
}

// survive runs the death checks. It returns false once the run has ended.
func (s *Session) survive(run types.RunState) (types.RunState, bool) {
	r := s.engine.Rules

	if run.Stamina <= 0 {
		switch {
		case run.Money >= r.IcuCost:
			run.Money -= r.IcuCost
			run.Stamina = min(run.MaxStamina, r.IcuStaminaFloor)
			s.notify(fmt.Sprintf("你被送进了ICU，花掉 %d 捡回一条命。", r.IcuCost))
		default:
			revived, ok := s.revive(run, types.EndingStaminaExhaustion)
			if !ok {
				s.finish(run, types.EndingStaminaExhaustion)
				return run, false
			}
			run = revived
		}
	}

	if run.Sanity <= 0 {
		revived, ok := s.revive(run, types.EndingSanityCollapse)
		if !ok {
			s.finish(run, types.EndingSanityCollapse)
			return run, false
		}
		run = revived
	}
	return run, true
}

// revive spends the one-time HR rescue on the failing resource
func (s *Session) revive(run types.RunState, cause types.Ending) (types.RunState, bool) {
	r := s.engine.Rules
	if run.ReviveUsed || run.Relationships.HR < r.HRReviveThreshold {
		return run, false
	}

	run.ReviveUsed = true
	run.Relationships.HR = clampRelationship(run.Relationships.HR - r.HRReviveCost)
	switch cause {
	case types.EndingStaminaExhaustion:
		run.Stamina = run.MaxStamina / 2
	case types.EndingSanityCollapse:
		run.Sanity = run.MaxSanity / 2
	case types.EndingBankruptcy:
		run.Money = max(0, run.Money)
		run.DebtWeeks = 0
	}

	npc := s.engine.Catalog.Industry(run.Industry).NPCs.HR
	s.notify(fmt.Sprintf("%s 出手相助，你挺了过来。", npc.Name))
	s.logger.Info("Run revived",
		zap.String("player_id", s.PlayerID),
		zap.String("cause", string(cause)))
	return run, true
}

// finish terminates the run and records it in the meta history
func (s *Session) finish(run types.RunState, cause types.Ending) {
	victory := cause == types.EndingHonorableRetirement || cause == types.EndingEarlyRetirement || cause == types.EndingIndustrialLeader
	ending := types.EndingInfo{
		Cause:   cause,
		Label:   s.engine.EndingLabel(cause, run.Industry),
		Victory: victory,
	}

	run.Stamina = max(0, run.Stamina)
	run.Sanity = max(0, run.Sanity)
	if victory {
		run.Phase = types.PhaseVictory
	} else {
		run.Phase = types.PhaseGameOver
	}

	s.meta = s.engine.Progression.RecordRun(s.meta, run, ending, s.now())
	s.ending = &ending
	s.run = &run
	s.saveMeta()
	if s.store != nil {
		if err := s.store.Delete(RunKey(s.PlayerID)); err != nil {
			s.logger.Error("Failed to clear run record", zap.String("player_id", s.PlayerID), zap.Error(err))
		}
	}

	s.logger.Info("Run ended",
		zap.String("player_id", s.PlayerID),
		zap.String("run_id", run.RunID),
		zap.String("ending", ending.Label),
		zap.Bool("victory", victory),
		zap.Int("week", run.Week))
}

// commit makes run the current state and persists it
func (s *Session) commit(run types.RunState) {
	s.run = &run
	if s.store == nil {
		return
	}
	raw, err := EncodeRun(run)
	if err != nil {
		s.logger.Error("Failed to encode run", zap.String("player_id", s.PlayerID), zap.Error(err))
		return
	}
	if err := s.store.Set(RunKey(s.PlayerID), raw); err != nil {
		s.logger.Error("Failed to persist run", zap.String("player_id", s.PlayerID), zap.Error(err))
	}
}

func (s *Session) saveMeta() {
	if s.store == nil {
		return
	}
	raw, err := EncodeMeta(s.meta)
	if err != nil {
		s.logger.Error("Failed to encode meta", zap.String("player_id", s.PlayerID), zap.Error(err))
		return
	}
	if err := s.store.Set(MetaKey(s.PlayerID), raw); err != nil {
		s.logger.Error("Failed to persist meta", zap.String("player_id", s.PlayerID), zap.Error(err))
	}
}

// begin clears the per-transition output
func (s *Session) begin() {
	s.notifications = nil
	s.report = nil
	s.ending = nil
}

func (s *Session) notify(msgs ...string) {
	for _, m := range msgs {
		if m != "" {
			s.notifications = append(s.notifications, m)
		}
	}
}

func (s *Session) requireActive() error {
	if s.run == nil {
		return ErrRunNotFound
	}
	if s.run.Phase.Terminal() {
		return ErrRunOver
	}
	return nil
}

func (s *Session) requirePhase(phase types.Phase) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if s.run.Phase != phase {
		return ErrWrongPhase
	}
	return nil
}
