package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/interfaces"
	"github.com/user/career-survival/internal/types"
	"go.uber.org/zap"
)

// GameManager handles the sessions of every player
type GameManager struct {
	sessions      *lru.Cache
	stateLock     sync.Mutex
	store         interfaces.Store
	engine        *Engine
	config        config.Config
	Logger        *zap.Logger
	diceRoller    *DiceRoller
	reminders     *ReminderSystem
	messageSender interfaces.MessageSender
	lastActive    map[string]time.Time
}

// Ensure GameManager satifies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// NewGameManager creates a new game manager over a store. A nil store keeps
// everything in memory.
func NewGameManager(cfg config.Config, catalog *Catalog, store interfaces.Store) (*GameManager, error) {
	if store == nil {
		store = NewMemoryStore()
	}

	size := cfg.Database.CacheSize
	if size <= 0 {
		size = 256
	}
	sessions, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	dice := NewSeededDiceRoller(cfg.Game.Seed)
	gm := &GameManager{
		sessions:   sessions,
		store:      store,
		engine:     NewEngine(catalog, cfg.Game, dice),
		config:     cfg,
		Logger:     zap.NewNop(), // Will be set by the server
		diceRoller: dice,
		lastActive: make(map[string]time.Time),
	}
	return gm, nil
}

// SetLogger sets the logger used by the manager and every session it opens
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.Logger = logger
	// Sessions hold their own logger, reopen them with the new one
	gm.sessions.Purge()
}

// Engine exposes the rule components
func (gm *GameManager) Engine() *Engine {
	return gm.engine
}

// session returns the live session of a player, loading it from the store
// on a cache miss. Callers must hold stateLock.
func (gm *GameManager) session(playerID string) *Session {
	if v, ok := gm.sessions.Get(playerID); ok {
		return v.(*Session)
	}
	s := NewSession(playerID, gm.engine, gm.store, gm.Logger)
	gm.sessions.Add(playerID, s)
	return s
}

// act runs one transition against a player's session
func (gm *GameManager) act(playerID, action string, fn func(*Session) error) (*types.GameView, error) {
	if playerID == "" {
		return nil, errors.New("player id is required")
	}

	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	s := gm.session(playerID)
	if err := fn(s); err != nil {
		gm.Logger.Debug("Action rejected",
			zap.String("player_id", playerID),
			zap.String("action", action),
			zap.Error(err))
		return nil, err
	}
	if s.Active() {
		gm.lastActive[playerID] = time.Now()
	} else {
		delete(gm.lastActive, playerID)
	}

	gm.Logger.Debug("Action applied",
		zap.String("player_id", playerID),
		zap.String("action", action),
		zap.String("phase", string(s.Phase())))
	return s.View(), nil
}

// GetView returns the player's current view
func (gm *GameManager) GetView(playerID string) (*types.GameView, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.session(playerID).View(), nil
}

// GetCreationInfo returns the legacy points and industries a new run may use
func (gm *GameManager) GetCreationInfo(playerID string) (*types.CreationInfo, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	info := gm.session(playerID).CreationInfo()
	return &info, nil
}

// GetMeta returns the player's cross-run record
func (gm *GameManager) GetMeta(playerID string) (types.MetaProgress, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.session(playerID).Meta(), nil
}

// CreateRun starts a new career
func (gm *GameManager) CreateRun(playerID string, req types.CreationRequest) (*types.GameView, error) {
	return gm.act(playerID, "create", func(s *Session) error { return s.Create(req) })
}

// Advance moves past an informational phase
func (gm *GameManager) Advance(playerID string) (*types.GameView, error) {
	return gm.act(playerID, "advance", func(s *Session) error { return s.Advance() })
}

// ChooseOption resolves an option of the current event
func (gm *GameManager) ChooseOption(playerID string, index int) (*types.GameView, error) {
	return gm.act(playerID, "option", func(s *Session) error { return s.Choose(index) })
}

// PostWork applies the after-hours choice
func (gm *GameManager) PostWork(playerID string, choice types.PostWorkChoice) (*types.GameView, error) {
	return gm.act(playerID, "postwork", func(s *Session) error { return s.PostWork(choice) })
}

// Weekend spends the weekend and settles the week
func (gm *GameManager) Weekend(playerID string, activity types.WeekendActivity) (*types.GameView, error) {
	return gm.act(playerID, "weekend", func(s *Session) error { return s.SpendWeekend(activity) })
}

// Buy purchases a shop item
func (gm *GameManager) Buy(playerID, itemID string) (*types.GameView, error) {
	return gm.act(playerID, "buy", func(s *Session) error { return s.Buy(itemID) })
}

// Retire leaves the career early
func (gm *GameManager) Retire(playerID string) (*types.GameView, error) {
	return gm.act(playerID, "retire", func(s *Session) error { return s.Retire() })
}

// GetShopItems lists the shop
func (gm *GameManager) GetShopItems() []types.ShopItem {
	return gm.engine.Catalog.ShopItems()
}

// GetIndustries lists the industries in unlock order
func (gm *GameManager) GetIndustries() []types.Industry {
	return gm.engine.Catalog.Industries()
}

// RestoreSessions reopens every run found in the store so idle reminders
// cover players who were mid-career when the server stopped. Stores that
// cannot list their keys restore nothing.
func (gm *GameManager) RestoreSessions() (int, error) {
	lister, ok := gm.store.(interfaces.KeyLister)
	if !ok {
		return 0, nil
	}
	keys, err := lister.Keys(RunKeyPrefix + ":")
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}

	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	restored := 0
	for _, key := range keys {
		playerID := strings.TrimPrefix(key, RunKeyPrefix+":")
		if gm.session(playerID).Active() {
			gm.lastActive[playerID] = time.Now()
			restored++
		}
	}
	return restored, nil
}

// IdlePlayers lists players with an active run and no action for at least idle
func (gm *GameManager) IdlePlayers(idle time.Duration) []string {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	var players []string
	cutoff := time.Now().Add(-idle)
	for playerID, at := range gm.lastActive {
		if at.After(cutoff) {
			continue
		}
		if v, ok := gm.sessions.Peek(playerID); ok && v.(*Session).Active() {
			players = append(players, playerID)
		}
	}
	return players
}

// touch resets a player's idle clock
func (gm *GameManager) touch(playerID string) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.lastActive[playerID] = time.Now()
}

// SetMessageSender sets the message sender
func (gm *GameManager) SetMessageSender(sender interfaces.MessageSender) {
	gm.messageSender = sender
}

// SendMessage sends a message to a player
func (gm *GameManager) SendMessage(playerID string, message string) error {
	if gm.messageSender == nil {
		return fmt.Errorf("message sender not set")
	}

	// Chat players are keyed by phone number
	_, err := gm.messageSender.SendMessage(playerID, playerID, message)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// StartReminders starts nudging idle chat players
func (gm *GameManager) StartReminders(interval time.Duration) {
	if interval <= 0 || gm.reminders != nil {
		return
	}
	gm.reminders = NewReminderSystem(gm, interval)
	gm.reminders.Start()
}

// StopReminders stops the reminder loop
func (gm *GameManager) StopReminders() {
	if gm.reminders != nil {
		gm.reminders.Stop()
		gm.reminders = nil
	}
}
