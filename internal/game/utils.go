package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/user/career-survival/internal/types"
	"go.uber.org/zap"
)

// DiceRoller handles the random draws of the game
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller seeded from the clock
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(0)
}

// NewSeededDiceRoller creates a dice roller with a fixed seed; 0 seeds from the clock
func NewSeededDiceRoller(seed int64) *DiceRoller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Roll rolls a dice with the specified number of sides
func (dr *DiceRoller) Roll(sides int) int {
	return dr.rng.Intn(sides) + 1
}

// Intn returns a uniform index in [0, n)
func (dr *DiceRoller) Intn(n int) int {
	return dr.rng.Intn(n)
}

// Float returns a uniform value in [0, 1)
func (dr *DiceRoller) Float() float64 {
	return dr.rng.Float64()
}

// Percent returns a uniform value in [0, 100)
func (dr *DiceRoller) Percent() float64 {
	return dr.rng.Float64() * 100
}

// Chance reports true with probability p
func (dr *DiceRoller) Chance(p float64) bool {
	return dr.rng.Float64() < p
}

// ReminderSystem nudges chat players whose week is waiting on a decision
type ReminderSystem struct {
	gameManager *GameManager
	idleAfter   time.Duration
	ticker      *time.Ticker
	stopChan    chan struct{}
}

// NewReminderSystem creates a reminder system checking every interval
func NewReminderSystem(gameManager *GameManager, interval time.Duration) *ReminderSystem {
	return &ReminderSystem{
		gameManager: gameManager,
		idleAfter:   interval,
		ticker:      time.NewTicker(interval),
		stopChan:    make(chan struct{}),
	}
}

// Start begins the reminder loop
func (rs *ReminderSystem) Start() {
	go func() {
		for {
			select {
			case <-rs.ticker.C:
				rs.sendReminders()
			case <-rs.stopChan:
				rs.ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts the reminder loop
func (rs *ReminderSystem) Stop() {
	close(rs.stopChan)
}

// sendReminders messages every idle player sitting on an unresolved event
func (rs *ReminderSystem) sendReminders() {
	gm := rs.gameManager
	gm.Logger.Debug("Starting reminder cycle")

	for _, playerID := range gm.IdlePlayers(rs.idleAfter) {
		view, err := gm.GetView(playerID)
		if err != nil || view.Phase != types.PhaseEvent || view.Event == nil {
			continue
		}

		message := fmt.Sprintf("⏰ 第 %d 周的「%s」还在等你做决定。\n\n", view.Run.Week, view.Event.Title)
		for _, option := range view.Event.Options {
			if option.Locked {
				continue
			}
			message += fmt.Sprintf("/%c %s\n", 'a'+option.Index, option.Label)
		}

		if err := gm.SendMessage(playerID, message); err != nil {
			gm.Logger.Error("Failed to send reminder",
				zap.String("player_id", playerID),
				zap.Error(err))
			continue
		}
		gm.touch(playerID)
	}
}
