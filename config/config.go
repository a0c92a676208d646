package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration for the application
type Config struct {
	// WhatsApp configuration
	WhatsApp WhatsAppConfig `json:"whatsapp"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Game configuration
	Game GameConfig `json:"game"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// WhatsAppConfig holds WhatsApp specific configuration
type WhatsAppConfig struct {
	// Whether the chat front end is started by the serve command
	Enabled bool `json:"enabled"`

	// Path to store WhatsApp session data
	StoreDir string `json:"store_dir"`

	// Client device name
	ClientName string `json:"client_name"`

	// Minutes a player may sit on an undecided event before being reminded, 0 disables
	ReminderMinutes int `json:"reminder_minutes"`
}

// DatabaseConfig holds database specific configuration
type DatabaseConfig struct {
	// Store driver (sqlite3, file, memory)
	Driver string `json:"driver"`

	// SQLite database path, or the JSON document for the file driver
	DSN string `json:"dsn"`

	// Number of live sessions kept in memory
	CacheSize int `json:"cache_size"`
}

// TaxBracket is a marginal rate applied to income above Threshold
type TaxBracket struct {
	Threshold int     `json:"threshold"`
	Rate      float64 `json:"rate"`
}

// GameConfig holds the rule constants of the simulation
type GameConfig struct {
	// Weeks a career must survive to retire with honor
	MaxWeeks int `json:"max_weeks"`

	// Attribute points handed out at creation on top of the 1-per-attribute floor
	AttributePoints int `json:"attribute_points"`

	// Economy
	BaseExpense              int          `json:"base_expense"`
	LifestyleCreepRate       float64      `json:"lifestyle_creep_rate"`
	RevengeSpendingThreshold int          `json:"revenge_spending_threshold"`
	RevengeSpendingAmount    int          `json:"revenge_spending_amount"`
	DebtLimit                int          `json:"debt_limit"`
	TaxBrackets              []TaxBracket `json:"tax_brackets"`

	// Death checks
	IcuCost         int `json:"icu_cost"`
	IcuStaminaFloor int `json:"icu_stamina_floor"`

	// Relationships
	BossBonusThreshold int     `json:"boss_bonus_threshold"`
	BossBonusRate      float64 `json:"boss_bonus_rate"`
	EQSalaryRate       float64 `json:"eq_salary_rate"`
	HRReviveThreshold  int     `json:"hr_revive_threshold"`
	HRReviveCost       int     `json:"hr_revive_cost"`

	// Chained crisis thresholds
	ChainedStaminaThreshold int `json:"chained_stamina_threshold"`
	ChainedSanityThreshold  int `json:"chained_sanity_threshold"`
	ChainedMoneyThreshold   int `json:"chained_money_threshold"`

	// Event selection
	GoodChanceBase        float64 `json:"good_chance_base"`
	GoodChancePerLuck     float64 `json:"good_chance_per_luck"`
	SmallWeekLuckBypass   int     `json:"small_week_luck_bypass"`
	SmallWeekBypassChance float64 `json:"small_week_bypass_chance"`
	SmallWeekRoutineBias  float64 `json:"small_week_routine_bias"`
	LuckBonusAmount       int     `json:"luck_bonus_amount"`

	// Post-work choice
	OvertimeExp     int `json:"overtime_exp"`
	OvertimeStamina int `json:"overtime_stamina"`
	OvertimeHours   int `json:"overtime_hours"`
	LeaveSanity     int `json:"leave_sanity"`

	// Weekend
	WeekendSleepStamina    int     `json:"weekend_sleep_stamina"`
	WeekendSleepSanity     int     `json:"weekend_sleep_sanity"`
	WeekendInvestStake     int     `json:"weekend_invest_stake"`
	WeekendInvestBase      float64 `json:"weekend_invest_base"`
	WeekendInvestPerLuck   float64 `json:"weekend_invest_per_luck"`
	WeekendInvestCap       float64 `json:"weekend_invest_cap"`
	WeekendOutsourceTech   int     `json:"weekend_outsource_tech"`
	WeekendOutsourceRate   int     `json:"weekend_outsource_rate"`
	WeekendOutsourceSanity int     `json:"weekend_outsource_sanity"`
	WeekendStudyCost       int     `json:"weekend_study_cost"`
	WeekendStudyExp        int     `json:"weekend_study_exp"`
	WeekendGigMoney        int     `json:"weekend_gig_money"`
	WeekendGigStaminaCost  int     `json:"weekend_gig_stamina_cost"`
	WeekendSocialSanity    int     `json:"weekend_social_sanity"`
	WeekendSocialCost      int     `json:"weekend_social_cost"`
	WeekendSocialColleague int     `json:"weekend_social_colleague"`
	SmallWeekSanityPenalty int     `json:"small_week_sanity_penalty"`
	SmallWeekRecoveryRate  float64 `json:"small_week_recovery_rate"`
	BigWeekRecoveryRate    float64 `json:"big_week_recovery_rate"`

	// Meta progression
	UnlockWeek    int `json:"unlock_week"`
	LegacyDivisor int `json:"legacy_divisor"`
	HistoryLimit  int `json:"history_limit"`

	// Random seed, 0 seeds from the clock
	Seed int64 `json:"seed"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`
}

// DefaultGameConfig returns the rule constants the catalog is balanced for
func DefaultGameConfig() GameConfig {
	return GameConfig{
		MaxWeeks:                 52,
		AttributePoints:          20,
		BaseExpense:              2000,
		LifestyleCreepRate:       0.05,
		RevengeSpendingThreshold: 30,
		RevengeSpendingAmount:    1500,
		DebtLimit:                3,
		TaxBrackets: []TaxBracket{
			{Threshold: 10000, Rate: 0.10},
			{Threshold: 20000, Rate: 0.15},
		},
		IcuCost:                 5000,
		IcuStaminaFloor:         30,
		BossBonusThreshold:      80,
		BossBonusRate:           0.2,
		EQSalaryRate:            0.05,
		HRReviveThreshold:       80,
		HRReviveCost:            50,
		ChainedStaminaThreshold: 20,
		ChainedSanityThreshold:  20,
		ChainedMoneyThreshold:   0,
		GoodChanceBase:          10,
		GoodChancePerLuck:       1.5,
		SmallWeekLuckBypass:     15,
		SmallWeekBypassChance:   0.2,
		SmallWeekRoutineBias:    0.7,
		LuckBonusAmount:         5,
		OvertimeExp:             20,
		OvertimeStamina:         20,
		OvertimeHours:           10,
		LeaveSanity:             10,
		WeekendSleepStamina:     40,
		WeekendSleepSanity:      20,
		WeekendInvestStake:      2000,
		WeekendInvestBase:       30,
		WeekendInvestPerLuck:    2,
		WeekendInvestCap:        80,
		WeekendOutsourceTech:    15,
		WeekendOutsourceRate:    100,
		WeekendOutsourceSanity:  5,
		WeekendStudyCost:        1500,
		WeekendStudyExp:         100,
		WeekendGigMoney:         3000,
		WeekendGigStaminaCost:   40,
		WeekendSocialSanity:     35,
		WeekendSocialCost:       1200,
		WeekendSocialColleague:  5,
		SmallWeekSanityPenalty:  10,
		SmallWeekRecoveryRate:   0.05,
		BigWeekRecoveryRate:     0.20,
		UnlockWeek:              10,
		LegacyDivisor:           10,
		HistoryLimit:            20,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		WhatsApp: WhatsAppConfig{
			Enabled:         false,
			StoreDir:        "./whatsapp-store",
			ClientName:      "CAREER SURVIVAL",
			ReminderMinutes: 60,
		},
		Database: DatabaseConfig{
			Driver:    "sqlite3",
			DSN:       "./data/career.db",
			CacheSize: 256,
		},
		Game: DefaultGameConfig(),
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Write the defaults out on first run
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, SaveConfig(config, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(config)
}
