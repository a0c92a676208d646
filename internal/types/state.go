package types

// Attributes are the five player-allocated stats
type Attributes struct {
	Grind  int `json:"grind" yaml:"grind,omitempty"`
	EQ     int `json:"eq" yaml:"eq,omitempty"`
	Tech   int `json:"tech" yaml:"tech,omitempty"`
	Health int `json:"health" yaml:"health,omitempty"`
	Luck   int `json:"luck" yaml:"luck,omitempty"`
}

// Sum returns the total allocated points
func (a Attributes) Sum() int {
	return a.Grind + a.EQ + a.Tech + a.Health + a.Luck
}

// Add returns the field-wise sum of two attribute records
func (a Attributes) Add(d Attributes) Attributes {
	return Attributes{
		Grind:  a.Grind + d.Grind,
		EQ:     a.EQ + d.EQ,
		Tech:   a.Tech + d.Tech,
		Health: a.Health + d.Health,
		Luck:   a.Luck + d.Luck,
	}
}

// Relationships track standing with the three industry NPC roles
type Relationships struct {
	Boss      int `json:"boss" yaml:"boss,omitempty"`
	Colleague int `json:"colleague" yaml:"colleague,omitempty"`
	HR        int `json:"hr" yaml:"hr,omitempty"`
}

// BuffEffect is the modifier bundle of a buff. Zero multipliers mean "absent".
type BuffEffect struct {
	StaminaCostMod float64 `json:"staminaCostMod,omitempty" yaml:"stamina_cost_mod,omitempty"`
	SanityCostMod  float64 `json:"sanityCostMod,omitempty" yaml:"sanity_cost_mod,omitempty"`
	SalaryMod      float64 `json:"salaryMod,omitempty" yaml:"salary_mod,omitempty"`
	LuckMod        int     `json:"luckMod,omitempty" yaml:"luck_mod,omitempty"`
	Risk           int     `json:"risk,omitempty" yaml:"risk,omitempty"`
}

// Buff is a time-limited modifier owned by a run
type Buff struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Duration    int        `json:"duration" yaml:"duration,omitempty"`
	IsNegative  bool       `json:"isNegative" yaml:"is_negative,omitempty"`
	Effect      BuffEffect `json:"effect" yaml:"effect"`
}

// RunState is the mutable record of a single career
type RunState struct {
	RunID            string            `json:"runId,omitempty"`
	Phase            Phase             `json:"phase,omitempty"`
	Stamina          int               `json:"stamina"`
	MaxStamina       int               `json:"maxStamina"`
	Sanity           int               `json:"sanity"`
	MaxSanity        int               `json:"maxSanity"`
	SanityRate       float64           `json:"sanityRate"`
	Money            int               `json:"money"`
	Salary           int               `json:"salary"`
	Expenses         int               `json:"expenses"`
	Level            int               `json:"level"`
	Exp              int               `json:"exp"`
	Week             int               `json:"week"`
	Risk             int               `json:"risk"`
	DebtWeeks        int               `json:"debtWeeks"`
	Industry         IndustryType      `json:"industry"`
	Location         Location          `json:"location"`
	Attributes       Attributes        `json:"attributes"`
	Relationships    Relationships     `json:"relationships"`
	ActiveBuffs      []Buff            `json:"activeBuffs"`
	Titles           []string          `json:"titles"`
	IsSmallWeek      bool              `json:"isSmallWeek"`
	ReviveUsed       bool              `json:"reviveUsed"`
	LegacyPointsUsed int               `json:"legacyPointsUsed"`
	RevengeImmune    bool              `json:"revengeImmune"`
	OvertimeHours    int               `json:"overtimeHours"`
	CurrentEvent     *Event            `json:"currentEvent,omitempty"`
	LastEffect       *EffectDescriptor `json:"lastEffect,omitempty"`
}

// HasTitle reports whether the run earned the given title
func (s RunState) HasTitle(title string) bool {
	for _, t := range s.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// GameRecord is one terminal entry of the history log
type GameRecord struct {
	ID       string       `json:"id,omitempty"`
	Date     string       `json:"date"`
	Industry IndustryType `json:"industry"`
	Week     int          `json:"week"`
	Money    int          `json:"money"`
	Level    int          `json:"level"`
	Ending   string       `json:"ending"`
	Cause    Ending       `json:"cause,omitempty"`
	Victory  bool         `json:"victory"`
}

// MetaProgress is the cross-run progression record
type MetaProgress struct {
	TotalCareerPoints  int            `json:"totalCareerPoints"`
	UnlockedBadges     []string       `json:"unlockedBadges"`
	HighScoreWeeks     int            `json:"highScoreWeeks"`
	GameHistory        []GameRecord   `json:"gameHistory"`
	UnlockedIndustries []IndustryType `json:"unlockedIndustries"`
}

// IsUnlocked reports whether the industry is available for a new run
func (m MetaProgress) IsUnlocked(industry IndustryType) bool {
	for _, u := range m.UnlockedIndustries {
		if u == industry {
			return true
		}
	}
	return false
}
