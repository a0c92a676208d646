package types

// Condition is a comparison against a stat of the current run.
// Stat names: grind, eq, tech, health, luck, stamina, sanity, money, risk,
// level, exp, week, boss, colleague, hr.
type Condition struct {
	Stat  string `json:"stat" yaml:"stat"`
	Op    string `json:"op" yaml:"op"`
	Value int    `json:"value" yaml:"value"`
}

// BuffGrant references a catalog buff and the duration it is granted for
type BuffGrant struct {
	ID       string `json:"id" yaml:"id"`
	Duration int    `json:"duration" yaml:"duration"`
}

// EffectDescriptor holds the sparse deltas an option produces
type EffectDescriptor struct {
	Stamina       int            `json:"stamina,omitempty" yaml:"stamina,omitempty"`
	Sanity        int            `json:"sanity,omitempty" yaml:"sanity,omitempty"`
	Money         int            `json:"money,omitempty" yaml:"money,omitempty"`
	Exp           int            `json:"exp,omitempty" yaml:"exp,omitempty"`
	Risk          int            `json:"risk,omitempty" yaml:"risk,omitempty"`
	Level         int            `json:"level,omitempty" yaml:"level,omitempty"`
	Salary        int            `json:"salary,omitempty" yaml:"salary,omitempty"`
	MaxStamina    int            `json:"maxStamina,omitempty" yaml:"max_stamina,omitempty"`
	Attributes    *Attributes    `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Relationships *Relationships `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	AddBuff       *BuffGrant     `json:"addBuff,omitempty" yaml:"add_buff,omitempty"`
	Title         string         `json:"title,omitempty" yaml:"title,omitempty"`
	RevengeImmune bool           `json:"revengeImmune,omitempty" yaml:"revenge_immune,omitempty"`
	Message       string         `json:"message" yaml:"message"`
}

// EffectOp tags the variant of an EffectSpec
type EffectOp string

const (
	// EffectDelta applies Delta as is
	EffectDelta EffectOp = "delta"
	// EffectBranch applies the first branch whose condition holds, else Delta
	EffectBranch EffectOp = "branch"
	// EffectRestore refills stamina and sanity to their maximum, plus Delta
	EffectRestore EffectOp = "restore"
)

// Branch is one guarded outcome of a branch effect
type Branch struct {
	When Condition        `json:"when" yaml:"when"`
	Then EffectDescriptor `json:"then" yaml:"then"`
}

// EffectSpec is the data form of an option effect
type EffectSpec struct {
	Op       EffectOp         `json:"op,omitempty" yaml:"op,omitempty"`
	Delta    EffectDescriptor `json:"delta" yaml:"delta"`
	Branches []Branch         `json:"branches,omitempty" yaml:"branches,omitempty"`
}

// Option is one choice of an event
type Option struct {
	Label    string     `json:"label" yaml:"label"`
	Requires *Condition `json:"requires,omitempty" yaml:"requires,omitempty"`
	Effect   EffectSpec `json:"effect" yaml:"effect"`
}

// Event is a narrative card presented for a week
type Event struct {
	ID          string        `json:"id" yaml:"id"`
	Category    EventCategory `json:"category" yaml:"category"`
	Rarity      Rarity        `json:"rarity,omitempty" yaml:"rarity,omitempty"`
	Industry    IndustryType  `json:"industry,omitempty" yaml:"industry,omitempty"`
	Location    Location      `json:"location" yaml:"location"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	// Per-industry description overrides for universal events
	Descriptions map[IndustryType]string `json:"-" yaml:"descriptions,omitempty"`
	Options      []Option                `json:"options" yaml:"options"`
}

// IndustryText holds the wording templates of an industry
type IndustryText struct {
	Currency  string `json:"currency" yaml:"currency"`
	Progress  string `json:"progress" yaml:"progress"`
	Overtime  string `json:"overtime" yaml:"overtime"`
	Bonus     string `json:"bonus" yaml:"bonus"`
	Fired     string `json:"fired" yaml:"fired"`
	LevelName string `json:"levelName" yaml:"level_name"`
}

// NPC is a named role inside an industry
type NPC struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
	Desc string `json:"desc" yaml:"desc"`
}

// IndustryNPCs are the three relationship roles of an industry
type IndustryNPCs struct {
	Boss      NPC `json:"boss" yaml:"boss"`
	Colleague NPC `json:"colleague" yaml:"colleague"`
	HR        NPC `json:"hr" yaml:"hr"`
}

// IndustryModifiers alter the rules for runs inside an industry
type IndustryModifiers struct {
	SalaryMultiplier     float64 `json:"salaryMultiplier" yaml:"salary_multiplier"`
	InitialSanityPenalty int     `json:"initialSanityPenalty" yaml:"initial_sanity_penalty"`
	StaminaBonus         int     `json:"staminaBonus" yaml:"stamina_bonus"`
	MaxSanityCap         int     `json:"maxSanityCap" yaml:"max_sanity_cap"`
	SmallWeek            bool    `json:"smallWeek" yaml:"small_week"`
	EQSalaryScaling      bool    `json:"eqSalaryScaling" yaml:"eq_salary_scaling"`
	TechSalaryGate       bool    `json:"techSalaryGate" yaml:"tech_salary_gate"`
	WeeklySanityDrain    int     `json:"weeklySanityDrain" yaml:"weekly_sanity_drain"`
	LuckBonus            bool    `json:"luckBonus" yaml:"luck_bonus"`
}

// Milestone is a scripted event firing on a fixed week cadence
type Milestone struct {
	Interval int    `json:"interval" yaml:"interval"`
	EventID  string `json:"eventId" yaml:"event_id"`
}

// Industry is the static configuration of an industry track
type Industry struct {
	Type          IndustryType      `json:"type" yaml:"type"`
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description" yaml:"description"`
	UnlockReq     string            `json:"unlockReq" yaml:"unlock_req"`
	Text          IndustryText      `json:"text" yaml:"text"`
	NPCs          IndustryNPCs      `json:"npcs" yaml:"npcs"`
	Modifiers     IndustryModifiers `json:"modifiers" yaml:"modifiers"`
	Milestone     *Milestone        `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	StartingBuffs []BuffGrant       `json:"startingBuffs,omitempty" yaml:"starting_buffs,omitempty"`
	VictoryEnding string            `json:"victoryEnding,omitempty" yaml:"victory_ending,omitempty"`
}

// Level is one rung of the salary ladder
type Level struct {
	ID     int    `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Salary int    `json:"salary" yaml:"salary"`
}

// ShopItem is a purchasable item
type ShopItem struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Price       int        `json:"price" yaml:"price"`
	Effect      EffectSpec `json:"effect" yaml:"effect"`
}
