package types

// OptionView is an option as exposed to the presentation layer
type OptionView struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Locked bool   `json:"locked"`
}

// EventView is the current event with option lock status
type EventView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    EventCategory `json:"category"`
	Rarity      Rarity        `json:"rarity"`
	Location    Location      `json:"location"`
	Options     []OptionView  `json:"options"`
}

// SettlementReport summarizes the weekly economic pass
type SettlementReport struct {
	Week           int     `json:"week"`
	Multiplier     float64 `json:"multiplier"`
	GrossIncome    int     `json:"grossIncome"`
	Tax            int     `json:"tax"`
	NetIncome      int     `json:"netIncome"`
	Expense        int     `json:"expense"`
	RevengePenalty int     `json:"revengePenalty"`
	DebtWeeks      int     `json:"debtWeeks"`
	Bankrupt       bool    `json:"bankrupt"`
	LeveledUp      bool    `json:"leveledUp"`
}

// EndingInfo describes how a run terminated
type EndingInfo struct {
	Cause   Ending `json:"cause"`
	Label   string `json:"label"`
	Victory bool   `json:"victory"`
}

// GameView is everything the presentation layer renders after a transition
type GameView struct {
	Phase         Phase             `json:"phase"`
	Run           *RunState         `json:"run,omitempty"`
	Event         *EventView        `json:"event,omitempty"`
	LastEffect    *EffectDescriptor `json:"lastEffect,omitempty"`
	Settlement    *SettlementReport `json:"settlement,omitempty"`
	Ending        *EndingInfo       `json:"ending,omitempty"`
	Notifications []string          `json:"notifications,omitempty"`
	Meta          MetaProgress      `json:"meta"`
}

// CreationRequest is the allocation submitted at character creation
type CreationRequest struct {
	Attributes        Attributes   `json:"attributes"`
	Industry          IndustryType `json:"industry"`
	SpentLegacyPoints int          `json:"spentLegacyPoints"`
}

// CreationInfo is what the creation screen needs
type CreationInfo struct {
	BasePoints         int            `json:"basePoints"`
	LegacyPoints       int            `json:"legacyPoints"`
	UnlockedIndustries []IndustryType `json:"unlockedIndustries"`
	Industries         []Industry     `json:"industries"`
}
