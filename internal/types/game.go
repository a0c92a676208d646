package types

// Phase is a state of the run state machine
type Phase string

const (
	PhaseCreation   Phase = "creation"
	PhaseWeekIntro  Phase = "week_intro"
	PhaseEvent      Phase = "event"
	PhaseResult     Phase = "result"
	PhaseWeekend    Phase = "weekend"
	PhaseSettlement Phase = "settlement"
	PhaseRetiring   Phase = "retiring"
	PhaseVictory    Phase = "victory"
	PhaseGameOver   Phase = "game_over"
)

// Terminal reports whether the phase ends the run
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseGameOver
}

// IndustryType identifies an industry track
type IndustryType string

const (
	IndustryInternet   IndustryType = "internet"
	IndustryRealEstate IndustryType = "real_estate"
	IndustryPharma     IndustryType = "pharma"
	IndustryPolice     IndustryType = "police"
	IndustryDesign     IndustryType = "design"
	IndustryMetro      IndustryType = "metro"
)

// Location is where an event takes place
type Location string

const (
	LocationWorkstation  Location = "workstation"
	LocationMeetingRoom  Location = "meeting_room"
	LocationBossOffice   Location = "boss_office"
	LocationHome         Location = "home"
	LocationHospital     Location = "hospital"
	LocationFactoryFloor Location = "factory_floor"
)

// EventCategory classifies events
type EventCategory string

const (
	CategoryRoutine   EventCategory = "routine"
	CategoryChoice    EventCategory = "choice"
	CategoryFate      EventCategory = "fate"
	CategoryCrisis    EventCategory = "crisis"
	CategoryChained   EventCategory = "chained"
	CategorySmallWeek EventCategory = "small_week"
	CategoryNPC       EventCategory = "npc"
	CategoryDelivery  EventCategory = "delivery"
)

// Rarity is the draw tier of an event
type Rarity string

const (
	RarityCommon Rarity = "common"
	RarityRare   Rarity = "rare"
	RarityEpic   Rarity = "epic"
)

// Good reports whether the rarity belongs to the lucky subset of the draw
func (r Rarity) Good() bool {
	return r == RarityRare || r == RarityEpic
}

// Ending is the cause a run terminated with
type Ending string

const (
	EndingHonorableRetirement Ending = "honorable_retirement"
	EndingEarlyRetirement     Ending = "early_retirement"
	EndingIndustrialLeader    Ending = "industrial_leader"
	EndingBankruptcy          Ending = "bankruptcy"
	EndingStaminaExhaustion   Ending = "stamina_exhaustion"
	EndingSanityCollapse      Ending = "sanity_collapse"
)

// PostWorkChoice is the choice made after an event result
type PostWorkChoice string

const (
	PostWorkOvertime PostWorkChoice = "overtime"
	PostWorkLeave    PostWorkChoice = "leave"
)

// WeekendActivity is the fixed set of weekend choices
type WeekendActivity string

const (
	WeekendSleep     WeekendActivity = "sleep"
	WeekendInvest    WeekendActivity = "invest"
	WeekendOutsource WeekendActivity = "outsource"
	WeekendStudy     WeekendActivity = "study"
	WeekendGig       WeekendActivity = "gig"
	WeekendSocial    WeekendActivity = "social"
)

// WeekendActivities lists the weekend choices in display order
var WeekendActivities = []WeekendActivity{
	WeekendSleep, WeekendInvest, WeekendOutsource, WeekendStudy, WeekendGig, WeekendSocial,
}
