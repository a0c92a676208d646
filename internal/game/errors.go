package game

import "errors"

// Rejected player actions. A rejected action leaves the run untouched.
var (
	ErrRunNotFound       = errors.New("no active run")
	ErrRunActive         = errors.New("a run is already in progress")
	ErrWrongPhase        = errors.New("action not allowed in the current phase")
	ErrInvalidOption     = errors.New("invalid option")
	ErrOptionLocked      = errors.New("option requirements not met")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrIndustryLocked    = errors.New("industry is locked")
	ErrInvalidAllocation = errors.New("invalid attribute allocation")
	ErrUnknownActivity   = errors.New("unknown weekend activity")
	ErrUnknownItem       = errors.New("unknown shop item")
	ErrRequirementNotMet = errors.New("activity requirements not met")
	ErrRunOver           = errors.New("the run has ended")
)
