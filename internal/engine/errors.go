package engine

import "errors"

// Caller errors: bad preconditions the collaborator layer translates
// into user-facing messages. None are transient, none are retried.
var (
	ErrBattleAlreadyActive = errors.New("battle already active")
	ErrBattleNotOngoing    = errors.New("battle is not ongoing")
	ErrInvalidMob          = errors.New("mob is not eligible for this floor")
	ErrNoEligibleMob       = errors.New("no eligible mob for this floor")
	ErrNoActiveTravel      = errors.New("no active travel session")
	ErrInvalidCombatStyle  = errors.New("invalid combat style")
)
