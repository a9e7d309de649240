package domain

import "errors"

// Identity errors
var (
	ErrUnauthenticated = errors.New("caller identity is missing")
	ErrUserNotFound    = errors.New("user not found")
)

// Pairing errors
var (
	ErrAlreadyPaired      = errors.New("user is already paired")
	ErrCodeNotFound       = errors.New("invite code not found")
	ErrCodeExpired        = errors.New("invite code has expired")
	ErrCodeConsumed       = errors.New("invite code was already used")
	ErrOwnCode            = errors.New("cannot accept your own invite code")
	ErrInviterUnavailable = errors.New("inviter is no longer available to pair")
	ErrCodeGeneration     = errors.New("could not generate a unique invite code")
	ErrCoupleNotFound     = errors.New("couple not found")
	ErrNotCoupleMember    = errors.New("user is not a member of this couple")
)

// Game errors
var (
	ErrSessionNotFound     = errors.New("game session not found")
	ErrSessionCompleted    = errors.New("game session is already completed")
	ErrAlreadyAnswered     = errors.New("member has already answered this session")
	ErrPendingDailyExists  = errors.New("a daily question is already pending")
	ErrPendingChoiceLimit  = errors.New("too many pending choice games")
	ErrNoDailyRemaining    = errors.New("no daily question remaining today")
	ErrNoTicketsRemaining  = errors.New("no tickets remaining this period")
	ErrUnsupportedGameType = errors.New("unsupported game type")
	ErrQuestionNotFound    = errors.New("no active question available")
)
