package service

import "errors"

// Business-rule failures surfaced to callers as structured results rather
// than crashes. The API layer maps each to a human-readable reason.
var (
	ErrUserNotFound             = errors.New("user not found")
	ErrBoostAlreadyActive       = errors.New("boost already active")
	ErrContributionLimitReached = errors.New("contribution limit reached")
	ErrWalletNotSet             = errors.New("wallet address not set")
	ErrWalletMismatch           = errors.New("wallet address does not match saved address")
	ErrWalletAlreadySet         = errors.New("wallet address already set")
	ErrInvalidWalletAddress     = errors.New("invalid wallet address")
	ErrDeadlinePassed           = errors.New("commit deadline has passed")
	ErrAirdropEnded             = errors.New("airdrop has ended")
	ErrAlreadyCommitted         = errors.New("airdrop already committed")
	ErrAllocationCheckDisabled  = errors.New("allocation check is disabled")
	ErrForgingActive            = errors.New("forging session already active")
	ErrForgingNotReady          = errors.New("forging session not finished")
	ErrNoForgingSession         = errors.New("no forging session to claim")
	ErrSelfReferral             = errors.New("cannot redeem your own referral code")
	ErrInvalidReferralCode      = errors.New("referral code not recognized")
	ErrTaskNotFound             = errors.New("task not found")
	ErrValidation               = errors.New("validation failed")
)
