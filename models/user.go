package models

import (
	"fmt"
	"time"
)

// UserStatus controls whether a user's balance counts toward the active total
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

// VerificationStatus tracks the outcome of the uniqueness check
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
	VerificationFailed     VerificationStatus = "failed"
)

// User represents a single points-ledger account
type User struct {
	ID                    string             `db:"id"`
	PlatformID            *int64             `db:"platform_id"`
	DisplayName           string             `db:"display_name"`
	Balance               int64              `db:"balance"`
	Status                UserStatus         `db:"status"`
	BanReason             *string            `db:"ban_reason"`
	ForgingEndTime        *time.Time         `db:"forging_end_time"`
	ForgeCount            int                `db:"forge_count"`
	StreakCount           int                `db:"streak_count"`
	LastLogin             *time.Time         `db:"last_login"`
	VerificationStatus    VerificationStatus `db:"verification_status"`
	FaceFingerprint       *string            `db:"face_fingerprint"`
	WalletAddress         *string            `db:"wallet_address"`
	ReferralCode          string             `db:"referral_code"`
	ReferredBy            *string            `db:"referred_by"`
	ReferralBonusApplied  bool               `db:"referral_bonus_applied"`
	Referrals             int                `db:"referrals"`
	WelcomeTasks          []string           `db:"welcome_tasks"`
	CompletedSocialTasks  []string           `db:"completed_social_tasks"`
	ClaimedAchievements   []string           `db:"claimed_achievements"`
	PurchasedBoosts       []string           `db:"purchased_boosts"`
	ClaimedLegacyBoosts   []string           `db:"claimed_legacy_boosts"`
	TotalContributedStars int64              `db:"total_contributed_stars"`
	AirdropCommitted      bool               `db:"airdrop_committed"`
	AirdropCommitAt       *time.Time         `db:"airdrop_commit_at"`
	HasOnboarded          bool               `db:"has_onboarded"`
	HasConvertedToExn     bool               `db:"has_converted_to_exn"`
	CreatedAt             time.Time          `db:"created_at"`
	UpdatedAt             time.Time          `db:"updated_at"`
}

// IsActive reports whether the user's balance counts toward the active total
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// HasClaimedAchievement reports whether the achievement key was already paid out
func (u *User) HasClaimedAchievement(key string) bool {
	for _, k := range u.ClaimedAchievements {
		if k == key {
			return true
		}
	}
	return false
}

// HasPurchasedBoost reports whether the boost was already bought
func (u *User) HasPurchasedBoost(boostID string) bool {
	for _, b := range u.PurchasedBoosts {
		if b == boostID {
			return true
		}
	}
	return false
}

// HasCompletedWelcomeTask reports whether the welcome task was already credited
func (u *User) HasCompletedWelcomeTask(taskID string) bool {
	for _, t := range u.WelcomeTasks {
		if t == taskID {
			return true
		}
	}
	return false
}

// HasCompletedSocialTask reports whether the social task was already credited
func (u *User) HasCompletedSocialTask(taskID string) bool {
	for _, t := range u.CompletedSocialTasks {
		if t == taskID {
			return true
		}
	}
	return false
}

// IdentityKind distinguishes platform-authenticated from anonymous callers
type IdentityKind int

const (
	IdentityPlatform IdentityKind = iota
	IdentityAnonymous
)

// Identity is the caller-supplied identity the ledger trusts but never
// authenticates. Platform identities carry the numeric Telegram ID; anonymous
// identities carry a locally generated browser ID.
type Identity struct {
	Kind        IdentityKind
	PlatformID  int64
	OpaqueID    string
	DisplayName string
}

// PlatformIdentity builds an identity for a numeric platform ID
func PlatformIdentity(id int64, displayName string) Identity {
	return Identity{Kind: IdentityPlatform, PlatformID: id, DisplayName: displayName}
}

// AnonymousIdentity builds an identity for a local browser ID
func AnonymousIdentity(opaqueID string) Identity {
	return Identity{Kind: IdentityAnonymous, OpaqueID: opaqueID}
}

// Key derives the stable record key for this identity
func (i Identity) Key() string {
	if i.Kind == IdentityPlatform {
		return fmt.Sprintf("user_%d", i.PlatformID)
	}
	return fmt.Sprintf("browser_%s", i.OpaqueID)
}
