package repository

import (
	"context"
	"fmt"
	"strings"

	"exion/database"
	"exion/models"
	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id, platform_id, display_name, balance, status, ban_reason,
	forging_end_time, forge_count, streak_count, last_login,
	verification_status, face_fingerprint, wallet_address,
	referral_code, referred_by, referral_bonus_applied, referrals,
	welcome_tasks, completed_social_tasks, claimed_achievements,
	purchased_boosts, claimed_legacy_boosts, total_contributed_stars,
	airdrop_committed, airdrop_commit_at, has_onboarded,
	has_converted_to_exn, created_at, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.PlatformID,
		&user.DisplayName,
		&user.Balance,
		&user.Status,
		&user.BanReason,
		&user.ForgingEndTime,
		&user.ForgeCount,
		&user.StreakCount,
		&user.LastLogin,
		&user.VerificationStatus,
		&user.FaceFingerprint,
		&user.WalletAddress,
		&user.ReferralCode,
		&user.ReferredBy,
		&user.ReferralBonusApplied,
		&user.Referrals,
		&user.WelcomeTasks,
		&user.CompletedSocialTasks,
		&user.ClaimedAchievements,
		&user.PurchasedBoosts,
		&user.ClaimedLegacyBoosts,
		&user.TotalContributedStars,
		&user.AirdropCommitted,
		&user.AirdropCommitAt,
		&user.HasOnboarded,
		&user.HasConvertedToExn,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Get retrieves a user by their record key, or nil if absent
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return user, nil
}

// GetForUpdate retrieves a user and locks the row for the remainder of the
// transaction. Every read-compute-write reward flow goes through this so
// concurrent mutations of the same record are linearized.
func (r *UserRepository) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %s: %w", id, err)
	}
	return user, nil
}

// Create inserts a new user record. Returns false without error when another
// transaction created the record first; the caller should re-read.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (bool, error) {
	query := `
		INSERT INTO users (id, platform_id, display_name, referral_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		user.ID,
		user.PlatformID,
		user.DisplayName,
		user.ReferralCode,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}

	user.Balance = 0
	user.Status = models.UserStatusActive
	user.VerificationStatus = models.VerificationUnverified
	return true, nil
}

// Update writes all mutable fields of the user record. Callers hold the row
// lock from GetForUpdate when the update depends on a prior read.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			display_name = $2,
			balance = $3,
			status = $4,
			ban_reason = $5,
			forging_end_time = $6,
			forge_count = $7,
			streak_count = $8,
			last_login = $9,
			verification_status = $10,
			face_fingerprint = $11,
			wallet_address = $12,
			referred_by = $13,
			referral_bonus_applied = $14,
			referrals = $15,
			welcome_tasks = $16,
			completed_social_tasks = $17,
			claimed_achievements = $18,
			purchased_boosts = $19,
			claimed_legacy_boosts = $20,
			total_contributed_stars = $21,
			airdrop_committed = $22,
			airdrop_commit_at = $23,
			has_onboarded = $24,
			has_converted_to_exn = $25,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		user.ID,
		user.DisplayName,
		user.Balance,
		user.Status,
		user.BanReason,
		user.ForgingEndTime,
		user.ForgeCount,
		user.StreakCount,
		user.LastLogin,
		user.VerificationStatus,
		user.FaceFingerprint,
		user.WalletAddress,
		user.ReferredBy,
		user.ReferralBonusApplied,
		user.Referrals,
		user.WelcomeTasks,
		user.CompletedSocialTasks,
		user.ClaimedAchievements,
		user.PurchasedBoosts,
		user.ClaimedLegacyBoosts,
		user.TotalContributedStars,
		user.AirdropCommitted,
		user.AirdropCommitAt,
		user.HasOnboarded,
		user.HasConvertedToExn,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", user.ID)
	}

	return nil
}

// FindByReferralCode looks up a user by their referral code. The code is
// normalized to uppercase and trimmed before comparison.
func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, normalized))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by referral code: %w", err)
	}
	return user, nil
}

// FindByWalletAddress looks up a user by their saved wallet address
func (r *UserRepository) FindByWalletAddress(ctx context.Context, address string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_address = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, address))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by wallet address: %w", err)
	}
	return user, nil
}

// FindByFaceFingerprint looks up a user by their face fingerprint
func (r *UserRepository) FindByFaceFingerprint(ctx context.Context, fingerprint string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE face_fingerprint = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, fingerprint))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by face fingerprint: %w", err)
	}
	return user, nil
}

// Delete removes a user record
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

// GetAll returns all users, newest first
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// GetActiveWithWallet returns all active users that have a saved wallet
// address, for the allocation export.
func (r *UserRepository) GetActiveWithWallet(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE status = 'active' AND wallet_address IS NOT NULL
		ORDER BY balance DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active users with wallets: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// GetLeaderboard returns the top active users by balance
func (r *UserRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT id, display_name, balance
		FROM users
		WHERE status = 'active'
		ORDER BY balance DESC, created_at ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.DisplayName, &entry.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	return entries, nil
}
