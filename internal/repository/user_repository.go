package repository

import (
	"context"
	"fmt"

	"vidtube/internal/domain"
	"vidtube/pkg/database"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, full_name, avatar_url, cover_image_url, password_hash, refresh_token, created_at, updated_at`

type UserRepositoryImpl struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

// Create creates a new user record
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar_url, cover_image_url, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.CoverImageURL,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID gets a user by ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := r.scanUserRow(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsernameOrEmail gets a user matching either field
func (r *UserRepositoryImpl) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 OR email = $2`, userColumns)

	user, err := r.scanUserRow(r.db.Pool.QueryRow(ctx, query, username, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username/email: %w", err)
	}
	return user, nil
}

// UpdateAccount updates the mutable profile fields
func (r *UserRepositoryImpl) UpdateAccount(ctx context.Context, id string, fullName, email string) (*domain.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET full_name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, userColumns)

	user, err := r.scanUserRow(r.db.Pool.QueryRow(ctx, query, id, fullName, email))
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return user, nil
}

// UpdateAvatar replaces the avatar reference
func (r *UserRepositoryImpl) UpdateAvatar(ctx context.Context, id, url string) (*domain.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET avatar_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, userColumns)

	user, err := r.scanUserRow(r.db.Pool.QueryRow(ctx, query, id, url))
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	return user, nil
}

// UpdateCoverImage replaces the cover image reference
func (r *UserRepositoryImpl) UpdateCoverImage(ctx context.Context, id, url string) (*domain.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET cover_image_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, userColumns)

	user, err := r.scanUserRow(r.db.Pool.QueryRow(ctx, query, id, url))
	if err != nil {
		return nil, fmt.Errorf("failed to update cover image: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the credential hash
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetRefreshToken stores or clears the session refresh token
func (r *UserRepositoryImpl) SetRefreshToken(ctx context.Context, id string, token *string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id, token); err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	return nil
}

// GetChannelProfile assembles the channel read model: the user row, both
// subscription counters, and whether the viewer is subscribed. viewerID may be
// empty, in which case is_subscribed is always false.
func (r *UserRepositoryImpl) GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.email, u.avatar_url, u.cover_image_url,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscriber_count,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
		       EXISTS(
		           SELECT 1 FROM subscriptions s
		           WHERE s.channel_id = u.id AND s.subscriber_id = $2::uuid
		       ) AS is_subscribed
		FROM users u
		WHERE u.username = $1
	`

	var viewer *string
	if viewerID != "" {
		viewer = &viewerID
	}

	var profile domain.ChannelProfile
	err := r.db.Pool.QueryRow(ctx, query, username, viewer).Scan(
		&profile.ID,
		&profile.Username,
		&profile.FullName,
		&profile.Email,
		&profile.AvatarURL,
		&profile.CoverImageURL,
		&profile.SubscriberCount,
		&profile.ChannelsSubscribedTo,
		&profile.IsSubscribed,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return &profile, nil
}

// GetWatchHistory returns the viewer's watched videos, most recent first,
// each with its owner's public summary
func (r *UserRepositoryImpl) GetWatchHistory(ctx context.Context, userID string) ([]domain.VideoWithOwner, error) {
	query := `
		SELECT ` + videoSelectWithOwner + `
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		LEFT JOIN users o ON o.id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	defer rows.Close()

	return scanVideosWithOwner(rows)
}

// RecordWatch upserts a watch-history entry; re-watching refreshes the
// timestamp so ordering stays most-recent-first
func (r *UserRepositoryImpl) RecordWatch(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to record watch: %w", err)
	}
	return nil
}

// scanUserRow scans a single user row, mapping no-rows to (nil, nil)
func (r *UserRepositoryImpl) scanUserRow(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.PasswordHash,
		&user.RefreshToken,
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
