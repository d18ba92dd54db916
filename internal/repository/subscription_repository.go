package repository

import (
	"context"
	"fmt"

	"vidtube/internal/domain"
	"vidtube/pkg/database"

	"github.com/jackc/pgx/v5"
)

type SubscriptionRepositoryImpl struct {
	db *database.PostgresDB
}

func NewSubscriptionRepository(db *database.PostgresDB) *SubscriptionRepositoryImpl {
	return &SubscriptionRepositoryImpl{db: db}
}

// Insert creates the subscription unless one already exists for the
// (subscriber, channel) pair. The unique index makes the toggle's create path
// a single atomic statement.
func (r *SubscriptionRepositoryImpl) Insert(ctx context.Context, sub *domain.Subscription) (bool, error) {
	query := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id) VALUES ($1, $2, $3)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query, sub.ID, sub.SubscriberID, sub.ChannelID).Scan(&sub.CreatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert subscription: %w", err)
	}

	return true, nil
}

// Delete removes the subscription for the (subscriber, channel) pair
func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, subscriberID, channelID string) (bool, error) {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`

	tag, err := r.db.Pool.Exec(ctx, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountSubscribers returns the number of subscribers of a channel. Zero is a
// valid answer.
func (r *SubscriptionRepositoryImpl) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`

	if err := r.db.Pool.QueryRow(ctx, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

// ListSubscribedChannels returns public summaries of the channels a user
// follows, most recently subscribed first
func (r *SubscriptionRepositoryImpl) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]domain.OwnerSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}
	defer rows.Close()

	channels := []domain.OwnerSummary{}
	for rows.Next() {
		var c domain.OwnerSummary
		if err := rows.Scan(&c.ID, &c.Username, &c.FullName, &c.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read channel rows: %w", err)
	}

	return channels, nil
}
