package repository

import (
	"context"
	"fmt"

	"vidtube/internal/domain"
	"vidtube/pkg/database"

	"github.com/jackc/pgx/v5"
)

type TweetRepositoryImpl struct {
	db *database.PostgresDB
}

func NewTweetRepository(db *database.PostgresDB) *TweetRepositoryImpl {
	return &TweetRepositoryImpl{db: db}
}

// Create creates a new tweet
func (r *TweetRepositoryImpl) Create(ctx context.Context, tweet *domain.Tweet) error {
	query := `
		INSERT INTO tweets (id, content, owner_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		tweet.ID,
		tweet.Content,
		tweet.OwnerID,
	).Scan(&tweet.CreatedAt, &tweet.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}
	return nil
}

// GetByID gets a tweet by ID
func (r *TweetRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Tweet, error) {
	query := `
		SELECT id, content, owner_id, created_at, updated_at
		FROM tweets
		WHERE id = $1
	`

	var tweet domain.Tweet
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&tweet.ID,
		&tweet.Content,
		&tweet.OwnerID,
		&tweet.CreatedAt,
		&tweet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}

	return &tweet, nil
}

// ListForUser returns a user's tweets, newest first, with owner summaries
func (r *TweetRepositoryImpl) ListForUser(ctx context.Context, userID string) ([]domain.TweetWithOwner, error) {
	query := `
		SELECT t.id, t.content, t.owner_id, t.created_at, t.updated_at,
		       o.id, o.username, o.full_name, o.avatar_url
		FROM tweets t
		LEFT JOIN users o ON o.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	tweets := []domain.TweetWithOwner{}
	for rows.Next() {
		var t domain.TweetWithOwner
		var tweetOwnerID *string
		var ownerID, ownerUsername, ownerFullName, ownerAvatar *string

		err := rows.Scan(
			&t.ID,
			&t.Content,
			&tweetOwnerID,
			&t.CreatedAt,
			&t.UpdatedAt,
			&ownerID,
			&ownerUsername,
			&ownerFullName,
			&ownerAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweet row: %w", err)
		}

		if tweetOwnerID != nil {
			t.OwnerID = *tweetOwnerID
		}
		if ownerID != nil {
			t.Owner = &domain.OwnerSummary{
				ID:        *ownerID,
				Username:  derefOrEmpty(ownerUsername),
				FullName:  derefOrEmpty(ownerFullName),
				AvatarURL: derefOrEmpty(ownerAvatar),
			}
		}

		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tweet rows: %w", err)
	}

	return tweets, nil
}

// Update replaces the content of the owner's tweet
func (r *TweetRepositoryImpl) Update(ctx context.Context, id, ownerID, content string) (*domain.Tweet, error) {
	query := `
		UPDATE tweets
		SET content = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, content, owner_id, created_at, updated_at
	`

	var tweet domain.Tweet
	err := r.db.Pool.QueryRow(ctx, query, id, ownerID, content).Scan(
		&tweet.ID,
		&tweet.Content,
		&tweet.OwnerID,
		&tweet.CreatedAt,
		&tweet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}

	return &tweet, nil
}

// Delete removes the owner's tweet
func (r *TweetRepositoryImpl) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tweets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete tweet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
