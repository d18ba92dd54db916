package repository

import (
	"context"
	"fmt"

	"vidtube/internal/domain"
	"vidtube/pkg/database"

	"github.com/jackc/pgx/v5"
)

type LikeRepositoryImpl struct {
	db *database.PostgresDB
}

func NewLikeRepository(db *database.PostgresDB) *LikeRepositoryImpl {
	return &LikeRepositoryImpl{db: db}
}

// Insert creates the like unless one already exists for the same
// (liker, target) pair. The partial unique index per target kind makes the
// check-and-create a single atomic statement: two concurrent inserts can never
// both succeed.
func (r *LikeRepositoryImpl) Insert(ctx context.Context, like *domain.Like) (bool, error) {
	var query string
	var targetID string

	switch {
	case like.VideoID != nil:
		query = `
			INSERT INTO likes (id, video_id, liked_by) VALUES ($1, $2, $3)
			ON CONFLICT (liked_by, video_id) WHERE video_id IS NOT NULL DO NOTHING
			RETURNING created_at
		`
		targetID = *like.VideoID
	case like.CommentID != nil:
		query = `
			INSERT INTO likes (id, comment_id, liked_by) VALUES ($1, $2, $3)
			ON CONFLICT (liked_by, comment_id) WHERE comment_id IS NOT NULL DO NOTHING
			RETURNING created_at
		`
		targetID = *like.CommentID
	case like.TweetID != nil:
		query = `
			INSERT INTO likes (id, tweet_id, liked_by) VALUES ($1, $2, $3)
			ON CONFLICT (liked_by, tweet_id) WHERE tweet_id IS NOT NULL DO NOTHING
			RETURNING created_at
		`
		targetID = *like.TweetID
	default:
		return false, fmt.Errorf("like has no target")
	}

	err := r.db.Pool.QueryRow(ctx, query, like.ID, targetID, like.LikedBy).Scan(&like.CreatedAt)
	if err == pgx.ErrNoRows {
		// Conflict: the pair is already in the Present state
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	return true, nil
}

// Delete removes the like for the (liker, target) pair
func (r *LikeRepositoryImpl) Delete(ctx context.Context, target domain.LikeTarget, targetID, userID string) (bool, error) {
	var column string
	switch target {
	case domain.LikeTargetVideo:
		column = "video_id"
	case domain.LikeTargetComment:
		column = "comment_id"
	case domain.LikeTargetTweet:
		column = "tweet_id"
	default:
		return false, fmt.Errorf("unknown like target %q", target)
	}

	query := fmt.Sprintf(`DELETE FROM likes WHERE liked_by = $1 AND %s = $2`, column)

	tag, err := r.db.Pool.Exec(ctx, query, userID, targetID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListLikedVideos rolls up the user's liked videos into one list: likes joined
// to videos, unpublished videos discarded, each joined to its owner summary.
func (r *LikeRepositoryImpl) ListLikedVideos(ctx context.Context, userID string) ([]domain.VideoWithOwner, error) {
	query := `
		SELECT ` + videoSelectWithOwner + `
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		LEFT JOIN users o ON o.id = v.owner_id
		WHERE l.liked_by = $1 AND v.is_published = true
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}
	defer rows.Close()

	return scanVideosWithOwner(rows)
}
