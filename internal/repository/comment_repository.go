package repository

import (
	"context"
	"fmt"

	"vidtube/internal/domain"
	"vidtube/pkg/database"

	"github.com/jackc/pgx/v5"
)

type CommentRepositoryImpl struct {
	db *database.PostgresDB
}

func NewCommentRepository(db *database.PostgresDB) *CommentRepositoryImpl {
	return &CommentRepositoryImpl{db: db}
}

// Create creates a new comment
func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, content, owner_id, video_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		comment.ID,
		comment.Content,
		comment.OwnerID,
		comment.VideoID,
	).Scan(&comment.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID gets a comment by ID
func (r *CommentRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `
		SELECT id, content, owner_id, video_id, created_at
		FROM comments
		WHERE id = $1
	`

	var comment domain.Comment
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.Content,
		&comment.OwnerID,
		&comment.VideoID,
		&comment.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

// ListForVideo returns one page of a video's comments, newest first, each with
// its author's public summary. An empty page is a valid result.
func (r *CommentRepositoryImpl) ListForVideo(ctx context.Context, videoID string, page, limit int) ([]domain.CommentWithOwner, error) {
	query := `
		SELECT c.id, c.content, c.owner_id, c.video_id, c.created_at,
		       o.id, o.username, o.full_name, o.avatar_url
		FROM comments c
		LEFT JOIN users o ON o.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.CommentWithOwner{}
	for rows.Next() {
		var c domain.CommentWithOwner
		var commentOwnerID *string
		var ownerID, ownerUsername, ownerFullName, ownerAvatar *string

		err := rows.Scan(
			&c.ID,
			&c.Content,
			&commentOwnerID,
			&c.VideoID,
			&c.CreatedAt,
			&ownerID,
			&ownerUsername,
			&ownerFullName,
			&ownerAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}

		if commentOwnerID != nil {
			c.OwnerID = *commentOwnerID
		}
		if ownerID != nil {
			c.Owner = &domain.OwnerSummary{
				ID:        *ownerID,
				Username:  derefOrEmpty(ownerUsername),
				FullName:  derefOrEmpty(ownerFullName),
				AvatarURL: derefOrEmpty(ownerAvatar),
			}
		}

		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comment rows: %w", err)
	}

	return comments, nil
}
