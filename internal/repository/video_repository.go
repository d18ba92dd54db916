package repository

import (
	"context"
	"fmt"
	"strings"

	"vidtube/internal/domain"
	"vidtube/pkg/database"

	"github.com/jackc/pgx/v5"
)

// videoSelectWithOwner is the projection shared by every read model that joins
// a video to its owner summary. The owner side is LEFT JOINed, so its columns
// are nullable.
const videoSelectWithOwner = `
	v.id, v.title, v.description, v.video_url, v.thumbnail_url, v.duration,
	v.views, v.is_published, v.owner_id, v.created_at, v.updated_at,
	o.id, o.username, o.full_name, o.avatar_url`

// sortColumns whitelists sortable fields of the video listing and maps API
// names onto columns. Anything outside this map is rejected before SQL is built.
var sortColumns = map[string]string{
	"createdAt": "v.created_at",
	"title":     "v.title",
	"duration":  "v.duration",
	"views":     "v.views",
}

// ValidSortField reports whether the listing can sort by the given field
func ValidSortField(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

type VideoRepositoryImpl struct {
	db *database.PostgresDB
}

func NewVideoRepository(db *database.PostgresDB) *VideoRepositoryImpl {
	return &VideoRepositoryImpl{db: db}
}

// Create creates a new video record
func (r *VideoRepositoryImpl) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (id, title, description, video_url, thumbnail_url, duration, is_published, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING views, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.Duration,
		video.IsPublished,
		video.OwnerID,
	).Scan(&video.Views, &video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// GetByID gets a video by ID
func (r *VideoRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	query := `
		SELECT id, title, description, video_url, thumbnail_url, duration,
		       views, is_published, owner_id, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	video, err := scanVideoRow(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

// GetWithOwner gets a video joined to its owner's public summary
func (r *VideoRepositoryImpl) GetWithOwner(ctx context.Context, id string) (*domain.VideoWithOwner, error) {
	query := `
		SELECT ` + videoSelectWithOwner + `
		FROM videos v
		LEFT JOIN users o ON o.id = v.owner_id
		WHERE v.id = $1
	`

	rows, err := r.db.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get video with owner: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideosWithOwner(rows)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, nil
	}
	return &videos[0], nil
}

// List executes the video listing pipeline. Filters compose in a fixed order:
// owner match, case-insensitive text match on title or description, sort
// (default created_at descending), owner join flattened to a nullable summary,
// then limit/offset pagination. The result set is read-committed, not a
// snapshot: concurrent writes may or may not appear.
func (r *VideoRepositoryImpl) List(ctx context.Context, q domain.VideoListQuery) (*domain.VideoPage, error) {
	conditions := []string{}
	args := []interface{}{}

	if q.UserID != "" {
		args = append(args, q.UserID)
		conditions = append(conditions, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}

	if q.Query != "" {
		args = append(args, "%"+q.Query+"%")
		conditions = append(conditions, fmt.Sprintf("(v.title ILIKE $%d OR v.description ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "v.created_at DESC"
	if q.SortBy != "" && q.SortType != "" {
		column := sortColumns[q.SortBy]
		direction := "ASC"
		if q.SortType == "desc" {
			direction = "DESC"
		}
		orderBy = column + " " + direction
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM videos v %s`, where)
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		LEFT JOIN users o ON o.id = v.owner_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, videoSelectWithOwner, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.Pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos, err := scanVideosWithOwner(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	return &domain.VideoPage{
		Videos:     videos,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// UpdateDetails updates title/description for the owner's video. The owner
// check is part of the statement, so absence and ownership mismatch are
// indistinguishable to callers.
func (r *VideoRepositoryImpl) UpdateDetails(ctx context.Context, id, ownerID string, req domain.UpdateVideoRequest) (*domain.Video, error) {
	query := `
		UPDATE videos
		SET title       = COALESCE(NULLIF($3, ''), title),
		    description = COALESCE(NULLIF($4, ''), description),
		    updated_at  = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, title, description, video_url, thumbnail_url, duration,
		          views, is_published, owner_id, created_at, updated_at
	`

	video, err := scanVideoRow(r.db.Pool.QueryRow(ctx, query, id, ownerID, req.Title, req.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	return video, nil
}

// UpdateThumbnail replaces the thumbnail for the owner's video
func (r *VideoRepositoryImpl) UpdateThumbnail(ctx context.Context, id, ownerID, url string) (*domain.Video, error) {
	query := `
		UPDATE videos
		SET thumbnail_url = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, title, description, video_url, thumbnail_url, duration,
		          views, is_published, owner_id, created_at, updated_at
	`

	video, err := scanVideoRow(r.db.Pool.QueryRow(ctx, query, id, ownerID, url))
	if err != nil {
		return nil, fmt.Errorf("failed to update thumbnail: %w", err)
	}
	return video, nil
}

// TogglePublish flips the publish flag for the owner's video
func (r *VideoRepositoryImpl) TogglePublish(ctx context.Context, id, ownerID string) (*domain.Video, error) {
	query := `
		UPDATE videos
		SET is_published = NOT is_published, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, title, description, video_url, thumbnail_url, duration,
		          views, is_published, owner_id, created_at, updated_at
	`

	video, err := scanVideoRow(r.db.Pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to toggle publish status: %w", err)
	}
	return video, nil
}

// IncrementViews bumps the view counter
func (r *VideoRepositoryImpl) IncrementViews(ctx context.Context, id string) error {
	if _, err := r.db.Pool.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// Delete removes the owner's video
func (r *VideoRepositoryImpl) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM videos WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete video: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanVideoRow scans a single video row, mapping no-rows to (nil, nil)
func scanVideoRow(row pgx.Row) (*domain.Video, error) {
	var video domain.Video
	var ownerID *string

	err := row.Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&ownerID,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if ownerID != nil {
		video.OwnerID = *ownerID
	}
	return &video, nil
}

// scanVideosWithOwner scans videoSelectWithOwner rows, flattening the joined
// owner to a nullable summary: an empty join yields a null owner, never a
// partial object.
func scanVideosWithOwner(rows pgx.Rows) ([]domain.VideoWithOwner, error) {
	videos := []domain.VideoWithOwner{}

	for rows.Next() {
		var v domain.VideoWithOwner
		var ownerID, ownerUsername, ownerFullName, ownerAvatar *string
		var videoOwnerID *string

		err := rows.Scan(
			&v.ID,
			&v.Title,
			&v.Description,
			&v.VideoURL,
			&v.ThumbnailURL,
			&v.Duration,
			&v.Views,
			&v.IsPublished,
			&videoOwnerID,
			&v.CreatedAt,
			&v.UpdatedAt,
			&ownerID,
			&ownerUsername,
			&ownerFullName,
			&ownerAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}

		if videoOwnerID != nil {
			v.OwnerID = *videoOwnerID
		}
		if ownerID != nil {
			v.Owner = &domain.OwnerSummary{
				ID:        *ownerID,
				Username:  derefOrEmpty(ownerUsername),
				FullName:  derefOrEmpty(ownerFullName),
				AvatarURL: derefOrEmpty(ownerAvatar),
			}
		}

		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read video rows: %w", err)
	}
	return videos, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
