package repository

import (
	"context"
	"fmt"

	"vidtube/internal/domain"
	"vidtube/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PlaylistRepositoryImpl struct {
	db *database.PostgresDB
}

func NewPlaylistRepository(db *database.PostgresDB) *PlaylistRepositoryImpl {
	return &PlaylistRepositoryImpl{db: db}
}

// Create creates a new, empty playlist
func (r *PlaylistRepositoryImpl) Create(ctx context.Context, playlist *domain.Playlist) error {
	query := `
		INSERT INTO playlists (id, name, description, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		playlist.ID,
		playlist.Name,
		playlist.Description,
		playlist.OwnerID,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	playlist.Videos = []domain.Video{}
	return nil
}

// GetByID gets a playlist with its videos in insertion order. Duplicate video
// references are preserved.
func (r *PlaylistRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`

	var playlist domain.Playlist
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.Description,
		&playlist.OwnerID,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	videosQuery := `
		SELECT v.id, v.title, v.description, v.video_url, v.thumbnail_url, v.duration,
		       v.views, v.is_published, v.owner_id, v.created_at, v.updated_at
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		WHERE pv.playlist_id = $1
		ORDER BY pv.position ASC
	`

	rows, err := r.db.Pool.Query(ctx, videosQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}
	defer rows.Close()

	playlist.Videos = []domain.Video{}
	for rows.Next() {
		var v domain.Video
		var ownerID *string
		err := rows.Scan(
			&v.ID,
			&v.Title,
			&v.Description,
			&v.VideoURL,
			&v.ThumbnailURL,
			&v.Duration,
			&v.Views,
			&v.IsPublished,
			&ownerID,
			&v.CreatedAt,
			&v.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist video: %w", err)
		}
		if ownerID != nil {
			v.OwnerID = *ownerID
		}
		playlist.Videos = append(playlist.Videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist videos: %w", err)
	}

	return &playlist, nil
}

// ListForUser returns playlist summaries for an owner. The thumbnail is that
// of the most recently created video in the playlist, null when the playlist
// is empty. An owner with no playlists yields an empty slice, not an error.
func (r *PlaylistRepositoryImpl) ListForUser(ctx context.Context, userID string) ([]domain.PlaylistSummary, error) {
	query := `
		SELECT p.id, p.name, p.description,
		       (
		           SELECT v.thumbnail_url
		           FROM playlist_videos pv
		           JOIN videos v ON v.id = pv.video_id
		           WHERE pv.playlist_id = p.id
		           ORDER BY v.created_at DESC
		           LIMIT 1
		       ) AS playlist_thumbnail
		FROM playlists p
		WHERE p.owner_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	summaries := []domain.PlaylistSummary{}
	for rows.Next() {
		var s domain.PlaylistSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Thumbnail); err != nil {
			return nil, fmt.Errorf("failed to scan playlist summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist summaries: %w", err)
	}

	return summaries, nil
}

// AddVideo appends a video reference to the playlist. Duplicates are allowed;
// position is monotonically assigned.
func (r *PlaylistRepositoryImpl) AddVideo(ctx context.Context, playlistID, videoID string) error {
	query := `INSERT INTO playlist_videos (playlist_id, video_id) VALUES ($1, $2)`

	if _, err := r.db.Pool.Exec(ctx, query, playlistID, videoID); err != nil {
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}
	return nil
}

// RemoveVideo removes all references to a video from the playlist
func (r *PlaylistRepositoryImpl) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	query := `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`

	if _, err := r.db.Pool.Exec(ctx, query, playlistID, videoID); err != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}
	return nil
}

// Update renames/re-describes the owner's playlist
func (r *PlaylistRepositoryImpl) Update(ctx context.Context, id, ownerID string, req domain.UpdatePlaylistRequest) (*domain.Playlist, error) {
	query := `
		UPDATE playlists
		SET name = $3, description = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, name, description, owner_id, created_at, updated_at
	`

	var playlist domain.Playlist
	err := r.db.Pool.QueryRow(ctx, query, id, ownerID, req.Name, req.Description).Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.Description,
		&playlist.OwnerID,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	playlist.Videos = []domain.Video{}
	return &playlist, nil
}

// Delete removes the owner's playlist and its video references
func (r *PlaylistRepositoryImpl) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete playlist: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
