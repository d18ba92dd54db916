package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	"vidtube/pkg/errors"
	"vidtube/pkg/logger"
)

// PlaylistService implements playlist CRUD and the playlist listing read model
type PlaylistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	users     repository.UserRepository
	log       *logger.Logger
}

// NewPlaylistService creates a new playlist service
func NewPlaylistService(playlists repository.PlaylistRepository, videos repository.VideoRepository, users repository.UserRepository, log *logger.Logger) *PlaylistService {
	return &PlaylistService{
		playlists: playlists,
		videos:    videos,
		users:     users,
		log:       log,
	}
}

// Create creates an empty playlist owned by the requester
func (s *PlaylistService) Create(ctx context.Context, ownerID string, req domain.CreatePlaylistRequest) (*domain.Playlist, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, errors.NewValidationError("Name and description are required", nil)
	}

	playlist := &domain.Playlist{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}

	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, errors.NewDependencyError("Failed to create playlist", err)
	}
	return playlist, nil
}

// GetByID fetches one playlist with its videos
func (s *PlaylistService) GetByID(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	if appErr := ValidateID(playlistID, "playlistId"); appErr != nil {
		return nil, appErr
	}

	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get playlist", err)
	}
	if playlist == nil {
		return nil, errors.NewNotFoundError("Playlist not found")
	}
	return playlist, nil
}

// ListForUser returns the user's playlist summaries. A user with no playlists
// gets an empty list, not an error.
func (s *PlaylistService) ListForUser(ctx context.Context, userID string) ([]domain.PlaylistSummary, error) {
	if appErr := ValidateID(userID, "userId"); appErr != nil {
		return nil, appErr
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to look up user", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}

	summaries, err := s.playlists.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to list playlists", err)
	}
	return summaries, nil
}

// AddVideo appends a published video to the requester's playlist. Duplicates
// are allowed.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, requesterID string) (*domain.Playlist, error) {
	if appErr := ValidateID(playlistID, "playlistId"); appErr != nil {
		return nil, appErr
	}
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}

	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get playlist", err)
	}
	if playlist == nil || playlist.OwnerID != requesterID {
		return nil, errors.NewNotFoundError("Playlist not found")
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get video", err)
	}
	if video == nil || !video.IsPublished {
		return nil, errors.NewNotFoundError("Video not found")
	}

	if err := s.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		return nil, errors.NewDependencyError("Failed to add video to playlist", err)
	}

	return s.GetByID(ctx, playlistID)
}

// RemoveVideo removes a video from the requester's playlist
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, requesterID string) (*domain.Playlist, error) {
	if appErr := ValidateID(playlistID, "playlistId"); appErr != nil {
		return nil, appErr
	}
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}

	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get playlist", err)
	}
	if playlist == nil || playlist.OwnerID != requesterID {
		return nil, errors.NewNotFoundError("Playlist not found")
	}

	if err := s.playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, errors.NewDependencyError("Failed to remove video from playlist", err)
	}

	return s.GetByID(ctx, playlistID)
}

// Update renames/re-describes the requester's playlist
func (s *PlaylistService) Update(ctx context.Context, playlistID, requesterID string, req domain.UpdatePlaylistRequest) (*domain.Playlist, error) {
	if appErr := ValidateID(playlistID, "playlistId"); appErr != nil {
		return nil, appErr
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, errors.NewValidationError("Name and description are required", nil)
	}

	playlist, err := s.playlists.Update(ctx, playlistID, requesterID, req)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to update playlist", err)
	}
	if playlist == nil {
		return nil, errors.NewNotFoundError("Playlist not found")
	}
	return playlist, nil
}

// Delete removes the requester's playlist
func (s *PlaylistService) Delete(ctx context.Context, playlistID, requesterID string) error {
	if appErr := ValidateID(playlistID, "playlistId"); appErr != nil {
		return appErr
	}

	deleted, err := s.playlists.Delete(ctx, playlistID, requesterID)
	if err != nil {
		return errors.NewDependencyError("Failed to delete playlist", err)
	}
	if !deleted {
		return errors.NewNotFoundError("Playlist not found")
	}
	return nil
}
