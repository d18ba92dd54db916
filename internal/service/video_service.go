package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	"vidtube/pkg/errors"
	"vidtube/pkg/logger"
)

// VideoService implements the video listing read model and the
// ownership-gated video mutations
type VideoService struct {
	videos  repository.VideoRepository
	users   repository.UserRepository
	storage ObjectStorage
	log     *logger.Logger
}

// NewVideoService creates a new video service
func NewVideoService(videos repository.VideoRepository, users repository.UserRepository, storage ObjectStorage, log *logger.Logger) *VideoService {
	return &VideoService{
		videos:  videos,
		users:   users,
		storage: storage,
		log:     log,
	}
}

// List runs the video listing pipeline. Parameters are validated here, before
// any store call: the owner filter id must be well formed and resolve to an
// existing user, the sort field must be whitelisted, and page/limit must be
// positive.
func (s *VideoService) List(ctx context.Context, q domain.VideoListQuery) (*domain.VideoPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Page < 0 || q.Limit < 0 {
		return nil, errors.NewValidationError("Page and limit must be positive", nil)
	}

	if q.UserID != "" {
		if appErr := ValidateID(q.UserID, "userId"); appErr != nil {
			return nil, appErr
		}
		user, err := s.users.GetByID(ctx, q.UserID)
		if err != nil {
			return nil, errors.NewDependencyError("Failed to look up user", err)
		}
		if user == nil {
			return nil, errors.NewNotFoundError("No user with this id")
		}
	}

	if q.SortBy != "" && q.SortType != "" && !repository.ValidSortField(q.SortBy) {
		return nil, errors.NewValidationError("Unknown sort field", map[string]interface{}{
			"field": "sortBy",
		})
	}

	page, err := s.videos.List(ctx, q)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to list videos", err)
	}
	return page, nil
}

// GetByID fetches one video with its owner summary. Unpublished videos are
// visible only to their owner. An authenticated view is recorded into the
// viewer's watch history and bumps the view counter.
func (s *VideoService) GetByID(ctx context.Context, videoID, viewerID string) (*domain.VideoWithOwner, error) {
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}

	video, err := s.videos.GetWithOwner(ctx, videoID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get video", err)
	}
	if video == nil {
		return nil, errors.NewNotFoundError("Video not found")
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, errors.NewNotFoundError("Video not found")
	}

	if viewerID != "" {
		if err := s.users.RecordWatch(ctx, viewerID, videoID); err != nil {
			return nil, errors.NewDependencyError("Failed to record watch history", err)
		}
		if err := s.videos.IncrementViews(ctx, videoID); err != nil {
			return nil, errors.NewDependencyError("Failed to count view", err)
		}
	}

	return video, nil
}

// Publish uploads the media and thumbnail, then creates the video record,
// published immediately
func (s *VideoService) Publish(ctx context.Context, ownerID string, req domain.PublishVideoRequest, media, thumbnail io.Reader) (*domain.Video, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, errors.NewValidationError("Title and description are required", nil)
	}
	if media == nil || thumbnail == nil {
		return nil, errors.NewValidationError("Video and thumbnail files are required", nil)
	}

	videoID := uuid.NewString()

	videoURL, err := s.storage.Save(ctx, fmt.Sprintf("videos/%s", videoID), media)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to upload video", err)
	}

	thumbnailURL, err := s.storage.Save(ctx, fmt.Sprintf("thumbnails/%s", videoID), thumbnail)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to upload thumbnail", err)
	}

	video := &domain.Video{
		ID:           videoID,
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     req.Duration,
		IsPublished:  true,
		OwnerID:      ownerID,
	}

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, errors.NewDependencyError("Failed to create video", err)
	}

	s.log.WithFields(map[string]interface{}{
		"video_id": video.ID,
		"owner_id": ownerID,
	}).Info("Video published")
	return video, nil
}

// Update changes title/description. Absence and ownership mismatch both
// surface as not found so existence is not leaked.
func (s *VideoService) Update(ctx context.Context, videoID, requesterID string, req domain.UpdateVideoRequest) (*domain.Video, error) {
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}
	if req.Title == "" && req.Description == "" {
		return nil, errors.NewValidationError("Nothing to update", nil)
	}

	video, err := s.videos.UpdateDetails(ctx, videoID, requesterID, req)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to update video", err)
	}
	if video == nil {
		return nil, errors.NewNotFoundError("Video not found")
	}
	return video, nil
}

// UpdateThumbnail uploads a replacement thumbnail for the requester's video
func (s *VideoService) UpdateThumbnail(ctx context.Context, videoID, requesterID string, thumbnail io.Reader) (*domain.Video, error) {
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}
	if thumbnail == nil {
		return nil, errors.NewValidationError("Thumbnail file is required", nil)
	}

	url, err := s.storage.Save(ctx, fmt.Sprintf("thumbnails/%s", videoID), thumbnail)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to upload thumbnail", err)
	}

	video, err := s.videos.UpdateThumbnail(ctx, videoID, requesterID, url)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to update thumbnail", err)
	}
	if video == nil {
		return nil, errors.NewNotFoundError("Video not found")
	}
	return video, nil
}

// TogglePublish flips the publish flag of the requester's video
func (s *VideoService) TogglePublish(ctx context.Context, videoID, requesterID string) (*domain.Video, error) {
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}

	video, err := s.videos.TogglePublish(ctx, videoID, requesterID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to toggle publish status", err)
	}
	if video == nil {
		return nil, errors.NewNotFoundError("Video not found")
	}
	return video, nil
}

// Delete removes the requester's video
func (s *VideoService) Delete(ctx context.Context, videoID, requesterID string) error {
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return appErr
	}

	deleted, err := s.videos.Delete(ctx, videoID, requesterID)
	if err != nil {
		return errors.NewDependencyError("Failed to delete video", err)
	}
	if !deleted {
		return errors.NewNotFoundError("Video not found")
	}
	return nil
}
