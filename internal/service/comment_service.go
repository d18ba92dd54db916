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

// CommentService implements comment creation and the per-video comment listing
type CommentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
	log      *logger.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository, log *logger.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		videos:   videos,
		log:      log,
	}
}

// ListForVideo returns one page of a video's comments. A video with no
// comments yields an empty page; only a missing video is an error.
func (s *CommentService) ListForVideo(ctx context.Context, videoID string, page, limit int) (*domain.CommentPage, error) {
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}
	if page < 0 || limit < 0 {
		return nil, errors.NewValidationError("Page and limit must be positive", nil)
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get video", err)
	}
	if video == nil {
		return nil, errors.NewNotFoundError("Video not found")
	}

	comments, err := s.comments.ListForVideo(ctx, videoID, page, limit)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to list comments", err)
	}

	return &domain.CommentPage{
		Comments: comments,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Add creates a comment on an existing video
func (s *CommentService) Add(ctx context.Context, videoID, ownerID string, req domain.AddCommentRequest) (*domain.Comment, error) {
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.NewValidationError("Content is required", nil)
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get video", err)
	}
	if video == nil {
		return nil, errors.NewNotFoundError("Video not found")
	}

	comment := &domain.Comment{
		ID:      uuid.NewString(),
		Content: req.Content,
		OwnerID: ownerID,
		VideoID: videoID,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, errors.NewDependencyError("Failed to create comment", err)
	}
	return comment, nil
}
