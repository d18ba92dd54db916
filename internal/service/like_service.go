package service

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	"vidtube/pkg/errors"
	"vidtube/pkg/logger"
)

// toggleAttempts bounds the insert/delete retry when a concurrent toggle
// interleaves between our conflict and our delete
const toggleAttempts = 2

// LikeService implements the like toggles and the liked-videos read model
type LikeService struct {
	likes    repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
	log      *logger.Logger
}

// NewLikeService creates a new like service
func NewLikeService(likes repository.LikeRepository, videos repository.VideoRepository, comments repository.CommentRepository, tweets repository.TweetRepository, log *logger.Logger) *LikeService {
	return &LikeService{
		likes:    likes,
		videos:   videos,
		comments: comments,
		tweets:   tweets,
		log:      log,
	}
}

// ToggleVideoLike toggles the requester's like on a video
func (s *LikeService) ToggleVideoLike(ctx context.Context, videoID, userID string) (*domain.ToggleLikeResult, error) {
	if appErr := ValidateID(videoID, "videoId"); appErr != nil {
		return nil, appErr
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get video", err)
	}
	if video == nil {
		return nil, errors.NewNotFoundError("Video not found")
	}

	return s.toggle(ctx, domain.LikeTargetVideo, videoID, userID)
}

// ToggleCommentLike toggles the requester's like on a comment
func (s *LikeService) ToggleCommentLike(ctx context.Context, commentID, userID string) (*domain.ToggleLikeResult, error) {
	if appErr := ValidateID(commentID, "commentId"); appErr != nil {
		return nil, appErr
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get comment", err)
	}
	if comment == nil {
		return nil, errors.NewNotFoundError("Comment not found")
	}

	return s.toggle(ctx, domain.LikeTargetComment, commentID, userID)
}

// ToggleTweetLike toggles the requester's like on a tweet
func (s *LikeService) ToggleTweetLike(ctx context.Context, tweetID, userID string) (*domain.ToggleLikeResult, error) {
	if appErr := ValidateID(tweetID, "tweetId"); appErr != nil {
		return nil, appErr
	}

	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get tweet", err)
	}
	if tweet == nil {
		return nil, errors.NewNotFoundError("Tweet not found")
	}

	return s.toggle(ctx, domain.LikeTargetTweet, tweetID, userID)
}

// toggle flips the (liker, target) pair between Absent and Present. Both arms
// are single atomic statements against the store: the insert cannot double-
// create thanks to the unique index, and a zero-row delete means a concurrent
// toggle got there first, in which case the attempt is retried once before
// giving up.
func (s *LikeService) toggle(ctx context.Context, target domain.LikeTarget, targetID, userID string) (*domain.ToggleLikeResult, error) {
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		like := &domain.Like{
			ID:      uuid.NewString(),
			LikedBy: userID,
		}
		switch target {
		case domain.LikeTargetVideo:
			like.VideoID = &targetID
		case domain.LikeTargetComment:
			like.CommentID = &targetID
		case domain.LikeTargetTweet:
			like.TweetID = &targetID
		}

		inserted, err := s.likes.Insert(ctx, like)
		if err != nil {
			return nil, errors.NewDependencyError("Failed to toggle like", err)
		}
		if inserted {
			return &domain.ToggleLikeResult{Liked: true, Like: like}, nil
		}

		deleted, err := s.likes.Delete(ctx, target, targetID, userID)
		if err != nil {
			return nil, errors.NewDependencyError("Failed to toggle like", err)
		}
		if deleted {
			return &domain.ToggleLikeResult{Liked: false}, nil
		}

		s.log.WithFields(map[string]interface{}{
			"target":    string(target),
			"target_id": targetID,
		}).Warn("Like toggle raced with a concurrent toggle, retrying")
	}

	return nil, errors.NewDependencyError("Like state changed concurrently", nil)
}

// GetLikedVideos rolls up the requester's liked, published videos into a
// single document
func (s *LikeService) GetLikedVideos(ctx context.Context, userID string) (*domain.LikedVideos, error) {
	videos, err := s.likes.ListLikedVideos(ctx, userID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to list liked videos", err)
	}
	return &domain.LikedVideos{Videos: videos}, nil
}
