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

// TweetService implements tweet CRUD with ownership-gated mutation
type TweetService struct {
	tweets repository.TweetRepository
	users  repository.UserRepository
	log    *logger.Logger
}

// NewTweetService creates a new tweet service
func NewTweetService(tweets repository.TweetRepository, users repository.UserRepository, log *logger.Logger) *TweetService {
	return &TweetService{
		tweets: tweets,
		users:  users,
		log:    log,
	}
}

// Create creates a tweet owned by the requester
func (s *TweetService) Create(ctx context.Context, ownerID string, req domain.CreateTweetRequest) (*domain.Tweet, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.NewValidationError("Content is required", nil)
	}

	tweet := &domain.Tweet{
		ID:      uuid.NewString(),
		Content: req.Content,
		OwnerID: ownerID,
	}

	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, errors.NewDependencyError("Failed to create tweet", err)
	}
	return tweet, nil
}

// ListForUser returns a user's tweets, newest first. No tweets is an empty
// list, not an error.
func (s *TweetService) ListForUser(ctx context.Context, userID string) ([]domain.TweetWithOwner, error) {
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

	tweets, err := s.tweets.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to list tweets", err)
	}
	return tweets, nil
}

// Update replaces the content of the requester's tweet. Absence and ownership
// mismatch both surface as not found.
func (s *TweetService) Update(ctx context.Context, tweetID, requesterID string, req domain.UpdateTweetRequest) (*domain.Tweet, error) {
	if appErr := ValidateID(tweetID, "tweetId"); appErr != nil {
		return nil, appErr
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.NewValidationError("Content is required", nil)
	}

	tweet, err := s.tweets.Update(ctx, tweetID, requesterID, req.Content)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to update tweet", err)
	}
	if tweet == nil {
		return nil, errors.NewNotFoundError("Tweet not found")
	}
	return tweet, nil
}

// Delete removes the requester's tweet
func (s *TweetService) Delete(ctx context.Context, tweetID, requesterID string) error {
	if appErr := ValidateID(tweetID, "tweetId"); appErr != nil {
		return appErr
	}

	deleted, err := s.tweets.Delete(ctx, tweetID, requesterID)
	if err != nil {
		return errors.NewDependencyError("Failed to delete tweet", err)
	}
	if !deleted {
		return errors.NewNotFoundError("Tweet not found")
	}
	return nil
}
