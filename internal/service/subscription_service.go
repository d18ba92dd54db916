package service

import (
	"context"

	"github.com/google/uuid"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
	"vidtube/pkg/errors"
	"vidtube/pkg/logger"
)

// SubscriptionService implements the subscribe toggle and subscription read
// models. The cache is optional; without Redis every read hits the store.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
	cache         *CacheService
	log           *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subscriptions repository.SubscriptionRepository, users repository.UserRepository, cache *CacheService, log *logger.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		users:         users,
		cache:         cache,
		log:           log,
	}
}

// Toggle flips the (subscriber, channel) pair between Absent and Present.
// Same discipline as the like toggle: both arms are single atomic statements,
// with one retry when a concurrent toggle interleaves.
func (s *SubscriptionService) Toggle(ctx context.Context, channelID, subscriberID string) (*domain.ToggleSubscriptionResult, error) {
	if appErr := ValidateID(channelID, "channelId"); appErr != nil {
		return nil, appErr
	}

	channel, err := s.users.GetByID(ctx, channelID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to look up channel", err)
	}
	if channel == nil {
		return nil, errors.NewNotFoundError("Channel not found")
	}

	var result *domain.ToggleSubscriptionResult
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		sub := &domain.Subscription{
			ID:           uuid.NewString(),
			SubscriberID: subscriberID,
			ChannelID:    channelID,
		}

		inserted, err := s.subscriptions.Insert(ctx, sub)
		if err != nil {
			return nil, errors.NewDependencyError("Failed to toggle subscription", err)
		}
		if inserted {
			result = &domain.ToggleSubscriptionResult{Subscribed: true}
			break
		}

		deleted, err := s.subscriptions.Delete(ctx, subscriberID, channelID)
		if err != nil {
			return nil, errors.NewDependencyError("Failed to toggle subscription", err)
		}
		if deleted {
			result = &domain.ToggleSubscriptionResult{Subscribed: false}
			break
		}

		s.log.WithField("channel_id", channelID).Warn("Subscription toggle raced with a concurrent toggle, retrying")
	}
	if result == nil {
		return nil, errors.NewDependencyError("Subscription state changed concurrently", nil)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateChannelStats(ctx, channelID); err != nil {
			s.log.WithError(err).Warn("Failed to invalidate channel stats cache")
		}
	}

	return result, nil
}

// GetChannelStats returns a channel's subscription counters, cached when
// Redis is available
func (s *SubscriptionService) GetChannelStats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	if appErr := ValidateID(channelID, "channelId"); appErr != nil {
		return nil, appErr
	}

	channel, err := s.users.GetByID(ctx, channelID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to look up channel", err)
	}
	if channel == nil {
		return nil, errors.NewNotFoundError("Channel not found")
	}

	loader := func(ctx context.Context) (*domain.ChannelStats, error) {
		subscribers, err := s.subscriptions.CountSubscribers(ctx, channelID)
		if err != nil {
			return nil, errors.NewDependencyError("Failed to count subscribers", err)
		}
		subscribedTo, err := s.subscriptions.ListSubscribedChannels(ctx, channelID)
		if err != nil {
			return nil, errors.NewDependencyError("Failed to list subscribed channels", err)
		}
		return &domain.ChannelStats{
			SubscriberCount:      subscribers,
			ChannelsSubscribedTo: int64(len(subscribedTo)),
		}, nil
	}

	if s.cache != nil {
		return s.cache.GetChannelStatsWithCache(ctx, channelID, loader)
	}
	return loader(ctx)
}

// ListSubscribedChannels returns summaries of the channels the user follows.
// No subscriptions is an empty list, not an error.
func (s *SubscriptionService) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]domain.OwnerSummary, error) {
	if appErr := ValidateID(subscriberID, "subscriberId"); appErr != nil {
		return nil, appErr
	}

	channels, err := s.subscriptions.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to list subscribed channels", err)
	}
	return channels, nil
}
