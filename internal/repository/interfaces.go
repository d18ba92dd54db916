package repository

import (
	"context"

	"vidtube/internal/domain"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsernameOrEmail retrieves a user matching either field
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)

	// UpdateAccount updates full name and email, returning the updated user
	UpdateAccount(ctx context.Context, id string, fullName, email string) (*domain.User, error)

	// UpdateAvatar replaces the avatar reference
	UpdateAvatar(ctx context.Context, id, url string) (*domain.User, error)

	// UpdateCoverImage replaces the cover image reference
	UpdateCoverImage(ctx context.Context, id, url string) (*domain.User, error)

	// UpdatePassword replaces the credential hash
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetRefreshToken stores or clears (nil) the session refresh token
	SetRefreshToken(ctx context.Context, id string, token *string) error

	// GetChannelProfile assembles the channel read model for a username.
	// viewerID may be empty for anonymous viewers.
	GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)

	// GetWatchHistory returns the viewer's watched videos, most recent first,
	// each joined to its owner summary
	GetWatchHistory(ctx context.Context, userID string) ([]domain.VideoWithOwner, error)

	// RecordWatch upserts a watch-history entry with a fresh timestamp
	RecordWatch(ctx context.Context, userID, videoID string) error
}

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	// Create creates a new video
	Create(ctx context.Context, video *domain.Video) error

	// GetByID retrieves a video by ID
	GetByID(ctx context.Context, id string) (*domain.Video, error)

	// GetWithOwner retrieves a video joined to its owner summary
	GetWithOwner(ctx context.Context, id string) (*domain.VideoWithOwner, error)

	// List executes the video listing pipeline: owner filter, text filter,
	// sort, owner join, pagination
	List(ctx context.Context, q domain.VideoListQuery) (*domain.VideoPage, error)

	// UpdateDetails updates title/description when the video belongs to
	// ownerID; returns nil when no row matched
	UpdateDetails(ctx context.Context, id, ownerID string, req domain.UpdateVideoRequest) (*domain.Video, error)

	// UpdateThumbnail replaces the thumbnail when the video belongs to ownerID
	UpdateThumbnail(ctx context.Context, id, ownerID, url string) (*domain.Video, error)

	// TogglePublish flips the publish flag when the video belongs to ownerID
	TogglePublish(ctx context.Context, id, ownerID string) (*domain.Video, error)

	// IncrementViews bumps the view counter of a video
	IncrementViews(ctx context.Context, id string) error

	// Delete removes the video when it belongs to ownerID; reports whether a
	// row was removed
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// PlaylistRepository defines the interface for playlist data operations
type PlaylistRepository interface {
	// Create creates a new, empty playlist
	Create(ctx context.Context, playlist *domain.Playlist) error

	// GetByID retrieves a playlist with its videos in insertion order
	GetByID(ctx context.Context, id string) (*domain.Playlist, error)

	// ListForUser returns playlist summaries with derived thumbnails
	ListForUser(ctx context.Context, userID string) ([]domain.PlaylistSummary, error)

	// AddVideo appends a video reference; duplicates are allowed
	AddVideo(ctx context.Context, playlistID, videoID string) error

	// RemoveVideo removes all references to a video from the playlist
	RemoveVideo(ctx context.Context, playlistID, videoID string) error

	// Update renames/re-describes the playlist when it belongs to ownerID
	Update(ctx context.Context, id, ownerID string, req domain.UpdatePlaylistRequest) (*domain.Playlist, error)

	// Delete removes the playlist when it belongs to ownerID
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by ID
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListForVideo returns one page of a video's comments with owner summaries
	ListForVideo(ctx context.Context, videoID string, page, limit int) ([]domain.CommentWithOwner, error)
}

// LikeRepository defines the interface for like toggle records
type LikeRepository interface {
	// Insert atomically creates the like unless one already exists for the
	// same (liker, target) pair; reports whether a row was created
	Insert(ctx context.Context, like *domain.Like) (bool, error)

	// Delete removes the like for the (liker, target) pair; reports whether a
	// row was removed
	Delete(ctx context.Context, target domain.LikeTarget, targetID, userID string) (bool, error)

	// ListLikedVideos returns the user's liked videos, unpublished ones
	// excluded, each joined to its owner summary
	ListLikedVideos(ctx context.Context, userID string) ([]domain.VideoWithOwner, error)
}

// SubscriptionRepository defines the interface for subscription toggle records
type SubscriptionRepository interface {
	// Insert atomically creates the subscription unless one already exists;
	// reports whether a row was created
	Insert(ctx context.Context, sub *domain.Subscription) (bool, error)

	// Delete removes the subscription; reports whether a row was removed
	Delete(ctx context.Context, subscriberID, channelID string) (bool, error)

	// CountSubscribers returns the number of subscribers of a channel
	CountSubscribers(ctx context.Context, channelID string) (int64, error)

	// ListSubscribedChannels returns summaries of the channels a user follows
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]domain.OwnerSummary, error)
}

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	// Create creates a new tweet
	Create(ctx context.Context, tweet *domain.Tweet) error

	// GetByID retrieves a tweet by ID
	GetByID(ctx context.Context, id string) (*domain.Tweet, error)

	// ListForUser returns a user's tweets, newest first, with owner summaries
	ListForUser(ctx context.Context, userID string) ([]domain.TweetWithOwner, error)

	// Update replaces the content when the tweet belongs to ownerID
	Update(ctx context.Context, id, ownerID, content string) (*domain.Tweet, error)

	// Delete removes the tweet when it belongs to ownerID
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	User         UserRepository
	Video        VideoRepository
	Playlist     PlaylistRepository
	Comment      CommentRepository
	Like         LikeRepository
	Subscription SubscriptionRepository
	Tweet        TweetRepository
}
