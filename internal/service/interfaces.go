package service

import (
	"context"
	"io"

	"vidtube/internal/domain"
)

// AuthService defines the interface for credential and session operations
type AuthService interface {
	// HashPassword derives a credential hash from a plaintext password
	HashPassword(password string) (string, error)

	// VerifyPassword reports whether the password matches the stored hash
	VerifyPassword(hash, password string) bool

	// IssueTokenPair issues a fresh access/refresh token pair for the user
	IssueTokenPair(user *domain.User) (*domain.TokenPair, error)

	// ValidateAccessToken validates an access token and returns its claims
	ValidateAccessToken(token string) (*domain.AuthClaims, error)

	// ValidateRefreshToken validates a refresh token and returns the user ID
	// it was issued to
	ValidateRefreshToken(token string) (string, error)
}

// ObjectStorage defines the interface for media uploads. Implementations
// return a publicly resolvable URL for the stored object.
type ObjectStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Services aggregates the application services
type Services struct {
	Auth         AuthService
	User         *UserService
	Video        *VideoService
	Playlist     *PlaylistService
	Comment      *CommentService
	Like         *LikeService
	Subscription *SubscriptionService
	Tweet        *TweetService
}
