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

// UserService implements registration, sessions, profile mutation and the
// user-centric read models (channel profile, watch history)
type UserService struct {
	users   repository.UserRepository
	auth    AuthService
	storage ObjectStorage
	log     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, auth AuthService, storage ObjectStorage, log *logger.Logger) *UserService {
	return &UserService{
		users:   users,
		auth:    auth,
		storage: storage,
		log:     log,
	}
}

// Register creates a new account. The avatar is required, the cover image
// optional; both are pushed to object storage before the user row is written.
// Usernames are case-folded to lowercase for storage consistency.
func (s *UserService) Register(ctx context.Context, req domain.RegisterRequest, avatar io.Reader, cover io.Reader) (*domain.User, error) {
	for field, value := range map[string]string{
		"username": req.Username,
		"email":    req.Email,
		"fullName": req.FullName,
		"password": req.Password,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, errors.NewValidationError("All fields are required", map[string]interface{}{
				"field": field,
			})
		}
	}
	if avatar == nil {
		return nil, errors.NewValidationError("Avatar file is required", map[string]interface{}{
			"field": "avatar",
		})
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	existing, err := s.users.GetByUsernameOrEmail(ctx, username, req.Email)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("User with email or username already exists")
	}

	passwordHash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewInternalError("Failed to hash password", err)
	}

	userID := uuid.NewString()

	avatarURL, err := s.storage.Save(ctx, fmt.Sprintf("avatars/%s", userID), avatar)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to upload avatar", err)
	}

	coverURL := ""
	if cover != nil {
		coverURL, err = s.storage.Save(ctx, fmt.Sprintf("covers/%s", userID), cover)
		if err != nil {
			return nil, errors.NewDependencyError("Failed to upload cover image", err)
		}
	}

	user := &domain.User{
		ID:            userID,
		Username:      username,
		Email:         req.Email,
		FullName:      req.FullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		PasswordHash:  passwordHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.NewConflictError("User with email or username already exists")
		}
		return nil, errors.NewDependencyError("Failed to create user", err)
	}

	s.log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues a token pair; the refresh token is
// persisted on the user so it can be matched on refresh and cleared on logout
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, *domain.TokenPair, error) {
	if req.Username == "" && req.Email == "" {
		return nil, nil, errors.NewValidationError("Username or email is required", nil)
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, strings.ToLower(req.Username), req.Email)
	if err != nil {
		return nil, nil, errors.NewDependencyError("Failed to look up user", err)
	}
	if user == nil {
		return nil, nil, errors.NewNotFoundError("User does not exist")
	}

	if !s.auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, nil, errors.NewAuthenticationError("Invalid user credentials")
	}

	tokens, err := s.auth.IssueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &tokens.RefreshToken); err != nil {
		return nil, nil, errors.NewDependencyError("Failed to store refresh token", err)
	}

	s.log.WithField("user_id", user.ID).Info("User logged in")
	return user, tokens, nil
}

// Logout clears the stored refresh token, invalidating the session
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		return errors.NewDependencyError("Failed to clear refresh token", err)
	}
	return nil
}

// RefreshTokens rotates the token pair. The incoming token must both verify
// and match the token stored on the user.
func (s *UserService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, errors.NewAuthenticationError("Refresh token is required")
	}

	userID, err := s.auth.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to look up user", err)
	}
	if user == nil || user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, errors.NewAuthenticationError("Invalid refresh token")
	}

	tokens, err := s.auth.IssueTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &tokens.RefreshToken); err != nil {
		return nil, errors.NewDependencyError("Failed to store refresh token", err)
	}

	return tokens, nil
}

// ChangePassword verifies the old password and stores a hash of the new one
func (s *UserService) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	if req.NewPassword == "" {
		return errors.NewValidationError("New password is required", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.NewDependencyError("Failed to look up user", err)
	}
	if user == nil {
		return errors.NewNotFoundError("User not found")
	}

	if !s.auth.VerifyPassword(user.PasswordHash, req.OldPassword) {
		return errors.NewValidationError("Invalid password", nil)
	}

	hash, err := s.auth.HashPassword(req.NewPassword)
	if err != nil {
		return errors.NewInternalError("Failed to hash password", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return errors.NewDependencyError("Failed to update password", err)
	}
	return nil
}

// GetCurrentUser returns the authenticated user's own record
func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to look up user", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	return user, nil
}

// UpdateAccount updates the caller's display name and email
func (s *UserService) UpdateAccount(ctx context.Context, userID string, req domain.UpdateAccountRequest) (*domain.User, error) {
	if req.FullName == "" || req.Email == "" {
		return nil, errors.NewValidationError("Full name and email are required", nil)
	}

	user, err := s.users.UpdateAccount(ctx, userID, req.FullName, req.Email)
	if err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.NewConflictError("Email already in use")
		}
		return nil, errors.NewDependencyError("Failed to update account", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	return user, nil
}

// UpdateAvatar uploads a new avatar and stores its reference
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, avatar io.Reader) (*domain.User, error) {
	if avatar == nil {
		return nil, errors.NewValidationError("Avatar file is required", map[string]interface{}{
			"field": "avatar",
		})
	}

	url, err := s.storage.Save(ctx, fmt.Sprintf("avatars/%s", userID), avatar)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to upload avatar", err)
	}

	user, err := s.users.UpdateAvatar(ctx, userID, url)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to update avatar", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	return user, nil
}

// UpdateCoverImage uploads a new cover image and stores its reference
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, cover io.Reader) (*domain.User, error) {
	if cover == nil {
		return nil, errors.NewValidationError("Cover image file is required", map[string]interface{}{
			"field": "coverImage",
		})
	}

	url, err := s.storage.Save(ctx, fmt.Sprintf("covers/%s", userID), cover)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to upload cover image", err)
	}

	user, err := s.users.UpdateCoverImage(ctx, userID, url)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to update cover image", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	return user, nil
}

// GetChannelProfile assembles the channel read model for a username. viewerID
// may be empty for anonymous viewers.
func (s *UserService) GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errors.NewValidationError("Username is required", nil)
	}

	profile, err := s.users.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get channel profile", err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("Channel does not exist")
	}
	return profile, nil
}

// GetWatchHistory returns the caller's watched videos, most recent first.
// No history is an empty list, not an error.
func (s *UserService) GetWatchHistory(ctx context.Context, userID string) ([]domain.VideoWithOwner, error) {
	history, err := s.users.GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, errors.NewDependencyError("Failed to get watch history", err)
	}
	return history, nil
}
