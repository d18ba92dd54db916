package domain

import "time"

// User represents a registered account. PasswordHash and RefreshToken never
// leave the service layer.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage"`
	PasswordHash  string    `json:"-"`
	RefreshToken  *string   `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// OwnerSummary is the public projection of a user embedded in read models.
// Never carries credential fields.
type OwnerSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatar"`
}

// ChannelProfile is the denormalized channel view for a username lookup
type ChannelProfile struct {
	ID                   string `json:"id"`
	Username             string `json:"username"`
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	AvatarURL            string `json:"avatar"`
	CoverImageURL        string `json:"coverImage"`
	SubscriberCount      int64  `json:"subscriberCount"`
	ChannelsSubscribedTo int64  `json:"channelsSubscribedToCount"`
	IsSubscribed         bool   `json:"isSubscribed"`
}

// RegisterRequest carries the fields of a registration call
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// LoginRequest carries a login call; exactly one of Username/Email is required
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthClaims is the validated identity attached to a request
type AuthClaims struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
}

// UpdateAccountRequest carries a profile details update
type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// ChangePasswordRequest carries a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
