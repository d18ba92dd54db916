package domain

import "time"

// Tweet is a short text post owned by a user
type Tweet struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TweetWithOwner is a tweet joined to its author's public summary
type TweetWithOwner struct {
	Tweet
	Owner *OwnerSummary `json:"owner"`
}

// CreateTweetRequest carries a tweet creation call
type CreateTweetRequest struct {
	Content string `json:"content"`
}

// UpdateTweetRequest carries a tweet content update
type UpdateTweetRequest struct {
	Content string `json:"content"`
}
