package domain

import "time"

// Comment represents a comment on a video
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"ownerId"`
	VideoID   string    `json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentWithOwner is a comment joined to its author's public summary
type CommentWithOwner struct {
	Comment
	Owner *OwnerSummary `json:"owner"`
}

// CommentPage is one page of a video's comment listing
type CommentPage struct {
	Comments []CommentWithOwner `json:"comments"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

// AddCommentRequest carries a comment creation call
type AddCommentRequest struct {
	Content string `json:"content"`
}
