package domain

import "time"

// Video represents a published or draft video document
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	OwnerID      string    `json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VideoWithOwner is a video joined to its owner's public summary.
// Owner is null when the owning user no longer exists.
type VideoWithOwner struct {
	Video
	Owner *OwnerSummary `json:"owner"`
}

// VideoListQuery holds the parameters of the video listing endpoint
type VideoListQuery struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

// VideoPage is one page of the video listing read model
type VideoPage struct {
	Videos     []VideoWithOwner `json:"videos"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// PublishVideoRequest carries the metadata of a video publish call; the media
// itself arrives as multipart files
type PublishVideoRequest struct {
	Title       string
	Description string
	Duration    float64
}

// UpdateVideoRequest carries a video metadata update; empty fields are left
// unchanged
type UpdateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
