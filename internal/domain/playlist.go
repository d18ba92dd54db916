package domain

import "time"

// Playlist represents an ordered set of video references. Duplicates are
// allowed; ordering is insertion order.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	Videos      []Video   `json:"videos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistSummary is the listing read model: one row per playlist with a
// thumbnail derived from its most recently created video. Thumbnail is null
// for an empty playlist.
type PlaylistSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Thumbnail   *string `json:"playlistThumbnail"`
}

// CreatePlaylistRequest carries a playlist creation call
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdatePlaylistRequest carries a playlist rename/re-describe call
type UpdatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
