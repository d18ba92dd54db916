package domain

import "time"

// LikeTarget identifies which kind of document a like points at
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like is a toggle record: its existence means "liked". Exactly one of
// VideoID, CommentID, TweetID is set.
type Like struct {
	ID        string    `json:"id"`
	VideoID   *string   `json:"videoId,omitempty"`
	CommentID *string   `json:"commentId,omitempty"`
	TweetID   *string   `json:"tweetId,omitempty"`
	LikedBy   string    `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToggleLikeResult reports the state after a toggle. Like is set only when
// the toggle created a record.
type ToggleLikeResult struct {
	Liked bool  `json:"liked"`
	Like  *Like `json:"like,omitempty"`
}

// LikedVideos is the single-document roll-up of a user's liked, published
// videos
type LikedVideos struct {
	Videos []VideoWithOwner `json:"videos"`
}
