package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"vidtube/internal/domain"
)

// In-memory repository fakes used by the service tests. They mirror the
// store-level guarantees the SQL layer provides: conditional mutations report
// whether a row matched, and toggle inserts refuse duplicates.

type fakeStorage struct {
	saves []string
	err   error
}

func (f *fakeStorage) Save(_ context.Context, name string, _ io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saves = append(f.saves, name)
	return "https://cdn.test/" + name, nil
}

type fakeUserRepo struct {
	users   map[string]*domain.User
	watched []string // video IDs in watch order, most recent last
	history map[string][]domain.VideoWithOwner
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*domain.User),
		history: make(map[string][]domain.VideoWithOwner),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("duplicate user")
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, u := range f.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateAccount(_ context.Context, id, fullName, email string) (*domain.User, error) {
	u := f.users[id]
	if u == nil {
		return nil, nil
	}
	u.FullName = fullName
	u.Email = email
	return u, nil
}

func (f *fakeUserRepo) UpdateAvatar(_ context.Context, id, url string) (*domain.User, error) {
	u := f.users[id]
	if u == nil {
		return nil, nil
	}
	u.AvatarURL = url
	return u, nil
}

func (f *fakeUserRepo) UpdateCoverImage(_ context.Context, id, url string) (*domain.User, error) {
	u := f.users[id]
	if u == nil {
		return nil, nil
	}
	u.CoverImageURL = url
	return u, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	if u := f.users[id]; u != nil {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserRepo) SetRefreshToken(_ context.Context, id string, token *string) error {
	if u := f.users[id]; u != nil {
		u.RefreshToken = token
	}
	return nil
}

func (f *fakeUserRepo) GetChannelProfile(_ context.Context, username, _ string) (*domain.ChannelProfile, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &domain.ChannelProfile{
				ID:       u.ID,
				Username: u.Username,
				FullName: u.FullName,
			}, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetWatchHistory(_ context.Context, userID string) ([]domain.VideoWithOwner, error) {
	return f.history[userID], nil
}

func (f *fakeUserRepo) RecordWatch(_ context.Context, userID, videoID string) error {
	f.watched = append(f.watched, videoID)
	return nil
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.users[u.ID] = u
	return u
}

type fakeVideoRepo struct {
	videos map[string]*domain.Video
	views  map[string]int64
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{
		videos: make(map[string]*domain.Video),
		views:  make(map[string]int64),
	}
}

func (f *fakeVideoRepo) Create(_ context.Context, video *domain.Video) error {
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now()
	}
	f.videos[video.ID] = video
	return nil
}

func (f *fakeVideoRepo) GetByID(_ context.Context, id string) (*domain.Video, error) {
	return f.videos[id], nil
}

func (f *fakeVideoRepo) GetWithOwner(_ context.Context, id string) (*domain.VideoWithOwner, error) {
	v := f.videos[id]
	if v == nil {
		return nil, nil
	}
	return &domain.VideoWithOwner{Video: *v}, nil
}

func (f *fakeVideoRepo) List(_ context.Context, q domain.VideoListQuery) (*domain.VideoPage, error) {
	var matched []domain.Video
	for _, v := range f.videos {
		if q.UserID != "" && v.OwnerID != q.UserID {
			continue
		}
		if q.Query != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(q.Query)) {
			continue
		}
		matched = append(matched, *v)
	}

	asc := q.SortType == "asc"
	field := q.SortBy
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch field {
		case "title":
			less = matched[i].Title < matched[j].Title
		case "duration":
			less = matched[i].Duration < matched[j].Duration
		case "views":
			less = matched[i].Views < matched[j].Views
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
			if field == "" {
				return !less // default ordering is newest first
			}
		}
		if asc {
			return less
		}
		return !less
	})

	total := int64(len(matched))
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	start := (q.Page - 1) * q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]domain.VideoWithOwner, 0, end-start)
	for _, v := range matched[start:end] {
		page = append(page, domain.VideoWithOwner{Video: v})
	}

	return &domain.VideoPage{
		Videos:     page,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (f *fakeVideoRepo) UpdateDetails(_ context.Context, id, ownerID string, req domain.UpdateVideoRequest) (*domain.Video, error) {
	v := f.videos[id]
	if v == nil || v.OwnerID != ownerID {
		return nil, nil
	}
	if req.Title != "" {
		v.Title = req.Title
	}
	if req.Description != "" {
		v.Description = req.Description
	}
	return v, nil
}

func (f *fakeVideoRepo) UpdateThumbnail(_ context.Context, id, ownerID, url string) (*domain.Video, error) {
	v := f.videos[id]
	if v == nil || v.OwnerID != ownerID {
		return nil, nil
	}
	v.ThumbnailURL = url
	return v, nil
}

func (f *fakeVideoRepo) TogglePublish(_ context.Context, id, ownerID string) (*domain.Video, error) {
	v := f.videos[id]
	if v == nil || v.OwnerID != ownerID {
		return nil, nil
	}
	v.IsPublished = !v.IsPublished
	return v, nil
}

func (f *fakeVideoRepo) IncrementViews(_ context.Context, id string) error {
	if v := f.videos[id]; v != nil {
		v.Views++
	}
	return nil
}

func (f *fakeVideoRepo) Delete(_ context.Context, id, ownerID string) (bool, error) {
	v := f.videos[id]
	if v == nil || v.OwnerID != ownerID {
		return false, nil
	}
	delete(f.videos, id)
	return true, nil
}

func (f *fakeVideoRepo) add(v *domain.Video) *domain.Video {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	f.videos[v.ID] = v
	return v
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[string]*domain.Like // keyed by target kind, target id and liker

	// when set, both toggle arms report zero rows, simulating a perpetually
	// interleaving concurrent toggle
	alwaysRace bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]*domain.Like)}
}

func likeKey(target domain.LikeTarget, targetID, userID string) string {
	return string(target) + "/" + targetID + "/" + userID
}

func (f *fakeLikeRepo) Insert(_ context.Context, like *domain.Like) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.alwaysRace {
		return false, nil
	}
	var target domain.LikeTarget
	var targetID string
	switch {
	case like.VideoID != nil:
		target, targetID = domain.LikeTargetVideo, *like.VideoID
	case like.CommentID != nil:
		target, targetID = domain.LikeTargetComment, *like.CommentID
	case like.TweetID != nil:
		target, targetID = domain.LikeTargetTweet, *like.TweetID
	}
	key := likeKey(target, targetID, like.LikedBy)
	if _, exists := f.likes[key]; exists {
		return false, nil
	}
	like.CreatedAt = time.Now()
	f.likes[key] = like
	return true, nil
}

func (f *fakeLikeRepo) Delete(_ context.Context, target domain.LikeTarget, targetID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.alwaysRace {
		return false, nil
	}
	key := likeKey(target, targetID, userID)
	if _, exists := f.likes[key]; !exists {
		return false, nil
	}
	delete(f.likes, key)
	return true, nil
}

func (f *fakeLikeRepo) ListLikedVideos(_ context.Context, userID string) ([]domain.VideoWithOwner, error) {
	return nil, nil
}

type fakeLikeRepoWithVideos struct {
	*fakeLikeRepo
	videos *fakeVideoRepo
}

func (f *fakeLikeRepoWithVideos) ListLikedVideos(_ context.Context, userID string) ([]domain.VideoWithOwner, error) {
	var out []domain.VideoWithOwner
	for _, like := range f.likes {
		if like.LikedBy != userID || like.VideoID == nil {
			continue
		}
		if v := f.videos.videos[*like.VideoID]; v != nil && v.IsPublished {
			out = append(out, domain.VideoWithOwner{Video: *v})
		}
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	subs map[string]*domain.Subscription // keyed by subscriber and channel

	alwaysRace bool
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*domain.Subscription)}
}

func subKey(subscriberID, channelID string) string {
	return subscriberID + "/" + channelID
}

func (f *fakeSubscriptionRepo) Insert(_ context.Context, sub *domain.Subscription) (bool, error) {
	if f.alwaysRace {
		return false, nil
	}
	key := subKey(sub.SubscriberID, sub.ChannelID)
	if _, exists := f.subs[key]; exists {
		return false, nil
	}
	sub.CreatedAt = time.Now()
	f.subs[key] = sub
	return true, nil
}

func (f *fakeSubscriptionRepo) Delete(_ context.Context, subscriberID, channelID string) (bool, error) {
	if f.alwaysRace {
		return false, nil
	}
	key := subKey(subscriberID, channelID)
	if _, exists := f.subs[key]; !exists {
		return false, nil
	}
	delete(f.subs, key)
	return true, nil
}

func (f *fakeSubscriptionRepo) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	var n int64
	for _, s := range f.subs {
		if s.ChannelID == channelID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) ListSubscribedChannels(_ context.Context, subscriberID string) ([]domain.OwnerSummary, error) {
	var out []domain.OwnerSummary
	for _, s := range f.subs {
		if s.SubscriberID == subscriberID {
			out = append(out, domain.OwnerSummary{ID: s.ChannelID})
		}
	}
	return out, nil
}

type fakePlaylistRepo struct {
	playlists map[string]*domain.Playlist
	entries   map[string][]string // playlist id -> video ids in insertion order
	videos    *fakeVideoRepo
}

func newFakePlaylistRepo(videos *fakeVideoRepo) *fakePlaylistRepo {
	return &fakePlaylistRepo{
		playlists: make(map[string]*domain.Playlist),
		entries:   make(map[string][]string),
		videos:    videos,
	}
}

func (f *fakePlaylistRepo) Create(_ context.Context, playlist *domain.Playlist) error {
	playlist.CreatedAt = time.Now()
	playlist.UpdatedAt = playlist.CreatedAt
	f.playlists[playlist.ID] = playlist
	return nil
}

func (f *fakePlaylistRepo) GetByID(_ context.Context, id string) (*domain.Playlist, error) {
	p := f.playlists[id]
	if p == nil {
		return nil, nil
	}
	videos := make([]domain.Video, 0, len(f.entries[id]))
	for _, vid := range f.entries[id] {
		if v := f.videos.videos[vid]; v != nil {
			videos = append(videos, *v)
		}
	}
	out := *p
	out.Videos = videos
	return &out, nil
}

func (f *fakePlaylistRepo) ListForUser(_ context.Context, userID string) ([]domain.PlaylistSummary, error) {
	out := []domain.PlaylistSummary{}
	for id, p := range f.playlists {
		if p.OwnerID != userID {
			continue
		}
		summary := domain.PlaylistSummary{ID: p.ID, Name: p.Name, Description: p.Description}
		var newest *domain.Video
		for _, vid := range f.entries[id] {
			v := f.videos.videos[vid]
			if v == nil {
				continue
			}
			if newest == nil || v.CreatedAt.After(newest.CreatedAt) {
				newest = v
			}
		}
		if newest != nil {
			thumb := newest.ThumbnailURL
			summary.Thumbnail = &thumb
		}
		out = append(out, summary)
	}
	return out, nil
}

func (f *fakePlaylistRepo) AddVideo(_ context.Context, playlistID, videoID string) error {
	f.entries[playlistID] = append(f.entries[playlistID], videoID)
	return nil
}

func (f *fakePlaylistRepo) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	var kept []string
	for _, vid := range f.entries[playlistID] {
		if vid != videoID {
			kept = append(kept, vid)
		}
	}
	f.entries[playlistID] = kept
	return nil
}

func (f *fakePlaylistRepo) Update(_ context.Context, id, ownerID string, req domain.UpdatePlaylistRequest) (*domain.Playlist, error) {
	p := f.playlists[id]
	if p == nil || p.OwnerID != ownerID {
		return nil, nil
	}
	p.Name = req.Name
	p.Description = req.Description
	return p, nil
}

func (f *fakePlaylistRepo) Delete(_ context.Context, id, ownerID string) (bool, error) {
	p := f.playlists[id]
	if p == nil || p.OwnerID != ownerID {
		return false, nil
	}
	delete(f.playlists, id)
	delete(f.entries, id)
	return true, nil
}

type fakeCommentRepo struct {
	comments map[string]*domain.Comment
	order    []string
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*domain.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	comment.CreatedAt = time.Now()
	f.comments[comment.ID] = comment
	f.order = append(f.order, comment.ID)
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	return f.comments[id], nil
}

func (f *fakeCommentRepo) ListForVideo(_ context.Context, videoID string, page, limit int) ([]domain.CommentWithOwner, error) {
	var matched []domain.CommentWithOwner
	for i := len(f.order) - 1; i >= 0; i-- {
		c := f.comments[f.order[i]]
		if c != nil && c.VideoID == videoID {
			matched = append(matched, domain.CommentWithOwner{Comment: *c})
		}
	}
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

type fakeTweetRepo struct {
	tweets map[string]*domain.Tweet
	order  []string
}

func newFakeTweetRepo() *fakeTweetRepo {
	return &fakeTweetRepo{tweets: make(map[string]*domain.Tweet)}
}

func (f *fakeTweetRepo) Create(_ context.Context, tweet *domain.Tweet) error {
	tweet.CreatedAt = time.Now()
	tweet.UpdatedAt = tweet.CreatedAt
	f.tweets[tweet.ID] = tweet
	f.order = append(f.order, tweet.ID)
	return nil
}

func (f *fakeTweetRepo) GetByID(_ context.Context, id string) (*domain.Tweet, error) {
	return f.tweets[id], nil
}

func (f *fakeTweetRepo) ListForUser(_ context.Context, userID string) ([]domain.TweetWithOwner, error) {
	var out []domain.TweetWithOwner
	for i := len(f.order) - 1; i >= 0; i-- {
		t := f.tweets[f.order[i]]
		if t != nil && t.OwnerID == userID {
			out = append(out, domain.TweetWithOwner{Tweet: *t})
		}
	}
	return out, nil
}

func (f *fakeTweetRepo) Update(_ context.Context, id, ownerID, content string) (*domain.Tweet, error) {
	t := f.tweets[id]
	if t == nil || t.OwnerID != ownerID {
		return nil, nil
	}
	t.Content = content
	t.UpdatedAt = time.Now()
	return t, nil
}

func (f *fakeTweetRepo) Delete(_ context.Context, id, ownerID string) (bool, error) {
	t := f.tweets[id]
	if t == nil || t.OwnerID != ownerID {
		return false, nil
	}
	delete(f.tweets, id)
	return true, nil
}
