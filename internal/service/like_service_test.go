package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/domain"
	"vidtube/pkg/errors"
)

func TestLikeServiceToggleVideo(t *testing.T) {
	videos := newFakeVideoRepo()
	likes := newFakeLikeRepo()
	svc := NewLikeService(likes, videos, newFakeCommentRepo(), newFakeTweetRepo(), testLogger(t))

	videoID := uuid.NewString()
	userID := uuid.NewString()
	videos.add(&domain.Video{ID: videoID, Title: "t", IsPublished: true, OwnerID: uuid.NewString()})

	// first toggle creates the like
	result, err := svc.ToggleVideoLike(context.Background(), videoID, userID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	require.NotNil(t, result.Like)
	require.NotNil(t, result.Like.VideoID)
	assert.Equal(t, videoID, *result.Like.VideoID)

	// second toggle removes it
	result, err = svc.ToggleVideoLike(context.Background(), videoID, userID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Nil(t, result.Like)

	// a full pair leaves no record behind
	assert.Empty(t, likes.likes)
}

func TestLikeServiceToggleTargets(t *testing.T) {
	videos := newFakeVideoRepo()
	comments := newFakeCommentRepo()
	tweets := newFakeTweetRepo()
	svc := NewLikeService(newFakeLikeRepo(), videos, comments, tweets, testLogger(t))

	userID := uuid.NewString()

	commentID := uuid.NewString()
	require.NoError(t, comments.Create(context.Background(), &domain.Comment{ID: commentID, Content: "c", VideoID: uuid.NewString(), OwnerID: uuid.NewString()}))

	tweetID := uuid.NewString()
	require.NoError(t, tweets.Create(context.Background(), &domain.Tweet{ID: tweetID, Content: "t", OwnerID: uuid.NewString()}))

	result, err := svc.ToggleCommentLike(context.Background(), commentID, userID)
	require.NoError(t, err)
	assert.True(t, result.Liked)

	result, err = svc.ToggleTweetLike(context.Background(), tweetID, userID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
}

func TestLikeServiceToggleMissingTarget(t *testing.T) {
	svc := NewLikeService(newFakeLikeRepo(), newFakeVideoRepo(), newFakeCommentRepo(), newFakeTweetRepo(), testLogger(t))

	tests := []struct {
		name   string
		toggle func(context.Context, string, string) (*domain.ToggleLikeResult, error)
	}{
		{name: "video", toggle: svc.ToggleVideoLike},
		{name: "comment", toggle: svc.ToggleCommentLike},
		{name: "tweet", toggle: svc.ToggleTweetLike},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.toggle(context.Background(), uuid.NewString(), uuid.NewString())
			requireAppError(t, err, errors.ErrorTypeNotFound)

			_, err = tt.toggle(context.Background(), "nope", uuid.NewString())
			requireAppError(t, err, errors.ErrorTypeValidation)
		})
	}
}

func TestLikeServiceConcurrentToggle(t *testing.T) {
	videos := newFakeVideoRepo()
	likes := newFakeLikeRepo()
	svc := NewLikeService(likes, videos, newFakeCommentRepo(), newFakeTweetRepo(), testLogger(t))

	videoID := uuid.NewString()
	userID := uuid.NewString()
	videos.add(&domain.Video{ID: videoID, Title: "t", IsPublished: true, OwnerID: uuid.NewString()})

	results := make(chan *domain.ToggleLikeResult, 2)
	errs := make(chan error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.ToggleVideoLike(context.Background(), videoID, userID)
			results <- result
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// whichever call lands first likes, the other observes the record and
	// unlikes: exactly one like is ever created and none survives the pair
	var likedCount int
	for result := range results {
		if result.Liked {
			likedCount++
		}
	}
	assert.Equal(t, 1, likedCount)
	assert.Empty(t, likes.likes)
}

func TestLikeServiceToggleGivesUpAfterRetry(t *testing.T) {
	videos := newFakeVideoRepo()
	likes := newFakeLikeRepo()
	likes.alwaysRace = true
	svc := NewLikeService(likes, videos, newFakeCommentRepo(), newFakeTweetRepo(), testLogger(t))

	videoID := uuid.NewString()
	videos.add(&domain.Video{ID: videoID, Title: "t", IsPublished: true, OwnerID: uuid.NewString()})

	_, err := svc.ToggleVideoLike(context.Background(), videoID, uuid.NewString())
	requireAppError(t, err, errors.ErrorTypeExternal)
}

func TestLikeServiceLikedVideosExcludesUnpublished(t *testing.T) {
	videos := newFakeVideoRepo()
	likes := &fakeLikeRepoWithVideos{fakeLikeRepo: newFakeLikeRepo(), videos: videos}
	svc := NewLikeService(likes, videos, newFakeCommentRepo(), newFakeTweetRepo(), testLogger(t))

	userID := uuid.NewString()
	publishedID := uuid.NewString()
	draftID := uuid.NewString()
	videos.add(&domain.Video{ID: publishedID, Title: "pub", IsPublished: true, OwnerID: uuid.NewString()})
	videos.add(&domain.Video{ID: draftID, Title: "draft", IsPublished: true, OwnerID: uuid.NewString()})

	_, err := svc.ToggleVideoLike(context.Background(), publishedID, userID)
	require.NoError(t, err)
	_, err = svc.ToggleVideoLike(context.Background(), draftID, userID)
	require.NoError(t, err)

	// the second video goes back to draft after being liked
	videos.videos[draftID].IsPublished = false

	liked, err := svc.GetLikedVideos(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, liked.Videos, 1)
	assert.Equal(t, publishedID, liked.Videos[0].ID)
}
