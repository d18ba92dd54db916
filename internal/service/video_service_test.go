package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/domain"
	"vidtube/pkg/errors"
	"vidtube/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

func requireAppError(t *testing.T, err error, errType errors.ErrorType) *errors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok, "expected *errors.AppError, got %T", err)
	assert.Equal(t, errType, appErr.Type)
	return appErr
}

func TestVideoServiceListPagination(t *testing.T) {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	svc := NewVideoService(videos, users, &fakeStorage{}, testLogger(t))

	ownerID := uuid.NewString()
	users.add(&domain.User{ID: ownerID, Username: "owner"})

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		videos.add(&domain.Video{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("video %02d", i),
			IsPublished: true,
			OwnerID:     ownerID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	page, err := svc.List(context.Background(), domain.VideoListQuery{Page: 3, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Videos, 5)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestVideoServiceListDefaults(t *testing.T) {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	svc := NewVideoService(videos, users, &fakeStorage{}, testLogger(t))

	page, err := svc.List(context.Background(), domain.VideoListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Empty(t, page.Videos)
}

func TestVideoServiceListSortDescending(t *testing.T) {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	svc := NewVideoService(videos, users, &fakeStorage{}, testLogger(t))

	ownerID := uuid.NewString()
	users.add(&domain.User{ID: ownerID, Username: "owner"})

	for _, views := range []int64{5, 42, 17} {
		videos.add(&domain.Video{
			ID:          uuid.NewString(),
			Title:       "v",
			Views:       views,
			IsPublished: true,
			OwnerID:     ownerID,
		})
	}

	page, err := svc.List(context.Background(), domain.VideoListQuery{SortBy: "views", SortType: "desc"})
	require.NoError(t, err)
	require.Len(t, page.Videos, 3)
	assert.Equal(t, int64(42), page.Videos[0].Views)
	assert.Equal(t, int64(17), page.Videos[1].Views)
	assert.Equal(t, int64(5), page.Videos[2].Views)
}

func TestVideoServiceListIncludesDrafts(t *testing.T) {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	svc := NewVideoService(videos, users, &fakeStorage{}, testLogger(t))

	ownerID := uuid.NewString()
	users.add(&domain.User{ID: ownerID, Username: "owner"})

	videos.add(&domain.Video{ID: uuid.NewString(), Title: "published", IsPublished: true, OwnerID: ownerID})
	videos.add(&domain.Video{ID: uuid.NewString(), Title: "draft", IsPublished: false, OwnerID: ownerID})

	page, err := svc.List(context.Background(), domain.VideoListQuery{UserID: ownerID})
	require.NoError(t, err)

	// the listing pipeline filters on owner and text only, never publish state
	assert.Len(t, page.Videos, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestVideoServiceListValidation(t *testing.T) {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	svc := NewVideoService(videos, users, &fakeStorage{}, testLogger(t))

	tests := []struct {
		name    string
		query   domain.VideoListQuery
		errType errors.ErrorType
	}{
		{
			name:    "unknown sort field",
			query:   domain.VideoListQuery{SortBy: "passwordHash", SortType: "desc"},
			errType: errors.ErrorTypeValidation,
		},
		{
			name:    "malformed owner filter id",
			query:   domain.VideoListQuery{UserID: "not-a-uuid"},
			errType: errors.ErrorTypeValidation,
		},
		{
			name:    "owner filter for unknown user",
			query:   domain.VideoListQuery{UserID: uuid.NewString()},
			errType: errors.ErrorTypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.List(context.Background(), tt.query)
			requireAppError(t, err, tt.errType)
		})
	}
}

func TestVideoServiceGetByIDUnpublished(t *testing.T) {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	svc := NewVideoService(videos, users, &fakeStorage{}, testLogger(t))

	ownerID := uuid.NewString()
	videoID := uuid.NewString()
	videos.add(&domain.Video{ID: videoID, Title: "draft", IsPublished: false, OwnerID: ownerID})

	// anonymous viewers and non-owners get not found
	_, err := svc.GetByID(context.Background(), videoID, "")
	requireAppError(t, err, errors.ErrorTypeNotFound)

	_, err = svc.GetByID(context.Background(), videoID, uuid.NewString())
	requireAppError(t, err, errors.ErrorTypeNotFound)

	// the owner still sees the draft
	got, err := svc.GetByID(context.Background(), videoID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, videoID, got.ID)
}

func TestVideoServiceGetByIDRecordsView(t *testing.T) {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	svc := NewVideoService(videos, users, &fakeStorage{}, testLogger(t))

	videoID := uuid.NewString()
	videos.add(&domain.Video{ID: videoID, Title: "t", IsPublished: true, OwnerID: uuid.NewString()})

	viewerID := uuid.NewString()
	_, err := svc.GetByID(context.Background(), videoID, viewerID)
	require.NoError(t, err)

	assert.Equal(t, []string{videoID}, users.watched)
	assert.Equal(t, int64(1), videos.videos[videoID].Views)

	// anonymous views are not recorded
	_, err = svc.GetByID(context.Background(), videoID, "")
	require.NoError(t, err)
	assert.Len(t, users.watched, 1)
	assert.Equal(t, int64(1), videos.videos[videoID].Views)
}

func TestVideoServiceGetByIDInvalidID(t *testing.T) {
	svc := NewVideoService(newFakeVideoRepo(), newFakeUserRepo(), &fakeStorage{}, testLogger(t))

	_, err := svc.GetByID(context.Background(), "42", "")
	requireAppError(t, err, errors.ErrorTypeValidation)
}

func TestVideoServicePublishValidation(t *testing.T) {
	svc := NewVideoService(newFakeVideoRepo(), newFakeUserRepo(), &fakeStorage{}, testLogger(t))

	_, err := svc.Publish(context.Background(), uuid.NewString(), domain.PublishVideoRequest{}, nil, nil)
	requireAppError(t, err, errors.ErrorTypeValidation)

	_, err = svc.Publish(context.Background(), uuid.NewString(), domain.PublishVideoRequest{Title: "t", Description: "d"}, nil, nil)
	requireAppError(t, err, errors.ErrorTypeValidation)
}

func TestVideoServiceOwnershipGates(t *testing.T) {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	svc := NewVideoService(videos, users, &fakeStorage{}, testLogger(t))

	ownerID := uuid.NewString()
	strangerID := uuid.NewString()
	videoID := uuid.NewString()
	videos.add(&domain.Video{ID: videoID, Title: "original", IsPublished: true, OwnerID: ownerID})

	// a non-owner's update reads as not found and leaves the record untouched
	_, err := svc.Update(context.Background(), videoID, strangerID, domain.UpdateVideoRequest{Title: "hijacked"})
	requireAppError(t, err, errors.ErrorTypeNotFound)
	assert.Equal(t, "original", videos.videos[videoID].Title)

	_, err = svc.TogglePublish(context.Background(), videoID, strangerID)
	requireAppError(t, err, errors.ErrorTypeNotFound)
	assert.True(t, videos.videos[videoID].IsPublished)

	err = svc.Delete(context.Background(), videoID, strangerID)
	requireAppError(t, err, errors.ErrorTypeNotFound)
	assert.Contains(t, videos.videos, videoID)

	// the owner's mutations succeed
	updated, err := svc.Update(context.Background(), videoID, ownerID, domain.UpdateVideoRequest{Title: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	toggled, err := svc.TogglePublish(context.Background(), videoID, ownerID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	require.NoError(t, svc.Delete(context.Background(), videoID, ownerID))
	assert.NotContains(t, videos.videos, videoID)
}
