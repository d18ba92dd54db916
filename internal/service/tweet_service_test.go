package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/domain"
	"vidtube/pkg/errors"
)

func TestTweetServiceCreateAndList(t *testing.T) {
	users := newFakeUserRepo()
	tweets := newFakeTweetRepo()
	svc := NewTweetService(tweets, users, testLogger(t))

	ownerID := uuid.NewString()
	users.add(&domain.User{ID: ownerID, Username: "owner"})

	_, err := svc.Create(context.Background(), ownerID, domain.CreateTweetRequest{Content: "first"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ownerID, domain.CreateTweetRequest{Content: "second"})
	require.NoError(t, err)

	list, err := svc.ListForUser(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)
	assert.Equal(t, "first", list[1].Content)
}

func TestTweetServiceValidation(t *testing.T) {
	svc := NewTweetService(newFakeTweetRepo(), newFakeUserRepo(), testLogger(t))

	_, err := svc.Create(context.Background(), uuid.NewString(), domain.CreateTweetRequest{Content: "   "})
	requireAppError(t, err, errors.ErrorTypeValidation)

	_, err = svc.ListForUser(context.Background(), "bad-id")
	requireAppError(t, err, errors.ErrorTypeValidation)

	_, err = svc.ListForUser(context.Background(), uuid.NewString())
	requireAppError(t, err, errors.ErrorTypeNotFound)
}

func TestTweetServiceOwnershipGates(t *testing.T) {
	users := newFakeUserRepo()
	tweets := newFakeTweetRepo()
	svc := NewTweetService(tweets, users, testLogger(t))

	ownerID := uuid.NewString()
	strangerID := uuid.NewString()
	created, err := svc.Create(context.Background(), ownerID, domain.CreateTweetRequest{Content: "mine"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, strangerID, domain.UpdateTweetRequest{Content: "hijacked"})
	requireAppError(t, err, errors.ErrorTypeNotFound)
	assert.Equal(t, "mine", tweets.tweets[created.ID].Content)

	err = svc.Delete(context.Background(), created.ID, strangerID)
	requireAppError(t, err, errors.ErrorTypeNotFound)
	assert.Contains(t, tweets.tweets, created.ID)

	updated, err := svc.Update(context.Background(), created.ID, ownerID, domain.UpdateTweetRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, svc.Delete(context.Background(), created.ID, ownerID))
	assert.NotContains(t, tweets.tweets, created.ID)
}
