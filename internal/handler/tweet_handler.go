package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/container"
	"vidtube/internal/domain"
	"vidtube/internal/middleware"
	"vidtube/pkg/errors"
)

// TweetHandler handles tweet requests
type TweetHandler struct {
	container *container.Container
}

// NewTweetHandler creates a new tweet handler
func NewTweetHandler(container *container.Container) *TweetHandler {
	return &TweetHandler{container: container}
}

// Create handles POST /api/v1/tweets
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	tweets := h.container.GetServices().Tweet

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	var req domain.CreateTweetRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	tweet, err := tweets.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusCreated, tweet, "Tweet created successfully")
}

// ListForUser handles GET /api/v1/tweets/user/{userId}
func (h *TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	tweets := h.container.GetServices().Tweet

	list, err := tweets.ListForUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, list, "User tweets fetched successfully")
}

// Update handles PATCH /api/v1/tweets/{tweetId}
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	tweets := h.container.GetServices().Tweet

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	var req domain.UpdateTweetRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	tweet, err := tweets.Update(r.Context(), chi.URLParam(r, "tweetId"), claims.UserID, req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, tweet, "Tweet updated successfully")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	tweets := h.container.GetServices().Tweet

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	if err := tweets.Delete(r.Context(), chi.URLParam(r, "tweetId"), claims.UserID); err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, nil, "Tweet deleted successfully")
}
