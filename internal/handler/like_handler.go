package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/container"
	"vidtube/internal/middleware"
	"vidtube/pkg/errors"
)

// LikeHandler handles like toggle and liked-videos requests
type LikeHandler struct {
	container *container.Container
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(container *container.Container) *LikeHandler {
	return &LikeHandler{container: container}
}

// ToggleVideoLike handles POST /api/v1/likes/toggle/v/{videoId}
func (h *LikeHandler) ToggleVideoLike(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	likes := h.container.GetServices().Like

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	result, err := likes.ToggleVideoLike(r.Context(), chi.URLParam(r, "videoId"), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, result, "Video like toggled successfully")
}

// ToggleCommentLike handles POST /api/v1/likes/toggle/c/{commentId}
func (h *LikeHandler) ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	likes := h.container.GetServices().Like

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	result, err := likes.ToggleCommentLike(r.Context(), chi.URLParam(r, "commentId"), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, result, "Comment like toggled successfully")
}

// ToggleTweetLike handles POST /api/v1/likes/toggle/t/{tweetId}
func (h *LikeHandler) ToggleTweetLike(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	likes := h.container.GetServices().Like

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	result, err := likes.ToggleTweetLike(r.Context(), chi.URLParam(r, "tweetId"), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, result, "Tweet like toggled successfully")
}

// LikedVideos handles GET /api/v1/likes/videos
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	likes := h.container.GetServices().Like

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	liked, err := likes.GetLikedVideos(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, liked, "Liked videos fetched successfully")
}
