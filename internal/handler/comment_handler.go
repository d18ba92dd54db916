package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/container"
	"vidtube/internal/domain"
	"vidtube/internal/middleware"
	"vidtube/pkg/errors"
)

// CommentHandler handles video comment requests
type CommentHandler struct {
	container *container.Container
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(container *container.Container) *CommentHandler {
	return &CommentHandler{container: container}
}

// ListForVideo handles GET /api/v1/comments/{videoId}
func (h *CommentHandler) ListForVideo(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	comments := h.container.GetServices().Comment

	pageNum, appErr := parseIntParam(r, "page", 1)
	if appErr != nil {
		writeError(w, log, appErr)
		return
	}
	limit, appErr := parseIntParam(r, "limit", 10)
	if appErr != nil {
		writeError(w, log, appErr)
		return
	}

	page, err := comments.ListForVideo(r.Context(), chi.URLParam(r, "videoId"), pageNum, limit)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, page, "Comments fetched successfully")
}

// Add handles POST /api/v1/comments/{videoId}
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	comments := h.container.GetServices().Comment

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	var req domain.AddCommentRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	comment, err := comments.Add(r.Context(), chi.URLParam(r, "videoId"), claims.UserID, req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusCreated, comment, "Comment added successfully")
}
