package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/container"
	"vidtube/internal/domain"
	"vidtube/internal/middleware"
	"vidtube/pkg/errors"
)

// VideoHandler handles video catalog requests
type VideoHandler struct {
	container *container.Container
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(container *container.Container) *VideoHandler {
	return &VideoHandler{container: container}
}

// List handles GET /api/v1/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	videos := h.container.GetServices().Video

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

	query := domain.VideoListQuery{
		Page:     pageNum,
		Limit:    limit,
		Query:    r.URL.Query().Get("query"),
		SortBy:   r.URL.Query().Get("sortBy"),
		SortType: r.URL.Query().Get("sortType"),
		UserID:   r.URL.Query().Get("userId"),
	}

	page, err := videos.List(r.Context(), query)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, page, "Videos fetched successfully")
}

// Get handles GET /api/v1/videos/{videoId}.
// Authentication is optional; an authenticated view is recorded in the
// viewer's watch history and counted on the video.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	videos := h.container.GetServices().Video

	videoID := chi.URLParam(r, "videoId")

	viewerID := ""
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		viewerID = claims.UserID
	}

	video, err := videos.GetByID(r.Context(), videoID, viewerID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, video, "Video fetched successfully")
}

// Publish handles POST /api/v1/videos (multipart form)
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	videos := h.container.GetServices().Video

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, log, errors.NewValidationError("Invalid multipart form", nil))
		return
	}

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)
	req := domain.PublishVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
	}

	media, mediaClose := formFile(r, "videoFile")
	if mediaClose != nil {
		defer mediaClose()
	}
	thumbnail, thumbClose := formFile(r, "thumbnail")
	if thumbClose != nil {
		defer thumbClose()
	}

	video, err := videos.Publish(r.Context(), claims.UserID, req, media, thumbnail)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusCreated, video, "Video published successfully")
}

// Update handles PATCH /api/v1/videos/{videoId}. A multipart request with a
// thumbnail file replaces the thumbnail; a JSON body updates title and
// description.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	videos := h.container.GetServices().Video

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	videoID := chi.URLParam(r, "videoId")

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, log, errors.NewValidationError("Invalid multipart form", nil))
			return
		}

		thumbnail, thumbClose := formFile(r, "thumbnail")
		if thumbClose != nil {
			defer thumbClose()
		}

		if thumbnail != nil {
			video, err := videos.UpdateThumbnail(r.Context(), videoID, claims.UserID, thumbnail)
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeResponse(w, log, http.StatusOK, video, "Video updated successfully")
			return
		}

		req := domain.UpdateVideoRequest{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
		}
		video, err := videos.Update(r.Context(), videoID, claims.UserID, req)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeResponse(w, log, http.StatusOK, video, "Video updated successfully")
		return
	}

	var req domain.UpdateVideoRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	video, err := videos.Update(r.Context(), videoID, claims.UserID, req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, video, "Video updated successfully")
}

// Delete handles DELETE /api/v1/videos/{videoId}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	videos := h.container.GetServices().Video

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	videoID := chi.URLParam(r, "videoId")

	if err := videos.Delete(r.Context(), videoID, claims.UserID); err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, nil, "Video deleted successfully")
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	videos := h.container.GetServices().Video

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	videoID := chi.URLParam(r, "videoId")

	video, err := videos.TogglePublish(r.Context(), videoID, claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, video, "Publish state toggled successfully")
}

// parseIntParam reads a positive integer query parameter. An absent parameter
// yields the fallback; a supplied value that is malformed or not positive is
// rejected.
func parseIntParam(r *http.Request, name string, fallback int) (int, *errors.AppError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, errors.NewValidationError("Parameter must be a positive integer", map[string]interface{}{
			"param": name,
		})
	}
	return value, nil
}
