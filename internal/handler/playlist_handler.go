package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/container"
	"vidtube/internal/domain"
	"vidtube/internal/middleware"
	"vidtube/pkg/errors"
)

// PlaylistHandler handles playlist requests
type PlaylistHandler struct {
	container *container.Container
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(container *container.Container) *PlaylistHandler {
	return &PlaylistHandler{container: container}
}

// Create handles POST /api/v1/playlist
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	playlists := h.container.GetServices().Playlist

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	var req domain.CreatePlaylistRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	playlist, err := playlists.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusCreated, playlist, "Playlist created successfully")
}

// Get handles GET /api/v1/playlist/{playlistId}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	playlists := h.container.GetServices().Playlist

	playlist, err := playlists.GetByID(r.Context(), chi.URLParam(r, "playlistId"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, playlist, "Playlist fetched successfully")
}

// ListForUser handles GET /api/v1/playlist/user/{userId}
func (h *PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	playlists := h.container.GetServices().Playlist

	summaries, err := playlists.ListForUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, summaries, "User playlists fetched successfully")
}

// AddVideo handles PATCH /api/v1/playlist/add/{videoId}/{playlistId}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	playlists := h.container.GetServices().Playlist

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	playlist, err := playlists.AddVideo(r.Context(), chi.URLParam(r, "playlistId"), chi.URLParam(r, "videoId"), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, playlist, "Video added to playlist successfully")
}

// RemoveVideo handles PATCH /api/v1/playlist/remove/{videoId}/{playlistId}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	playlists := h.container.GetServices().Playlist

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	playlist, err := playlists.RemoveVideo(r.Context(), chi.URLParam(r, "playlistId"), chi.URLParam(r, "videoId"), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, playlist, "Video removed from playlist successfully")
}

// Update handles PATCH /api/v1/playlist/{playlistId}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	playlists := h.container.GetServices().Playlist

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	var req domain.UpdatePlaylistRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	playlist, err := playlists.Update(r.Context(), chi.URLParam(r, "playlistId"), claims.UserID, req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, playlist, "Playlist updated successfully")
}

// Delete handles DELETE /api/v1/playlist/{playlistId}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	playlists := h.container.GetServices().Playlist

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	if err := playlists.Delete(r.Context(), chi.URLParam(r, "playlistId"), claims.UserID); err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, nil, "Playlist deleted successfully")
}
