package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/container"
	"vidtube/internal/domain"
	"vidtube/internal/middleware"
	"vidtube/pkg/errors"
)

const maxUploadMemory = 32 << 20 // 32MB

// UserHandler handles account, session and user read-model requests
type UserHandler struct {
	container *container.Container
}

// NewUserHandler creates a new user handler
func NewUserHandler(container *container.Container) *UserHandler {
	return &UserHandler{container: container}
}

// Register handles POST /api/v1/users/register (multipart form)
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, log, errors.NewValidationError("Invalid multipart form", nil))
		return
	}

	req := domain.RegisterRequest{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		FullName: r.FormValue("fullName"),
		Password: r.FormValue("password"),
	}

	avatar, avatarClose := formFile(r, "avatar")
	if avatarClose != nil {
		defer avatarClose()
	}
	cover, coverClose := formFile(r, "coverImage")
	if coverClose != nil {
		defer coverClose()
	}

	user, err := users.Register(r.Context(), req, avatar, cover)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusCreated, user, "User registered successfully")
}

// Login handles POST /api/v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	var req domain.LoginRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	user, tokens, err := users.Login(r.Context(), req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, map[string]interface{}{
		"user":         user,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "User logged in successfully")
}

// Logout handles POST /api/v1/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	if err := users.Logout(r.Context(), claims.UserID); err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, nil, "User logged out successfully")
}

// RefreshToken handles POST /api/v1/users/refresh-token
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	tokens, err := users.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, tokens, "Access token refreshed successfully")
}

// ChangePassword handles POST /api/v1/users/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	var req domain.ChangePasswordRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	if err := users.ChangePassword(r.Context(), claims.UserID, req); err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, nil, "Password changed successfully")
}

// CurrentUser handles GET /api/v1/users/current-user
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	user, err := users.GetCurrentUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, user, "Current user fetched successfully")
}

// UpdateAccount handles PATCH /api/v1/users/update-account
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	var req domain.UpdateAccountRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		writeError(w, log, appErr)
		return
	}

	user, err := users.UpdateAccount(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, user, "Account details updated successfully")
}

// UpdateAvatar handles PATCH /api/v1/users/avatar (multipart form)
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar")
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image (multipart form)
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage")
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, log, errors.NewValidationError("Invalid multipart form", nil))
		return
	}

	file, closeFile := formFile(r, field)
	if closeFile != nil {
		defer closeFile()
	}

	var user *domain.User
	var err error
	if field == "avatar" {
		user, err = users.UpdateAvatar(r.Context(), claims.UserID, file)
	} else {
		user, err = users.UpdateCoverImage(r.Context(), claims.UserID, file)
	}
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, user, "Image updated successfully")
}

// ChannelProfile handles GET /api/v1/users/c/{username}.
// Authentication is optional; when present it resolves the isSubscribed flag.
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	username := chi.URLParam(r, "username")

	viewerID := ""
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		viewerID = claims.UserID
	}

	profile, err := users.GetChannelProfile(r.Context(), username, viewerID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, profile, "User channel fetched successfully")
}

// WatchHistory handles GET /api/v1/users/history
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	users := h.container.GetServices().User

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	history, err := users.GetWatchHistory(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, history, "Watch history fetched successfully")
}

// formFile returns the named upload as a reader, or nil when absent
func formFile(r *http.Request, field string) (io.Reader, func()) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return file, func() { file.Close() }
}
