package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/container"
	"vidtube/internal/middleware"
	"vidtube/pkg/errors"
)

// SubscriptionHandler handles channel subscription requests
type SubscriptionHandler struct {
	container *container.Container
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(container *container.Container) *SubscriptionHandler {
	return &SubscriptionHandler{container: container}
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	subscriptions := h.container.GetServices().Subscription

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, log, errors.NewAuthenticationError("User not authenticated"))
		return
	}

	result, err := subscriptions.Toggle(r.Context(), chi.URLParam(r, "channelId"), claims.UserID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, result, "Subscription toggled successfully")
}

// ChannelStats handles GET /api/v1/subscriptions/stats/{channelId}
func (h *SubscriptionHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	subscriptions := h.container.GetServices().Subscription

	stats, err := subscriptions.GetChannelStats(r.Context(), chi.URLParam(r, "channelId"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, stats, "Channel stats fetched successfully")
}

// SubscribedChannels handles GET /api/v1/subscriptions/u/{subscriberId}
func (h *SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	subscriptions := h.container.GetServices().Subscription

	channels, err := subscriptions.ListSubscribedChannels(r.Context(), chi.URLParam(r, "subscriberId"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeResponse(w, log, http.StatusOK, channels, "Subscribed channels fetched successfully")
}
