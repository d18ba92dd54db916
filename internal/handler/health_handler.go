package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"vidtube/internal/container"
	"vidtube/pkg/database"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
	db        *database.PostgresDB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container, db *database.PostgresDB) *HealthHandler {
	return &HealthHandler{
		container: container,
		db:        db,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Service   string    `json:"service"`
	Database  string    `json:"database"`
	Cache     string    `json:"cache"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	logger.Debug("Health check requested")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Service:   "vidtube",
		Database:  "up",
		Cache:     "disabled",
	}

	status := http.StatusOK
	if h.db != nil {
		if err := h.db.Health(r.Context()); err != nil {
			logger.WithError(err).Error("Database health check failed")
			response.Status = "degraded"
			response.Database = "down"
			status = http.StatusServiceUnavailable
		}
	}

	if h.container.HasRedis() {
		response.Cache = "up"
		if err := h.container.GetRedisClient().Health(r.Context()); err != nil {
			logger.WithError(err).Warn("Redis health check failed")
			response.Cache = "down"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode health check response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Debug("Health check completed successfully")
}
