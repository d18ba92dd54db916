package handler

import (
	"encoding/json"
	"net/http"

	"vidtube/pkg/errors"
	"vidtube/pkg/logger"
)

// APIResponse is the success envelope shared by every endpoint
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// APIError is the error envelope shared by every endpoint
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// writeResponse writes a success envelope with the given status code
func writeResponse(w http.ResponseWriter, log *logger.Logger, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps the error to the error envelope. Non-AppError values are
// treated as internal failures and never leak their details.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}

	log.WithError(appErr).Error("Request error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := APIError{
		StatusCode: appErr.StatusCode,
		Message:    appErr.Message,
		Success:    false,
		Errors:     []string{},
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.WithError(encodeErr).Error("Failed to encode error response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// decodeJSON decodes the request body into dst
func decodeJSON(r *http.Request, dst interface{}) *errors.AppError {
	if r.Body == nil {
		return errors.NewValidationError("Request body is required", nil)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError("Invalid request body", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return nil
}
