package service

import (
	"github.com/google/uuid"

	"vidtube/pkg/errors"
)

// ValidateID checks that a candidate is syntactically a valid document
// identifier. Invalid identifiers are rejected with a validation error before
// any store call is made; they must never reach the store layer.
func ValidateID(candidate, field string) *errors.AppError {
	if _, err := uuid.Parse(candidate); err != nil {
		return errors.NewValidationError("Invalid "+field, map[string]interface{}{
			"field": field,
		})
	}
	return nil
}
