package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/compsherpa/compsherpa/internal/db"
	"github.com/compsherpa/compsherpa/internal/profile"
	"github.com/compsherpa/compsherpa/internal/report"
	"github.com/compsherpa/compsherpa/internal/schemas"
)

// ErrStoreUnavailable is returned by endpoints that need persistence when the
// server runs without a database.
var ErrStoreUnavailable = errors.New("persistence is not configured")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates nothing is stored for the requested user.
type ErrNotFound struct {
	Resource string
	UserID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found for user %s", e.Resource, e.UserID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation    *ErrValidation
		notFound      *ErrNotFound
		invalid       *profile.ErrInvalidProfile
		schemaInvalid *schemas.ValidationError
		reportInvalid *report.InvalidReportError
		tooLarge      *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validation), errors.As(err, &invalid), errors.As(err, &schemaInvalid),
		errors.As(err, &reportInvalid), errors.Is(err, db.ErrMissingUserID):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
