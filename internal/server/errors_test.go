package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/compsherpa/compsherpa/internal/db"
	"github.com/compsherpa/compsherpa/internal/profile"
	"github.com/compsherpa/compsherpa/internal/report"
	"github.com/compsherpa/compsherpa/internal/schemas"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "profile", UserID: "u-1"}
	assert.Equal(t, "profile not found for user u-1", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "ErrValidation", err: &ErrValidation{Field: "profile", Message: "required"}, expected: http.StatusBadRequest},
		{name: "wrapped ErrInvalidProfile", err: fmt.Errorf("generate: %w", &profile.ErrInvalidProfile{Missing: []string{"degreeType"}}), expected: http.StatusBadRequest},
		{name: "schema ValidationError", err: &schemas.ValidationError{}, expected: http.StatusBadRequest},
		{name: "InvalidReportError", err: &report.InvalidReportError{Field: "salaryRange", Reason: "missing"}, expected: http.StatusBadRequest},
		{name: "missing user id", err: db.ErrMissingUserID, expected: http.StatusBadRequest},
		{name: "ErrNotFound", err: &ErrNotFound{Resource: "report", UserID: "u"}, expected: http.StatusNotFound},
		{name: "body too large", err: &http.MaxBytesError{Limit: 10}, expected: http.StatusRequestEntityTooLarge},
		{name: "no store", err: ErrStoreUnavailable, expected: http.StatusServiceUnavailable},
		{name: "Unknown error", err: assert.AnError, expected: http.StatusInternalServerError},
		{name: "Nil error", err: nil, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
