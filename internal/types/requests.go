package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GenerateReportRequest is the body of POST /api/report/generate.
type GenerateReportRequest struct {
	Profile    *Profile `json:"profile" validate:"required"`
	UserID     string   `json:"userId,omitempty" validate:"omitempty,max=128"`
	Regenerate bool     `json:"regenerate,omitempty"`
}

// GenerateReportResponse is the body returned by POST /api/report/generate.
type GenerateReportResponse struct {
	Success     bool      `json:"success"`
	Report      *Report   `json:"report"`
	IsExploring bool      `json:"isExploring"`
	GeneratedAt time.Time `json:"generatedAt"`
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	Cached      bool      `json:"cached"`
}

// SaveReportRequest is the body of POST /api/report/save.
type SaveReportRequest struct {
	Report  *Report  `json:"report" validate:"required"`
	Profile *Profile `json:"profile" validate:"required"`
	UserID  string   `json:"userId" validate:"required,max=128"`
}

// SaveProfileRequest is the body of POST /api/profile/save.
type SaveProfileRequest struct {
	Profile *Profile `json:"profile" validate:"required"`
	UserID  string   `json:"userId" validate:"required,max=128"`
	Email   string   `json:"email,omitempty" validate:"omitempty,email"`
}

// SignupRequest is the body of POST /api/signup.
type SignupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Validate validates the GenerateReportRequest using the validator.
func (r *GenerateReportRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SaveReportRequest using the validator.
func (r *SaveReportRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SaveProfileRequest using the validator.
func (r *SaveProfileRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SignupRequest using the validator.
func (r *SignupRequest) Validate() error {
	return validate.Struct(r)
}
