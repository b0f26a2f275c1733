package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProfileRecord is a saved user profile. The full profile is kept as JSON next
// to the columns used for querying.
type ProfileRecord struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"user_id"`
	Email           string          `json:"email,omitempty"`
	DegreeType      string          `json:"degree_type,omitempty"`
	YearsExperience int             `json:"years_experience"`
	TargetRole      string          `json:"target_role,omitempty"`
	TargetLocation  string          `json:"target_location,omitempty"`
	OtherOffers     int             `json:"other_offers"`
	CurrentSalary   *int            `json:"current_salary,omitempty"`
	MinimumSalary   *int            `json:"minimum_salary,omitempty"`
	TargetSalary    *int            `json:"target_salary,omitempty"`
	Profile         json.RawMessage `json:"profile"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ReportRecord is one saved report with the profile that produced it.
type ReportRecord struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"user_id"`
	Fingerprint     string          `json:"fingerprint"`
	ProfileSnapshot json.RawMessage `json:"profile_snapshot"`
	ReportData      json.RawMessage `json:"report_data"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Signup is a captured email address.
type Signup struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
