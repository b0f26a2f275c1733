package db

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/compsherpa/compsherpa/internal/reportcache"
	"github.com/compsherpa/compsherpa/internal/salary"
	"github.com/compsherpa/compsherpa/internal/types"
)

// newProfileRecord flattens a profile into its stored form. The explicit email
// wins over the one inside the profile.
func newProfileRecord(userID, email string, p *types.Profile, now time.Time) (*ProfileRecord, error) {
	if p == nil {
		p = &types.Profile{}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if strings.TrimSpace(email) == "" {
		email = p.Email
	}

	rec := &ProfileRecord{
		ID:              uuid.New(),
		UserID:          userID,
		Email:           email,
		DegreeType:      p.DegreeType,
		YearsExperience: p.YearsExperience.Value(),
		TargetRole:      p.TargetRole,
		TargetLocation:  p.TargetLocation.String(),
		OtherOffers:     p.OtherOffers.Value(),
		Profile:         raw,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if se := p.SalaryExpectations; se != nil {
		rec.CurrentSalary = salaryMidpoint(string(se.Current))
		rec.MinimumSalary = salaryMidpoint(string(se.Minimum))
		rec.TargetSalary = salaryMidpoint(string(se.Target))
	}
	return rec, nil
}

func newReportRecord(r *types.Report, p *types.Profile, userID string, now time.Time) (*ReportRecord, error) {
	reportJSON, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile snapshot: %w", err)
	}
	return &ReportRecord{
		ID:              uuid.New(),
		UserID:          userID,
		Fingerprint:     reportcache.Fingerprint(p),
		ProfileSnapshot: profileJSON,
		ReportData:      reportJSON,
		CreatedAt:       now,
	}, nil
}

// salaryMidpoint returns nil when the text is not a salary band.
func salaryMidpoint(s string) *int {
	b := salary.MustBand(s)
	if !b.Known {
		return nil
	}
	mid := b.Midpoint()
	return &mid
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
