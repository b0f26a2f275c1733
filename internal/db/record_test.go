package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/compsherpa/compsherpa/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfileRecord(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &types.Profile{
		Email:           "inside@example.com",
		DegreeType:      "MSN",
		YearsExperience: types.Years{Raw: "7", Present: true},
		TargetRole:      "FNP",
		TargetLocation:  types.NewLocation("Austin", "TX"),
		OtherOffers:     types.OfferCount{Raw: "3+"},
		SalaryExpectations: &types.SalaryExpectations{
			Current: "90-100k",
			Minimum: "whatever",
			Target:  "$125,000",
		},
	}

	rec, err := newProfileRecord("u1", "", p, now)
	require.NoError(t, err)

	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "inside@example.com", rec.Email)
	assert.Equal(t, 7, rec.YearsExperience)
	assert.Equal(t, "Austin, TX", rec.TargetLocation)
	assert.Equal(t, 3, rec.OtherOffers)
	require.NotNil(t, rec.CurrentSalary)
	assert.Equal(t, 95000, *rec.CurrentSalary)
	assert.Nil(t, rec.MinimumSalary)
	require.NotNil(t, rec.TargetSalary)
	assert.Equal(t, 125000, *rec.TargetSalary)
	assert.Equal(t, now, rec.CreatedAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Profile, &decoded))
	assert.Equal(t, "MSN", decoded["degreeType"])

	explicit, err := newProfileRecord("u1", "given@example.com", p, now)
	require.NoError(t, err)
	assert.Equal(t, "given@example.com", explicit.Email)
}

func TestNewReportRecord(t *testing.T) {
	p := &types.Profile{TargetRole: "RN", TargetLocation: types.NewLocation("Reno"), YearsExperience: types.NewYears(2)}
	r := &types.Report{SalaryRange: &types.SalaryRange{Min: 1, Max: 3, Median: 2}}

	rec, err := newReportRecord(r, p, "u1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "RN-Reno-2", rec.Fingerprint)
	assert.JSONEq(t, `{"min": 1, "max": 3, "median": 2}`, string(mustField(t, rec.ReportData, "salaryRange")))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "rn@example.com", normalizeEmail("  RN@Example.com "))
}

func mustField(t *testing.T, raw json.RawMessage, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[field]
}
