package report

import (
	"testing"

	"github.com/compsherpa/compsherpa/internal/llm"
	"github.com/compsherpa/compsherpa/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exploringReply = `Sure! Here is the report:
{
  "salaryRange": {"min": 80000, "max": 120000, "median": 99999.6},
  "roleComparisons": [
    {"role": "Staff RN (Medical/Surgical)", "min": 70000, "max": 90000, "recommended": true}
  ],
  "marketAnalysis": "Demand is strong.",
  "negotiationTips": ["Anchor high"],
  "keyStrengths": "ICU",
  "educationInsight": "Consider an MSN"
}`

func TestParseProviderResponse_Exploring(t *testing.T) {
	r, err := ParseProviderResponse(exploringReply, true)
	require.NoError(t, err)

	assert.Equal(t, types.Dollars(100000), r.SalaryRange.Median)
	require.Len(t, r.RoleComparisons, 1)
	assert.Equal(t, "Demand is strong.", r.MarketAnalysis)
	assert.Equal(t, []string{"Anchor high"}, r.NegotiationTips)
}

func TestParseProviderResponse_TargetedDropsRoleComparisons(t *testing.T) {
	r, err := ParseProviderResponse(exploringReply, false)
	require.NoError(t, err)
	assert.Nil(t, r.RoleComparisons)
}

func TestParseProviderResponse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		stage string
	}{
		{name: "no json", text: "I'm sorry, I can't do that.", stage: "extract"},
		{name: "two objects", text: `{"a":1} {"b":2}`, stage: "extract"},
		{name: "missing fields", text: `{"salaryRange": {"min": 1, "max": 2, "median": 1}}`, stage: "schema"},
		{name: "inverted range", text: `{"salaryRange": {"min": 90000, "max": 80000, "median": 85000}, "marketAnalysis": "", "negotiationTips": []}`, stage: "validate"},
		{name: "zero range", text: `{"salaryRange": {"min": 0, "max": 0, "median": 0}, "marketAnalysis": "", "negotiationTips": []}`, stage: "validate"},
		{name: "exploring without role comparisons", text: `{"salaryRange": {"min": 80000, "max": 120000, "median": 100000}, "marketAnalysis": "x", "negotiationTips": ["a"]}`, stage: "validate"},
		{name: "bad role comparison", text: `{"salaryRange": {"min": 1, "max": 3, "median": 2}, "marketAnalysis": "", "negotiationTips": [], "roleComparisons": [{"role": "RN", "min": 9, "max": 1}]}`, stage: "validate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProviderResponse(tt.text, true)
			var merr *MalformedResponseError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tt.stage, merr.Stage)
		})
	}
}

func TestParseProviderResponse_WrapsExtractError(t *testing.T) {
	_, err := ParseProviderResponse("", false)
	assert.ErrorIs(t, err, llm.ErrNoJSONObject)
}
