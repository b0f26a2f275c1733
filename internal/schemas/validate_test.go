package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportJSON_Valid(t *testing.T) {
	doc := `{
		"salaryRange": {"min": 85000, "max": 120000, "median": 100000.5},
		"roleComparisons": null,
		"marketAnalysis": "Strong demand.",
		"negotiationTips": ["Lead with your qualifications"],
		"keyStrengths": "ICU background",
		"extra": "ignored"
	}`
	assert.NoError(t, ValidateReportJSON(doc))
}

func TestValidateReportJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{name: "missing salary range", doc: `{"marketAnalysis": "", "negotiationTips": []}`, field: "(root)"},
		{name: "missing median", doc: `{"salaryRange": {"min": 1, "max": 2}, "marketAnalysis": "", "negotiationTips": []}`, field: "salaryRange"},
		{name: "negative min", doc: `{"salaryRange": {"min": -1, "max": 2, "median": 1}, "marketAnalysis": "", "negotiationTips": []}`, field: "salaryRange.min"},
		{name: "string money", doc: `{"salaryRange": {"min": "85k", "max": 2, "median": 1}, "marketAnalysis": "", "negotiationTips": []}`, field: "salaryRange.min"},
		{name: "tips not a list", doc: `{"salaryRange": {"min": 1, "max": 2, "median": 1}, "marketAnalysis": "", "negotiationTips": "be bold"}`, field: "negotiationTips"},
		{name: "role without name", doc: `{"salaryRange": {"min": 1, "max": 2, "median": 1}, "marketAnalysis": "", "negotiationTips": [], "roleComparisons": [{"min": 1, "max": 2}]}`, field: "roleComparisons.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReportJSON(tt.doc)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateReportJSON_MalformedDocument(t *testing.T) {
	err := ValidateReportJSON(`{"salaryRange":`)
	require.Error(t, err)
	_, isValidation := err.(*ValidationError)
	assert.False(t, isValidation)
}

func TestValidateProfileJSON(t *testing.T) {
	assert.NoError(t, ValidateProfileJSON(`{"degreeType": "BSN", "yearsExperience": "2", "targetLocation": ["Reno"], "otherOffers": "3+"}`))
	assert.NoError(t, ValidateProfileJSON(`{"yearsExperience": 4, "targetLocation": {"city": "Reno"}}`))

	err := ValidateProfileJSON(`{"yearsExperience": true, "bilingualSkills": "Spanish"}`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "yearsExperience")
	assert.Contains(t, fields, "bilingualSkills")
}

func TestCompiledSchema_BadSource(t *testing.T) {
	bad := &compiled{name: "broken.schema.json", source: `{"type": 12}`}

	err := validateCompiled(bad, `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken.schema.json", loadErr.Path)

	_, again := bad.load()
	assert.Error(t, again)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
