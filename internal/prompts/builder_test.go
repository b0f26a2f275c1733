package prompts

import (
	"strings"
	"testing"

	"github.com/compsherpa/compsherpa/internal/profile"
	"github.com/compsherpa/compsherpa/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestBuildReportPrompt_Targeted(t *testing.T) {
	n := profile.Normalize(&types.Profile{
		DegreeType:        "MSN",
		YearsExperience:   types.NewYears(6),
		TargetRole:        "Family Nurse Practitioner",
		TargetLocation:    types.NewLocation("Denver", "CO"),
		SettingPreference: "Clinic",
		StartDateGoal:     "ASAP",
	})

	prompt := BuildReportPrompt(n)

	for _, want := range []string{
		"Degree: MSN",
		"Years of RN Experience: 6",
		"Target Role: Family Nurse Practitioner",
		"Target Location(s): Denver, CO",
		"Work Setting Preference: Clinic",
		"Timeline: ASAP",
		`"salaryRange"`,
		"nothing else",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "roleComparisons")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildReportPrompt_Exploring(t *testing.T) {
	n := profile.Normalize(&types.Profile{TargetRole: "Exploring options"})

	prompt := BuildReportPrompt(n)

	assert.Contains(t, prompt, "roleComparisons")
	for _, role := range profile.ComparisonRoles {
		assert.Contains(t, prompt, "- "+role)
	}
	assert.Contains(t, prompt, "Degree: "+profile.NotSpecified)
	assert.NotContains(t, prompt, "Target Role:")
}

func TestBuildReportPrompt_Deterministic(t *testing.T) {
	n := profile.Normalize(&types.Profile{DegreeType: "BSN", TargetRole: "{{.Degree}}"})

	first := BuildReportPrompt(n)
	assert.Equal(t, first, BuildReportPrompt(n))
	assert.True(t, strings.Contains(first, "Target Role: {{.Degree}}"))
}
