package prompts

import (
	"strconv"
	"strings"

	"github.com/compsherpa/compsherpa/internal/profile"
)

const reportPromptFile = "report.json"

// BuildReportPrompt renders the report prompt for a normalized profile. Exploring
// profiles get the role-comparison template, everyone else the targeted one.
func BuildReportPrompt(n profile.NormalizedProfile) string {
	key := "targeted"
	if n.IsExploring {
		key = "exploring"
	}

	roles := make([]string, len(profile.ComparisonRoles))
	for i, role := range profile.ComparisonRoles {
		roles[i] = "- " + role
	}

	return Format(MustGet(reportPromptFile, key), map[string]string{
		"Degree":            n.DegreeType,
		"YearsExperience":   strconv.Itoa(n.YearsExperience),
		"TargetRole":        n.TargetRole,
		"TargetLocation":    n.TargetLocation,
		"SettingPreference": n.SettingPreference,
		"Timeline":          n.StartDateGoal,
		"ComparisonRoles":   strings.Join(roles, "\n"),
	})
}
