package profile

import (
	"fmt"
	"strings"

	"github.com/compsherpa/compsherpa/internal/types"
)

// ErrInvalidProfile indicates a profile with nothing to base a salary estimate on.
type ErrInvalidProfile struct {
	Missing []string
}

func (e *ErrInvalidProfile) Error() string {
	return fmt.Sprintf("invalid profile: missing %s", strings.Join(e.Missing, ", "))
}

// CheckGeneratable returns *ErrInvalidProfile when degree, experience and target role
// are all absent. Any one of them is enough for the defaults to produce a report.
func CheckGeneratable(p *types.Profile) error {
	if p == nil {
		return &ErrInvalidProfile{Missing: []string{"degreeType", "yearsExperience", "targetRole"}}
	}
	if strings.TrimSpace(p.DegreeType) != "" || p.YearsExperience.Present || strings.TrimSpace(p.TargetRole) != "" {
		return nil
	}
	return &ErrInvalidProfile{Missing: []string{"degreeType", "yearsExperience", "targetRole"}}
}
