// Package reportcache decides when a previously generated report may be served
// again, and stores the latest report per user.
package reportcache

import (
	"strconv"

	"github.com/compsherpa/compsherpa/internal/types"
)

// Fingerprint identifies the profile state a report was generated for:
// target role, rendered location and whole years of experience joined by "-".
// Parts are not escaped, so a "-" moved between role and location yields the
// same key ("A-B" + "C" and "A" + "B-C"); changing any one part never does.
func Fingerprint(p *types.Profile) string {
	if p == nil {
		p = &types.Profile{}
	}
	return p.TargetRole + "-" + p.TargetLocation.String() + "-" + strconv.Itoa(p.YearsExperience.Value())
}

// ShouldReuse reports whether a cached report can be served for current. It
// requires a matching fingerprint and a report that carries a salary range.
func ShouldReuse(cachedFingerprint string, cached *types.Report, current *types.Profile) bool {
	if cached == nil || cached.SalaryRange == nil {
		return false
	}
	return cachedFingerprint == Fingerprint(current)
}
