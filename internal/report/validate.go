package report

import (
	"fmt"

	"github.com/compsherpa/compsherpa/internal/types"
)

// InvalidReportError describes the first structural problem found in a report.
type InvalidReportError struct {
	Field  string
	Reason string
}

func (e *InvalidReportError) Error() string {
	return fmt.Sprintf("invalid report: %s %s", e.Field, e.Reason)
}

// Validate checks the structural rules every returned report must satisfy:
// a salary range with 0 <= min <= median <= max and max > 0, and role
// comparisons for exploring users only (and always for them), each with
// 0 <= min <= max.
func Validate(r *types.Report, exploring bool) error {
	if r == nil {
		return &InvalidReportError{Field: "report", Reason: "is missing"}
	}

	sr := r.SalaryRange
	switch {
	case sr == nil:
		return &InvalidReportError{Field: "salaryRange", Reason: "is missing"}
	case sr.Min < 0:
		return &InvalidReportError{Field: "salaryRange.min", Reason: "is negative"}
	case sr.Max <= 0:
		return &InvalidReportError{Field: "salaryRange.max", Reason: "must be positive"}
	case sr.Min > sr.Median:
		return &InvalidReportError{Field: "salaryRange.median", Reason: "is below min"}
	case sr.Median > sr.Max:
		return &InvalidReportError{Field: "salaryRange.median", Reason: "is above max"}
	}

	if !exploring && len(r.RoleComparisons) > 0 {
		return &InvalidReportError{Field: "roleComparisons", Reason: "present for a targeted report"}
	}
	if exploring && len(r.RoleComparisons) == 0 {
		return &InvalidReportError{Field: "roleComparisons", Reason: "missing for an exploring report"}
	}
	for i, rc := range r.RoleComparisons {
		field := fmt.Sprintf("roleComparisons[%d]", i)
		if rc.Role == "" {
			return &InvalidReportError{Field: field + ".role", Reason: "is empty"}
		}
		if rc.Min < 0 || rc.Min > rc.Max {
			return &InvalidReportError{Field: field, Reason: "needs 0 <= min <= max"}
		}
	}
	return nil
}
