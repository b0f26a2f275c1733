package report

import (
	"encoding/json"
	"fmt"

	"github.com/compsherpa/compsherpa/internal/llm"
	"github.com/compsherpa/compsherpa/internal/schemas"
	"github.com/compsherpa/compsherpa/internal/types"
)

// MalformedResponseError means the provider answered but the reply could not be
// used as a report.
type MalformedResponseError struct {
	Stage string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response (%s): %v", e.Stage, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ParseProviderResponse extracts, schema-checks, decodes and validates the report
// in a provider reply. Role comparisons are dropped unless the user is exploring.
func ParseProviderResponse(text string, exploring bool) (*types.Report, error) {
	raw, err := llm.ExtractJSONObject(text)
	if err != nil {
		return nil, &MalformedResponseError{Stage: "extract", Err: err}
	}

	if err := schemas.ValidateReportJSON(raw); err != nil {
		return nil, &MalformedResponseError{Stage: "schema", Err: err}
	}

	var r types.Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, &MalformedResponseError{Stage: "decode", Err: err}
	}
	if !exploring {
		r.RoleComparisons = nil
	}

	if err := Validate(&r, exploring); err != nil {
		return nil, &MalformedResponseError{Stage: "validate", Err: err}
	}
	return &r, nil
}
