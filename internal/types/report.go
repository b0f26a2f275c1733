package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// Report is a generated salary and negotiation report.
// JSON field names follow the schema the language model is asked to produce.
type Report struct {
	SalaryRange         *SalaryRange         `json:"salaryRange"`
	MarketAnalysis      string               `json:"marketAnalysis"`
	NegotiationTips     []string             `json:"negotiationTips"`
	LeveragePoints      []string             `json:"leveragePoints,omitempty"`
	KeyStrengths        string               `json:"keyStrengths,omitempty"`
	EducationInsight    string               `json:"educationInsight,omitempty"`
	RoleComparisons     []RoleComparison     `json:"roleComparisons"`
	ComparablePositions []ComparablePosition `json:"comparablePositions"`
	SourceBreakdown     []SourceEntry        `json:"sourceBreakdown"`
	BeyondSalary        []string             `json:"beyondSalary,omitempty"`
}

// SalaryRange is an annual salary band in whole dollars.
type SalaryRange struct {
	Min        Dollars `json:"min"`
	Max        Dollars `json:"max"`
	Median     Dollars `json:"median"`
	Confidence string  `json:"confidence,omitempty"`
}

// RoleComparison is one row of the role comparison table shown to exploring users.
type RoleComparison struct {
	Role        string  `json:"role"`
	Min         Dollars `json:"min"`
	Max         Dollars `json:"max"`
	Recommended bool    `json:"recommended"`
}

// ComparablePosition is a job-like record used as a market comparison.
type ComparablePosition struct {
	Employer       string `json:"employer"`
	Position       string `json:"position"`
	SalaryRange    string `json:"salaryRange"`
	Benefits       string `json:"benefits"`
	RelevanceScore string `json:"relevanceScore"`
	DatePosted     string `json:"datePosted"`
	Source         string `json:"source"`
	Location       string `json:"location"`
}

// SourceEntry is a citation record in the report's source breakdown.
type SourceEntry struct {
	Source      string `json:"source"`
	DataPoints  string `json:"dataPoints"`
	SalaryRange string `json:"salaryRange"`
	KeyFindings string `json:"keyFindings"`
	URL         string `json:"url"`
	LastUpdated string `json:"lastUpdated"`
}

// Dollars is a whole-dollar amount. It decodes from JSON integers and floats (rounded),
// since model output is not always integral.
type Dollars int64

// UnmarshalJSON rounds fractional values to the nearest dollar.
func (d *Dollars) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected a finite number")
	}
	*d = Dollars(math.Round(f))
	return nil
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := *r
	if r.SalaryRange != nil {
		sr := *r.SalaryRange
		out.SalaryRange = &sr
	}
	out.NegotiationTips = cloneSlice(r.NegotiationTips)
	out.LeveragePoints = cloneSlice(r.LeveragePoints)
	out.RoleComparisons = cloneSlice(r.RoleComparisons)
	out.ComparablePositions = cloneSlice(r.ComparablePositions)
	out.SourceBreakdown = cloneSlice(r.SourceBreakdown)
	out.BeyondSalary = cloneSlice(r.BeyondSalary)
	return &out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
