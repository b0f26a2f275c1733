// Package types provides type definitions for the profiles and reports exchanged with clients,
// the language-model provider and the persistence layer.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Profile is the job-seeker profile as submitted by the multi-step form.
// It is input only: nothing in this module mutates a Profile after decoding.
type Profile struct {
	// Basic info
	FirstName         string   `json:"firstName,omitempty"`
	Email             string   `json:"email,omitempty"`
	DegreeType        string   `json:"degreeType,omitempty"`
	YearsExperience   Years    `json:"yearsExperience"`
	TargetRole        string   `json:"targetRole,omitempty"`
	TargetLocation    Location `json:"targetLocation"`
	SettingPreference string   `json:"settingPreference,omitempty"`
	StartDateGoal     string   `json:"startDateGoal,omitempty"`

	// Professional background
	CurrentRole             string   `json:"currentRole,omitempty"`
	GraduationDate          string   `json:"graduationDate,omitempty"`
	SpecialtyCertifications []string `json:"specialtyCertifications,omitempty"`
	ClinicalAreas           []string `json:"clinicalAreas,omitempty"`
	LeadershipExperience    bool     `json:"leadershipExperience,omitempty"`
	PreceptorExperience     bool     `json:"preceptorExperience,omitempty"`
	BilingualSkills         []string `json:"bilingualSkills,omitempty"`
	AdditionalStrengths     string   `json:"additionalStrengths,omitempty"`

	// Current situation
	CurrentlyEmployed    *bool      `json:"currentlyEmployed,omitempty"`
	ReasonForChange      string     `json:"reasonForChange,omitempty"`
	OtherOffers          OfferCount `json:"otherOffers"`
	WillingToRelocate    bool       `json:"willingToRelocate,omitempty"`
	FamilyConsiderations string     `json:"familyConsiderations,omitempty"`

	// Priorities
	TopPriority        string              `json:"topPriority,omitempty"`
	SalaryExpectations *SalaryExpectations `json:"salaryExpectations,omitempty"`
	MustHaves          []string            `json:"mustHaves,omitempty"`
	DealBreakers       []string            `json:"dealBreakers,omitempty"`
	NegotiationComfort string              `json:"negotiationComfort,omitempty"`

	// Employer details
	EmployerType    string `json:"employerType,omitempty"`
	EmployerSize    string `json:"employerSize,omitempty"`
	Unionized       bool   `json:"unionized,omitempty"`
	RuralLocation   bool   `json:"ruralLocation,omitempty"`
	LoanForgiveness bool   `json:"loanForgiveness,omitempty"`
}

// SalaryExpectations holds the three free-text salary bands from the form.
type SalaryExpectations struct {
	Current FlexString `json:"current,omitempty"`
	Minimum FlexString `json:"minimum,omitempty"`
	Target  FlexString `json:"target,omitempty"`
}

// Years is years of experience. The form posts it as a string; API clients may send a number.
type Years struct {
	Raw     string
	Present bool
}

// NewYears builds a present Years value from an integer.
func NewYears(n int) Years {
	return Years{Raw: strconv.Itoa(n), Present: true}
}

// Value returns the whole number of years. Non-numeric, negative or absent input is 0.
func (y Years) Value() int {
	s := strings.TrimSpace(y.Raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(f)
}

// UnmarshalJSON accepts a number, a string or null.
func (y *Years) UnmarshalJSON(data []byte) error {
	s, present, err := scalarText(data)
	if err != nil {
		return fmt.Errorf("yearsExperience: %w", err)
	}
	*y = Years{Raw: s, Present: present && strings.TrimSpace(s) != ""}
	return nil
}

// MarshalJSON writes the normalized number, or null when absent.
func (y Years) MarshalJSON() ([]byte, error) {
	if !y.Present {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(y.Value())), nil
}

// OffersThreeOrMore is the form's marker for "3 or more other offers".
const OffersThreeOrMore = "3+"

// OfferCount is the number of competing offers.
type OfferCount struct {
	Raw string
}

// Value returns the offer count: "3+" is 3, other non-numeric input is 0.
func (o OfferCount) Value() int {
	s := strings.TrimSpace(o.Raw)
	if s == OffersThreeOrMore {
		return 3
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// UnmarshalJSON accepts a number, a string or null.
func (o *OfferCount) UnmarshalJSON(data []byte) error {
	s, _, err := scalarText(data)
	if err != nil {
		return fmt.Errorf("otherOffers: %w", err)
	}
	o.Raw = s
	return nil
}

// MarshalJSON writes the normalized count.
func (o OfferCount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(o.Value())), nil
}

// Location is the target location: a string, a list of strings, or an object
// whose values are rendered in key order.
type Location struct {
	Parts []string
}

// NewLocation builds a Location from plain parts.
func NewLocation(parts ...string) Location {
	return Location{Parts: parts}
}

// String renders the location as the parts joined by ", ".
func (l Location) String() string {
	parts := make([]string, 0, len(l.Parts))
	for _, p := range l.Parts {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// UnmarshalJSON accepts a string, an array of scalars, an object of scalars, or null.
func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	l.Parts = nil
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("targetLocation: %w", err)
		}
		l.Parts = []string{s}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("targetLocation: %w", err)
		}
		for _, r := range raw {
			s, _, err := scalarText(r)
			if err != nil {
				return fmt.Errorf("targetLocation: %w", err)
			}
			l.Parts = append(l.Parts, s)
		}
		return nil
	case '{':
		parts, err := orderedObjectValues(data)
		if err != nil {
			return fmt.Errorf("targetLocation: %w", err)
		}
		l.Parts = parts
		return nil
	default:
		s, _, err := scalarText(data)
		if err != nil {
			return fmt.Errorf("targetLocation: %w", err)
		}
		l.Parts = []string{s}
		return nil
	}
}

// MarshalJSON writes the rendered location string.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// FlexString is a text value that clients sometimes send as a number.
type FlexString string

// UnmarshalJSON accepts a string, a number, a bool or null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	s, _, err := scalarText(data)
	if err != nil {
		return err
	}
	*f = FlexString(s)
	return nil
}

// scalarText decodes a JSON scalar into its text form. present is false for null.
func scalarText(data []byte) (text string, present bool, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false, nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return "", false, err
		}
		return strconv.FormatBool(b), true, nil
	case '{', '[':
		return "", false, fmt.Errorf("expected a scalar value, got %s", data[:1])
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", false, err
		}
		return n.String(), true, nil
	}
}

// orderedObjectValues returns the scalar values of a JSON object in document order.
func orderedObjectValues(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var out []string
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		s, present, err := scalarText(raw)
		if err != nil {
			return nil, err
		}
		if present {
			out = append(out, s)
		}
	}
	return out, nil
}
