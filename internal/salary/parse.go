// Package salary parses the free-text salary values users enter on the profile form.
//
// Grammar (whitespace around tokens is ignored, matching is case-insensitive):
//
//	amount := ["$"] digits {"," digits} ["." digits] ["k"]
//	band   := "<" amount          upper bound only    ("<60k")
//	        | amount "+"          lower bound only    ("110k+")
//	        | amount "-" amount   closed range        ("60-70k", "$60k - $70k")
//	        | amount              single value        ("125000", "$125k")
//
// In a closed range a "k" on the right-hand side also scales a bare left-hand side,
// so "60-70k" means 60000 to 70000. Amounts above MaxAmount are rejected.
package salary

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxAmount is the largest accepted amount in whole dollars.
const MaxAmount = 100_000_000

// ErrSyntax reports input that does not match the grammar.
type ErrSyntax struct {
	Input  string
	Reason string
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf("invalid salary value %q: %s", e.Input, e.Reason)
}

// Band is a parsed salary band in whole dollars. A zero bound means "open".
type Band struct {
	Min   int  `json:"min,omitempty"`
	Max   int  `json:"max,omitempty"`
	Known bool `json:"known"`
}

// Midpoint returns a single representative value for the band.
func (b Band) Midpoint() int {
	switch {
	case !b.Known:
		return 0
	case b.Min > 0 && b.Max > 0:
		return (b.Min + b.Max) / 2
	case b.Max > 0:
		return b.Max
	default:
		return b.Min
	}
}

// ParseBand parses a salary band. Empty input and syntax errors return an error;
// callers that want "not specified" semantics use MustBand.
func ParseBand(s string) (Band, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return Band{}, &ErrSyntax{Input: s, Reason: "empty"}
	}

	switch {
	case strings.HasPrefix(in, "<"):
		v, err := ParseAmount(in[1:])
		if err != nil {
			return Band{}, &ErrSyntax{Input: s, Reason: "bad upper bound"}
		}
		return Band{Max: v, Known: true}, nil
	case strings.HasSuffix(in, "+"):
		v, err := ParseAmount(strings.TrimSuffix(in, "+"))
		if err != nil {
			return Band{}, &ErrSyntax{Input: s, Reason: "bad lower bound"}
		}
		return Band{Min: v, Known: true}, nil
	}

	if left, right, ok := strings.Cut(in, "-"); ok {
		rightToken := normalizeToken(right)
		if strings.HasSuffix(rightToken, "k") && !strings.HasSuffix(normalizeToken(left), "k") {
			left += "k"
		}
		lo, err := ParseAmount(left)
		if err != nil {
			return Band{}, &ErrSyntax{Input: s, Reason: "bad lower bound"}
		}
		hi, err := ParseAmount(right)
		if err != nil {
			return Band{}, &ErrSyntax{Input: s, Reason: "bad upper bound"}
		}
		if lo > hi {
			return Band{}, &ErrSyntax{Input: s, Reason: "lower bound exceeds upper bound"}
		}
		return Band{Min: lo, Max: hi, Known: true}, nil
	}

	v, err := ParseAmount(in)
	if err != nil {
		return Band{}, err
	}
	return Band{Min: v, Max: v, Known: true}, nil
}

// MustBand parses s and returns the zero Band on any failure.
func MustBand(s string) Band {
	b, err := ParseBand(s)
	if err != nil {
		return Band{}
	}
	return b
}

// ParseAmount parses a single amount such as "125k", "$125,000" or "98500.50".
// The result is rounded to whole dollars.
func ParseAmount(s string) (int, error) {
	tok := normalizeToken(s)
	if tok == "" {
		return 0, &ErrSyntax{Input: s, Reason: "empty"}
	}

	tok = strings.TrimPrefix(tok, "$")
	scale := 1.0
	if strings.HasSuffix(tok, "k") {
		scale = 1000
		tok = strings.TrimSuffix(tok, "k")
	}

	intPart, frac, hasFrac := strings.Cut(tok, ".")
	if !validGrouping(intPart) {
		return 0, &ErrSyntax{Input: s, Reason: "expected digits"}
	}
	if hasFrac && (frac == "" || !allDigits(frac)) {
		return 0, &ErrSyntax{Input: s, Reason: "bad fraction"}
	}

	num := strings.ReplaceAll(intPart, ",", "")
	if hasFrac {
		num += "." + frac
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, &ErrSyntax{Input: s, Reason: err.Error()}
	}
	v := math.Round(f * scale)
	if v > MaxAmount {
		return 0, &ErrSyntax{Input: s, Reason: "out of range"}
	}
	return int(v), nil
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// validGrouping accepts "125000" or comma-grouped "125,000".
func validGrouping(s string) bool {
	if s == "" {
		return false
	}
	groups := strings.Split(s, ",")
	for i, g := range groups {
		if !allDigits(g) || g == "" {
			return false
		}
		if i > 0 && len(g) != 3 {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
