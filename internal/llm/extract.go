package llm

import (
	"encoding/json"
	"errors"
)

// Errors returned by ExtractJSONObject.
var (
	ErrNoJSONObject        = errors.New("no JSON object in response")
	ErrUnbalancedJSON      = errors.New("unbalanced JSON object in response")
	ErrMultipleJSONObjects = errors.New("more than one top-level JSON object in response")
	ErrInvalidJSONObject   = errors.New("JSON object in response is not valid JSON")
)

// ExtractJSONObject returns the single balanced top-level {...} object embedded
// in free text, such as a reply wrapped in prose or a code fence. Braces inside
// JSON strings are ignored. Zero objects, an unclosed object or more than one
// top-level object is an error.
func ExtractJSONObject(text string) (string, error) {
	var (
		found    string
		count    int
		depth    int
		start    int
		inString bool
		escaped  bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		if depth == 0 {
			if c == '{' {
				depth = 1
				start = i
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				count++
				if count > 1 {
					return "", ErrMultipleJSONObjects
				}
				found = text[start : i+1]
			}
		}
	}

	switch {
	case depth > 0:
		return "", ErrUnbalancedJSON
	case count == 0:
		return "", ErrNoJSONObject
	case !json.Valid([]byte(found)):
		return "", ErrInvalidJSONObject
	}
	return found, nil
}
