package gateway

import (
	"errors"
	"strings"
)

// ErrNoJSON is returned when a reply contains no brace-delimited payload.
var ErrNoJSON = errors.New("no JSON object found in reply")

// Extractor locates the JSON payload inside a free-form model reply.
type Extractor func(reply string) (string, error)

// ExtractJSON returns the span between the first '{' and the last '}'.
// It tolerates prose or code fences around the payload.
func ExtractJSON(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < 0 || end < start {
		return "", ErrNoJSON
	}
	return reply[start : end+1], nil
}

// ExtractBalancedJSON returns the first brace-balanced object, honoring
// string literals and escapes. Trailing prose containing braces is ignored.
func ExtractBalancedJSON(reply string) (string, error) {
	start := strings.Index(reply, "{")
	if start < 0 {
		return "", ErrNoJSON
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(reply); i++ {
		c := reply[i]
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
				return reply[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}

// ExtractorFor maps a configured strategy name to an Extractor.
// Unknown names fall back to the span strategy.
func ExtractorFor(name string) Extractor {
	if strings.EqualFold(name, "balanced") {
		return ExtractBalancedJSON
	}
	return ExtractJSON
}
