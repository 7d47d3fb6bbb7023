package services

import (
	"fmt"
	"strings"
)

// ExtractJSONPayload recovers the structured payload from a free-text
// inference response. Models routinely wrap JSON in prose or markdown code
// fences, so the raw text is untrusted: fences are stripped, then the
// outermost balanced JSON object or array is located and returned verbatim.
// Anything without such a substring is a malformed payload.
func ExtractJSONPayload(text string) (string, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.IndexAny(cleaned, "{[")
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response %q: %w", text, ErrMalformedPayload)
	}

	open := cleaned[start]
	var closer byte = '}'
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		ch := cleaned[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return cleaned[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON in response %q: %w", text, ErrMalformedPayload)
}
