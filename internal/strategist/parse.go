package strategist

import (
	"encoding/json"
	"strings"

	"github.com/growthplot/strategy-agent/internal/models"
)

const snippetLimit = 200

// parseStrategy turns raw model output into a Strategy. It first attempts a
// strict parse of the trimmed text; if that fails it extracts the outermost
// balanced JSON object, since models occasionally wrap valid JSON in prose
// despite the schema constraint. The returned strategy has no id or
// timestamp yet.
func parseStrategy(text string) (*models.Strategy, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(text), "\uFEFF")
	if cleaned == "" {
		return nil, &EmptyResponseError{}
	}

	raw := map[string]any{}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		extracted, ok := extractJSONObject(cleaned)
		if !ok {
			return nil, &MalformedResponseError{Snippet: snippet(cleaned)}
		}
		if err := json.Unmarshal([]byte(extracted), &raw); err != nil {
			return nil, &MalformedResponseError{Snippet: snippet(cleaned)}
		}
		cleaned = extracted
	}

	if missing := CheckMandatory(raw); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	var strategy models.Strategy
	if err := json.Unmarshal([]byte(cleaned), &strategy); err != nil {
		// Shape passed the mandatory check but a field does not fit the
		// typed document, e.g. a fractional growthScore.
		return nil, &MalformedResponseError{Snippet: snippet(cleaned)}
	}
	return &strategy, nil
}

// extractJSONObject returns the substring from the first '{' to the last '}'.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func snippet(text string) string {
	if len(text) > snippetLimit {
		return text[:snippetLimit]
	}
	return text
}
