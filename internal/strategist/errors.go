package strategist

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey means the Gemini credential was absent at client
// construction. Not retryable.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is missing")

// EmptyResponseError means the backend returned no usable text.
type EmptyResponseError struct{}

func (e *EmptyResponseError) Error() string {
	return "empty response from model"
}

// MalformedResponseError means the response text could not be parsed as JSON
// even after attempting to extract an embedded object. Snippet is truncated
// so errors stay log-sized.
type MalformedResponseError struct {
	Snippet string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse model response as JSON: %q", e.Snippet)
}

// ValidationError means the parsed object is missing mandatory strategy
// fields.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model response missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Backend error categories used for user-facing messages.
const (
	CategoryQuotaExceeded = "quota_exceeded"
	CategoryInvalidKey    = "invalid_key"
	CategoryTransient     = "transient"
)

// BackendError wraps a transport/quota/auth failure from the generation
// backend. Category is empty when the failure was not recognized.
type BackendError struct {
	Category string
	Err      error
}

func (e *BackendError) Error() string {
	switch e.Category {
	case CategoryInvalidKey:
		return "invalid or missing API key, check the GEMINI_API_KEY environment variable"
	case CategoryQuotaExceeded:
		return "API quota exceeded, please try again later"
	case CategoryTransient:
		return "the model returned malformed data, please try again"
	}
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error { return e.Err }

// categorize maps known backend failure modes onto user-facing categories.
// Unrecognized errors pass through unannotated.
func categorize(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key"):
		return &BackendError{Category: CategoryInvalidKey, Err: err}
	case strings.Contains(msg, "quota"):
		return &BackendError{Category: CategoryQuotaExceeded, Err: err}
	case strings.Contains(msg, "parse"):
		return &BackendError{Category: CategoryTransient, Err: err}
	}
	return err
}
