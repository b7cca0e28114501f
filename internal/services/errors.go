package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrParse         = errors.New("parse error")
	ErrFatal         = errors.New("fatal fetch error")
	ErrTransient     = errors.New("transient failure")
	ErrSplit         = errors.New("split error")
	ErrCatalog       = errors.New("catalog error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether an error may succeed on a later attempt. Parse,
// fatal-fetch, split, and configuration failures are final for their URL;
// everything else is assumed transient.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrParse), errors.Is(err, ErrFatal),
		errors.Is(err, ErrSplit), errors.Is(err, ErrValidation),
		errors.Is(err, ErrConfiguration):
		return false
	default:
		return true
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
