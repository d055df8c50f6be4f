package validation

import (
	"errors"
	"strings"
)

// ValidateDreamText validates the free-text description of a dream.
func ValidateDreamText(text string) error {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return errors.New("dream text is required")
	}

	if len(trimmed) > 1000 {
		return errors.New("dream text is too long (max 1000 characters)")
	}

	return nil
}

// ValidateStepTitle validates a step title.
func ValidateStepTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if len(trimmed) > 200 {
		return errors.New("title is too long (max 200 characters)")
	}

	return nil
}
