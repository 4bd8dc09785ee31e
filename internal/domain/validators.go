package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	zipRegex   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// ValidateEmail checks if an email address is valid. Failures carry the
// VALIDATION_ERROR code so they translate to 400 at the response boundary.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrValidation("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrValidation("invalid email format")
	}
	return nil
}

// ValidateRating checks that a review rating is in the 1-5 range.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrValidation(fmt.Sprintf("rating must be between 1 and 5, got %d", rating))
	}
	return nil
}

// ValidateReportReason checks the free-text reason on a report.
func ValidateReportReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrValidation("reason is required")
	}
	if len(reason) > MaxReportReasonLen {
		return ErrValidation(fmt.Sprintf("reason exceeds %d characters", MaxReportReasonLen))
	}
	return nil
}

// ValidateSuggestionFields checks the required fields on a new-court suggestion.
func ValidateSuggestionFields(name, address, city, state, zip string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return ErrValidation("name is required")
	case strings.TrimSpace(address) == "":
		return ErrValidation("address is required")
	case strings.TrimSpace(city) == "":
		return ErrValidation("city is required")
	case strings.TrimSpace(state) == "":
		return ErrValidation("state is required")
	case strings.TrimSpace(zip) == "":
		return ErrValidation("zip is required")
	}
	if !zipRegex.MatchString(strings.TrimSpace(zip)) {
		return ErrValidation("invalid zip code format")
	}
	return nil
}
