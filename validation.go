package sendly

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sendly-live/sendly-go/internal/apierrors"
)

// MaxTextLength is the longest message text accepted, in characters.
const MaxTextLength = 1600

// maxPageSize is the largest page the API serves.
const maxPageSize = 100

// E.164: a plus sign, a non-zero country code digit, 7 to 15 digits in total.
var phonePattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// ValidatePhone reports whether phone is an E.164 number.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return apierrors.Validation("Invalid phone number format: %s. Use E.164 format (e.g. +15551234567)", phone)
	}
	return nil
}

// ValidateText reports whether text is non-empty and within MaxTextLength
// characters.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apierrors.Validation("Message text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return apierrors.Validation("Message text exceeds maximum length of %d characters", MaxTextLength)
	}
	return nil
}

func validateScheduledAt(scheduledAt string) error {
	if strings.TrimSpace(scheduledAt) == "" {
		return apierrors.Validation("Scheduled time is required")
	}
	if _, err := time.Parse(time.RFC3339, scheduledAt); err != nil {
		return apierrors.Validation("Invalid scheduled time format: %s. Use ISO 8601 format", scheduledAt)
	}
	return nil
}

func requireID(id, resource string) error {
	if strings.TrimSpace(id) == "" {
		return apierrors.Validation("%s ID is required", resource)
	}
	return nil
}

func requireField(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return apierrors.Validation("%s is required", name)
	}
	return nil
}

func clampLimit(limit int) int {
	return min(limit, maxPageSize)
}
