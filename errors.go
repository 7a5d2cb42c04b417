package sendly

import (
	"github.com/sendly-live/sendly-go/internal/apierrors"
)

// Error is returned by every failing SDK call. Switch on Kind, or use
// errors.Is with the sentinels below, rather than matching on messages.
//
//	var e *sendly.Error
//	if errors.As(err, &e) && e.Kind == sendly.KindRateLimit && e.RetryAfter != nil {
//	    time.Sleep(*e.RetryAfter)
//	}
type Error = apierrors.Error

// Kind discriminates failure classes.
type Kind = apierrors.Kind

// Error kinds.
const (
	KindAuthentication      = apierrors.KindAuthentication
	KindValidation          = apierrors.KindValidation
	KindInsufficientCredits = apierrors.KindInsufficientCredits
	KindNotFound            = apierrors.KindNotFound
	KindRateLimit           = apierrors.KindRateLimit
	KindService             = apierrors.KindService
	KindNetwork             = apierrors.KindNetwork
	KindSignature           = apierrors.KindSignature
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned by New when the API key is empty or blank.
	ErrMissingAPIKey = apierrors.ErrMissingAPIKey

	// ErrAuthentication is returned when the API key is invalid or missing (401).
	ErrAuthentication = apierrors.ErrAuthentication

	// ErrValidation is returned for invalid input, whether caught locally or by the API (400).
	ErrValidation = apierrors.ErrValidation

	// ErrInsufficientCredits is returned when the account balance is too low (402).
	ErrInsufficientCredits = apierrors.ErrInsufficientCredits

	// ErrNotFound is returned when a resource does not exist (404).
	ErrNotFound = apierrors.ErrNotFound

	// ErrRateLimited is returned when the API rate limit is exceeded (429).
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrService is returned for 5xx and other unexpected responses.
	ErrService = apierrors.ErrService

	// ErrNetwork is returned when no response was received, including
	// cancellation of the caller's context.
	ErrNetwork = apierrors.ErrNetwork

	// ErrSignatureInvalid is returned when a webhook fails verification or parsing.
	ErrSignatureInvalid = apierrors.ErrSignatureInvalid
)

// IsRetryable reports whether err is a transient failure that survived the
// client's own retries.
func IsRetryable(err error) bool {
	e, ok := apierrors.As(err)
	return ok && e.Retryable()
}
