// Package apierrors provides the shared error taxonomy for the Sendly client.
package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrAuthentication is matched by errors of KindAuthentication.
	ErrAuthentication = errors.New("invalid or missing API key")

	// ErrValidation is matched by errors of KindValidation.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientCredits is matched by errors of KindInsufficientCredits.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrNotFound is matched by errors of KindNotFound.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is matched by errors of KindRateLimit.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrService is matched by errors of KindService.
	ErrService = errors.New("service error")

	// ErrNetwork is matched by errors of KindNetwork.
	ErrNetwork = errors.New("network error")

	// ErrSignatureInvalid is matched by errors of KindSignature.
	ErrSignatureInvalid = errors.New("webhook signature verification failed")
)

// Kind discriminates the failure classes of the API.
type Kind string

const (
	// KindAuthentication indicates a missing or rejected API key (401).
	KindAuthentication Kind = "authentication"
	// KindValidation indicates invalid input, local or server-side (400).
	KindValidation Kind = "validation"
	// KindInsufficientCredits indicates the account cannot pay for the request (402).
	KindInsufficientCredits Kind = "insufficient_credits"
	// KindNotFound indicates the resource does not exist (404).
	KindNotFound Kind = "not_found"
	// KindRateLimit indicates the server throttled the request (429).
	KindRateLimit Kind = "rate_limit"
	// KindService covers 5xx and any other unexpected status.
	KindService Kind = "service"
	// KindNetwork indicates the request never produced an HTTP response.
	KindNetwork Kind = "network"
	// KindSignature indicates a webhook payload failed authentication or parsing.
	KindSignature Kind = "signature"
)

// Default machine-readable codes used when the response body carries none.
const (
	CodeAuthentication      = "AUTHENTICATION_ERROR"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeNotFound            = "NOT_FOUND"
	CodeRateLimit           = "RATE_LIMIT_EXCEEDED"
	CodeNetwork             = "NETWORK_ERROR"
)

// Error is the single error type produced by the client. Callers switch on
// Kind (or use errors.Is with the sentinels above) instead of matching types.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // 0 when no HTTP response was received
	Code       string
	RequestID  string
	// RetryAfter is the server's back-off hint. Only set for KindRateLimit,
	// nil when the response carried no usable Retry-After header.
	RetryAfter *time.Duration
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(" error")
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request_id: %s)", e.RequestID)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindAuthentication:
		return target == ErrAuthentication
	case KindValidation:
		return target == ErrValidation
	case KindInsufficientCredits:
		return target == ErrInsufficientCredits
	case KindNotFound:
		return target == ErrNotFound
	case KindRateLimit:
		return target == ErrRateLimited
	case KindService:
		return target == ErrService
	case KindNetwork:
		return target == ErrNetwork
	case KindSignature:
		return target == ErrSignatureInvalid
	}
	return false
}

// Retryable reports whether the failure is transient: throttling, a 5xx
// response, or a transport failure.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindNetwork:
		return true
	case KindService:
		return e.StatusCode >= 500
	}
	return false
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Body is the error document returned by the API.
type Body struct {
	Message string
	Error   string
	Code    string
}

// ParseBody extracts the error fields from a response body. Unparseable or
// non-object bodies yield an empty Body. The "error" member may be either a
// string or an object with its own message and code.
func ParseBody(data []byte) Body {
	var raw struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Code    string          `json:"code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Body{}
	}

	body := Body{Message: raw.Message, Code: raw.Code}
	if len(raw.Error) == 0 {
		return body
	}

	var s string
	if err := json.Unmarshal(raw.Error, &s); err == nil {
		body.Error = s
		return body
	}

	var nested struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(raw.Error, &nested); err == nil {
		body.Error = nested.Message
		if body.Code == "" {
			body.Code = nested.Code
		}
	}
	return body
}

// ParseRetryAfter parses a Retry-After header carrying whole seconds.
// Missing, negative, or non-integer values yield nil.
func ParseRetryAfter(header string) *time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return nil
	}
	d := time.Duration(secs) * time.Second
	return &d
}

type statusClass struct {
	kind    Kind
	message string
	code    string
}

var statusClasses = map[int]statusClass{
	http.StatusUnauthorized:    {KindAuthentication, "Invalid or missing API key", CodeAuthentication},
	http.StatusBadRequest:      {KindValidation, "Validation failed", CodeValidation},
	http.StatusPaymentRequired: {KindInsufficientCredits, "Insufficient credits", CodeInsufficientCredits},
	http.StatusNotFound:        {KindNotFound, "Resource not found", CodeNotFound},
	http.StatusTooManyRequests: {KindRateLimit, "Rate limit exceeded", CodeRateLimit},
}

// Map converts a non-success status and its raw body into an *Error.
// The message is taken from the body's "message" field, then its "error"
// field, then the default for the status.
func Map(status int, body []byte, retryAfter *time.Duration) *Error {
	class, ok := statusClasses[status]
	if !ok {
		class = statusClass{kind: KindService, message: "Server error"}
	}

	parsed := ParseBody(body)
	e := &Error{
		Kind:       class.kind,
		StatusCode: status,
		Message:    firstNonEmpty(parsed.Message, parsed.Error, class.message),
		Code:       firstNonEmpty(parsed.Code, class.code),
	}
	if class.kind == KindRateLimit {
		e.RetryAfter = retryAfter
	}
	return e
}

// Network wraps a transport-level failure.
func Network(cause error) *Error {
	msg := "Network error occurred"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Kind:    KindNetwork,
		Message: msg,
		Code:    CodeNetwork,
		Err:     cause,
	}
}

// Validation returns a locally detected input error.
func Validation(format string, args ...any) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidation,
	}
}

// Signature returns a webhook authentication or parsing failure.
func Signature(message string, cause error) *Error {
	return &Error{
		Kind:    KindSignature,
		Message: message,
		Err:     cause,
	}
}

// MissingAPIKey is returned at construction when the key is empty or blank.
func MissingAPIKey() *Error {
	return &Error{
		Kind:       KindAuthentication,
		Message:    ErrMissingAPIKey.Error(),
		StatusCode: http.StatusUnauthorized,
		Code:       CodeAuthentication,
		Err:        ErrMissingAPIKey,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
