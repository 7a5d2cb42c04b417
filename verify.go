package sendly

import (
	"context"
	"net/http"
	"strings"

	"github.com/sendly-live/sendly-go/internal/api"
	"github.com/sendly-live/sendly-go/internal/apierrors"
)

// Verification channels.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelVoice    = "voice"
)

// Verification statuses.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationExpired  = "expired"
	VerificationFailed   = "failed"
)

// Verification is a one-time-code check against a phone number.
type Verification struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	Phone          string         `json:"phone"`
	DeliveryStatus string         `json:"delivery_status,omitempty"`
	Attempts       int            `json:"attempts"`
	MaxAttempts    int            `json:"max_attempts"`
	Channel        string         `json:"channel,omitempty"`
	ExpiresAt      string         `json:"expires_at,omitempty"`
	VerifiedAt     string         `json:"verified_at,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	Sandbox        bool           `json:"sandbox"`
	AppName        string         `json:"app_name,omitempty"`
	TemplateID     string         `json:"template_id,omitempty"`
	ProfileID      string         `json:"profile_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// SendVerificationRequest is the input to VerifyService.Send.
type SendVerificationRequest struct {
	Phone       string         `json:"phone"`
	Channel     string         `json:"channel,omitempty"`
	CodeLength  int            `json:"code_length,omitempty"`
	ExpiresIn   int            `json:"expires_in,omitempty"`
	MaxAttempts int            `json:"max_attempts,omitempty"`
	TemplateID  string         `json:"template_id,omitempty"`
	ProfileID   string         `json:"profile_id,omitempty"`
	AppName     string         `json:"app_name,omitempty"`
	Locale      string         `json:"locale,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SendVerificationResponse is returned by Send and Resend. Code is only
// populated in sandbox mode.
type SendVerificationResponse struct {
	Verification Verification `json:"verification"`
	Code         string       `json:"code,omitempty"`
}

// CheckVerificationResponse reports whether a submitted code matched.
type CheckVerificationResponse struct {
	Valid        bool          `json:"valid"`
	Status       string        `json:"status"`
	Verification *Verification `json:"verification,omitempty"`
}

// VerificationPage is one page of verifications.
type VerificationPage struct {
	Verifications []Verification `json:"verifications"`
	Pagination    Pagination `json:"pagination"`
}

// ListVerificationsOptions filters VerifyService.List.
type ListVerificationsOptions struct {
	Limit  int
	Status string
	Phone  string
}

// VerifyService sends and checks one-time codes. Sessions manages hosted
// verification flows.
type VerifyService struct {
	api      *api.Client
	Sessions *SessionsService
}

// Send sends a verification code to req.Phone.
func (s *VerifyService) Send(ctx context.Context, req SendVerificationRequest) (*SendVerificationResponse, error) {
	if err := ValidatePhone(req.Phone); err != nil {
		return nil, err
	}
	return doRequest[SendVerificationResponse](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/verify",
		Body:   req,
	})
}

// Resend sends a fresh code for an existing verification.
func (s *VerifyService) Resend(ctx context.Context, id string) (*SendVerificationResponse, error) {
	if err := requireID(id, "Verification"); err != nil {
		return nil, err
	}
	return doRequest[SendVerificationResponse](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/verify/" + api.EscapeID(id) + "/resend",
		Body:   struct{}{},
	})
}

// Check submits the code the user entered.
func (s *VerifyService) Check(ctx context.Context, id, code string) (*CheckVerificationResponse, error) {
	if err := requireID(id, "Verification"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, apierrors.Validation("Verification code is required")
	}
	return doRequest[CheckVerificationResponse](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/verify/" + api.EscapeID(id) + "/check",
		Body:   map[string]string{"code": code},
	})
}

// Get returns a verification.
func (s *VerifyService) Get(ctx context.Context, id string) (*Verification, error) {
	if err := requireID(id, "Verification"); err != nil {
		return nil, err
	}
	return doRequest[Verification](ctx, s.api, api.RequestSpec{Method: http.MethodGet, Path: "/verify/" + api.EscapeID(id)})
}

// List returns recent verifications.
func (s *VerifyService) List(ctx context.Context, opts *ListVerificationsOptions) (*VerificationPage, error) {
	var q api.Query
	if opts != nil {
		q = pageQuery(q, opts.Limit, 0)
		if opts.Status != "" {
			q = q.Set("status", opts.Status)
		}
		if opts.Phone != "" {
			q = q.Set("phone", opts.Phone)
		}
	}
	return doRequest[VerificationPage](ctx, s.api, api.RequestSpec{Method: http.MethodGet, Path: "/verify", Query: q})
}

// Session is a hosted verification flow.
type Session struct {
	ID        string         `json:"id"`
	URL       string         `json:"url"`
	Status    string         `json:"status"`
	Phone     string         `json:"phone,omitempty"`
	ExpiresAt string         `json:"expires_at,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// CreateSessionRequest is the input to SessionsService.Create.
type CreateSessionRequest struct {
	SuccessURL string         `json:"success_url"`
	CancelURL  string         `json:"cancel_url,omitempty"`
	BrandName  string         `json:"brand_name,omitempty"`
	BrandColor string         `json:"brand_color,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ValidateSessionResponse is the result of redeeming a session token.
type ValidateSessionResponse struct {
	Valid      bool           `json:"valid"`
	SessionID  string         `json:"session_id,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	VerifiedAt string         `json:"verified_at,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// SessionsService manages hosted verification sessions.
type SessionsService struct {
	api *api.Client
}

// Create starts a hosted session. Redirect the user to the returned URL.
func (s *SessionsService) Create(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if err := requireField(req.SuccessURL, "Success URL"); err != nil {
		return nil, err
	}
	return doRequest[Session](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/verify/sessions",
		Body:   req,
	})
}

// Validate redeems the token appended to the success URL.
func (s *SessionsService) Validate(ctx context.Context, token string) (*ValidateSessionResponse, error) {
	if err := requireField(token, "Token"); err != nil {
		return nil, err
	}
	return doRequest[ValidateSessionResponse](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/verify/sessions/validate",
		Body:   map[string]string{"token": token},
	})
}
