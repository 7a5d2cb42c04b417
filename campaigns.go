package sendly

import (
	"context"
	"net/http"

	"github.com/sendly-live/sendly-go/internal/api"
)

// Campaign statuses.
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignSent      = "sent"
	CampaignCancelled = "cancelled"
	CampaignFailed    = "failed"
)

// Campaign is a message sent to one or more contact lists.
type Campaign struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Text             string   `json:"text"`
	TemplateID       string   `json:"template_id,omitempty"`
	ContactListIDs   []string `json:"contact_list_ids"`
	Status           string   `json:"status"`
	RecipientCount   int      `json:"recipient_count"`
	SentCount        int      `json:"sent_count"`
	DeliveredCount   int      `json:"delivered_count"`
	FailedCount      int      `json:"failed_count"`
	EstimatedCredits *float64 `json:"estimated_credits,omitempty"`
	CreditsUsed      *float64 `json:"credits_used,omitempty"`
	ScheduledAt      string   `json:"scheduled_at,omitempty"`
	Timezone         string   `json:"timezone,omitempty"`
	StartedAt        string   `json:"started_at,omitempty"`
	CompletedAt      string   `json:"completed_at,omitempty"`
	CreatedAt        string   `json:"created_at,omitempty"`
	UpdatedAt        string   `json:"updated_at,omitempty"`
}

// CampaignList is one page of campaigns.
type CampaignList struct {
	Campaigns []Campaign `json:"campaigns"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// CampaignPreview estimates the reach and cost of a campaign.
type CampaignPreview struct {
	RecipientCount   int      `json:"recipient_count"`
	EstimatedCredits float64  `json:"estimated_credits"`
	EstimatedCost    float64  `json:"estimated_cost"`
	BlockedCount     *int     `json:"blocked_count,omitempty"`
	SendableCount    *int     `json:"sendable_count,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// CreateCampaignRequest is the input to CampaignsService.Create.
type CreateCampaignRequest struct {
	Name           string   `json:"name"`
	Text           string   `json:"text"`
	ContactListIDs []string `json:"contact_list_ids"`
	TemplateID     string   `json:"template_id,omitempty"`
}

// UpdateCampaignRequest is the input to CampaignsService.Update. Nil fields
// are left unchanged.
type UpdateCampaignRequest struct {
	Name           *string  `json:"name,omitempty"`
	Text           *string  `json:"text,omitempty"`
	ContactListIDs []string `json:"contact_list_ids,omitempty"`
	TemplateID     *string  `json:"template_id,omitempty"`
}

// ScheduleCampaignRequest is the input to CampaignsService.Schedule.
type ScheduleCampaignRequest struct {
	ScheduledAt string `json:"scheduled_at"`
	Timezone    string `json:"timezone,omitempty"`
}

// ListCampaignsOptions filters CampaignsService.List.
type ListCampaignsOptions struct {
	Limit  int
	Offset int
	Status string
}

// CampaignsService manages bulk campaigns.
type CampaignsService struct {
	api *api.Client
}

// List returns one page of campaigns.
func (s *CampaignsService) List(ctx context.Context, opts *ListCampaignsOptions) (*CampaignList, error) {
	var q api.Query
	if opts != nil {
		q = pageQuery(q, opts.Limit, opts.Offset)
		if opts.Status != "" {
			q = q.Set("status", opts.Status)
		}
	}
	return doRequest[CampaignList](ctx, s.api, api.RequestSpec{Method: http.MethodGet, Path: "/campaigns", Query: q})
}

// Get returns a campaign.
func (s *CampaignsService) Get(ctx context.Context, id string) (*Campaign, error) {
	return s.call(ctx, http.MethodGet, id, "", nil)
}

// Create creates a draft campaign.
func (s *CampaignsService) Create(ctx context.Context, req CreateCampaignRequest) (*Campaign, error) {
	if err := requireField(req.Name, "Campaign name"); err != nil {
		return nil, err
	}
	if err := ValidateText(req.Text); err != nil {
		return nil, err
	}
	return doRequest[Campaign](ctx, s.api, api.RequestSpec{Method: http.MethodPost, Path: "/campaigns", Body: req})
}

// Update modifies a draft campaign.
func (s *CampaignsService) Update(ctx context.Context, id string, req UpdateCampaignRequest) (*Campaign, error) {
	if req.Text != nil {
		if err := ValidateText(*req.Text); err != nil {
			return nil, err
		}
	}
	return s.call(ctx, http.MethodPatch, id, "", req)
}

// Delete removes a campaign.
func (s *CampaignsService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, "Campaign"); err != nil {
		return err
	}
	return s.api.Do(ctx, api.RequestSpec{Method: http.MethodDelete, Path: "/campaigns/" + api.EscapeID(id)}, nil)
}

// Preview estimates recipients and cost without sending.
func (s *CampaignsService) Preview(ctx context.Context, id string) (*CampaignPreview, error) {
	if err := requireID(id, "Campaign"); err != nil {
		return nil, err
	}
	return doRequest[CampaignPreview](ctx, s.api, api.RequestSpec{
		Method: http.MethodGet,
		Path:   "/campaigns/" + api.EscapeID(id) + "/preview",
	})
}

// Send starts sending a campaign immediately.
func (s *CampaignsService) Send(ctx context.Context, id string) (*Campaign, error) {
	return s.call(ctx, http.MethodPost, id, "/send", struct{}{})
}

// Schedule sets a campaign to send at req.ScheduledAt.
func (s *CampaignsService) Schedule(ctx context.Context, id string, req ScheduleCampaignRequest) (*Campaign, error) {
	if err := validateScheduledAt(req.ScheduledAt); err != nil {
		return nil, err
	}
	return s.call(ctx, http.MethodPost, id, "/schedule", req)
}

// Cancel cancels a scheduled campaign.
func (s *CampaignsService) Cancel(ctx context.Context, id string) (*Campaign, error) {
	return s.call(ctx, http.MethodPost, id, "/cancel", struct{}{})
}

// Clone copies a campaign into a new draft.
func (s *CampaignsService) Clone(ctx context.Context, id string) (*Campaign, error) {
	return s.call(ctx, http.MethodPost, id, "/clone", struct{}{})
}

func (s *CampaignsService) call(ctx context.Context, method, id, suffix string, body any) (*Campaign, error) {
	if err := requireID(id, "Campaign"); err != nil {
		return nil, err
	}
	return doRequest[Campaign](ctx, s.api, api.RequestSpec{
		Method: method,
		Path:   "/campaigns/" + api.EscapeID(id) + suffix,
		Body:   body,
	})
}
