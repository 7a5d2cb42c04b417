package sendly

import (
	"context"
	"net/http"

	"github.com/sendly-live/sendly-go/internal/api"
)

// Template is a verification message template.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Body        string   `json:"body"`
	Type        string   `json:"type,omitempty"`
	Locale      string   `json:"locale,omitempty"`
	Variables   []string `json:"variables,omitempty"`
	IsDefault   bool     `json:"is_default"`
	IsPublished bool     `json:"is_published"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// Pagination describes the position of a cursor-style page.
type Pagination struct {
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// TemplatePage is one page of templates.
type TemplatePage struct {
	Templates  []Template `json:"templates"`
	Pagination Pagination `json:"pagination"`
}

// CreateTemplateRequest is the input to TemplatesService.Create.
type CreateTemplateRequest struct {
	Name   string `json:"name"`
	Body   string `json:"body"`
	Type   string `json:"type,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// UpdateTemplateRequest is the input to TemplatesService.Update. Nil fields
// are left unchanged.
type UpdateTemplateRequest struct {
	Name   *string `json:"name,omitempty"`
	Body   *string `json:"body,omitempty"`
	Locale *string `json:"locale,omitempty"`
}

// ListTemplatesOptions filters TemplatesService.List.
type ListTemplatesOptions struct {
	Limit  int
	Type   string
	Locale string
}

// DeleteResult acknowledges a deletion.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TemplatesService manages verification templates.
type TemplatesService struct {
	api *api.Client
}

// List returns templates matching opts.
func (s *TemplatesService) List(ctx context.Context, opts *ListTemplatesOptions) (*TemplatePage, error) {
	var q api.Query
	if opts != nil {
		q = pageQuery(q, opts.Limit, 0)
		if opts.Type != "" {
			q = q.Set("type", opts.Type)
		}
		if opts.Locale != "" {
			q = q.Set("locale", opts.Locale)
		}
	}
	return doRequest[TemplatePage](ctx, s.api, api.RequestSpec{Method: http.MethodGet, Path: "/verify/templates", Query: q})
}

// Get returns a template.
func (s *TemplatesService) Get(ctx context.Context, id string) (*Template, error) {
	return s.call(ctx, http.MethodGet, id, "", nil)
}

// Create creates an unpublished template.
func (s *TemplatesService) Create(ctx context.Context, req CreateTemplateRequest) (*Template, error) {
	if err := requireField(req.Name, "Template name"); err != nil {
		return nil, err
	}
	if err := requireField(req.Body, "Template body"); err != nil {
		return nil, err
	}
	return doRequest[Template](ctx, s.api, api.RequestSpec{Method: http.MethodPost, Path: "/verify/templates", Body: req})
}

// Update modifies a template.
func (s *TemplatesService) Update(ctx context.Context, id string, req UpdateTemplateRequest) (*Template, error) {
	return s.call(ctx, http.MethodPatch, id, "", req)
}

// Delete removes a template.
func (s *TemplatesService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if err := requireID(id, "Template"); err != nil {
		return nil, err
	}
	return doRequest[DeleteResult](ctx, s.api, api.RequestSpec{
		Method: http.MethodDelete,
		Path:   "/verify/templates/" + api.EscapeID(id),
	})
}

// Publish makes a template available for verifications.
func (s *TemplatesService) Publish(ctx context.Context, id string) (*Template, error) {
	return s.call(ctx, http.MethodPost, id, "/publish", struct{}{})
}

// Unpublish withdraws a published template.
func (s *TemplatesService) Unpublish(ctx context.Context, id string) (*Template, error) {
	return s.call(ctx, http.MethodPost, id, "/unpublish", struct{}{})
}

// Clone copies a template, including presets, into a new draft. An empty
// name lets the server pick one.
func (s *TemplatesService) Clone(ctx context.Context, id, name string) (*Template, error) {
	if err := requireID(id, "Template"); err != nil {
		return nil, err
	}
	var body any = struct{}{}
	if name != "" {
		body = map[string]string{"name": name}
	}
	return doRequest[Template](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/templates/" + api.EscapeID(id) + "/clone",
		Body:   body,
	})
}

func (s *TemplatesService) call(ctx context.Context, method, id, suffix string, body any) (*Template, error) {
	if err := requireID(id, "Template"); err != nil {
		return nil, err
	}
	return doRequest[Template](ctx, s.api, api.RequestSpec{
		Method: method,
		Path:   "/verify/templates/" + api.EscapeID(id) + suffix,
		Body:   body,
	})
}
