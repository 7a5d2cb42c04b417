package sendly

import (
	"context"
	"net/http"

	"github.com/sendly-live/sendly-go/internal/api"
	"github.com/sendly-live/sendly-go/internal/apierrors"
)

// Contact is an address book entry.
type Contact struct {
	ID          string         `json:"id"`
	PhoneNumber string         `json:"phone_number"`
	Name        string         `json:"name,omitempty"`
	Email       string         `json:"email,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   string         `json:"created_at,omitempty"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
}

// ContactList groups contacts for campaigns.
type ContactList struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ContactCount int    `json:"contact_count"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// ContactPage is one page of contacts.
type ContactPage struct {
	Contacts []Contact `json:"contacts"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// ContactListPage is one page of contact lists.
type ContactListPage struct {
	Lists  []ContactList `json:"lists"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// CreateContactRequest is the input to ContactsService.Create.
type CreateContactRequest struct {
	PhoneNumber string         `json:"phone_number"`
	Name        string         `json:"name,omitempty"`
	Email       string         `json:"email,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// UpdateContactRequest is the input to ContactsService.Update. Nil fields
// are left unchanged.
type UpdateContactRequest struct {
	Name     *string        `json:"name,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ImportContactsRequest bulk-creates contacts, optionally adding them to a
// list.
type ImportContactsRequest struct {
	Contacts []CreateContactRequest `json:"contacts"`
	ListID   string                 `json:"list_id,omitempty"`
}

// ImportContactsResult summarizes an import.
type ImportContactsResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ListContactsOptions filters ContactsService.List.
type ListContactsOptions struct {
	Limit  int
	Offset int
	Search string
	ListID string
}

// ContactListRequest is the input to create or update a contact list.
type ContactListRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// ContactsService manages contacts. Lists manages contact lists.
type ContactsService struct {
	api   *api.Client
	Lists *ContactListsService
}

// List returns one page of contacts.
func (s *ContactsService) List(ctx context.Context, opts *ListContactsOptions) (*ContactPage, error) {
	var q api.Query
	if opts != nil {
		q = pageQuery(q, opts.Limit, opts.Offset)
		if opts.Search != "" {
			q = q.Set("search", opts.Search)
		}
		if opts.ListID != "" {
			q = q.Set("list_id", opts.ListID)
		}
	}
	return doRequest[ContactPage](ctx, s.api, api.RequestSpec{Method: http.MethodGet, Path: "/contacts", Query: q})
}

// Get returns a contact.
func (s *ContactsService) Get(ctx context.Context, id string) (*Contact, error) {
	if err := requireID(id, "Contact"); err != nil {
		return nil, err
	}
	return doRequest[Contact](ctx, s.api, api.RequestSpec{Method: http.MethodGet, Path: "/contacts/" + api.EscapeID(id)})
}

// Create adds a contact.
func (s *ContactsService) Create(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	if err := ValidatePhone(req.PhoneNumber); err != nil {
		return nil, err
	}
	return doRequest[Contact](ctx, s.api, api.RequestSpec{Method: http.MethodPost, Path: "/contacts", Body: req})
}

// Update modifies a contact.
func (s *ContactsService) Update(ctx context.Context, id string, req UpdateContactRequest) (*Contact, error) {
	if err := requireID(id, "Contact"); err != nil {
		return nil, err
	}
	return doRequest[Contact](ctx, s.api, api.RequestSpec{
		Method: http.MethodPatch,
		Path:   "/contacts/" + api.EscapeID(id),
		Body:   req,
	})
}

// Delete removes a contact.
func (s *ContactsService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, "Contact"); err != nil {
		return err
	}
	return s.api.Do(ctx, api.RequestSpec{Method: http.MethodDelete, Path: "/contacts/" + api.EscapeID(id)}, nil)
}

// Import bulk-creates contacts. Every phone number is validated first.
func (s *ContactsService) Import(ctx context.Context, req ImportContactsRequest) (*ImportContactsResult, error) {
	if len(req.Contacts) == 0 {
		return nil, apierrors.Validation("At least one contact is required")
	}
	for _, c := range req.Contacts {
		if err := ValidatePhone(c.PhoneNumber); err != nil {
			return nil, err
		}
	}
	return doRequest[ImportContactsResult](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/contacts/import",
		Body:   req,
	})
}

// ContactListsService manages contact lists.
type ContactListsService struct {
	api *api.Client
}

// List returns one page of contact lists.
func (s *ContactListsService) List(ctx context.Context, limit, offset int) (*ContactListPage, error) {
	return doRequest[ContactListPage](ctx, s.api, api.RequestSpec{
		Method: http.MethodGet,
		Path:   "/contact-lists",
		Query:  pageQuery(nil, limit, offset),
	})
}

// Get returns a contact list.
func (s *ContactListsService) Get(ctx context.Context, id string) (*ContactList, error) {
	if err := requireID(id, "List"); err != nil {
		return nil, err
	}
	return doRequest[ContactList](ctx, s.api, api.RequestSpec{Method: http.MethodGet, Path: "/contact-lists/" + api.EscapeID(id)})
}

// Create creates a contact list.
func (s *ContactListsService) Create(ctx context.Context, req ContactListRequest) (*ContactList, error) {
	if err := requireField(req.Name, "List name"); err != nil {
		return nil, err
	}
	return doRequest[ContactList](ctx, s.api, api.RequestSpec{Method: http.MethodPost, Path: "/contact-lists", Body: req})
}

// Update renames or redescribes a contact list.
func (s *ContactListsService) Update(ctx context.Context, id string, req ContactListRequest) (*ContactList, error) {
	if err := requireID(id, "List"); err != nil {
		return nil, err
	}
	return doRequest[ContactList](ctx, s.api, api.RequestSpec{
		Method: http.MethodPatch,
		Path:   "/contact-lists/" + api.EscapeID(id),
		Body:   req,
	})
}

// Delete removes a contact list. Its contacts are kept.
func (s *ContactListsService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, "List"); err != nil {
		return err
	}
	return s.api.Do(ctx, api.RequestSpec{Method: http.MethodDelete, Path: "/contact-lists/" + api.EscapeID(id)}, nil)
}

// AddContacts adds existing contacts to a list.
func (s *ContactListsService) AddContacts(ctx context.Context, listID string, contactIDs ...string) error {
	if err := requireID(listID, "List"); err != nil {
		return err
	}
	if len(contactIDs) == 0 {
		return apierrors.Validation("At least one contact ID is required")
	}
	return s.api.Do(ctx, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/contact-lists/" + api.EscapeID(listID) + "/contacts",
		Body:   map[string][]string{"contact_ids": contactIDs},
	}, nil)
}

// RemoveContact removes one contact from a list.
func (s *ContactListsService) RemoveContact(ctx context.Context, listID, contactID string) error {
	if err := requireID(listID, "List"); err != nil {
		return err
	}
	if err := requireID(contactID, "Contact"); err != nil {
		return err
	}
	return s.api.Do(ctx, api.RequestSpec{
		Method: http.MethodDelete,
		Path:   "/contact-lists/" + api.EscapeID(listID) + "/contacts/" + api.EscapeID(contactID),
	}, nil)
}
