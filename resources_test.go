package sendly

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaigns_Routes(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"id":"cmp_1","name":"Spring sale","status":"draft","contact_list_ids":["lst_1"]}`))
	ctx := t.Context()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
	}{
		{"get", func() error { _, err := c.Campaigns.Get(ctx, "cmp_1"); return err }, http.MethodGet, "/campaigns/cmp_1"},
		{"create", func() error {
			_, err := c.Campaigns.Create(ctx, CreateCampaignRequest{Name: "Spring sale", Text: "20% off", ContactListIDs: []string{"lst_1"}})
			return err
		}, http.MethodPost, "/campaigns"},
		{"update", func() error {
			name := "Summer sale"
			_, err := c.Campaigns.Update(ctx, "cmp_1", UpdateCampaignRequest{Name: &name})
			return err
		}, http.MethodPatch, "/campaigns/cmp_1"},
		{"delete", func() error { return c.Campaigns.Delete(ctx, "cmp_1") }, http.MethodDelete, "/campaigns/cmp_1"},
		{"send", func() error { _, err := c.Campaigns.Send(ctx, "cmp_1"); return err }, http.MethodPost, "/campaigns/cmp_1/send"},
		{"schedule", func() error {
			_, err := c.Campaigns.Schedule(ctx, "cmp_1", ScheduleCampaignRequest{ScheduledAt: "2030-06-01T12:00:00Z", Timezone: "Europe/Berlin"})
			return err
		}, http.MethodPost, "/campaigns/cmp_1/schedule"},
		{"cancel", func() error { _, err := c.Campaigns.Cancel(ctx, "cmp_1"); return err }, http.MethodPost, "/campaigns/cmp_1/cancel"},
		{"clone", func() error { _, err := c.Campaigns.Clone(ctx, "cmp_1"); return err }, http.MethodPost, "/campaigns/cmp_1/clone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			req := stub.Last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
		})
	}
}

func TestCampaigns_ListAndPreview(t *testing.T) {
	stub, c := newStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/campaigns" {
			respond(http.StatusOK, `{"campaigns":[{"id":"cmp_1"}],"total":1,"limit":20,"offset":0}`)(w, r)
			return
		}
		respond(http.StatusOK, `{"recipient_count":120,"estimated_credits":120,"estimated_cost":0.96,"warnings":["3 opted out"]}`)(w, r)
	})

	list, err := c.Campaigns.List(t.Context(), &ListCampaignsOptions{Limit: 20, Status: CampaignDraft})
	require.NoError(t, err)
	require.Len(t, list.Campaigns, 1)
	assert.Equal(t, "limit=20&status=draft", stub.Last(t).Query)

	preview, err := c.Campaigns.Preview(t.Context(), "cmp_1")
	require.NoError(t, err)
	assert.Equal(t, 120, preview.RecipientCount)
	assert.Equal(t, []string{"3 opted out"}, preview.Warnings)
	assert.Equal(t, "/campaigns/cmp_1/preview", stub.Last(t).Path)
}

func TestCampaigns_Validation(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{}`))
	ctx := t.Context()

	_, err := c.Campaigns.Create(ctx, CreateCampaignRequest{Text: "hi"})
	assert.ErrorContains(t, err, "Campaign name is required")

	_, err = c.Campaigns.Create(ctx, CreateCampaignRequest{Name: "x"})
	assert.ErrorContains(t, err, "Message text is required")

	_, err = c.Campaigns.Get(ctx, "")
	assert.ErrorContains(t, err, "Campaign ID is required")

	_, err = c.Campaigns.Schedule(ctx, "cmp_1", ScheduleCampaignRequest{ScheduledAt: "next week"})
	assert.ErrorContains(t, err, "Invalid scheduled time format")

	assert.Empty(t, stub.Requests())
}

func TestContacts_CRUD(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"id":"ct_1","phone_number":"+15551234567","name":"Ada"}`))
	ctx := t.Context()

	ct, err := c.Contacts.Create(ctx, CreateContactRequest{PhoneNumber: "+15551234567", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ct_1", ct.ID)
	assert.Equal(t, "+15551234567", stub.Last(t).Body["phone_number"])

	email := "ada@example.com"
	_, err = c.Contacts.Update(ctx, "ct_1", UpdateContactRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, stub.Last(t).Method)
	assert.Equal(t, map[string]any{"email": "ada@example.com"}, stub.Last(t).Body)

	require.NoError(t, c.Contacts.Delete(ctx, "ct_1"))
	assert.Equal(t, http.MethodDelete, stub.Last(t).Method)
	assert.Equal(t, "/contacts/ct_1", stub.Last(t).Path)

	_, err = c.Contacts.List(ctx, &ListContactsOptions{Limit: 250, Search: "ada", ListID: "lst_1"})
	require.NoError(t, err)
	assert.Equal(t, "limit=100&search=ada&list_id=lst_1", stub.Last(t).Query)
}

func TestContacts_ImportValidatesEveryNumber(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"imported":1,"skipped":0}`))

	_, err := c.Contacts.Import(t.Context(), ImportContactsRequest{})
	assert.ErrorContains(t, err, "At least one contact is required")

	_, err = c.Contacts.Import(t.Context(), ImportContactsRequest{Contacts: []CreateContactRequest{
		{PhoneNumber: "+15551234567"},
		{PhoneNumber: "555-1234"},
	}})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, stub.Requests())

	res, err := c.Contacts.Import(t.Context(), ImportContactsRequest{
		Contacts: []CreateContactRequest{{PhoneNumber: "+15551234567"}},
		ListID:   "lst_1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, "/contacts/import", stub.Last(t).Path)
}

func TestContactLists(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"id":"lst_1","name":"VIP","contact_count":2}`))
	ctx := t.Context()

	_, err := c.Contacts.Lists.Create(ctx, ContactListRequest{})
	assert.ErrorContains(t, err, "List name is required")

	lst, err := c.Contacts.Lists.Create(ctx, ContactListRequest{Name: "VIP"})
	require.NoError(t, err)
	assert.Equal(t, 2, lst.ContactCount)
	assert.Equal(t, "/contact-lists", stub.Last(t).Path)

	require.NoError(t, c.Contacts.Lists.AddContacts(ctx, "lst_1", "ct_1", "ct_2"))
	req := stub.Last(t)
	assert.Equal(t, "/contact-lists/lst_1/contacts", req.Path)
	assert.Equal(t, []any{"ct_1", "ct_2"}, req.Body["contact_ids"])

	require.NoError(t, c.Contacts.Lists.RemoveContact(ctx, "lst_1", "ct_2"))
	assert.Equal(t, http.MethodDelete, stub.Last(t).Method)
	assert.Equal(t, "/contact-lists/lst_1/contacts/ct_2", stub.Last(t).Path)

	assert.ErrorContains(t, c.Contacts.Lists.AddContacts(ctx, "lst_1"), "At least one contact ID is required")
	assert.ErrorContains(t, c.Contacts.Lists.RemoveContact(ctx, "lst_1", ""), "Contact ID is required")
}

func TestTemplates(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"id":"tpl_1","name":"OTP","body":"Your code is {{code}}","is_published":true}`))
	ctx := t.Context()

	tpl, err := c.Templates.Publish(ctx, "tpl_1")
	require.NoError(t, err)
	assert.True(t, tpl.IsPublished)
	assert.Equal(t, "/verify/templates/tpl_1/publish", stub.Last(t).Path)

	_, err = c.Templates.Unpublish(ctx, "tpl_1")
	require.NoError(t, err)
	assert.Equal(t, "/verify/templates/tpl_1/unpublish", stub.Last(t).Path)

	_, err = c.Templates.Clone(ctx, "tpl_1", "OTP copy")
	require.NoError(t, err)
	assert.Equal(t, "/templates/tpl_1/clone", stub.Last(t).Path)
	assert.Equal(t, "OTP copy", stub.Last(t).Body["name"])

	_, err = c.Templates.List(ctx, &ListTemplatesOptions{Limit: 5, Type: "otp", Locale: "de"})
	require.NoError(t, err)
	assert.Equal(t, "limit=5&type=otp&locale=de", stub.Last(t).Query)

	_, err = c.Templates.Create(ctx, CreateTemplateRequest{Name: "OTP"})
	assert.ErrorContains(t, err, "Template body is required")
}

func TestTemplates_Delete(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"success":true,"message":"Template deleted"}`))

	res, err := c.Templates.Delete(t.Context(), "tpl_1")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, http.MethodDelete, stub.Last(t).Method)
}

func TestVerify_Flow(t *testing.T) {
	stub, c := newStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/verify":
			respond(http.StatusOK, `{"verification":{"id":"ver_1","status":"pending","phone":"+15551234567","sandbox":true},"code":"123456"}`)(w, r)
		case "/verify/ver_1/check":
			respond(http.StatusOK, `{"valid":true,"status":"verified"}`)(w, r)
		default:
			respond(http.StatusNotFound, `{"message":"Verification not found"}`)(w, r)
		}
	})
	ctx := t.Context()

	sent, err := c.Verify.Send(ctx, SendVerificationRequest{Phone: "+15551234567", CodeLength: 6})
	require.NoError(t, err)
	assert.Equal(t, "ver_1", sent.Verification.ID)
	assert.Equal(t, "123456", sent.Code)
	assert.EqualValues(t, 6, stub.Last(t).Body["code_length"])

	checked, err := c.Verify.Check(ctx, "ver_1", "123456")
	require.NoError(t, err)
	assert.True(t, checked.Valid)
	assert.Equal(t, "123456", stub.Last(t).Body["code"])

	_, err = c.Verify.Get(ctx, "ver_missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Verify.Check(ctx, "ver_1", "")
	assert.ErrorContains(t, err, "Verification code is required")

	_, err = c.Verify.Send(ctx, SendVerificationRequest{Phone: "12"})
	assert.ErrorContains(t, err, "Invalid phone number format")
}

func TestVerify_ListAndResend(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"verifications":[{"id":"ver_1"}],"pagination":{"limit":10,"has_more":false}}`))

	page, err := c.Verify.List(t.Context(), &ListVerificationsOptions{Limit: 10, Status: VerificationPending})
	require.NoError(t, err)
	require.Len(t, page.Verifications, 1)
	assert.Equal(t, "limit=10&status=pending", stub.Last(t).Query)

	_, err = c.Verify.Resend(t.Context(), "ver_1")
	require.NoError(t, err)
	assert.Equal(t, "/verify/ver_1/resend", stub.Last(t).Path)
}

func TestVerify_Sessions(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"id":"vs_1","url":"https://verify.sendly.live/s/vs_1","status":"pending","valid":true}`))
	ctx := t.Context()

	s, err := c.Verify.Sessions.Create(ctx, CreateSessionRequest{SuccessURL: "https://example.com/ok"})
	require.NoError(t, err)
	assert.Equal(t, "https://verify.sendly.live/s/vs_1", s.URL)
	assert.Equal(t, "/verify/sessions", stub.Last(t).Path)

	v, err := c.Verify.Sessions.Validate(ctx, "tok_1")
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, "/verify/sessions/validate", stub.Last(t).Path)

	_, err = c.Verify.Sessions.Create(ctx, CreateSessionRequest{})
	assert.ErrorContains(t, err, "Success URL is required")
}
