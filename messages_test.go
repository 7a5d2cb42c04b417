package sendly

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messageJSON = `{"id":"msg_abc","to":"+15551234567","text":"hello","status":"queued","segments":1,"credits_used":1}`

func TestMessages_Send(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, messageJSON))

	msg, err := c.Messages.Send(t.Context(), "+15551234567", "hello")
	require.NoError(t, err)
	assert.Equal(t, "msg_abc", msg.ID)
	assert.Equal(t, MessageQueued, msg.Status)
	assert.Equal(t, 1, msg.CreditsUsed)

	req := stub.Last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/messages", req.Path)
	assert.Equal(t, map[string]any{"to": "+15551234567", "text": "hello"}, req.Body)
}

func TestMessages_SendAcceptsWrappedResponse(t *testing.T) {
	_, c := newStubAPI(t, respond(http.StatusOK, `{"data":`+messageJSON+`}`))

	msg, err := c.Messages.Send(t.Context(), "+15551234567", "hello")
	require.NoError(t, err)
	assert.Equal(t, "msg_abc", msg.ID)
}

func TestMessages_SendRequestOptionalFields(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, messageJSON))

	_, err := c.Messages.SendRequest(t.Context(), SendMessageRequest{
		To:          "+447700900123",
		Text:        "Your code is 1234",
		From:        "Acme",
		MessageType: "transactional",
	})
	require.NoError(t, err)

	body := stub.Last(t).Body
	assert.Equal(t, "Acme", body["from"])
	assert.Equal(t, "transactional", body["messageType"])
}

func TestMessages_TextLengthBoundary(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, messageJSON))

	_, err := c.Messages.Send(t.Context(), "+15551234567", strings.Repeat("a", MaxTextLength))
	require.NoError(t, err)
	require.Len(t, stub.Requests(), 1)

	_, err = c.Messages.Send(t.Context(), "+15551234567", strings.Repeat("a", MaxTextLength+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "Message text exceeds maximum length of 1600 characters")
	assert.Len(t, stub.Requests(), 1, "invalid input must not reach the network")
}

func TestMessages_TextCountsCharactersNotBytes(t *testing.T) {
	_, c := newStubAPI(t, respond(http.StatusOK, messageJSON))

	_, err := c.Messages.Send(t.Context(), "+15551234567", strings.Repeat("é", MaxTextLength))
	assert.NoError(t, err)
}

func TestMessages_InvalidInputNeverSent(t *testing.T) {
	tests := []struct {
		name    string
		to      string
		text    string
		message string
	}{
		{"empty text", "+15551234567", "", "Message text is required"},
		{"blank text", "+15551234567", "   ", "Message text is required"},
		{"no plus", "15551234567", "hi", "Invalid phone number format: 15551234567. Use E.164 format (e.g. +15551234567)"},
		{"leading zero", "+05551234567", "hi", "Invalid phone number format"},
		{"too short", "+12345", "hi", "Invalid phone number format"},
		{"too long", "+1234567890123456", "hi", "Invalid phone number format"},
		{"letters", "+1555CALLNOW", "hi", "Invalid phone number format"},
		{"empty phone", "", "hi", "Invalid phone number format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub, c := newStubAPI(t, respond(http.StatusOK, messageJSON))

			_, err := c.Messages.Send(t.Context(), tt.to, tt.text)
			require.Error(t, err)

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, KindValidation, e.Kind)
			assert.Equal(t, 400, e.StatusCode)
			assert.Contains(t, e.Message, tt.message)
			assert.Empty(t, stub.Requests())
		})
	}
}

func TestMessages_ListQuery(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"data":[],"has_more":false,"total":0}`))

	_, err := c.Messages.List(t.Context(), &ListMessagesOptions{
		Limit:  500,
		Offset: 20,
		Status: MessageDelivered,
		To:     "+15551234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "limit=100&offset=20&status=delivered&to=%2B15551234567", stub.Last(t).Query)

	_, err = c.Messages.List(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, stub.Last(t).Query)
}

func TestMessages_ListDecodesEnvelope(t *testing.T) {
	_, c := newStubAPI(t, respond(http.StatusOK, `{"data":[`+messageJSON+`],"has_more":true,"total":41}`))

	page, err := c.Messages.List(t.Context(), nil)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.True(t, page.HasMore)
	assert.Equal(t, 41, page.Total)
}

func TestMessages_All(t *testing.T) {
	stub, c := newStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = io.WriteString(w, `{"data":[{"id":"m1"},{"id":"m2"}],"has_more":true,"total":3}`)
		case "2":
			_, _ = io.WriteString(w, `{"data":[{"id":"m3"}],"has_more":false,"total":3}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	var ids []string
	for m, err := range c.Messages.All(t.Context(), &ListMessagesOptions{Limit: 2, Offset: 99, Status: MessageSent}) {
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)

	reqs := stub.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "limit=2&status=sent", reqs[0].Query)
	assert.Equal(t, "limit=2&offset=2&status=sent", reqs[1].Query)
}

func TestMessages_AllSurfacesError(t *testing.T) {
	_, c := newStubAPI(t, respond(http.StatusUnauthorized, `{"message":"Invalid API key"}`))

	var errs []error
	for _, err := range c.Messages.All(t.Context(), nil) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrAuthentication))
}

func TestMessages_GetEscapesID(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, messageJSON))

	_, err := c.Messages.Get(t.Context(), "msg/2024+a")
	require.NoError(t, err)
	assert.Equal(t, "/messages/msg%2F2024%2Ba", stub.Last(t).Path)
}

func TestMessages_GetRequiresID(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, messageJSON))

	_, err := c.Messages.Get(t.Context(), " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Message ID is required")
	assert.Empty(t, stub.Requests())
}

func TestMessages_Schedule(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"id":"sched_1","to":"+15551234567","text":"later","scheduled_at":"2030-01-01T09:00:00Z","status":"scheduled","credits_reserved":1}`))

	sm, err := c.Messages.Schedule(t.Context(), ScheduleMessageRequest{
		To:          "+15551234567",
		Text:        "later",
		ScheduledAt: "2030-01-01T09:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "sched_1", sm.ID)
	assert.Equal(t, 1, sm.CreditsReserved)

	req := stub.Last(t)
	assert.Equal(t, "/messages/schedule", req.Path)
	assert.Equal(t, "2030-01-01T09:00:00Z", req.Body["scheduledAt"])
}

func TestMessages_ScheduleValidatesTime(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{}`))

	_, err := c.Messages.Schedule(t.Context(), ScheduleMessageRequest{To: "+15551234567", Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Scheduled time is required")

	_, err = c.Messages.Schedule(t.Context(), ScheduleMessageRequest{To: "+15551234567", Text: "x", ScheduledAt: "tomorrow"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid scheduled time format: tomorrow. Use ISO 8601 format")

	assert.Empty(t, stub.Requests())
}

func TestMessages_ScheduledLifecycle(t *testing.T) {
	stub, c := newStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			_, _ = io.WriteString(w, `{"id":"sched_1","status":"cancelled","credits_refunded":2,"cancelled_at":"2030-01-01T00:00:00Z"}`)
		default:
			_, _ = io.WriteString(w, `{"data":[{"id":"sched_1","status":"scheduled"}],"has_more":false,"total":1}`)
		}
	})

	page, err := c.Messages.ListScheduled(t.Context(), &ListScheduledOptions{Status: "scheduled"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "/messages/scheduled", stub.Last(t).Path)
	assert.Equal(t, "status=scheduled", stub.Last(t).Query)

	cancelled, err := c.Messages.CancelScheduled(t.Context(), "sched_1")
	require.NoError(t, err)
	assert.Equal(t, 2, cancelled.CreditsRefunded)
	assert.Equal(t, http.MethodDelete, stub.Last(t).Method)
	assert.Equal(t, "/messages/scheduled/sched_1", stub.Last(t).Path)
}

func TestMessages_SendBatch(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"batch_id":"batch_1","status":"processing","total":2,"queued":2,"failed":0,"credits_used":2,"messages":[],"created_at":"2030-01-01T00:00:00Z"}`))

	batch, err := c.Messages.SendBatch(t.Context(), SendBatchRequest{
		Messages: []BatchMessage{
			{To: "+15551234567", Text: "one"},
			{To: "+15557654321", Text: "two"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "batch_1", batch.BatchID)
	assert.Equal(t, 2, batch.Queued)

	req := stub.Last(t)
	assert.Equal(t, "/messages/batch", req.Path)
	assert.Len(t, req.Body["messages"], 2)
}

func TestMessages_BatchValidation(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{}`))

	_, err := c.Messages.SendBatch(t.Context(), SendBatchRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "At least one message is required")

	_, err = c.Messages.PreviewBatch(t.Context(), SendBatchRequest{
		Messages: []BatchMessage{
			{To: "+15551234567", Text: "ok"},
			{To: "not-a-number", Text: "bad"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid phone number format: not-a-number")

	assert.Empty(t, stub.Requests())
}

func TestMessages_PreviewBatch(t *testing.T) {
	stub, c := newStubAPI(t, respond(http.StatusOK, `{"canSend":true,"totalMessages":1,"willSend":1,"creditsNeeded":1,"currentBalance":10,"hasEnoughCredits":true,"messages":[{"to":"+15551234567","text":"hi","segments":1,"credits":1,"canSend":true}]}`))

	preview, err := c.Messages.PreviewBatch(t.Context(), SendBatchRequest{
		Messages: []BatchMessage{{To: "+15551234567", Text: "hi"}},
	})
	require.NoError(t, err)
	assert.True(t, preview.CanSend)
	assert.Equal(t, 10, preview.CurrentBalance)
	require.Len(t, preview.Messages, 1)
	assert.Equal(t, "/messages/batch/preview", stub.Last(t).Path)
}

func TestMessages_BatchLookup(t *testing.T) {
	stub, c := newStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/batches") {
			_, _ = io.WriteString(w, `{"data":[{"batch_id":"b1"}],"has_more":false,"total":1}`)
			return
		}
		_, _ = io.WriteString(w, `{"batch_id":"b1","status":"completed"}`)
	})

	b, err := c.Messages.GetBatch(t.Context(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "completed", b.Status)
	assert.Equal(t, "/messages/batch/b1", stub.Last(t).Path)

	page, err := c.Messages.ListBatches(t.Context(), &ListBatchesOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "/messages/batches", stub.Last(t).Path)
	assert.Equal(t, "limit=10", stub.Last(t).Query)
}
