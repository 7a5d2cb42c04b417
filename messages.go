package sendly

import (
	"context"
	"iter"
	"net/http"

	"github.com/sendly-live/sendly-go/internal/api"
	"github.com/sendly-live/sendly-go/internal/apierrors"
)

// MessageStatus is the delivery state of a message.
type MessageStatus string

const (
	MessageQueued      MessageStatus = "queued"
	MessageSending     MessageStatus = "sending"
	MessageSent        MessageStatus = "sent"
	MessageDelivered   MessageStatus = "delivered"
	MessageFailed      MessageStatus = "failed"
	MessageUndelivered MessageStatus = "undelivered"
)

// Message is an outbound SMS.
type Message struct {
	ID           string        `json:"id"`
	To           string        `json:"to"`
	From         string        `json:"from,omitempty"`
	Text         string        `json:"text"`
	Status       MessageStatus `json:"status"`
	Segments     int           `json:"segments,omitempty"`
	CreditsUsed  int           `json:"credits_used"`
	IsSandbox    bool          `json:"is_sandbox,omitempty"`
	ErrorCode    string        `json:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`
	UpdatedAt    string        `json:"updated_at,omitempty"`
	DeliveredAt  string        `json:"delivered_at,omitempty"`
}

// SendMessageRequest is the input to MessagesService.SendRequest.
type SendMessageRequest struct {
	To          string         `json:"to"`
	Text        string         `json:"text"`
	From        string         `json:"from,omitempty"`
	MessageType string         `json:"messageType,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ListMessagesOptions filters MessagesService.List and All. Zero values are
// omitted from the query.
type ListMessagesOptions struct {
	Limit  int
	Offset int
	Status MessageStatus
	To     string
}

// ScheduledMessage is a message queued for future delivery.
type ScheduledMessage struct {
	ID              string `json:"id"`
	To              string `json:"to"`
	From            string `json:"from,omitempty"`
	Text            string `json:"text"`
	ScheduledAt     string `json:"scheduled_at"`
	Status          string `json:"status"`
	CreditsReserved int    `json:"credits_reserved"`
	Error           string `json:"error,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	CancelledAt     string `json:"cancelled_at,omitempty"`
	SentAt          string `json:"sent_at,omitempty"`
}

// ScheduleMessageRequest is the input to MessagesService.Schedule.
// ScheduledAt must be an RFC 3339 timestamp.
type ScheduleMessageRequest struct {
	To          string `json:"to"`
	Text        string `json:"text"`
	ScheduledAt string `json:"scheduledAt"`
	From        string `json:"from,omitempty"`
}

// ListScheduledOptions filters MessagesService.ListScheduled.
type ListScheduledOptions struct {
	Limit  int
	Offset int
	Status string
}

// CancelledMessage is the result of cancelling a scheduled message.
type CancelledMessage struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	CreditsRefunded int    `json:"credits_refunded"`
	CancelledAt     string `json:"cancelled_at"`
}

// BatchMessage is one recipient of a batch send.
type BatchMessage struct {
	To       string         `json:"to"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SendBatchRequest is the input to MessagesService.SendBatch and PreviewBatch.
type SendBatchRequest struct {
	Messages    []BatchMessage `json:"messages"`
	From        string         `json:"from,omitempty"`
	MessageType string         `json:"messageType,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Batch reports the progress of a batch send.
type Batch struct {
	BatchID     string        `json:"batch_id"`
	Status      string        `json:"status"`
	Total       int           `json:"total"`
	Queued      int           `json:"queued"`
	Sent        int           `json:"sent,omitempty"`
	Failed      int           `json:"failed"`
	CreditsUsed int           `json:"credits_used"`
	Messages    []BatchResult `json:"messages"`
	CreatedAt   string        `json:"created_at"`
	CompletedAt string        `json:"completed_at,omitempty"`
}

// BatchResult is the outcome for one recipient of a batch.
type BatchResult struct {
	MessageID   string `json:"message_id,omitempty"`
	To          string `json:"to"`
	Status      string `json:"status"`
	CreditsUsed int    `json:"credits_used"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	ErrorCode   string `json:"error_code,omitempty"`
}

// ListBatchesOptions filters MessagesService.ListBatches.
type ListBatchesOptions struct {
	Limit  int
	Offset int
	Status string
}

// BatchPreview is a dry run of a batch: cost and deliverability, nothing sent.
type BatchPreview struct {
	CanSend          bool               `json:"canSend"`
	TotalMessages    int                `json:"totalMessages"`
	WillSend         int                `json:"willSend"`
	Blocked          int                `json:"blocked"`
	CreditsNeeded    int                `json:"creditsNeeded"`
	CurrentBalance   int                `json:"currentBalance"`
	HasEnoughCredits bool               `json:"hasEnoughCredits"`
	Messages         []BatchPreviewItem `json:"messages"`
	BlockReasons     map[string]int     `json:"blockReasons,omitempty"`
}

// BatchPreviewItem is the preview for one recipient.
type BatchPreviewItem struct {
	To          string `json:"to"`
	Text        string `json:"text"`
	Segments    int    `json:"segments"`
	Credits     int    `json:"credits"`
	CanSend     bool   `json:"canSend"`
	BlockReason string `json:"blockReason,omitempty"`
	Country     string `json:"country,omitempty"`
	PricingTier string `json:"pricingTier,omitempty"`
}

// MessagesService sends and inspects SMS messages.
type MessagesService struct {
	api *api.Client
}

// Send sends text to a single E.164 number.
func (s *MessagesService) Send(ctx context.Context, to, text string) (*Message, error) {
	return s.SendRequest(ctx, SendMessageRequest{To: to, Text: text})
}

// SendRequest sends a message with full control over the request. Input is
// validated locally first; invalid input never reaches the network.
func (s *MessagesService) SendRequest(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if err := ValidatePhone(req.To); err != nil {
		return nil, err
	}
	if err := ValidateText(req.Text); err != nil {
		return nil, err
	}
	return doRequest[Message](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/messages",
		Body:   req,
	})
}

// List returns one page of messages, newest first.
func (s *MessagesService) List(ctx context.Context, opts *ListMessagesOptions) (*Page[Message], error) {
	return doRequest[Page[Message]](ctx, s.api, api.RequestSpec{
		Method: http.MethodGet,
		Path:   "/messages",
		Query:  opts.query(),
	})
}

// All iterates over every message matching opts, fetching pages on demand.
// opts.Offset is ignored; iteration always starts at the first item.
func (s *MessagesService) All(ctx context.Context, opts *ListMessagesOptions) iter.Seq2[Message, error] {
	var base ListMessagesOptions
	if opts != nil {
		base = *opts
	}
	p := api.NewPaginator(func(ctx context.Context, offset int) (*Page[Message], error) {
		page := base
		page.Offset = offset
		return s.List(ctx, &page)
	})
	return p.All(ctx)
}

// Get returns the message with the given ID.
func (s *MessagesService) Get(ctx context.Context, id string) (*Message, error) {
	if err := requireID(id, "Message"); err != nil {
		return nil, err
	}
	return doRequest[Message](ctx, s.api, api.RequestSpec{
		Method: http.MethodGet,
		Path:   "/messages/" + api.EscapeID(id),
	})
}

// Schedule queues a message for delivery at req.ScheduledAt.
func (s *MessagesService) Schedule(ctx context.Context, req ScheduleMessageRequest) (*ScheduledMessage, error) {
	if err := ValidatePhone(req.To); err != nil {
		return nil, err
	}
	if err := ValidateText(req.Text); err != nil {
		return nil, err
	}
	if err := validateScheduledAt(req.ScheduledAt); err != nil {
		return nil, err
	}
	return doRequest[ScheduledMessage](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/messages/schedule",
		Body:   req,
	})
}

// ListScheduled returns one page of scheduled messages.
func (s *MessagesService) ListScheduled(ctx context.Context, opts *ListScheduledOptions) (*Page[ScheduledMessage], error) {
	var q api.Query
	if opts != nil {
		q = pageQuery(q, opts.Limit, opts.Offset)
		if opts.Status != "" {
			q = q.Set("status", opts.Status)
		}
	}
	return doRequest[Page[ScheduledMessage]](ctx, s.api, api.RequestSpec{
		Method: http.MethodGet,
		Path:   "/messages/scheduled",
		Query:  q,
	})
}

// GetScheduled returns the scheduled message with the given ID.
func (s *MessagesService) GetScheduled(ctx context.Context, id string) (*ScheduledMessage, error) {
	if err := requireID(id, "Scheduled message"); err != nil {
		return nil, err
	}
	return doRequest[ScheduledMessage](ctx, s.api, api.RequestSpec{
		Method: http.MethodGet,
		Path:   "/messages/scheduled/" + api.EscapeID(id),
	})
}

// CancelScheduled cancels a scheduled message and refunds its reserved
// credits.
func (s *MessagesService) CancelScheduled(ctx context.Context, id string) (*CancelledMessage, error) {
	if err := requireID(id, "Scheduled message"); err != nil {
		return nil, err
	}
	return doRequest[CancelledMessage](ctx, s.api, api.RequestSpec{
		Method: http.MethodDelete,
		Path:   "/messages/scheduled/" + api.EscapeID(id),
	})
}

// SendBatch sends many messages in one call. Every item is
// validated before anything is sent.
func (s *MessagesService) SendBatch(ctx context.Context, req SendBatchRequest) (*Batch, error) {
	if err := validateBatch(req); err != nil {
		return nil, err
	}
	return doRequest[Batch](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/messages/batch",
		Body:   req,
	})
}

// PreviewBatch reports what SendBatch would do without sending.
func (s *MessagesService) PreviewBatch(ctx context.Context, req SendBatchRequest) (*BatchPreview, error) {
	if err := validateBatch(req); err != nil {
		return nil, err
	}
	return doRequest[BatchPreview](ctx, s.api, api.RequestSpec{
		Method: http.MethodPost,
		Path:   "/messages/batch/preview",
		Body:   req,
	})
}

// GetBatch returns the status of a batch.
func (s *MessagesService) GetBatch(ctx context.Context, id string) (*Batch, error) {
	if err := requireID(id, "Batch"); err != nil {
		return nil, err
	}
	return doRequest[Batch](ctx, s.api, api.RequestSpec{
		Method: http.MethodGet,
		Path:   "/messages/batch/" + api.EscapeID(id),
	})
}

// ListBatches returns one page of batches.
func (s *MessagesService) ListBatches(ctx context.Context, opts *ListBatchesOptions) (*Page[Batch], error) {
	var q api.Query
	if opts != nil {
		q = pageQuery(q, opts.Limit, opts.Offset)
		if opts.Status != "" {
			q = q.Set("status", opts.Status)
		}
	}
	return doRequest[Page[Batch]](ctx, s.api, api.RequestSpec{
		Method: http.MethodGet,
		Path:   "/messages/batches",
		Query:  q,
	})
}

func (o *ListMessagesOptions) query() api.Query {
	if o == nil {
		return nil
	}
	q := pageQuery(nil, o.Limit, o.Offset)
	if o.Status != "" {
		q = q.Set("status", string(o.Status))
	}
	if o.To != "" {
		q = q.Set("to", o.To)
	}
	return q
}

func validateBatch(req SendBatchRequest) error {
	if len(req.Messages) == 0 {
		return apierrors.Validation("At least one message is required")
	}
	for _, m := range req.Messages {
		if err := ValidatePhone(m.To); err != nil {
			return err
		}
		if err := ValidateText(m.Text); err != nil {
			return err
		}
	}
	return nil
}

// pageQuery appends limit and offset when set.
func pageQuery(q api.Query, limit, offset int) api.Query {
	if limit > 0 {
		q = q.SetInt("limit", clampLimit(limit))
	}
	if offset > 0 {
		q = q.SetInt("offset", offset)
	}
	return q
}
