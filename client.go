package sendly

import (
	"context"
	"iter"

	"github.com/sendly-live/sendly-go/internal/api"
)

// Page is one page of a paginated listing.
type Page[T any] = api.Page[T]

// Paginator lazily walks every page of a listing.
type Paginator[T any] = api.Paginator[T]

// Collect drains an iterator returned by an All method into a slice,
// stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	return api.Collect(seq)
}

// Client is the Sendly API client. It is safe for concurrent use; create one
// and share it.
type Client struct {
	apiClient  *api.Client
	httpClient Doer

	Messages  *MessagesService
	Campaigns *CampaignsService
	Contacts  *ContactsService
	Templates *TemplatesService
	Verify    *VerifyService
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(apiKey string, cfg *clientConfig) (*api.Client, error) {
	userAgent := "sendly-go/" + Version
	if cfg.userAgent != "" {
		userAgent = cfg.userAgent + " " + userAgent
	}

	var observer api.Observer
	switch len(cfg.observers) {
	case 0:
	case 1:
		observer = cfg.observers[0]
	default:
		observer = api.MultiObserver(cfg.observers)
	}

	return api.NewClient(api.Config{
		BaseURL:        cfg.baseURL,
		APIKey:         apiKey,
		Timeout:        cfg.timeout,
		MaxRetries:     cfg.maxRetries,
		HTTPClient:     cfg.httpClient,
		Retry:          cfg.retry,
		Logger:         cfg.logger,
		Observer:       observer,
		Limiter:        cfg.limiter,
		TracerProvider: cfg.tracerProvider,
		UserAgent:      userAgent,
	})
}

// New creates a new Sendly client with the given API key. It fails with
// ErrMissingAPIKey if the key is empty or whitespace.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(apiKey, cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiClient:  apiClient,
		httpClient: cfg.httpClient,
	}
	c.Messages = &MessagesService{api: apiClient}
	c.Campaigns = &CampaignsService{api: apiClient}
	c.Contacts = &ContactsService{api: apiClient, Lists: &ContactListsService{api: apiClient}}
	c.Templates = &TemplatesService{api: apiClient}
	c.Verify = &VerifyService{api: apiClient, Sessions: &SessionsService{api: apiClient}}

	return c, nil
}

// BaseURL returns the API base URL in use.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Close releases idle connections held by the underlying transport, when it
// supports that. The client holds no other resources.
func (c *Client) Close() error {
	if closer, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	return nil
}

func doRequest[T any](ctx context.Context, c *api.Client, spec api.RequestSpec) (*T, error) {
	var out T
	if err := c.Do(ctx, spec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
