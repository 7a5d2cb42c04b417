package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/sendly-live/sendly-go/internal/apierrors"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://sendly.live/api/v1"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3

	tracerName = "github.com/sendly-live/sendly-go"
)

// Doer sends a single HTTP request. *http.Client satisfies it; tests supply
// fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the configuration for creating a new API client.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each attempt, not the whole call.
	Timeout time.Duration
	// MaxRetries is the number of attempts after the first. Negative
	// values are treated as zero.
	MaxRetries int
	HTTPClient Doer
	Retry      *RetryPolicy
	Logger     *slog.Logger
	Observer   Observer
	// Limiter, if set, is waited on before every attempt.
	Limiter        *rate.Limiter
	TracerProvider trace.TracerProvider
	UserAgent      string
}

// Client executes authenticated requests against the Sendly API.
// It is safe for concurrent use and holds no per-call state.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient Doer
	timeout    time.Duration
	maxRetries int
	retry      RetryPolicy
	logger     *slog.Logger
	observer   Observer
	limiter    *rate.Limiter
	tracer     trace.Tracer
	userAgent  string

	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new API client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apierrors.MissingAPIKey()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		retry:      DefaultRetryPolicy(),
		logger:     cfg.Logger,
		observer:   cfg.Observer,
		limiter:    cfg.Limiter,
		userAgent:  cfg.UserAgent,
		sleep:      sleepContext,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if cfg.Retry != nil {
		c.retry = cfg.Retry.normalize()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.observer == nil {
		c.observer = NoopObserver{}
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	c.tracer = tp.Tracer(tracerName)
	if c.userAgent == "" {
		c.userAgent = "sendly-go"
	}

	return c, nil
}

// BaseURL returns the base URL for API requests.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// MaxRetries returns the effective retry count.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// Timeout returns the per-attempt timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Do executes spec and decodes a successful response into out (which may be
// nil). Transient failures are retried. Failures of the call itself are
// returned as *apierrors.Error.
func (c *Client) Do(ctx context.Context, spec RequestSpec, out any) error {
	if spec.Path == "" {
		return fmt.Errorf("request path is required")
	}

	var payload []byte
	if spec.Body != nil {
		var err error
		if payload, err = json.Marshal(spec.Body); err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "sendly.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", spec.Method),
			attribute.String("url.path", spec.Path),
			attribute.String("sendly.request_id", requestID),
		),
	)
	defer span.End()

	start := time.Now()
	c.observer.OnRequestStart(spec.Method, spec.Path)

	attempts, err := c.execute(ctx, spec, payload, requestID, out)

	span.SetAttributes(attribute.Int("sendly.attempts", attempts))
	if err != nil {
		if e, ok := apierrors.As(err); ok && e.StatusCode > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", e.StatusCode))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.observer.OnRequestEnd(spec.Method, spec.Path, attempts, time.Since(start), err)

	return err
}

func (c *Client) execute(ctx context.Context, spec RequestSpec, payload []byte, requestID string, out any) (int, error) {
	maxAttempts := c.maxRetries + 1

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, c.cancelled(ctx, spec, err)
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return attempt - 1, c.cancelled(ctx, spec, err)
			}
		}

		apiErr := c.attempt(ctx, spec, payload, requestID, out)
		if apiErr == nil {
			return attempt, nil
		}
		if err := ctx.Err(); err != nil {
			return attempt, c.cancelled(ctx, spec, err)
		}

		if !apiErr.Retryable() || attempt >= maxAttempts {
			c.logger.DebugContext(ctx, "request failed",
				"method", spec.Method,
				"path", spec.Path,
				"attempts", attempt,
				"kind", apiErr.Kind,
				"status", apiErr.StatusCode,
				"request_id", requestID)
			return attempt, apiErr
		}

		delay := c.retry.Delay(attempt, apiErr.RetryAfter)
		c.observer.OnRetry(spec.Method, spec.Path, attempt, delay, apiErr)
		c.logger.WarnContext(ctx, "retrying request",
			"method", spec.Method,
			"path", spec.Path,
			"attempt", attempt,
			"delay", delay,
			"kind", apiErr.Kind,
			"status", apiErr.StatusCode,
			"request_id", requestID)

		if err := c.sleep(ctx, delay); err != nil {
			return attempt, c.cancelled(ctx, spec, err)
		}
	}
}

func (c *Client) cancelled(ctx context.Context, spec RequestSpec, cause error) *apierrors.Error {
	c.logger.DebugContext(ctx, "request cancelled",
		"method", spec.Method,
		"path", spec.Path,
		"error", cause)
	return apierrors.Network(cause)
}

// attempt performs one HTTP round trip. A nil return means out was populated.
func (c *Client) attempt(ctx context.Context, spec RequestSpec, payload []byte, requestID string, out any) *apierrors.Error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, spec, payload, requestID)
	if err != nil {
		return apierrors.Network(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierrors.Network(err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return apierrors.Network(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := apierrors.Map(resp.StatusCode, body, apierrors.ParseRetryAfter(resp.Header.Get("Retry-After")))
		apiErr.RequestID = resp.Header.Get("X-Request-Id")
		return apiErr
	}

	if err := decodeSuccess(body, out); err != nil {
		return &apierrors.Error{
			Kind:       apierrors.KindService,
			StatusCode: resp.StatusCode,
			Message:    "Failed to decode response",
			Err:        err,
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, spec RequestSpec, payload []byte, requestID string) (*http.Request, error) {
	target := c.baseURL + spec.Path
	if q := spec.Query.Encode(); q != "" {
		target += "?" + q
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
