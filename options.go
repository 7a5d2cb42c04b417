package sendly

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/sendly-live/sendly-go/internal/api"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "1.2.0"

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = api.DefaultBaseURL
	// DefaultTimeout bounds each HTTP attempt.
	DefaultTimeout = api.DefaultTimeout
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = api.DefaultMaxRetries
)

// Doer sends HTTP requests. *http.Client implements it.
type Doer = api.Doer

// Observer receives request lifecycle callbacks. See the metrics package
// for a Prometheus implementation.
type Observer = api.Observer

// RetryPolicy controls the backoff between attempts.
type RetryPolicy = api.RetryPolicy

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return api.DefaultRetryPolicy()
}

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL        string
	httpClient     Doer
	timeout        time.Duration
	maxRetries     int
	retry          *RetryPolicy
	logger         *slog.Logger
	observers      []Observer
	limiter        *rate.Limiter
	tracerProvider trace.TracerProvider
	userAgent      string
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
	}
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the transport used for requests. Any type with a
// Do(*http.Request) method works, which makes it the hook for test fakes.
func WithHTTPClient(client Doer) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout for each HTTP attempt.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
// Negative values disable retries.
// Default: 3
func WithMaxRetries(count int) Option {
	return func(c *clientConfig) {
		c.maxRetries = count
	}
}

// WithRetryPolicy overrides the backoff schedule.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *clientConfig) {
		c.retry = &p
	}
}

// WithLogger sets the structured logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithObserver registers an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(c *clientConfig) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithRateLimit throttles outgoing attempts, retries included, to
// requestsPerSecond with the given burst.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *clientConfig) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), max(burst, 1))
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *clientConfig) {
		c.tracerProvider = tp
	}
}

// WithUserAgent prepends a product token to the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}
