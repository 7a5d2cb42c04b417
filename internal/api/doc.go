// Package api provides HTTP client functionality for communicating with the
// Sendly API. It handles authentication, request/response serialization,
// automatic retry of transient failures, and offset pagination.
//
// # Client Creation
//
// [NewClient] takes a [Config]. Only the API key is required; it is sent as a
// bearer token on every request. A blank key fails construction immediately.
//
// # Retry Behavior
//
// A logical call makes at most MaxRetries+1 attempts. These failures are
// retried:
//
//   - 429 Too Many Requests
//   - any 5xx response
//   - transport failures, including a per-attempt timeout
//
// Every other non-2xx status is terminal. The wait between attempts comes
// from [RetryPolicy]: a Retry-After header on the response is honored
// verbatim, otherwise the delay grows exponentially (1s, 2s, 4s, ... capped
// at 30s by default). Retries apply to every method, including POST.
//
// # Cancellation
//
// The caller's context is observed before each attempt, during the request
// and during the backoff wait. Once it is done no further attempt is made and
// a network error wrapping ctx.Err() is returned.
//
// # Error Handling
//
// Every error returned by [Client.Do] after the request is built is an
// *apierrors.Error carrying a kind, message, status, optional code and
// optional retry-after hint.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
