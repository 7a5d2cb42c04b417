package api

import "time"

// Observer receives lifecycle callbacks for every logical call made by the
// Client. Implementations must be safe for concurrent use and should return
// quickly; they run on the caller's goroutine.
type Observer interface {
	// OnRequestStart is called once before the first attempt.
	OnRequestStart(method, path string)

	// OnRetry is called after a retryable failure, before waiting delay.
	// attempt is the 1-based number of the attempt that failed.
	OnRetry(method, path string, attempt int, delay time.Duration, err error)

	// OnRequestEnd is called once when the call completes. err is nil on
	// success and otherwise the error returned to the caller.
	OnRequestEnd(method, path string, attempts int, duration time.Duration, err error)
}

// NoopObserver ignores all callbacks. It is the default.
type NoopObserver struct{}

// OnRequestStart does nothing.
func (NoopObserver) OnRequestStart(method, path string) {}

// OnRetry does nothing.
func (NoopObserver) OnRetry(method, path string, attempt int, delay time.Duration, err error) {}

// OnRequestEnd does nothing.
func (NoopObserver) OnRequestEnd(method, path string, attempts int, duration time.Duration, err error) {
}

// MultiObserver fans callbacks out to several observers in order.
type MultiObserver []Observer

// OnRequestStart forwards to every observer.
func (m MultiObserver) OnRequestStart(method, path string) {
	for _, o := range m {
		o.OnRequestStart(method, path)
	}
}

// OnRetry forwards to every observer.
func (m MultiObserver) OnRetry(method, path string, attempt int, delay time.Duration, err error) {
	for _, o := range m {
		o.OnRetry(method, path, attempt, delay, err)
	}
}

// OnRequestEnd forwards to every observer.
func (m MultiObserver) OnRequestEnd(method, path string, attempts int, duration time.Duration, err error) {
	for _, o := range m {
		o.OnRequestEnd(method, path, attempts, duration, err)
	}
}
