package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ppiankov/ulancrm/internal/util"
	"github.com/ppiankov/ulancrm/internal/worker"
)

// Source retrieves the raw text of a remote vocabulary document
type Source interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a document
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

const turtleAccept = "text/turtle, application/x-turtle;q=0.9, */*;q=0.1"

// fetchBackoff is the linear pause before attempt+1, shortened in tests
var fetchBackoff = func(attempt int) time.Duration {
	return time.Duration(attempt) * 500 * time.Millisecond
}

// StatusError is a non-2xx answer from the vocabulary host
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Temporary reports whether the status is worth another attempt: 429 and 5xx
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// transportError is a failure before any response arrived
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "fetch: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// Fetcher downloads Turtle documents from the vocabulary host
type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxBytes    int64
	maxAttempts int
	limiter     *worker.Limiter
	robots      *util.RobotsChecker
	logger      *slog.Logger
}

// NewFetcher creates a new Fetcher. Empty proxy settings fall back to the environment.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, respectRobots bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:   userAgent,
		maxBytes:    maxBytes,
		maxAttempts: 3,
		logger:      slog.Default(),
	}
	if respectRobots {
		f.robots = util.NewRobotsChecker(util.NormalizeUserAgent(userAgent), timeout)
	}
	return f
}

// WithLimiter throttles requests per host
func (f *Fetcher) WithLimiter(l *worker.Limiter) *Fetcher {
	f.limiter = l
	return f
}

// WithMaxAttempts sets how many times a transient failure is tried
func (f *Fetcher) WithMaxAttempts(n int) *Fetcher {
	if n > 0 {
		f.maxAttempts = n
	}
	return f
}

// WithLogger sets the logger used for retry messages
func (f *Fetcher) WithLogger(l *slog.Logger) *Fetcher {
	if l != nil {
		f.logger = l
	}
	return f
}

// Fetch retrieves a document, retrying transient failures with linear backoff
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", fmt.Errorf("%w: %s", ErrRobotsDisallowed, rawURL)
		}
		crawlDelay = delay
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
				return "", err
			}
		}

		body, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == f.maxAttempts || ctx.Err() != nil {
			break
		}

		backoff := fetchBackoff(attempt)
		f.logger.Debug("retrying fetch", "url", rawURL, "attempt", attempt, "backoff", backoff, "error", err)
		if err := sleep(ctx, backoff); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

// sleep pauses for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", turtleAccept)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	// Read body with size limit
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// isRetryableFetchError reports whether a failure is worth another attempt:
// transport errors, 5xx and 429.
func isRetryableFetchError(err error) bool {
	var status *StatusError
	if errors.As(err, &status) {
		return status.Temporary()
	}
	var transport *transportError
	return errors.As(err, &transport)
}
