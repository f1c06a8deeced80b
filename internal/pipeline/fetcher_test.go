package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/ulancrm/internal/worker"
)

const testTurtle = `@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
<http://vocab.getty.edu/ulan/500115493> rdfs:label "Mondrian, Piet" .
`

func noSleep(t *testing.T) {
	withBackoff(t, 0)
}

func withBackoff(t *testing.T, d time.Duration) {
	orig := fetchBackoff
	fetchBackoff = func(int) time.Duration { return d }
	t.Cleanup(func() { fetchBackoff = orig })
}

func TestFetch_Success(t *testing.T) {
	var accept, agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/turtle")
		_, _ = fmt.Fprint(w, testTurtle)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	body, err := fetcher.Fetch(context.Background(), server.URL+"/ulan/500115493.ttl")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if body != testTurtle {
		t.Errorf("Unexpected body: %s", body)
	}
	if accept != turtleAccept {
		t.Errorf("Expected Turtle accept header, got %q", accept)
	}
	if agent != "test-agent" {
		t.Errorf("Expected user agent test-agent, got %q", agent)
	}
}

func TestFetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 4, false, "", "", "")
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if body != "0123" {
		t.Errorf("Expected truncated body, got %q", body)
	}
}

func TestFetch_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, testTurtle)
	}))
	defer server.Close()

	noSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if body != testTurtle {
		t.Errorf("Unexpected body: %s", body)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	noSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	// 404 is not retryable, so should fail immediately
	if got := err.Error(); got != "unexpected status: 404 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	var status *StatusError
	if !errors.As(err, &status) || status.Code != http.StatusNotFound {
		t.Errorf("Expected *StatusError with code 404, got %#v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetch_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	noSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "").WithMaxAttempts(4)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 4 {
		t.Errorf("Expected 4 attempts, got %d", attempts.Load())
	}
}

func TestFetch_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, testTurtle)
	}))
	defer server.Close()

	noSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "").
		WithLimiter(worker.NewLimiter(1000, 10))
	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	var fetched atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /ulan/\n")
			return
		}
		fetched.Store(true)
		_, _ = fmt.Fprint(w, testTurtle)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent/1.0", 1<<20, true, "", "", "")
	_, err := fetcher.Fetch(context.Background(), server.URL+"/ulan/500115493.ttl")
	if !errors.Is(err, ErrRobotsDisallowed) {
		t.Fatalf("Expected robots error, got %v", err)
	}
	if fetched.Load() {
		t.Error("Disallowed document should not be requested")
	}

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/aat/300025103.ttl"); err != nil {
		t.Errorf("Allowed path failed: %v", err)
	}
}

func TestFetch_BackoffHonoursContext(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	withBackoff(t, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	start := time.Now()
	_, err := fetcher.Fetch(ctx, server.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline error, got %v", err)
	}
	if d := time.Since(start); d > 5*time.Second {
		t.Errorf("Backoff ignored cancellation, took %v", d)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"503", &StatusError{Code: 503, Status: "503 Service Unavailable"}, true},
		{"500", &StatusError{Code: 500, Status: "500 Internal Server Error"}, true},
		{"502", &StatusError{Code: 502, Status: "502 Bad Gateway"}, true},
		{"429", &StatusError{Code: 429, Status: "429 Too Many Requests"}, true},
		{"404", &StatusError{Code: 404, Status: "404 Not Found"}, false},
		{"403", &StatusError{Code: 403, Status: "403 Forbidden"}, false},
		{"401", &StatusError{Code: 401, Status: "401 Unauthorized"}, false},
		{"wrapped 503", fmt.Errorf("load: %w", &StatusError{Code: 503}), true},
		{"connection refused", &transportError{err: errors.New("connection refused")}, true},
		{"connection reset", &transportError{err: errors.New("connection reset by peer")}, true},
		{"status text only", errors.New("unexpected status: 503 Service Unavailable"), false},
		{"create request", errors.New("create request: invalid URL"), false},
		{"read body", errors.New("read body: unexpected EOF"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isRetryableFetchError(tt.err)
			if got != tt.retryable {
				t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}
