// Package util holds HTTP helpers shared by the upstream fetcher.
package util

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// RobotsChecker applies the vocabulary host's robots.txt policy.
// Policies are fetched once per host and kept for the process lifetime.
type RobotsChecker struct {
	mu         sync.RWMutex
	policies   map[string]*robotstxt.RobotsData
	inflight   singleflight.Group
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// NewRobotsChecker creates a checker matching rules for userAgent
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		policies:   make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		logger:     slog.Default(),
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay to
// observe. A host whose robots.txt cannot be retrieved is treated as open.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	policy, err := r.policy(ctx, parsed)
	if err != nil {
		r.logger.Warn("robots.txt unavailable, allowing", "host", parsed.Host, "error", err)
		return true, 0, nil
	}

	var delay time.Duration
	if group := policy.FindGroup(r.userAgent); group != nil {
		delay = group.CrawlDelay
	}
	return policy.TestAgent(parsed.Path, r.userAgent), delay, nil
}

func (r *RobotsChecker) policy(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.policies[u.Host]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	v, err, _ := r.inflight.Do(u.Host, func() (any, error) {
		data, err := r.download(ctx, fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host))
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.policies[u.Host] = data
		r.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*robotstxt.RobotsData), nil
}

func (r *RobotsChecker) download(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// FromResponse maps 4xx to allow-all and 5xx to disallow-all
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// NormalizeUserAgent reduces a user agent string to its product token for robots.txt matching
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	product, _, _ := strings.Cut(parts[0], "/")
	return product
}
