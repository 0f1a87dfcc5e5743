package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/gameline/internal/metrics"
)

// Gateway issues outbound requests with secure-transport routing. Any URL
// targeting a known upstream sports-data host is always sent through the
// same-origin relay endpoint, never called directly, so a securely served
// caller is never blocked on an insecure-origin request. Other URLs go
// direct.
type Gateway struct {
	httpClient    *RateLimitedHTTPClient
	relayURL      string
	upstreamHosts map[string]bool
	timeout       time.Duration
	logger        *log.Logger
}

// GatewayConfig holds gateway construction parameters
type GatewayConfig struct {
	RelayURL      string
	UpstreamHosts []string
	Timeout       time.Duration
}

// NewGateway creates a gateway over the given HTTP client. A zero timeout
// falls back to 10 seconds; the timeout is mandatory, never unbounded.
func NewGateway(httpClient *RateLimitedHTTPClient, cfg GatewayConfig, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	hosts := make(map[string]bool, len(cfg.UpstreamHosts))
	for _, h := range cfg.UpstreamHosts {
		hosts[strings.ToLower(h)] = true
	}

	return &Gateway{
		httpClient:    httpClient,
		relayURL:      SecureBaseURL(cfg.RelayURL),
		upstreamHosts: hosts,
		timeout:       cfg.Timeout,
		logger:        logger,
	}
}

// SecureBaseURL rewrites an insecure-scheme base URL to https. Called once
// per configured base URL at initialization; idempotent.
func SecureBaseURL(base string) string {
	if strings.HasPrefix(base, "http://") {
		return "https://" + strings.TrimPrefix(base, "http://")
	}
	return base
}

// Fetch retrieves the target URL, routing known upstream hosts through the
// relay, and returns the raw response body.
func (g *Gateway) Fetch(ctx context.Context, target string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	requestURL := g.RouteFor(target)
	if requestURL != target {
		metrics.RelayedRequestsTotal.Inc()
	}

	resp, err := g.httpClient.Get(ctx, requestURL)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewSourceError("gateway", ErrCodeTimeout, fmt.Sprintf("fetch exceeded %v", g.timeout), err)
		}
		return nil, NewSourceError("gateway", ErrCodeNetworkError, "transport failure", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewSourceError("gateway", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode >= 500 {
		return nil, NewSourceError("gateway", ErrCodeServerError, fmt.Sprintf("upstream status %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewSourceError("gateway", ErrCodeNetworkError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewSourceError("gateway", ErrCodeNetworkError, "failed to read response body", err)
	}

	return json.RawMessage(body), nil
}

// RouteFor resolves the URL actually requested for a target: known upstream
// hosts always go through the relay, everything else goes direct.
func (g *Gateway) RouteFor(target string) string {
	if g.isUpstream(target) {
		return g.relayURL + "?url=" + url.QueryEscape(target)
	}
	return target
}

// isUpstream reports whether the target's host is a configured upstream
// sports-data host.
func (g *Gateway) isUpstream(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return g.upstreamHosts[strings.ToLower(u.Hostname())]
}

// Close releases the underlying HTTP client resources.
func (g *Gateway) Close() error {
	return g.httpClient.Close()
}
