package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, cfg GatewayConfig) *Gateway {
	t.Helper()

	client := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           2 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      10 * time.Millisecond,
		RetryWaitMax:      20 * time.Millisecond,
		RateLimit:         100,
		CircuitBreakerMax: 5,
	}, nil)
	t.Cleanup(func() { client.Close() })

	return NewGateway(client, cfg, nil)
}

// TestSecureBaseURL tests the insecure-scheme rewrite
func TestSecureBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://site.api.espn.com/apis", "https://site.api.espn.com/apis"},
		{"https://site.api.espn.com/apis", "https://site.api.espn.com/apis"},
		{"wss://stream.example.com", "wss://stream.example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		got := SecureBaseURL(tt.in)
		assert.Equal(t, tt.want, got)
		// Idempotent: a second pass never double-rewrites
		assert.Equal(t, tt.want, SecureBaseURL(got))
	}
}

// TestRouteFor tests relay routing for upstream hosts and direct routing
// for everything else
func TestRouteFor(t *testing.T) {
	g := newTestGateway(t, GatewayConfig{
		RelayURL:      "https://app.example.com/relay",
		UpstreamHosts: []string{"site.api.espn.com", "api.sportsdata.io"},
	})

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			"upstream host rides the relay",
			"https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard",
			"https://app.example.com/relay?url=https%3A%2F%2Fsite.api.espn.com%2Fapis%2Fsite%2Fv2%2Fsports%2Ffootball%2Fnfl%2Fscoreboard",
		},
		{
			"second upstream host rides the relay",
			"https://api.sportsdata.io/v3/nba/scores",
			"https://app.example.com/relay?url=https%3A%2F%2Fapi.sportsdata.io%2Fv3%2Fnba%2Fscores",
		},
		{
			"unknown host goes direct",
			"https://example.org/feed.json",
			"https://example.org/feed.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.RouteFor(tt.target))
		})
	}
}

// TestRouteForHostCaseInsensitive tests host matching ignores case
func TestRouteForHostCaseInsensitive(t *testing.T) {
	g := newTestGateway(t, GatewayConfig{
		RelayURL:      "https://app.example.com/relay",
		UpstreamHosts: []string{"Site.API.espn.com"},
	})

	routed := g.RouteFor("https://SITE.api.ESPN.com/scoreboard")
	assert.Contains(t, routed, "https://app.example.com/relay?url=")
}

// TestNewGatewaySecuresRelay tests the relay base itself gets the https
// rewrite
func TestNewGatewaySecuresRelay(t *testing.T) {
	g := newTestGateway(t, GatewayConfig{
		RelayURL:      "http://app.example.com/relay",
		UpstreamHosts: []string{"site.api.espn.com"},
	})

	routed := g.RouteFor("https://site.api.espn.com/scoreboard")
	assert.Contains(t, routed, "https://app.example.com/relay?url=")
}

// TestFetchDirect tests a direct fetch of a non-upstream URL
func TestFetchDirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"games":[],"totalGames":0}`))
	}))
	defer server.Close()

	g := newTestGateway(t, GatewayConfig{Timeout: time.Second})

	raw, err := g.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"games":[],"totalGames":0}`, string(raw))
}

// TestFetchUnexpectedStatus tests non-200 handling
func TestFetchUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	g := newTestGateway(t, GatewayConfig{Timeout: time.Second})

	_, err := g.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var srcErr SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, ErrCodeNetworkError, srcErr.Code)
}

// TestFetchTimeout tests the hard deadline surfacing as a timeout error
func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	g := newTestGateway(t, GatewayConfig{Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := g.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond)

	var srcErr SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, ErrCodeTimeout, srcErr.Code)
}
