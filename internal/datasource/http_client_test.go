package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBreakerClient(max int) *RateLimitedHTTPClient {
	return NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      2 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: max,
	}, nil)
}

// deadServerURL returns a URL nothing is listening on.
func deadServerURL(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()
	return url
}

// TestCircuitBreakerOpens tests the breaker tripping after consecutive
// failures and failing fast afterwards
func TestCircuitBreakerOpens(t *testing.T) {
	client := newBreakerClient(2)
	defer client.Close()
	url := deadServerURL(t)

	_, err := client.Get(context.Background(), url)
	require.Error(t, err)
	_, err = client.Get(context.Background(), url)
	require.Error(t, err)

	// Breaker is open now; the next call never reaches the network
	_, err = client.Get(context.Background(), url)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "circuit breaker open"))
}

// TestCircuitBreakerResets tests a success closing the breaker path again
func TestCircuitBreakerResets(t *testing.T) {
	client := newBreakerClient(3)
	defer client.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Two failures, then a success, then two more failures: the reset in
	// between must keep the breaker closed throughout
	dead := deadServerURL(t)
	_, _ = client.Get(context.Background(), dead)
	_, _ = client.Get(context.Background(), dead)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	_, err = client.Get(context.Background(), dead)
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "circuit breaker open"))
}

// TestCircuitBreakerConcurrentRefreshes tests breaker state under the
// overlapping refresh jobs that share one client
func TestCircuitBreakerConcurrentRefreshes(t *testing.T) {
	client := newBreakerClient(5)
	defer client.Close()
	url := deadServerURL(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_, err := client.Get(context.Background(), url)
				assert.Error(t, err)
			}
		}()
	}
	wg.Wait()

	_, err := client.Get(context.Background(), url)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "circuit breaker open"))
}
