package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// ScoreboardClient implements GameSource for scoreboard-style JSON APIs.
// It fetches through the Gateway so upstream hosts always ride the secure
// relay, and hands the payload to the normalizer untouched.
type ScoreboardClient struct {
	gateway *Gateway
	name    string
	baseURL string
	apiKey  string
	enabled bool
	logger  *log.Logger
}

// leaguePaths maps sport identifiers to scoreboard URL path segments.
var leaguePaths = map[string]string{
	"nfl": "football/nfl",
	"nba": "basketball/nba",
	"mlb": "baseball/mlb",
	"nhl": "hockey/nhl",
}

// NewScoreboardClient creates a scoreboard API client. The base URL is
// rewritten to https once here; callers never see the insecure form.
func NewScoreboardClient(gateway *Gateway, name, baseURL, apiKey string, enabled bool, logger *log.Logger) *ScoreboardClient {
	return &ScoreboardClient{
		gateway: gateway,
		name:    name,
		baseURL: strings.TrimSuffix(SecureBaseURL(baseURL), "/"),
		apiKey:  apiKey,
		enabled: enabled,
		logger:  logger,
	}
}

// FetchGames retrieves the raw scoreboard payload for a sport.
func (c *ScoreboardClient) FetchGames(ctx context.Context, sport string) (json.RawMessage, error) {
	if !c.enabled {
		return nil, NewSourceError(c.name, ErrCodeNetworkError, "data source is disabled", nil)
	}

	path, ok := leaguePaths[strings.ToLower(sport)]
	if !ok {
		return nil, NewSourceError(c.name, ErrCodeNotFound, fmt.Sprintf("no league path for sport %q", sport), nil)
	}

	target := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, path)
	if c.apiKey != "" {
		target += "?apikey=" + c.apiKey
	}

	raw, err := c.gateway.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 || !json.Valid(raw) {
		return nil, NewSourceError(c.name, ErrCodeInvalidData, "upstream returned non-JSON payload", nil)
	}

	return raw, nil
}

// Name returns the data source name
func (c *ScoreboardClient) Name() string {
	return c.name
}

// IsEnabled returns whether this data source is enabled
func (c *ScoreboardClient) IsEnabled() bool {
	return c.enabled
}
