package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gameline/internal/cache"
	"github.com/yourusername/gameline/internal/datasource"
	"github.com/yourusername/gameline/internal/fallback"
	"github.com/yourusername/gameline/internal/models"
	"github.com/yourusername/gameline/internal/reference"
)

// stubSource is a canned GameSource for pipeline tests.
type stubSource struct {
	name    string
	enabled bool
	payload json.RawMessage
	err     error
}

func (s *stubSource) FetchGames(ctx context.Context, sport string) (json.RawMessage, error) {
	return s.payload, s.err
}

func (s *stubSource) Name() string    { return s.name }
func (s *stubSource) IsEnabled() bool { return s.enabled }

func newTestPipeline(t *testing.T, sources ...datasource.GameSource) (*Pipeline, *cache.GameSetCache) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := cache.NewGameSetCache(5*time.Minute, 100)
	generator := fallback.NewGenerator(reference.DefaultLibrary(), logger)

	return NewPipeline(sources, NewNormalizer(logger), NewValidator(logger), store, generator, time.Hour, logger), store
}

// TestPipelineLiveSuccess tests that a healthy source wins and seeds the cache
func TestPipelineLiveSuccess(t *testing.T) {
	payload := json.RawMessage(`{"success":true,"games":[` + gameJSON + `],"totalGames":1,"source":"API"}`)
	p, store := newTestPipeline(t, &stubSource{name: "espn", enabled: true, payload: payload})

	set, err := p.GameSet(context.Background(), "nfl")
	require.NoError(t, err)
	assert.Equal(t, models.SourceAPI, set.Source)
	assert.Equal(t, "401547", set.Games[0].ID)

	key := cache.NewKey("nfl", time.Now(), time.Hour)
	assert.NotNil(t, store.Get(key))
}

// TestPipelineCachedServe tests the cache tier after a source failure
func TestPipelineCachedServe(t *testing.T) {
	p, store := newTestPipeline(t, &stubSource{
		name:    "espn",
		enabled: true,
		err:     models.ErrNetworkFailure,
	})

	warm := validSet()
	warm.Source = "cache"
	store.Put(cache.NewKey("nfl", time.Now(), time.Hour), warm)

	set, err := p.GameSet(context.Background(), "nfl")
	require.NoError(t, err)
	assert.Equal(t, warm, set)
}

// TestPipelineFallback tests synthetic generation when sources and cache
// are both exhausted
func TestPipelineFallback(t *testing.T) {
	p, _ := newTestPipeline(t,
		&stubSource{name: "espn", enabled: true, err: models.ErrNetworkFailure},
		&stubSource{name: "sportsdata", enabled: true, payload: json.RawMessage(`{"weird":"shape"}`)},
	)

	set, err := p.GameSet(context.Background(), "nfl")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, set.Source)
	assert.True(t, set.IsSynthetic())
	assert.NotEmpty(t, set.Games)
	assert.Equal(t, len(set.Games), set.TotalGames)
}

// TestPipelineSkipsDisabledSources tests disabled sources never get asked
func TestPipelineSkipsDisabledSources(t *testing.T) {
	payload := json.RawMessage(`{"success":true,"games":[` + gameJSON + `],"totalGames":1}`)
	p, _ := newTestPipeline(t,
		&stubSource{name: "primary", enabled: false, err: models.ErrNetworkFailure},
		&stubSource{name: "secondary", enabled: true, payload: payload},
	)

	set, err := p.GameSet(context.Background(), "nfl")
	require.NoError(t, err)
	assert.Equal(t, "401547", set.Games[0].ID)
}

// TestPipelineInvalidSetDegrades tests a decodable-but-invalid payload
// falling through to the next tier
func TestPipelineInvalidSetDegrades(t *testing.T) {
	invalid := json.RawMessage(`{"success":true,"games":[],"totalGames":0}`)
	p, _ := newTestPipeline(t, &stubSource{name: "espn", enabled: true, payload: invalid})

	set, err := p.GameSet(context.Background(), "nfl")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, set.Source)
}

// TestApplyScoreUpdate tests live score patching of a cached entry
func TestApplyScoreUpdate(t *testing.T) {
	p, store := newTestPipeline(t)

	warm := validSet()
	key := cache.NewKey("nfl", time.Now(), time.Hour)
	store.Put(key, warm)

	p.ApplyScoreUpdate(datasource.ScoreUpdate{
		Sport:     "nfl",
		GameID:    "401547",
		HomeScore: 14,
		AwayScore: 7,
	})

	patched := store.Get(key)
	require.NotNil(t, patched)
	require.NotNil(t, patched.Games[0].Score)
	assert.Equal(t, 14, patched.Games[0].Score.Home)
	assert.Equal(t, 7, patched.Games[0].Score.Away)
	assert.Equal(t, models.StatusLive, patched.Games[0].Status)

	// The original cached value must not be mutated in place
	assert.Nil(t, warm.Games[0].Score)
}
