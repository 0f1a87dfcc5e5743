package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gameline/internal/cache"
	"github.com/yourusername/gameline/internal/datasource"
	"github.com/yourusername/gameline/internal/fallback"
	"github.com/yourusername/gameline/internal/metrics"
	"github.com/yourusername/gameline/internal/models"
)

// Pipeline resolves a sport's game set through the tiered chain: live
// sources in priority order, then the cache, then the synthetic fallback.
// Callers always receive a plausible game set; the only error surfaced is a
// fallback configuration failure, which startup validation already rules
// out.
type Pipeline struct {
	sources    []datasource.GameSource
	normalizer *Normalizer
	validator  *Validator
	store      *cache.GameSetCache
	generator  *fallback.Generator
	window     time.Duration
	logger     *logrus.Logger
	now        func() time.Time
}

// NewPipeline creates a new acquisition pipeline
func NewPipeline(
	sources []datasource.GameSource,
	normalizer *Normalizer,
	validator *Validator,
	store *cache.GameSetCache,
	generator *fallback.Generator,
	window time.Duration,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		sources:    sources,
		normalizer: normalizer,
		validator:  validator,
		store:      store,
		generator:  generator,
		window:     window,
		logger:     logger,
		now:        time.Now,
	}
}

// GameSet returns the current game set for a sport. Live acquisition
// failures, unrecognized shapes and validity failures all degrade through
// cache to fallback rather than surfacing to the caller.
func (p *Pipeline) GameSet(ctx context.Context, sport string) (*models.GameSet, error) {
	start := p.now()
	requestID := uuid.New()
	log := p.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"sport":      sport,
	})

	defer func() {
		metrics.PipelineRefreshDuration.Observe(p.now().Sub(start).Seconds())
	}()

	key := cache.NewKey(sport, p.now(), p.window)

	if set := p.fetchLive(ctx, sport, log); set != nil {
		p.store.Put(key, set)
		p.trackLiveGames(sport, set)
		return set, nil
	}

	// Stale-but-real beats synthetic: consult the cache before generating
	if cached := p.store.Get(key); cached != nil {
		metrics.CacheServesTotal.WithLabelValues(sport).Inc()
		log.WithField("cached_at", cached.LastUpdate).Info("Serving cached game set after acquisition failure")
		return cached, nil
	}

	metrics.FallbacksTotal.WithLabelValues(sport).Inc()
	log.Warn("All sources and cache exhausted, generating fallback game set")
	return p.generator.Generate(sport, p.now())
}

// fetchLive tries each configured source in order and returns the first
// normalized, valid game set. A nil return means every source failed.
func (p *Pipeline) fetchLive(ctx context.Context, sport string, log *logrus.Entry) *models.GameSet {
	for _, source := range p.sources {
		if !source.IsEnabled() {
			continue
		}

		raw, err := source.FetchGames(ctx, sport)
		if err != nil {
			metrics.FetchesTotal.WithLabelValues(source.Name(), "error").Inc()
			log.WithError(err).WithField("source", source.Name()).Warn("Source fetch failed")
			continue
		}

		set, err := p.normalizer.Normalize(raw)
		if err != nil {
			metrics.FetchesTotal.WithLabelValues(source.Name(), "unrecognized").Inc()
			log.WithError(err).WithField("source", source.Name()).Warn("Response shape not recognized")
			continue
		}

		if err := p.validator.ValidateGameSet(set); err != nil {
			metrics.FetchesTotal.WithLabelValues(source.Name(), "invalid").Inc()
			log.WithError(err).WithField("source", source.Name()).Warn("Normalized game set failed validity check")
			continue
		}

		metrics.FetchesTotal.WithLabelValues(source.Name(), "ok").Inc()
		log.WithFields(logrus.Fields{
			"source": source.Name(),
			"games":  set.TotalGames,
		}).Info("Fetched live game set")
		return set
	}

	return nil
}

// ApplyScoreUpdate patches a cached game's score from the live stream.
// Misses are fine; the next full refresh repopulates the entry.
func (p *Pipeline) ApplyScoreUpdate(update datasource.ScoreUpdate) {
	key := cache.NewKey(update.Sport, p.now(), p.window)

	patched := p.store.Update(key, func(set *models.GameSet) *models.GameSet {
		next := *set
		next.Games = make([]models.Game, len(set.Games))
		copy(next.Games, set.Games)

		for i := range next.Games {
			if next.Games[i].ID != update.GameID {
				continue
			}
			next.Games[i].Score = &models.Score{Home: update.HomeScore, Away: update.AwayScore}
			if update.Status != "" {
				next.Games[i].Status = update.Status
			} else if next.Games[i].Status == models.StatusScheduled {
				next.Games[i].Status = models.StatusLive
			}
		}

		next.LastUpdate = p.now().UTC()
		return &next
	})

	if patched {
		p.logger.WithFields(logrus.Fields{
			"sport":   update.Sport,
			"game_id": update.GameID,
		}).Debug("Applied streamed score update")
	}
}

// trackLiveGames publishes the live game count gauge for a sport.
func (p *Pipeline) trackLiveGames(sport string, set *models.GameSet) {
	live := 0
	for i := range set.Games {
		if set.Games[i].IsLive() {
			live++
		}
	}
	metrics.LiveGamesTracked.WithLabelValues(sport).Set(float64(live))
}
