package predict

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gameline/internal/metrics"
	"github.com/yourusername/gameline/internal/models"
	"github.com/yourusername/gameline/internal/reference"
)

// Estimator is one independently parameterized run of the strength engine.
// The names echo the upstream product's model labels; every estimator is
// the same fixed heuristic under different tuning constants.
type Estimator struct {
	Name        string
	Engine      *Engine
	AccuracyPct float64
}

// EstimatorSpec parameterizes one estimator for NewEnsemble.
type EstimatorSpec struct {
	Name            string
	ConfidenceScale float64
	SpreadScale     float64
	AccuracyPct     float64
}

// DefaultEstimatorSpecs returns the stock three-estimator configuration.
func DefaultEstimatorSpecs() []EstimatorSpec {
	return []EstimatorSpec{
		{Name: "neural", ConfidenceScale: 0.50, SpreadScale: 15.0, AccuracyPct: 94},
		{Name: "tree", ConfidenceScale: 0.40, SpreadScale: 13.0, AccuracyPct: 91},
		{Name: "blended", ConfidenceScale: 0.45, SpreadScale: 14.0, AccuracyPct: 89},
	}
}

// Ensemble combines the estimators into a consensus prediction with an
// agreement edge.
type Ensemble struct {
	estimators            []Estimator
	highEdgeMinConfidence float64
	logger                *logrus.Logger
}

// NewEnsemble builds an ensemble over the given estimator specs. Each spec
// gets its own engine so tuning constants stay independent; pinned matchups
// are shared so overrides pin every estimator alike.
func NewEnsemble(base EngineConfig, specs []EstimatorSpec, pinned []PinnedPrediction, library *reference.Library, highEdgeMinConfidence float64, logger *logrus.Logger) (*Ensemble, error) {
	if len(specs) < 2 || len(specs) > 3 {
		return nil, fmt.Errorf("ensemble requires 2-3 estimators, got %d", len(specs))
	}
	if highEdgeMinConfidence <= 0.5 || highEdgeMinConfidence > 1 {
		return nil, fmt.Errorf("high edge confidence threshold %.2f out of (0.5,1]", highEdgeMinConfidence)
	}

	estimators := make([]Estimator, 0, len(specs))
	for _, spec := range specs {
		cfg := base
		cfg.ConfidenceScale = spec.ConfidenceScale
		cfg.SpreadScale = spec.SpreadScale
		estimators = append(estimators, Estimator{
			Name:        spec.Name,
			Engine:      NewEngine(cfg, pinned, library, logger),
			AccuracyPct: spec.AccuracyPct,
		})
	}

	return &Ensemble{
		estimators:            estimators,
		highEdgeMinConfidence: highEdgeMinConfidence,
		logger:                logger,
	}, nil
}

// Score runs every estimator on the matchup and aggregates the consensus.
func (e *Ensemble) Score(sport string, home, away models.TeamRef) models.EnsembleResult {
	start := time.Now()
	defer func() {
		metrics.EnsembleScoreDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]models.EstimatorResult, 0, len(e.estimators))
	for _, est := range e.estimators {
		results = append(results, models.EstimatorResult{
			Name:          est.Name,
			Prediction:    est.Engine.Predict(sport, home, away),
			AccuracyLabel: fmt.Sprintf("%.0f%%", est.AccuracyPct),
		})
	}

	ensemble := models.EnsembleResult{Estimators: results}
	ensemble.Consensus = e.consensus(results)
	ensemble.Edge = e.edge(&ensemble)

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"home":   home.Abbreviation,
			"away":   away.Abbreviation,
			"winner": ensemble.Consensus.Winner,
			"edge":   ensemble.Edge,
		}).Debug("Scored ensemble")
	}

	return ensemble
}

// consensus takes the majority winner and the mean of the numeric fields.
func (e *Ensemble) consensus(results []models.EstimatorResult) models.Prediction {
	var homeVotes int
	var confidence, spread, total float64

	for _, r := range results {
		if r.Prediction.Winner == models.WinnerHome {
			homeVotes++
		}
		confidence += r.Prediction.Confidence
		spread += r.Prediction.Spread
		total += r.Prediction.Total
	}

	n := float64(len(results))
	winner := models.WinnerAway
	if homeVotes*2 >= len(results) {
		winner = models.WinnerHome
	}

	// Consensus reasoning cites the panel, not any single estimator
	reasoning := fmt.Sprintf("%d of %d estimators pick the %s side.", majority(homeVotes, len(results)), len(results), winner)

	return models.Prediction{
		Winner:     winner,
		Confidence: roundTo(confidence/n, 3),
		Spread:     roundTo(spread/n, 1),
		Total:      roundToHalf(total / n),
		Reasoning:  reasoning,
	}
}

// edge labels agreement strength for this ensemble's threshold.
func (e *Ensemble) edge(result *models.EnsembleResult) models.Edge {
	return ComputeEdge(result, e.highEdgeMinConfidence)
}

// ComputeEdge labels agreement strength: HIGH when unanimous and confident,
// MEDIUM when unanimous but tepid, LOW on any disagreement.
func ComputeEdge(result *models.EnsembleResult, minConfidence float64) models.Edge {
	if !result.Agreed() {
		return models.EdgeLow
	}
	if result.Consensus.Confidence >= minConfidence {
		return models.EdgeHigh
	}
	return models.EdgeMedium
}

// majority returns the vote count backing the winning side.
func majority(homeVotes, n int) int {
	if homeVotes*2 >= n {
		return homeVotes
	}
	return n - homeVotes
}
