package models

import "github.com/shopspring/decimal"

// Winner designates the predicted winning side of a matchup.
type Winner string

// Winner values
const (
	WinnerHome Winner = "home"
	WinnerAway Winner = "away"
)

// Edge labels the qualitative strength of ensemble agreement.
type Edge string

// Edge values
const (
	EdgeHigh   Edge = "HIGH"
	EdgeMedium Edge = "MEDIUM"
	EdgeLow    Edge = "LOW"
)

// Prediction is the output of the strength engine for a single matchup.
// Confidence is bounded to [0.5, 0.95]; Spread is signed so the favored
// team's number is negative.
type Prediction struct {
	Winner     Winner  `json:"winner" validate:"required,oneof=home away"`
	Confidence float64 `json:"confidence" validate:"gte=0.5,lte=0.95"`
	Spread     float64 `json:"spread"`
	Total      float64 `json:"total" validate:"gt=0"`
	Reasoning  string  `json:"reasoning"`
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}

// FavoriteSpread returns the spread from the favorite's perspective (<= 0).
func (p *Prediction) FavoriteSpread() float64 {
	if p.Spread > 0 {
		return -p.Spread
	}
	return p.Spread
}

// BettingLine is a sportsbook-style rendering of a Prediction. The favorite's
// moneyline is negative and the underdog's positive; home and away spreads
// carry opposite signs.
type BettingLine struct {
	MoneylineHome string          `json:"moneylineHome"`
	MoneylineAway string          `json:"moneylineAway"`
	SpreadHome    string          `json:"spreadHome"`
	SpreadAway    string          `json:"spreadAway"`
	Total         decimal.Decimal `json:"total"`
	Sportsbook    string          `json:"sportsbook"`
}

// EstimatorResult pairs one estimator's prediction with its display label.
type EstimatorResult struct {
	Name          string     `json:"name"`
	Prediction    Prediction `json:"prediction"`
	AccuracyLabel string     `json:"accuracyLabel"`
}

// EnsembleResult combines the independently parameterized estimators into a
// consensus prediction with an agreement edge.
type EnsembleResult struct {
	Estimators []EstimatorResult `json:"estimators"`
	Consensus  Prediction        `json:"consensus"`
	Edge       Edge              `json:"edge"`
}

// Agreed reports whether every estimator picked the same winner.
func (e *EnsembleResult) Agreed() bool {
	if len(e.Estimators) == 0 {
		return false
	}
	first := e.Estimators[0].Prediction.Winner
	for _, est := range e.Estimators[1:] {
		if est.Prediction.Winner != first {
			return false
		}
	}
	return true
}
