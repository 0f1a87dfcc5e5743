package predict

import (
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gameline/internal/models"
)

// LineFormatter renders predictions as sportsbook-style betting lines. The
// attributed sportsbook name rotates round-robin through the configured
// pool for display variety and never affects the numbers.
type LineFormatter struct {
	sportsbooks []string
	ceiling     decimal.Decimal
	next        atomic.Uint64
}

// NewLineFormatter creates a formatter over a sportsbook pool. The ceiling
// caps moneyline magnitude at a realistic quote.
func NewLineFormatter(sportsbooks []string, moneylineCeiling int) *LineFormatter {
	if len(sportsbooks) == 0 {
		sportsbooks = []string{"DraftKings"}
	}
	if moneylineCeiling <= 100 {
		moneylineCeiling = 1000
	}
	return &LineFormatter{
		sportsbooks: sportsbooks,
		ceiling:     decimal.NewFromInt(int64(moneylineCeiling)),
	}
}

// Format converts a prediction into a betting line. The favorite's
// moneyline is negative, the underdog's positive via the complementary
// implied probability, and home/away spreads carry opposite signs.
func (f *LineFormatter) Format(prediction models.Prediction) models.BettingLine {
	favorite := f.moneyline(prediction.Confidence)

	line := models.BettingLine{
		Total:      decimal.NewFromFloat(prediction.Total),
		Sportsbook: f.sportsbooks[f.next.Add(1)%uint64(len(f.sportsbooks))],
	}

	favML := "-" + favorite.String()
	dogML := "+" + favorite.String()

	homeSpread := decimal.NewFromFloat(prediction.Spread)
	awaySpread := homeSpread.Neg()

	if prediction.Winner == models.WinnerHome {
		line.MoneylineHome = favML
		line.MoneylineAway = dogML
	} else {
		line.MoneylineHome = dogML
		line.MoneylineAway = favML
	}

	line.SpreadHome = formatSpread(homeSpread)
	line.SpreadAway = formatSpread(awaySpread)

	return line
}

// moneyline converts confidence to the favorite's American odds magnitude:
// round(100 * p / (1 - p)), capped at the ceiling.
func (f *LineFormatter) moneyline(confidence float64) decimal.Decimal {
	p := decimal.NewFromFloat(confidence)
	complement := decimal.NewFromInt(1).Sub(p)
	if complement.IsZero() {
		return f.ceiling
	}

	magnitude := p.Div(complement).Mul(decimal.NewFromInt(100)).Round(0)
	if magnitude.GreaterThan(f.ceiling) {
		return f.ceiling
	}
	// Books never quote a favorite shorter than -100
	hundred := decimal.NewFromInt(100)
	if magnitude.LessThan(hundred) {
		return hundred
	}
	return magnitude
}

// formatSpread renders a signed spread string, "PK" for a pick'em.
func formatSpread(spread decimal.Decimal) string {
	if spread.IsZero() {
		return "PK"
	}
	if spread.IsPositive() {
		return "+" + spread.StringFixed(1)
	}
	return spread.StringFixed(1)
}

// FormatMatchup scores nothing itself; it pairs an ensemble consensus with
// a formatted line for the presentation boundary.
func (f *LineFormatter) FormatMatchup(result models.EnsembleResult) (models.BettingLine, string) {
	line := f.Format(result.Consensus)
	card := fmt.Sprintf("%s | edge %s | %s", line.Sportsbook, result.Edge, result.Consensus.Reasoning)
	return line, card
}
