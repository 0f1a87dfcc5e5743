package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gameline/internal/models"
)

// Validator performs the minimal validity check that disqualifies a
// structurally well-formed but semantically broken game set. A failed check
// sends the pipeline down the same cache-then-fallback chain as a network
// failure.
type Validator struct {
	logger *logrus.Logger
}

// NewValidator creates a new game set validator
func NewValidator(logger *logrus.Logger) *Validator {
	return &Validator{logger: logger}
}

// ValidateGameSet checks a normalized game set for semantic consistency.
func (v *Validator) ValidateGameSet(set *models.GameSet) error {
	if set == nil {
		return fmt.Errorf("%w: nil game set", models.ErrInvalidGameSet)
	}

	if len(set.Games) == 0 || set.TotalGames == 0 {
		return fmt.Errorf("%w: zero games", models.ErrInvalidGameSet)
	}

	if set.TotalGames != len(set.Games) {
		return fmt.Errorf("%w: totalGames %d does not match %d games", models.ErrInvalidGameSet, set.TotalGames, len(set.Games))
	}

	for i := range set.Games {
		if errs := v.validateGame(&set.Games[i]); len(errs) > 0 {
			return fmt.Errorf("%w: game %d: %s", models.ErrInvalidGameSet, i, errs[0])
		}
	}

	return nil
}

// validateGame validates one game for required fields and constraints
func (v *Validator) validateGame(game *models.Game) []string {
	var errors []string

	if game.ID == "" {
		errors = append(errors, "id is required")
	}

	if game.HomeTeam.Name == "" || game.AwayTeam.Name == "" {
		errors = append(errors, "both teams are required")
	}

	switch game.Status {
	case models.StatusScheduled:
		// A scheduled game must not claim a final score
		if game.Score != nil && (game.Score.Home > 0 || game.Score.Away > 0) {
			errors = append(errors, "scheduled game carries a score")
		}
	case models.StatusLive, models.StatusFinal:
		// A live or final game must carry a score
		if game.Score == nil {
			errors = append(errors, fmt.Sprintf("%s game missing score", game.Status))
		}
	default:
		errors = append(errors, fmt.Sprintf("unknown status %q", game.Status))
	}

	for _, team := range []models.TeamRef{game.HomeTeam, game.AwayTeam} {
		if team.Strength < 0 || team.Strength > 1 {
			errors = append(errors, fmt.Sprintf("team %s strength %.2f out of [0,1]", team.Abbreviation, team.Strength))
		}
	}

	if v.logger != nil && len(errors) > 0 {
		v.logger.WithFields(logrus.Fields{
			"game_id": game.ID,
			"reasons": errors,
		}).Debug("Game failed validity check")
	}

	return errors
}
