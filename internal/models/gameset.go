// Package models defines the canonical data records shared across the pipeline.
package models

import "time"

// Game status values
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinal     = "final"
)

// GameSet is the canonical record every upstream response normalizes into.
// TotalGames always equals len(Games) and Games preserves upstream order.
type GameSet struct {
	Success    bool      `json:"success"`
	Games      []Game    `json:"games" validate:"required,min=1,dive"`
	TotalGames int       `json:"totalGames" validate:"gte=0"`
	LastUpdate time.Time `json:"lastUpdate"`
	Source     string    `json:"source" validate:"required"`
}

// Game represents one scheduled, live or finished matchup.
type Game struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=scheduled live final"`
	HomeTeam  TeamRef   `json:"homeTeam" validate:"required"`
	AwayTeam  TeamRef   `json:"awayTeam" validate:"required"`
	StartTime time.Time `json:"startTime"`
	Score     *Score    `json:"score,omitempty"`
}

// Score holds the current or final score of a game.
type Score struct {
	Home int `json:"home" validate:"gte=0"`
	Away int `json:"away" validate:"gte=0"`
}

// TeamRef identifies a team together with its strength rating in [0,1].
type TeamRef struct {
	Name         string  `json:"name" validate:"required"`
	Abbreviation string  `json:"abbreviation" validate:"required"`
	Strength     float64 `json:"strength" validate:"gte=0,lte=1"`
}

// PlayerRef identifies a skill-position player from the static roster tables.
// Never persisted beyond request scope.
type PlayerRef struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
}

// IsLive reports whether the game is in progress.
func (g *Game) IsLive() bool {
	return g.Status == StatusLive
}

// IsFinal reports whether the game has finished.
func (g *Game) IsFinal() bool {
	return g.Status == StatusFinal
}

// RequiresScore reports whether the game's status obliges it to carry a score.
func (g *Game) RequiresScore() bool {
	return g.Status == StatusLive || g.Status == StatusFinal
}

// IsSynthetic reports whether the set came from the fallback generator
// rather than a live source.
func (gs *GameSet) IsSynthetic() bool {
	return gs.Source == SourceFallback
}

// Source labels carried on a GameSet.
const (
	SourceAPI      = "API"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)
