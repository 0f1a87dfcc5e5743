// Package reference holds the static team and roster seed tables the
// pipeline treats as a read-only lookup dependency. Tables are supplied at
// configuration time; nothing here is mutated after construction.
package reference

import (
	"sort"
	"strings"

	"github.com/yourusername/gameline/internal/models"
)

// Sport identifiers supported by the built-in tables.
const (
	SportNFL = "nfl"
	SportNBA = "nba"
)

// Library is an immutable snapshot of team and roster reference data for a
// season. Pass it explicitly rather than sharing it as package state so
// tests can run against different seasons in parallel.
type Library struct {
	season  string
	teams   map[string][]models.TeamRef   // sport -> teams in display order
	rosters map[string][]models.PlayerRef // team abbreviation -> skill players
}

// NewLibrary builds a library from explicit tables. Team order is preserved
// as given; it drives matchup pairing in the fallback generator.
func NewLibrary(season string, teams map[string][]models.TeamRef, rosters map[string][]models.PlayerRef) *Library {
	if teams == nil {
		teams = map[string][]models.TeamRef{}
	}
	if rosters == nil {
		rosters = map[string][]models.PlayerRef{}
	}
	return &Library{season: season, teams: teams, rosters: rosters}
}

// DefaultLibrary returns the built-in current-season tables.
func DefaultLibrary() *Library {
	return NewLibrary("2025", defaultTeams(), defaultRosters())
}

// Season returns the season label the tables describe.
func (l *Library) Season() string {
	return l.season
}

// Teams returns the reference teams for a sport in display order.
func (l *Library) Teams(sport string) []models.TeamRef {
	return l.teams[strings.ToLower(sport)]
}

// HasSport reports whether at least one reference team exists for the sport.
func (l *Library) HasSport(sport string) bool {
	return len(l.Teams(sport)) > 0
}

// Sports returns the sports with at least one configured team.
func (l *Library) Sports() []string {
	sports := make([]string, 0, len(l.teams))
	for sport, teams := range l.teams {
		if len(teams) > 0 {
			sports = append(sports, sport)
		}
	}
	return sports
}

// Team looks up a team by abbreviation within a sport. Abbreviations are
// only unique per sport ("MIA" is both the Dolphins and the Heat); an empty
// sport falls back to searching all sports in name order.
func (l *Library) Team(sport, abbreviation string) (models.TeamRef, bool) {
	abbr := strings.ToUpper(abbreviation)

	if sport != "" {
		return l.teamIn(sport, abbr)
	}

	sports := make([]string, 0, len(l.teams))
	for s := range l.teams {
		sports = append(sports, s)
	}
	sort.Strings(sports)

	for _, s := range sports {
		if team, ok := l.teamIn(s, abbr); ok {
			return team, true
		}
	}
	return models.TeamRef{}, false
}

func (l *Library) teamIn(sport, abbr string) (models.TeamRef, bool) {
	for _, team := range l.Teams(sport) {
		if team.Abbreviation == abbr {
			return team, true
		}
	}
	return models.TeamRef{}, false
}

// Roster returns the skill-position players for a team abbreviation.
func (l *Library) Roster(abbreviation string) []models.PlayerRef {
	return l.rosters[strings.ToUpper(abbreviation)]
}

func defaultTeams() map[string][]models.TeamRef {
	return map[string][]models.TeamRef{
		SportNFL: {
			{Name: "Philadelphia Eagles", Abbreviation: "PHI", Strength: 0.83},
			{Name: "Kansas City Chiefs", Abbreviation: "KC", Strength: 0.86},
			{Name: "Buffalo Bills", Abbreviation: "BUF", Strength: 0.82},
			{Name: "Baltimore Ravens", Abbreviation: "BAL", Strength: 0.80},
			{Name: "Detroit Lions", Abbreviation: "DET", Strength: 0.81},
			{Name: "San Francisco 49ers", Abbreviation: "SF", Strength: 0.74},
			{Name: "Dallas Cowboys", Abbreviation: "DAL", Strength: 0.58},
			{Name: "Green Bay Packers", Abbreviation: "GB", Strength: 0.72},
			{Name: "Cincinnati Bengals", Abbreviation: "CIN", Strength: 0.68},
			{Name: "Miami Dolphins", Abbreviation: "MIA", Strength: 0.55},
			{Name: "New York Jets", Abbreviation: "NYJ", Strength: 0.38},
			{Name: "New York Giants", Abbreviation: "NYG", Strength: 0.25},
			{Name: "Washington Commanders", Abbreviation: "WAS", Strength: 0.70},
			{Name: "Chicago Bears", Abbreviation: "CHI", Strength: 0.45},
			{Name: "New England Patriots", Abbreviation: "NE", Strength: 0.35},
			{Name: "Carolina Panthers", Abbreviation: "CAR", Strength: 0.30},
		},
		SportNBA: {
			{Name: "Boston Celtics", Abbreviation: "BOS", Strength: 0.84},
			{Name: "Oklahoma City Thunder", Abbreviation: "OKC", Strength: 0.85},
			{Name: "Denver Nuggets", Abbreviation: "DEN", Strength: 0.78},
			{Name: "Cleveland Cavaliers", Abbreviation: "CLE", Strength: 0.79},
			{Name: "Milwaukee Bucks", Abbreviation: "MIL", Strength: 0.68},
			{Name: "New York Knicks", Abbreviation: "NYK", Strength: 0.73},
			{Name: "Los Angeles Lakers", Abbreviation: "LAL", Strength: 0.66},
			{Name: "Golden State Warriors", Abbreviation: "GSW", Strength: 0.63},
			{Name: "Phoenix Suns", Abbreviation: "PHX", Strength: 0.52},
			{Name: "Miami Heat", Abbreviation: "MIA", Strength: 0.50},
			{Name: "Charlotte Hornets", Abbreviation: "CHA", Strength: 0.28},
			{Name: "Washington Wizards", Abbreviation: "WSH", Strength: 0.22},
		},
	}
}

func defaultRosters() map[string][]models.PlayerRef {
	return map[string][]models.PlayerRef{
		"PHI": {
			{Name: "Jalen Hurts", Position: "QB", Team: "PHI"},
			{Name: "Saquon Barkley", Position: "RB", Team: "PHI"},
			{Name: "A.J. Brown", Position: "WR", Team: "PHI"},
		},
		"KC": {
			{Name: "Patrick Mahomes", Position: "QB", Team: "KC"},
			{Name: "Travis Kelce", Position: "TE", Team: "KC"},
			{Name: "Isiah Pacheco", Position: "RB", Team: "KC"},
		},
		"BUF": {
			{Name: "Josh Allen", Position: "QB", Team: "BUF"},
			{Name: "James Cook", Position: "RB", Team: "BUF"},
		},
		"BAL": {
			{Name: "Lamar Jackson", Position: "QB", Team: "BAL"},
			{Name: "Derrick Henry", Position: "RB", Team: "BAL"},
		},
		"DAL": {
			{Name: "Dak Prescott", Position: "QB", Team: "DAL"},
			{Name: "CeeDee Lamb", Position: "WR", Team: "DAL"},
		},
		"NYG": {
			{Name: "Russell Wilson", Position: "QB", Team: "NYG"},
			{Name: "Malik Nabers", Position: "WR", Team: "NYG"},
		},
		"BOS": {
			{Name: "Jayson Tatum", Position: "F", Team: "BOS"},
			{Name: "Jaylen Brown", Position: "G", Team: "BOS"},
		},
		"OKC": {
			{Name: "Shai Gilgeous-Alexander", Position: "G", Team: "OKC"},
			{Name: "Chet Holmgren", Position: "C", Team: "OKC"},
		},
		"LAL": {
			{Name: "LeBron James", Position: "F", Team: "LAL"},
			{Name: "Luka Doncic", Position: "G", Team: "LAL"},
		},
	}
}
