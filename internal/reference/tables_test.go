package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gameline/internal/models"
)

// TestDefaultLibrary tests the built-in tables are well formed
func TestDefaultLibrary(t *testing.T) {
	l := DefaultLibrary()

	assert.Equal(t, "2025", l.Season())
	assert.True(t, l.HasSport("nfl"))
	assert.True(t, l.HasSport("NBA"))
	assert.False(t, l.HasSport("mlb"))
	assert.ElementsMatch(t, []string{"nfl", "nba"}, l.Sports())

	for _, sport := range l.Sports() {
		seen := map[string]bool{}
		for _, team := range l.Teams(sport) {
			assert.NotEmpty(t, team.Name)
			assert.NotEmpty(t, team.Abbreviation)
			assert.GreaterOrEqual(t, team.Strength, 0.0)
			assert.LessOrEqual(t, team.Strength, 1.0)
			assert.False(t, seen[team.Abbreviation], "%s duplicate abbreviation %s", sport, team.Abbreviation)
			seen[team.Abbreviation] = true
		}
	}
}

// TestTeamLookup tests abbreviation lookup within a sport
func TestTeamLookup(t *testing.T) {
	l := DefaultLibrary()

	phi, ok := l.Team("nfl", "PHI")
	require.True(t, ok)
	assert.Equal(t, "Philadelphia Eagles", phi.Name)
	assert.Equal(t, 0.83, phi.Strength)

	// Lookup is case-insensitive on the abbreviation
	bos, ok := l.Team("nba", "bos")
	require.True(t, ok)
	assert.Equal(t, "Boston Celtics", bos.Name)

	// A sport scopes the search: no Celtics on the football table
	_, ok = l.Team("nfl", "BOS")
	assert.False(t, ok)

	_, ok = l.Team("nfl", "ZZZ")
	assert.False(t, ok)
}

// TestTeamLookupDuplicateAbbreviation tests that an abbreviation shared
// across sports resolves by sport, and deterministically without one
func TestTeamLookupDuplicateAbbreviation(t *testing.T) {
	// MIA is both the Dolphins (nfl) and the Heat (nba)
	for i := 0; i < 50; i++ {
		l := DefaultLibrary()

		dolphins, ok := l.Team("nfl", "MIA")
		require.True(t, ok)
		assert.Equal(t, "Miami Dolphins", dolphins.Name)

		heat, ok := l.Team("nba", "MIA")
		require.True(t, ok)
		assert.Equal(t, "Miami Heat", heat.Name)

		// Unscoped lookup searches sports in name order, so it always
		// lands on the same team regardless of map iteration order
		unscoped, ok := l.Team("", "MIA")
		require.True(t, ok)
		assert.Equal(t, "Miami Heat", unscoped.Name)
	}
}

// TestRoster tests skill-player lookup
func TestRoster(t *testing.T) {
	l := DefaultLibrary()

	roster := l.Roster("phi")
	require.NotEmpty(t, roster)
	assert.Equal(t, "Jalen Hurts", roster[0].Name)
	assert.Equal(t, "QB", roster[0].Position)

	assert.Empty(t, l.Roster("CAR"))
}

// TestNewLibraryNilTables tests construction with absent tables
func TestNewLibraryNilTables(t *testing.T) {
	l := NewLibrary("2026", nil, nil)

	assert.False(t, l.HasSport("nfl"))
	assert.Empty(t, l.Sports())
	assert.Empty(t, l.Roster("PHI"))

	_, ok := l.Team("nfl", "PHI")
	assert.False(t, ok)
}

// TestTeamOrderPreserved tests display order survives construction
func TestTeamOrderPreserved(t *testing.T) {
	teams := map[string][]models.TeamRef{
		"nfl": {
			{Name: "Second", Abbreviation: "SEC", Strength: 0.5},
			{Name: "First", Abbreviation: "FST", Strength: 0.6},
		},
	}
	l := NewLibrary("2025", teams, nil)

	got := l.Teams("nfl")
	require.Len(t, got, 2)
	assert.Equal(t, "SEC", got[0].Abbreviation)
	assert.Equal(t, "FST", got[1].Abbreviation)
}
