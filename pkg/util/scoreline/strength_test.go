package scoreline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourMatches is a tiny league where every ratio can be worked out by hand.
// mu_home = 6/4 = 1.5, mu_away = 3/4 = 0.75
func fourMatches() []MatchRecord {
	return []MatchRecord{
		{HomeTeam: "Arsenal", AwayTeam: "Brentford", HomeGoals: 2, AwayGoals: 1},
		{HomeTeam: "Brentford", AwayTeam: "Arsenal", HomeGoals: 0, AwayGoals: 0},
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeGoals: 3, AwayGoals: 1},
		{HomeTeam: "Chelsea", AwayTeam: "Brentford", HomeGoals: 1, AwayGoals: 1},
	}
}

func TestFitLeagueMeans(t *testing.T) {
	table := Fit(fourMatches())

	assert.Equal(t, 4, table.Matches)
	assert.InDelta(t, 1.5, table.Means.MuHome, 1e-9)
	assert.InDelta(t, 0.75, table.Means.MuAway, 1e-9)
	assert.Equal(t, []string{"Arsenal", "Brentford", "Chelsea"}, table.TeamNames())
}

func TestFitTeamRatios(t *testing.T) {
	table := Fit(fourMatches())

	arsenal, ok := table.Lookup("Arsenal")
	require.True(t, ok)
	assert.InDelta(t, 2.5/1.5, arsenal.HomeAttack, 1e-9)
	assert.InDelta(t, 1.0/0.75, arsenal.HomeDefense, 1e-9)
	assert.InDelta(t, 0.0, arsenal.AwayAttack, 1e-9)
	assert.InDelta(t, 0.0, arsenal.AwayDefense, 1e-9)

	brentford, ok := table.Lookup("Brentford")
	require.True(t, ok)
	assert.InDelta(t, 0.0, brentford.HomeAttack, 1e-9)
	assert.InDelta(t, 1.0/0.75, brentford.AwayAttack, 1e-9)
	assert.InDelta(t, 1.0, brentford.AwayDefense, 1e-9)

	chelsea, ok := table.Lookup("Chelsea")
	require.True(t, ok)
	assert.InDelta(t, 1.0/1.5, chelsea.HomeAttack, 1e-9)
	assert.InDelta(t, 1.0/0.75, chelsea.HomeDefense, 1e-9)
	assert.InDelta(t, 1.0/0.75, chelsea.AwayAttack, 1e-9)
	assert.InDelta(t, 2.0, chelsea.AwayDefense, 1e-9)
}

func TestFitNeutralWhenVenueNeverPlayed(t *testing.T) {
	table := Fit([]MatchRecord{{HomeTeam: "Fulham", AwayTeam: "Everton", HomeGoals: 1, AwayGoals: 0}})

	fulham, _ := table.Lookup("Fulham")
	assert.Equal(t, NeutralRatio, fulham.AwayAttack)
	assert.Equal(t, NeutralRatio, fulham.AwayDefense)

	everton, _ := table.Lookup("Everton")
	assert.Equal(t, NeutralRatio, everton.HomeAttack)
	assert.Equal(t, NeutralRatio, everton.HomeDefense)
	// mu_away is zero so away ratios are neutral too
	assert.Equal(t, NeutralRatio, everton.AwayAttack)
}

func TestFitNeutralWhenLeagueScoresNothing(t *testing.T) {
	table := Fit([]MatchRecord{
		{HomeTeam: "Burnley", AwayTeam: "Luton", HomeGoals: 0, AwayGoals: 0},
		{HomeTeam: "Luton", AwayTeam: "Burnley", HomeGoals: 0, AwayGoals: 0},
	})
	for _, name := range table.TeamNames() {
		s, _ := table.Lookup(name)
		assert.Equal(t, NeutralStrength, s, name)
	}
}

func TestFitEmptyInput(t *testing.T) {
	table := Fit(nil)

	assert.True(t, table.Empty())
	assert.Empty(t, table.Teams)
	assert.Zero(t, table.Means.MuHome)
	assert.Zero(t, table.Means.MuAway)
}

func TestFitSkipsIncompleteRecords(t *testing.T) {
	records := append(fourMatches(),
		MatchRecord{HomeTeam: "", AwayTeam: "Chelsea", HomeGoals: 9, AwayGoals: 9},
		MatchRecord{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeGoals: -1, AwayGoals: 2},
	)
	assert.Equal(t, Fit(fourMatches()).Means, Fit(records).Means)
	assert.Equal(t, 4, Fit(records).Matches)
}

// A averages 2-1 at home in a league where mu_home = 15/10 and mu_away = 12/10.
func TestFitHomeRatiosAgainstLeagueMeans(t *testing.T) {
	records := []MatchRecord{
		{HomeTeam: "A", AwayTeam: "B", HomeGoals: 2, AwayGoals: 1},
		{HomeTeam: "A", AwayTeam: "C", HomeGoals: 2, AwayGoals: 1},
		{HomeTeam: "B", AwayTeam: "C", HomeGoals: 3, AwayGoals: 2},
		{HomeTeam: "C", AwayTeam: "B", HomeGoals: 1, AwayGoals: 1},
		{HomeTeam: "B", AwayTeam: "C", HomeGoals: 1, AwayGoals: 1},
		{HomeTeam: "C", AwayTeam: "B", HomeGoals: 1, AwayGoals: 1},
		{HomeTeam: "B", AwayTeam: "C", HomeGoals: 2, AwayGoals: 1},
		{HomeTeam: "C", AwayTeam: "B", HomeGoals: 1, AwayGoals: 2},
		{HomeTeam: "B", AwayTeam: "C", HomeGoals: 1, AwayGoals: 1},
		{HomeTeam: "C", AwayTeam: "B", HomeGoals: 1, AwayGoals: 1},
	}
	table := Fit(records)

	assert.InDelta(t, 1.5, table.Means.MuHome, 1e-12)
	assert.InDelta(t, 1.2, table.Means.MuAway, 1e-12)

	a, ok := table.Lookup("A")
	require.True(t, ok)
	assert.InDelta(t, 2.0/1.5, a.HomeAttack, 1e-12)
	assert.InDelta(t, 1.333, a.HomeAttack, 1e-3)
	assert.InDelta(t, 1.0/1.2, a.HomeDefense, 1e-12)
	assert.InDelta(t, 0.833, a.HomeDefense, 1e-3)
}

func TestLookupIgnoresSurroundingSpace(t *testing.T) {
	table := Fit(fourMatches())

	want, ok := table.Lookup("Arsenal")
	require.True(t, ok)
	got, ok := table.Lookup("  Arsenal\t")
	assert.True(t, ok)
	assert.Equal(t, want, got)

	assert.Equal(t,
		Project("Arsenal", "Chelsea", table, DefaultRateFloor),
		Project(" Arsenal ", "Chelsea ", table, DefaultRateFloor))
}

func TestFitIsDeterministic(t *testing.T) {
	assert.Equal(t, Fit(fourMatches()), Fit(fourMatches()))
}
