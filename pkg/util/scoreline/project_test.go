package scoreline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectKnownTeams(t *testing.T) {
	table := Fit(fourMatches())

	rates := Project("Arsenal", "Chelsea", table, DefaultRateFloor)
	assert.InDelta(t, 1.5*(2.5/1.5)*2.0, rates.Home, 1e-9)
	assert.InDelta(t, 0.75*(1.0/0.75)*(1.0/0.75), rates.Away, 1e-9)
}

func TestProjectFloorsZeroRates(t *testing.T) {
	table := Fit(fourMatches())

	// Brentford never scored at home and Arsenal never scored away
	rates := Project("Brentford", "Arsenal", table, DefaultRateFloor)
	assert.Equal(t, DefaultRateFloor, rates.Home)
	assert.Equal(t, DefaultRateFloor, rates.Away)
}

func TestProjectUnknownTeamUsesLeagueMeans(t *testing.T) {
	table := Fit(fourMatches())

	assert.Equal(t, ExpectedRates{Home: 1.5, Away: 0.75}, Project("Arsenal", "Wrexham", table, DefaultRateFloor))
	assert.Equal(t, ExpectedRates{Home: 1.5, Away: 0.75}, Project("Wrexham", "Arsenal", table, DefaultRateFloor))
}

func TestProjectWithoutHistory(t *testing.T) {
	floor := ExpectedRates{Home: DefaultRateFloor, Away: DefaultRateFloor}
	assert.Equal(t, floor, Project("Arsenal", "Chelsea", nil, DefaultRateFloor))
	assert.Equal(t, floor, Project("Arsenal", "Chelsea", Fit(nil), DefaultRateFloor))
}

func TestProjectRatesAlwaysPositive(t *testing.T) {
	table := Fit(fourMatches())
	for _, home := range table.TeamNames() {
		for _, away := range table.TeamNames() {
			r := Project(home, away, table, DefaultRateFloor)
			assert.GreaterOrEqual(t, r.Home, DefaultRateFloor)
			assert.GreaterOrEqual(t, r.Away, DefaultRateFloor)
		}
	}
}

func TestClampRateDegenerateValues(t *testing.T) {
	assert.Equal(t, 0.05, clampRate(math.NaN(), 0.05))
	assert.Equal(t, 0.05, clampRate(math.Inf(1), 0.05))
	assert.Equal(t, 0.05, clampRate(-2, 0.05))
	assert.Equal(t, 1.3, clampRate(1.3, 0.05))
}

func TestProjectArsenalLiverpool(t *testing.T) {
	table := &StrengthTable{
		Means: LeagueMeans{MuHome: 1.5, MuAway: 1.3},
		Teams: map[string]TeamStrength{
			"Arsenal":   {HomeAttack: 1.4, HomeDefense: 0.7, AwayAttack: 1.2, AwayDefense: 0.8},
			"Liverpool": {HomeAttack: 1.5, HomeDefense: 0.8, AwayAttack: 1.3, AwayDefense: 0.9},
		},
		Matches: 380,
	}
	r := Project("Arsenal", "Liverpool", table, DefaultRateFloor)
	t.Logf("Arsenal v Liverpool: %.3f - %.3f", r.Home, r.Away)
	assert.InDelta(t, 1.5*1.4*0.9, r.Home, 1e-9)
	assert.InDelta(t, 1.3*1.3*0.7, r.Away, 1e-9)
}
