package scoreline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeOverUnder(t *testing.T) {
	cases := []struct {
		goals int
		line  float64
		want  OverUnderOutcome
	}{
		{3, 2.5, Over},
		{2, 2.5, Under},
		{2, 2, Push},
		{0, 0.5, Under},
		{5, 3.5, Over},
	}
	for _, c := range cases {
		got, err := GradeOverUnder(c.goals, c.line)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%d goals v %v", c.goals, c.line)
	}

	_, err := GradeOverUnder(2, -1)
	assert.ErrorIs(t, err, ErrInvalidLine)
	_, err = GradeOverUnder(-1, 2.5)
	assert.Error(t, err)
}

func TestImpliedTotalGoalsEvenPrices(t *testing.T) {
	total, err := ImpliedTotalGoals(1.9, 1.9, 2.5)
	require.NoError(t, err)

	// even money on 2.5 puts the Poisson median between 2 and 3
	assert.InDelta(t, 0.5, overProbability(total, 2.5), 1e-6)
	assert.InDelta(t, 2.67, total, 0.02)
}

func TestImpliedTotalGoalsFollowsPrices(t *testing.T) {
	lowScoring, err := ImpliedTotalGoals(2.6, 1.5, 2.5)
	require.NoError(t, err)
	highScoring, err := ImpliedTotalGoals(1.5, 2.6, 2.5)
	require.NoError(t, err)
	assert.Less(t, lowScoring, highScoring)
}

func TestImpliedTotalGoalsWholeLine(t *testing.T) {
	total, err := ImpliedTotalGoals(1.95, 1.95, 3)
	require.NoError(t, err)
	// over and under are equally likely once pushes are removed
	p := PoissonPMF(3, total)
	over := 1 - PoissonCDF(3, total)
	assert.InDelta(t, 0.5, over/(1-p), 1e-6)
}

func TestImpliedTotalGoalsClamped(t *testing.T) {
	total, err := ImpliedTotalGoals(1.01, 50, 0.5)
	require.NoError(t, err)
	assert.LessOrEqual(t, total, maxImpliedTotal)
	assert.GreaterOrEqual(t, total, minImpliedTotal)
}

func TestImpliedTotalGoalsRejectsBadInput(t *testing.T) {
	_, err := ImpliedTotalGoals(1.0, 1.9, 2.5)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = ImpliedTotalGoals(1.9, math.NaN(), 2.5)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = ImpliedTotalGoals(1.9, 1.9, 1e300)
	assert.ErrorIs(t, err, ErrInvalidLine)
	_, err = ImpliedTotalGoals(1.9, 1.9, -2.5)
	assert.ErrorIs(t, err, ErrInvalidLine)
}
