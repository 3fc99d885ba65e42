package scoreline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(records []MatchRecord) *Engine {
	provider := NewStrengthProvider(&fakeRepo{}, &countingSource{records: records})
	return NewEngine(DefaultScorelineConfig(), provider)
}

func TestPredictKnownFixture(t *testing.T) {
	e := newTestEngine(fourMatches())

	p, err := e.Predict(context.Background(), PredictRequest{Home: "Arsenal", Away: "Chelsea"})
	require.NoError(t, err)

	t.Logf("rates %.2f - %.2f, best %s", p.Rates.Home, p.Rates.Away, p.BestScore)
	assert.True(t, p.KnownHome)
	assert.True(t, p.KnownAway)
	assert.False(t, p.Fallback())
	assert.Equal(t, p.ModelRates, p.Rates)
	assert.Nil(t, p.ExternalTotal)

	require.Len(t, p.Lines, 3)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, []float64{p.Lines[0].Line, p.Lines[1].Line, p.Lines[2].Line})
	for _, l := range p.Lines {
		assert.InDelta(t, 1.0, l.Over+l.Under, 1e-9)
		assert.GreaterOrEqual(t, l.Confidence, 0.5)
	}

	require.Len(t, p.TopScorelines, 5)
	assert.Equal(t, p.TopScorelines[0], p.BestScore)

	sum := p.Outcome.HomeWin + p.Outcome.Draw + p.Outcome.AwayWin
	// a home rate of 5 leaves real mass beyond eight goals
	assert.LessOrEqual(t, sum, 1.0)
	assert.Greater(t, sum, 0.9)
	assert.Greater(t, p.Outcome.HomeWin, p.Outcome.AwayWin)
	assert.Greater(t, p.Outcome.HomeWin, p.Outcome.AwayWin)
}

func TestPredictReconcilesToExternalTotal(t *testing.T) {
	e := newTestEngine(fourMatches())
	total := 3.0

	p, err := e.Predict(context.Background(), PredictRequest{Home: "Chelsea", Away: "Brentford", ExternalTotal: &total})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, p.Rates.Total(), 1e-9)
	assert.InDelta(t, p.ModelRates.Home/p.ModelRates.Away, p.Rates.Home/p.Rates.Away, 1e-9)
}

func TestPredictUnknownTeamFallsBack(t *testing.T) {
	e := newTestEngine(fourMatches())

	p, err := e.Predict(context.Background(), PredictRequest{Home: "Arsenal", Away: "Sunderland"})
	require.NoError(t, err)

	assert.True(t, p.KnownHome)
	assert.False(t, p.KnownAway)
	assert.True(t, p.Fallback())
	assert.Equal(t, ExpectedRates{Home: 1.5, Away: 0.75}, p.Rates)
}

func TestPredictExtraLinesAndTop(t *testing.T) {
	e := newTestEngine(fourMatches())

	p, err := e.Predict(context.Background(), PredictRequest{
		Home:  "Arsenal",
		Away:  "Chelsea",
		Lines: []float64{2.5, 0.5, 3},
		Top:   3,
	})
	require.NoError(t, err)

	var lines []float64
	for _, l := range p.Lines {
		lines = append(lines, l.Line)
	}
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3, 3.5}, lines)
	assert.Len(t, p.TopScorelines, 3)
}

func TestPredictRejectsBadRequests(t *testing.T) {
	e := newTestEngine(fourMatches())

	_, err := e.Predict(context.Background(), PredictRequest{Home: "Arsenal"})
	assert.Error(t, err)

	_, err = e.Predict(context.Background(), PredictRequest{Home: "Arsenal", Away: "Chelsea", Lines: []float64{-1}})
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestPickSide(t *testing.T) {
	assert.Equal(t, Over, pickSide(OverUnderResult{Over: 0.6, Under: 0.4}).Pick)
	assert.Equal(t, Under, pickSide(OverUnderResult{Over: 0.4, Under: 0.6}).Pick)
	assert.Equal(t, Under, pickSide(OverUnderResult{Over: 0.5, Under: 0.5}).Pick)
}
