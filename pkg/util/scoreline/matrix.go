package scoreline

import (
	"fmt"
	"math"
)

// PoissonPMF is P(X = k) for X ~ Poisson(lambda), evaluated in log space
// so large k does not overflow the factorial.
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	lgk, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lambda) - lambda - lgk)
}

// PoissonCDF is P(X <= k).
func PoissonCDF(k int, lambda float64) float64 {
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += PoissonPMF(i, lambda)
	}
	return math.Min(sum, 1)
}

// ScoreMatrix holds P(home = i, away = j) for 0 <= i, j <= MaxGoals.
// Mass beyond MaxGoals is truncated, so the cells sum to slightly less than 1.
type ScoreMatrix struct {
	MaxGoals int         `json:"max_goals"`
	Cells    [][]float64 `json:"cells"`
}

// Build creates the joint scoreline distribution for two independent Poisson rates.
// The matrix is the outer product of the two marginal pmf vectors; there is no
// low score correlation adjustment.
func Build(rates ExpectedRates, maxGoals int) (*ScoreMatrix, error) {
	if maxGoals < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxGoals, maxGoals)
	}
	home := pmfVector(rates.Home, maxGoals)
	away := pmfVector(rates.Away, maxGoals)

	cells := make([][]float64, maxGoals+1)
	for i := range cells {
		cells[i] = make([]float64, maxGoals+1)
		for j := range cells[i] {
			cells[i][j] = home[i] * away[j]
		}
	}
	return &ScoreMatrix{MaxGoals: maxGoals, Cells: cells}, nil
}

func pmfVector(lambda float64, maxGoals int) []float64 {
	v := make([]float64, maxGoals+1)
	for k := range v {
		v[k] = PoissonPMF(k, lambda)
	}
	return v
}

// Probability returns the cell for home-away, or 0 outside the matrix.
func (m *ScoreMatrix) Probability(home, away int) float64 {
	if home < 0 || away < 0 || home > m.MaxGoals || away > m.MaxGoals {
		return 0
	}
	return m.Cells[home][away]
}

// Total is the mass captured by the truncated matrix.
func (m *ScoreMatrix) Total() float64 {
	sum := 0.0
	for _, row := range m.Cells {
		for _, p := range row {
			sum += p
		}
	}
	return sum
}

// TotalGoals returns P(home + away = t) for t in 0..2*MaxGoals, summing each anti-diagonal.
func (m *ScoreMatrix) TotalGoals() []float64 {
	totals := make([]float64, 2*m.MaxGoals+1)
	for i, row := range m.Cells {
		for j, p := range row {
			totals[i+j] += p
		}
	}
	return totals
}

// Outcome splits the matrix into home win (i > j), draw (i == j) and away win.
func (m *ScoreMatrix) Outcome() OutcomeProbabilities {
	var o OutcomeProbabilities
	for i, row := range m.Cells {
		for j, p := range row {
			switch {
			case i > j:
				o.HomeWin += p
			case i == j:
				o.Draw += p
			default:
				o.AwayWin += p
			}
		}
	}
	return o
}

// ExpectedGoals is the mean home and away goals implied by the truncated matrix.
func (m *ScoreMatrix) ExpectedGoals() ExpectedRates {
	var r ExpectedRates
	for i, row := range m.Cells {
		for j, p := range row {
			r.Home += float64(i) * p
			r.Away += float64(j) * p
		}
	}
	return r
}

// BothTeamsToScore is the mass where both sides score at least once.
func (m *ScoreMatrix) BothTeamsToScore() float64 {
	sum := 0.0
	for i := 1; i <= m.MaxGoals; i++ {
		for j := 1; j <= m.MaxGoals; j++ {
			sum += m.Cells[i][j]
		}
	}
	return sum
}
