package scoreline

import (
	"fmt"
	"math"
	"sort"
)

func validLine(line float64) error {
	if math.IsNaN(line) || math.IsInf(line, 0) || line < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidLine, line)
	}
	return nil
}

func isWholeLine(line float64) bool {
	return line == math.Floor(line)
}

// OverUnder prices a total goals line against the matrix.
//
// For a fractional line such as 2.5 there is no push: over is the mass with
// total > floor(line) and under is its complement. For a whole line such as 2,
// push is the mass with total == line, over the mass above it, and under takes
// what is left (never below zero). A line above the largest total on the grid
// has no over or push mass.
func (m *ScoreMatrix) OverUnder(line float64) (OverUnderResult, error) {
	if err := validLine(line); err != nil {
		return OverUnderResult{}, err
	}
	totals := m.TotalGoals()
	if line > float64(len(totals)-1) {
		return OverUnderResult{Line: line, Under: 1}, nil
	}
	threshold := int(math.Floor(line))

	over := 0.0
	for t := threshold + 1; t < len(totals); t++ {
		over += totals[t]
	}

	res := OverUnderResult{Line: line, Over: over}
	if isWholeLine(line) {
		if threshold < len(totals) {
			res.Push = totals[threshold]
		}
		res.Under = math.Max(0, 1-over-res.Push)
		return res, nil
	}
	res.Under = 1 - over
	return res, nil
}

// TopScorelines returns the n most likely exact scores, most likely first.
// Equal probabilities keep enumeration order: fewer home goals first, then fewer away goals.
func (m *ScoreMatrix) TopScorelines(n int) []Scoreline {
	if n <= 0 {
		return []Scoreline{}
	}
	all := make([]Scoreline, 0, (m.MaxGoals+1)*(m.MaxGoals+1))
	for i, row := range m.Cells {
		for j, p := range row {
			all = append(all, Scoreline{Home: i, Away: j, Probability: p})
		}
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Probability > all[b].Probability
	})
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}
