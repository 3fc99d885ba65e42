package scoreline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/metrics"
)

type PredictRequest struct {
	Home          string
	Away          string
	ExternalTotal *float64  // optional total goals estimate to reconcile against
	Lines         []float64 // priced in addition to the configured lines
	Top           int       // overrides the configured number of scorelines when > 0
}

// LinePick is an over/under line with the side the model prefers.
type LinePick struct {
	OverUnderResult
	Pick       OverUnderOutcome `json:"pick"`
	Confidence float64          `json:"confidence"`
}

type Prediction struct {
	Home             string               `json:"home"`
	Away             string               `json:"away"`
	KnownHome        bool                 `json:"known_home"`
	KnownAway        bool                 `json:"known_away"`
	ModelRates       ExpectedRates        `json:"model_rates"`
	Rates            ExpectedRates        `json:"rates"`
	ExternalTotal    *float64             `json:"external_total,omitempty"`
	Outcome          OutcomeProbabilities `json:"outcome"`
	Lines            []LinePick           `json:"lines"`
	TopScorelines    []Scoreline          `json:"top_scorelines"`
	BestScore        Scoreline            `json:"best_score"`
	BothTeamsToScore float64              `json:"both_teams_to_score"`
	FittedAt         time.Time            `json:"fitted_at"`
}

// Fallback reports whether league means stood in for either team.
func (p *Prediction) Fallback() bool {
	return !p.KnownHome || !p.KnownAway
}

// Engine assembles full fixture predictions from the current strength table.
type Engine struct {
	cfg      *ScorelineConfig
	provider *StrengthProvider
}

func NewEngine(cfg *ScorelineConfig, provider *StrengthProvider) *Engine {
	if cfg == nil {
		cfg = Config
	}
	return &Engine{cfg: cfg, provider: provider}
}

func (e *Engine) Provider() *StrengthProvider {
	return e.provider
}

// Predict projects rates for the fixture, reconciles them when an external total
// is supplied, and runs every query against the resulting matrices.
func (e *Engine) Predict(ctx context.Context, req PredictRequest) (*Prediction, error) {
	if req.Home == "" || req.Away == "" {
		return nil, fmt.Errorf("home and away teams are required")
	}
	lines := mergeLines(e.cfg.OverUnderLines, req.Lines)
	for _, l := range lines {
		if err := validLine(l); err != nil {
			return nil, err
		}
	}

	table, err := e.provider.Strengths(ctx, false)
	if err != nil {
		return nil, err
	}
	_, knownHome := table.Lookup(req.Home)
	_, knownAway := table.Lookup(req.Away)

	model := Project(req.Home, req.Away, table, e.cfg.RateFloor)
	rates := Reconcile(model, req.ExternalTotal)

	totals, err := Build(rates, e.cfg.MaxGoalsTotals)
	if err != nil {
		return nil, err
	}
	scores, err := Build(rates, e.cfg.MaxGoalsScorelines)
	if err != nil {
		return nil, err
	}

	p := &Prediction{
		Home:             req.Home,
		Away:             req.Away,
		KnownHome:        knownHome,
		KnownAway:        knownAway,
		ModelRates:       model,
		Rates:            rates,
		ExternalTotal:    req.ExternalTotal,
		Outcome:          totals.Outcome(),
		BothTeamsToScore: totals.BothTeamsToScore(),
		FittedAt:         table.FittedAt,
	}

	for _, l := range lines {
		ou, err := totals.OverUnder(l)
		if err != nil {
			return nil, err
		}
		p.Lines = append(p.Lines, pickSide(ou))
	}

	top := e.cfg.TopScorelines
	if req.Top > 0 {
		top = req.Top
	}
	p.TopScorelines = scores.TopScorelines(top)
	if len(p.TopScorelines) > 0 {
		p.BestScore = p.TopScorelines[0]
	}

	metrics.ObservePrediction(p.Fallback())
	return p, nil
}

// pickSide prefers Over only when it is strictly more likely than Under.
func pickSide(ou OverUnderResult) LinePick {
	if ou.Over > ou.Under {
		return LinePick{OverUnderResult: ou, Pick: Over, Confidence: ou.Over}
	}
	return LinePick{OverUnderResult: ou, Pick: Under, Confidence: ou.Under}
}

func mergeLines(base, extra []float64) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, l := range append(append([]float64{}, base...), extra...) {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Float64s(out)
	return out
}
