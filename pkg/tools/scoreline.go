package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/protocol"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

// callTimeout bounds a single tool call, which may have to download a season.
const callTimeout = 2 * time.Minute

// MarketTotals converts bookmaker prices for a fixture into expected total goals.
// ok is false when the fixture has no prices.
type MarketTotals interface {
	ImpliedTotal(ctx context.Context, home, away string) (total float64, ok bool, err error)
}

type fixtureKey struct {
	home, away string
}

// ScorelineTools exposes the prediction engine to tool clients. Totals supplied
// for a fixture are remembered for the rest of the session.
type ScorelineTools struct {
	engine *scoreline.Engine
	market MarketTotals

	mu     sync.Mutex
	totals map[fixtureKey]float64
}

// NewScorelineTools builds the tool set. market may be nil.
func NewScorelineTools(engine *scoreline.Engine, market MarketTotals) *ScorelineTools {
	return &ScorelineTools{
		engine: engine,
		market: market,
		totals: make(map[fixtureKey]float64),
	}
}

func keyFor(home, away string) fixtureKey {
	return fixtureKey{strings.ToLower(home), strings.ToLower(away)}
}

// RememberTotal stores an external total for the ordered fixture.
func (t *ScorelineTools) RememberTotal(home, away string, total float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totals[keyFor(home, away)] = total
}

// RememberedTotal returns the stored total for the ordered fixture, if any.
func (t *ScorelineTools) RememberedTotal(home, away string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.totals[keyFor(home, away)]
	return v, ok
}

func PredictTool() protocol.Tool {
	return protocol.Tool{
		Name: "scoreline_predict",
		Description: `
		Predicts a football fixture with an independent Poisson model fitted on recent league results.
		Returns expected goals, home/draw/away probabilities, over/under probabilities with a pick per line,
		both teams to score and the most likely exact scores.
		An expected total (or over/under prices) can be supplied to rescale the model to the market.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"home": {
					Type:        "string",
					Description: "The home team exactly as football-data.co.uk writes it, eg 'Man United'",
				},
				"away": {
					Type:        "string",
					Description: "The away team",
				},
				"total_goals": {
					Type:        "number",
					Description: "Expected total goals for the fixture from another source",
				},
				"over_price": {
					Type:        "number",
					Description: "Decimal odds for over price_line goals",
				},
				"under_price": {
					Type:        "number",
					Description: "Decimal odds for under price_line goals",
				},
				"price_line": {
					Type:        "number",
					Description: "The line the prices refer to. Defaults to 2.5",
				},
				"use_market": {
					Type:        "boolean",
					Description: "Look the fixture up in the published fixtures list and use its over/under prices",
				},
				"lines": {
					Type:        "array",
					Description: "Extra over/under lines to price, eg [0.5, 4.5]",
					Items:       &protocol.ToolProperty{Type: "number"},
				},
				"top": {
					Type:        "integer",
					Description: "How many exact scores to return",
				},
			},
			Required: []string{"home", "away"},
		},
	}
}

func StrengthsTool() protocol.Tool {
	return protocol.Tool{
		Name:        "scoreline_strengths",
		Description: "Returns the league average goals and the attack/defence ratios of one team, or of every team when no team is given",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"team": {
					Type:        "string",
					Description: "Optional team name",
				},
			},
			Required: []string{},
		},
	}
}

func RefitTool() protocol.Tool {
	return protocol.Tool{
		Name:        "scoreline_refit",
		Description: "Reloads the historical results and refits every team strength",
		InputSchema: protocol.InputSchema{
			Type:     "object",
			Required: []string{},
		},
	}
}

// HandlePredict handles the scoreline_predict tool invocation
func (t *ScorelineTools) HandlePredict(params any) (any, error) {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid parameters format")
	}
	home, err := stringArg(paramsMap, "home", true)
	if err != nil {
		return nil, err
	}
	away, err := stringArg(paramsMap, "away", true)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	req := scoreline.PredictRequest{Home: home, Away: away}
	if req.Lines, err = floatsArg(paramsMap, "lines"); err != nil {
		return nil, err
	}
	if top, ok, err := numberArg(paramsMap, "top"); err != nil {
		return nil, err
	} else if ok {
		req.Top = int(top)
	}

	total, ok, err := t.externalTotal(ctx, home, away, paramsMap)
	if err != nil {
		return nil, err
	}
	if ok {
		req.ExternalTotal = &total
	}

	logger.Info(fmt.Sprintf("Predicting %s v %s", home, away))
	p, err := t.engine.Predict(ctx, req)
	if err != nil {
		return nil, err
	}
	if p.Fallback() {
		t.warnUnknown(p)
	}
	return p, nil
}

// warnUnknown points at the fitted team a misspelt name probably meant.
func (t *ScorelineTools) warnUnknown(p *scoreline.Prediction) {
	names := t.engine.Provider().Current().TeamNames()
	for team, known := range map[string]bool{p.Home: p.KnownHome, p.Away: p.KnownAway} {
		if known {
			continue
		}
		if guess, ok := util.ClosestName(team, names); ok {
			logger.Warn(fmt.Sprintf("Unknown team %q predicted from league averages, did you mean %q?", team, guess))
		} else {
			logger.Warn(fmt.Sprintf("Unknown team %q predicted from league averages", team))
		}
	}
}

// externalTotal resolves the total to reconcile against: an explicit total,
// then prices, then a remembered total, then the market feed when asked for.
func (t *ScorelineTools) externalTotal(ctx context.Context, home, away string, params map[string]any) (float64, bool, error) {
	if total, ok, err := numberArg(params, "total_goals"); err != nil || ok {
		if ok {
			t.RememberTotal(home, away, total)
		}
		return total, ok, err
	}

	overPrice, hasOver, err := numberArg(params, "over_price")
	if err != nil {
		return 0, false, err
	}
	underPrice, hasUnder, err := numberArg(params, "under_price")
	if err != nil {
		return 0, false, err
	}
	if hasOver != hasUnder {
		return 0, false, fmt.Errorf("over_price and under_price must be given together")
	}
	if hasOver {
		line, ok, err := numberArg(params, "price_line")
		if err != nil {
			return 0, false, err
		}
		if !ok {
			line = 2.5
		}
		total, err := scoreline.ImpliedTotalGoals(overPrice, underPrice, line)
		if err != nil {
			return 0, false, err
		}
		t.RememberTotal(home, away, total)
		return total, true, nil
	}

	if total, ok := t.RememberedTotal(home, away); ok {
		return total, true, nil
	}

	useMarket, _ := params["use_market"].(bool)
	if !useMarket || t.market == nil {
		return 0, false, nil
	}
	total, ok, err := t.market.ImpliedTotal(ctx, home, away)
	if err != nil {
		logger.Warn("Market lookup failed, predicting from the model alone", err)
		return 0, false, nil
	}
	if ok {
		t.RememberTotal(home, away, total)
	}
	return total, ok, nil
}

type strengthsResult struct {
	Means    scoreline.LeagueMeans             `json:"means"`
	Matches  int                               `json:"matches"`
	FittedAt time.Time                         `json:"fitted_at"`
	Teams    map[string]scoreline.TeamStrength `json:"teams"`
}

// HandleStrengths handles the scoreline_strengths tool invocation
func (t *ScorelineTools) HandleStrengths(params any) (any, error) {
	paramsMap, _ := params.(map[string]any)
	team, err := stringArg(paramsMap, "team", false)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	table, err := t.engine.Provider().Strengths(ctx, false)
	if err != nil {
		return nil, err
	}

	res := strengthsResult{
		Means:    table.Means,
		Matches:  table.Matches,
		FittedAt: table.FittedAt,
		Teams:    table.Teams,
	}
	if team != "" {
		s, ok := table.Lookup(team)
		if !ok {
			if guess, near := util.ClosestName(team, table.TeamNames()); near {
				return nil, fmt.Errorf("unknown team %q, did you mean %q?", team, guess)
			}
			return nil, fmt.Errorf("unknown team %q, known teams: %s", team, strings.Join(table.TeamNames(), ", "))
		}
		res.Teams = map[string]scoreline.TeamStrength{team: s}
	}
	return res, nil
}

// HandleRefit handles the scoreline_refit tool invocation
func (t *ScorelineTools) HandleRefit(params any) (any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	table, err := t.engine.Provider().Strengths(ctx, true)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"teams":     len(table.Teams),
		"matches":   table.Matches,
		"means":     table.Means,
		"fitted_at": table.FittedAt,
	}, nil
}

// Register adds every scoreline tool to r.
func (t *ScorelineTools) Register(r Registrar) {
	r.RegisterTool(PredictTool(), t.HandlePredict)
	r.RegisterTool(StrengthsTool(), t.HandleStrengths)
	r.RegisterTool(RefitTool(), t.HandleRefit)
}
