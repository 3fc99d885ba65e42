package scoreline

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MatchRecord is one completed historical fixture.
type MatchRecord struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
	Date      string `json:"date,omitempty"`
	Season    string `json:"season,omitempty"`
}

// TeamStrength holds venue specific ratios relative to the league average.
// 1.0 means exactly average.
type TeamStrength struct {
	HomeAttack  float64 `json:"home_attack"`
	HomeDefense float64 `json:"home_defense"`
	AwayAttack  float64 `json:"away_attack"`
	AwayDefense float64 `json:"away_defense"`
}

// NeutralStrength is used for a side of a team that has never played.
var NeutralStrength = TeamStrength{
	HomeAttack:  NeutralRatio,
	HomeDefense: NeutralRatio,
	AwayAttack:  NeutralRatio,
	AwayDefense: NeutralRatio,
}

type LeagueMeans struct {
	MuHome float64 `json:"mu_home"`
	MuAway float64 `json:"mu_away"`
}

// StrengthTable is the product of a fit. It is never modified once published,
// so it can be shared between goroutines without locking.
type StrengthTable struct {
	Teams    map[string]TeamStrength `json:"teams"`
	Means    LeagueMeans             `json:"means"`
	Matches  int                     `json:"matches"`
	FittedAt time.Time               `json:"fitted_at"`
}

// Lookup returns the strength entry for team and whether the team was seen in the fit.
func (t *StrengthTable) Lookup(team string) (TeamStrength, bool) {
	if t == nil {
		return TeamStrength{}, false
	}
	s, ok := t.Teams[strings.TrimSpace(team)]
	return s, ok
}

// TeamNames returns every fitted team in alphabetical order.
func (t *StrengthTable) TeamNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Teams))
	for name := range t.Teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the table was fitted over no records.
func (t *StrengthTable) Empty() bool {
	return t == nil || t.Matches == 0
}

// ExpectedRates are the Poisson means for one fixture.
type ExpectedRates struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

func (r ExpectedRates) Total() float64 {
	return r.Home + r.Away
}

type OverUnderResult struct {
	Line  float64 `json:"line"`
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
	Push  float64 `json:"push"`
}

type Scoreline struct {
	Home        int     `json:"home"`
	Away        int     `json:"away"`
	Probability float64 `json:"probability"`
}

// String renders the scoreline as "h-a".
func (s Scoreline) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// OutcomeProbabilities is the 1X2 split of a score matrix.
type OutcomeProbabilities struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}
