package scoreline

import "strings"

// NeutralRatio is the strength ratio used when there is nothing to compare against,
// either because the team never played at that venue or the league mean is zero.
const NeutralRatio = 1.0

// venueTally accumulates goals for one team at one venue.
type venueTally struct {
	scored   int
	conceded int
	played   int
}

func (v venueTally) ratio(goals int, leagueMean float64) float64 {
	if v.played == 0 || leagueMean == 0 {
		return NeutralRatio
	}
	return (float64(goals) / float64(v.played)) / leagueMean
}

// Fit estimates league means and per team attack/defense ratios from completed matches.
//
// mu_home and mu_away are the average home and away goals per match. For each team:
//
//	home_attack  = mean goals scored at home    / mu_home
//	home_defense = mean goals conceded at home  / mu_away
//	away_attack  = mean goals scored away       / mu_away
//	away_defense = mean goals conceded away     / mu_home
//
// Records with a blank team name or negative goals are ignored. The result for an
// empty input has zero means and no teams. Fit never looks at the clock; the caller
// stamps FittedAt.
func Fit(records []MatchRecord) *StrengthTable {
	home := map[string]*venueTally{}
	away := map[string]*venueTally{}
	tally := func(m map[string]*venueTally, team string) *venueTally {
		t, ok := m[team]
		if !ok {
			t = &venueTally{}
			m[team] = t
		}
		return t
	}

	var homeGoals, awayGoals, n int
	for _, r := range records {
		h, a := strings.TrimSpace(r.HomeTeam), strings.TrimSpace(r.AwayTeam)
		if h == "" || a == "" || r.HomeGoals < 0 || r.AwayGoals < 0 {
			continue
		}
		n++
		homeGoals += r.HomeGoals
		awayGoals += r.AwayGoals

		ht := tally(home, h)
		ht.scored += r.HomeGoals
		ht.conceded += r.AwayGoals
		ht.played++

		at := tally(away, a)
		at.scored += r.AwayGoals
		at.conceded += r.HomeGoals
		at.played++
	}

	table := &StrengthTable{Teams: map[string]TeamStrength{}, Matches: n}
	if n == 0 {
		return table
	}
	table.Means = LeagueMeans{
		MuHome: float64(homeGoals) / float64(n),
		MuAway: float64(awayGoals) / float64(n),
	}

	teams := map[string]struct{}{}
	for t := range home {
		teams[t] = struct{}{}
	}
	for t := range away {
		teams[t] = struct{}{}
	}

	mu := table.Means
	for team := range teams {
		h, a := venueTally{}, venueTally{}
		if t, ok := home[team]; ok {
			h = *t
		}
		if t, ok := away[team]; ok {
			a = *t
		}
		table.Teams[team] = TeamStrength{
			HomeAttack:  h.ratio(h.scored, mu.MuHome),
			HomeDefense: h.ratio(h.conceded, mu.MuAway),
			AwayAttack:  a.ratio(a.scored, mu.MuAway),
			AwayDefense: a.ratio(a.conceded, mu.MuHome),
		}
	}
	return table
}
