package scoreline

import (
	"math"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
)

// DefaultRateFloor keeps every projected rate strictly positive.
const DefaultRateFloor = 0.05

// Project turns two team names into expected goals for one fixture.
//
//	home = mu_home * home.home_attack * away.away_defense
//	away = mu_away * away.away_attack * home.home_defense
//
// When either team is missing from the table both rates fall back to the league
// means. Every rate is clamped to at least floor; NaN and infinities become floor.
func Project(home, away string, table *StrengthTable, floor float64) ExpectedRates {
	var means LeagueMeans
	if table != nil {
		means = table.Means
	}

	hs, homeOK := table.Lookup(home)
	as, awayOK := table.Lookup(away)

	rates := ExpectedRates{Home: means.MuHome, Away: means.MuAway}
	if homeOK && awayOK {
		rates = ExpectedRates{
			Home: means.MuHome * hs.HomeAttack * as.AwayDefense,
			Away: means.MuAway * as.AwayAttack * hs.HomeDefense,
		}
	} else {
		logger.Debug("unknown team, using league means for", home, "v", away)
	}

	return ExpectedRates{
		Home: clampRate(rates.Home, floor),
		Away: clampRate(rates.Away, floor),
	}
}

func clampRate(rate, floor float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		logger.Debug("degenerate rate clamped to floor", rate)
		return floor
	}
	return math.Max(rate, floor)
}
