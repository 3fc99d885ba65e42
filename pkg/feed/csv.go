package feed

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

// readRows parses a football-data style csv into one map per data row, keyed by header.
func readRows(data []byte) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for j, value := range record {
			if j < len(headers) && headers[j] != "" {
				row[headers[j]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseCSV turns a results csv into match records. Rows without both team names
// or without a full time score are skipped, so fixtures not yet played drop out.
func ParseCSV(data []byte, season string) ([]scoreline.MatchRecord, error) {
	rows, err := readRows(data)
	if err != nil {
		return nil, err
	}

	var matches []scoreline.MatchRecord
	for i, row := range rows {
		if row["HomeTeam"] == "" || row["AwayTeam"] == "" {
			continue
		}
		if fieldIsBlank("FTHG", row) || fieldIsBlank("FTAG", row) {
			logger.Debug("Skipping unplayed match at row", i+2)
			continue
		}
		hg, errH := strconv.Atoi(row["FTHG"])
		ag, errA := strconv.Atoi(row["FTAG"])
		if errH != nil || errA != nil || hg < 0 || ag < 0 {
			logger.Warn("Skipping row with bad score at row", i+2, row["FTHG"], row["FTAG"])
			continue
		}
		matches = append(matches, scoreline.MatchRecord{
			HomeTeam:  row["HomeTeam"],
			AwayTeam:  row["AwayTeam"],
			HomeGoals: hg,
			AwayGoals: ag,
			Date:      row["Date"],
			Season:    season,
		})
	}
	return matches, nil
}

// Fixture is an upcoming match with the market's over/under 2.5 prices.
type Fixture struct {
	Div        string  `json:"div"`
	Date       string  `json:"date"`
	HomeTeam   string  `json:"home_team"`
	AwayTeam   string  `json:"away_team"`
	OverPrice  float64 `json:"over_price"`
	UnderPrice float64 `json:"under_price"`
}

// FixtureLine is the goals line football-data publishes prices for.
const FixtureLine = 2.5

// HasPrices reports whether both sides of the 2.5 line are priced.
func (f Fixture) HasPrices() bool {
	return f.OverPrice > 1 && f.UnderPrice > 1
}

// ParseFixtures reads the upcoming fixtures csv, keeping rows for div (all rows when div is empty).
func ParseFixtures(data []byte, div string) ([]Fixture, error) {
	rows, err := readRows(data)
	if err != nil {
		return nil, err
	}
	var fixtures []Fixture
	for _, row := range rows {
		if row["HomeTeam"] == "" || row["AwayTeam"] == "" {
			continue
		}
		if div != "" && row["Div"] != div {
			continue
		}
		over, under := averageOverUnder(row)
		fixtures = append(fixtures, Fixture{
			Div:        row["Div"],
			Date:       row["Date"],
			HomeTeam:   row["HomeTeam"],
			AwayTeam:   row["AwayTeam"],
			OverPrice:  over,
			UnderPrice: under,
		})
	}
	return fixtures, nil
}

// averageOverUnder returns the average over/under 2.5 prices for a row,
// or (-1, -1) when nothing is priced.
func averageOverUnder(row map[string]string) (float64, float64) {
	// market averages first, closing before pre-match
	for _, prefix := range []string{"AvgC", "Avg"} {
		if !fieldIsBlank(prefix+">2.5", row) && !fieldIsBlank(prefix+"<2.5", row) {
			over, errO := strconv.ParseFloat(row[prefix+">2.5"], 64)
			under, errU := strconv.ParseFloat(row[prefix+"<2.5"], 64)
			if errO == nil && errU == nil {
				return over, under
			}
		}
	}

	bookies := []string{"B365", "P", "BbAv", "GB"}
	var overTotal, underTotal float64
	var count int
	for _, suffix := range []string{"C", ""} {
		for _, bookie := range bookies {
			overKey, underKey := bookie+suffix+">2.5", bookie+suffix+"<2.5"
			if fieldIsBlank(overKey, row) || fieldIsBlank(underKey, row) {
				continue
			}
			over, errO := strconv.ParseFloat(row[overKey], 64)
			under, errU := strconv.ParseFloat(row[underKey], 64)
			if errO != nil || errU != nil {
				continue
			}
			overTotal += over
			underTotal += under
			count++
		}
		if count > 0 {
			return math.Round(overTotal/float64(count)*100) / 100,
				math.Round(underTotal/float64(count)*100) / 100
		}
	}
	return -1, -1
}

// fieldIsBlank checks if a field in the row is blank/empty/missing
func fieldIsBlank(field string, row map[string]string) bool {
	value, exists := row[field]
	if !exists || value == "" {
		return true
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && f == -1 {
		return true
	}
	return false
}
