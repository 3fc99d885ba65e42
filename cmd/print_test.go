package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

func TestPrintPrediction(t *testing.T) {
	total := 3.0
	p := &scoreline.Prediction{
		Home:          "Arsenal",
		Away:          "Ipswich",
		KnownHome:     true,
		ModelRates:    scoreline.ExpectedRates{Home: 2.0, Away: 0.5},
		Rates:         scoreline.ExpectedRates{Home: 2.4, Away: 0.6},
		ExternalTotal: &total,
		Lines: []scoreline.LinePick{{
			OverUnderResult: scoreline.OverUnderResult{Line: 2.5, Over: 0.58, Under: 0.42},
			Pick:            scoreline.Over,
			Confidence:      0.58,
		}},
		TopScorelines: []scoreline.Scoreline{{Home: 2, Away: 0, Probability: 0.14}},
	}

	var buf bytes.Buffer
	printPrediction(&buf, p)
	out := buf.String()

	assert.Contains(t, out, "Arsenal v Ipswich")
	assert.Contains(t, out, "Ipswich has no history")
	assert.NotContains(t, out, "Arsenal has no history")
	assert.Contains(t, out, "rescaled from model total 2.50 to 3.00")
	assert.Contains(t, out, "2-0 (14.0%)")
}

func TestPrintStrengths(t *testing.T) {
	table := &scoreline.StrengthTable{
		Teams: map[string]scoreline.TeamStrength{
			"Chelsea": scoreline.NeutralStrength,
			"Arsenal": {HomeAttack: 1.5, HomeDefense: 0.8, AwayAttack: 1.2, AwayDefense: 0.9},
		},
		Means:    scoreline.LeagueMeans{MuHome: 1.55, MuAway: 1.25},
		Matches:  380,
		FittedAt: time.Date(2025, 5, 25, 18, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	printStrengths(&buf, table)
	out := buf.String()

	assert.Contains(t, out, "380 matches, 2 teams, fitted 2025-05-25 18:00")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Arsenal")), bytes.Index(buf.Bytes(), []byte("Chelsea")))
}
