package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

func printStrengths(w io.Writer, table *scoreline.StrengthTable) {
	fmt.Fprintf(w, "%d matches, %d teams, fitted %s\n", table.Matches, len(table.Teams), table.FittedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "league means: home %.3f, away %.3f\n\n", table.Means.MuHome, table.Means.MuAway)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "team\thome att\thome def\taway att\taway def")
	for _, name := range table.TeamNames() {
		s := table.Teams[name]
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n", name, s.HomeAttack, s.HomeDefense, s.AwayAttack, s.AwayDefense)
	}
	tw.Flush()
}

func printPrediction(w io.Writer, p *scoreline.Prediction) {
	fmt.Fprintf(w, "%s v %s\n", p.Home, p.Away)
	if !p.KnownHome {
		fmt.Fprintf(w, "  %s has no history, using league averages\n", p.Home)
	}
	if !p.KnownAway {
		fmt.Fprintf(w, "  %s has no history, using league averages\n", p.Away)
	}
	fmt.Fprintf(w, "expected goals %.2f - %.2f (total %.2f)\n", p.Rates.Home, p.Rates.Away, p.Rates.Total())
	if p.ExternalTotal != nil {
		fmt.Fprintf(w, "  rescaled from model total %.2f to %.2f\n", p.ModelRates.Total(), *p.ExternalTotal)
	}
	fmt.Fprintf(w, "home %.1f%%  draw %.1f%%  away %.1f%%  btts %.1f%%\n",
		100*p.Outcome.HomeWin, 100*p.Outcome.Draw, 100*p.Outcome.AwayWin, 100*p.BothTeamsToScore)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "line\tover\tunder\tpick")
	for _, l := range p.Lines {
		fmt.Fprintf(tw, "%.2f\t%.1f%%\t%.1f%%\t%s\n", l.Line, 100*l.Over, 100*l.Under, l.Pick)
	}
	tw.Flush()

	fmt.Fprint(w, "likely scores:")
	for _, s := range p.TopScorelines {
		fmt.Fprintf(w, " %s (%.1f%%)", s, 100*s.Probability)
	}
	fmt.Fprintln(w)
}
