// Package report renders simulation outcomes as console tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mauv0809/worldcup-sim/internal/runs"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

// Draws in the 2018 group stage: 8 of 48 fixtures.
const (
	benchmarkDraws   = 8
	benchmarkMatches = 48
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// Render writes the champions of a run, at most top of them (all when top <= 0),
// followed by the draw-rate check and the focus team statistics.
func Render(w io.Writer, s *tournament.Summary, top int) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d trials (seed %d)", s.Tournament, s.Iterations, s.Seed)))
	b.WriteString("\n")

	shares := s.Shares()
	if top > 0 && len(shares) > top {
		shares = shares[:top]
	}
	t := newTable("#", "Team", "Wins", "Share")
	for i, share := range shares {
		t.Row(fmt.Sprint(i+1), share.Team, fmt.Sprint(share.Wins), percent(share.Share))
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(DrawRateLine(s.Tally))
	b.WriteString("\n")

	if s.FocusTeam != "" {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(s.FocusTeam))
		b.WriteString("\n")
		ft := newTable("Statistic", "Trials", "Share")
		for _, stat := range tournament.FocusStatNames {
			ft.Row(strings.ReplaceAll(stat, "_", " "), fmt.Sprint(s.FocusStats[stat]), percent(s.FocusShare(stat)))
		}
		b.WriteString(ft.String())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// DrawRateLine compares the realized group draw rate with the 2018 group stage.
func DrawRateLine(t tournament.Tally) string {
	return fmt.Sprintf("Group draws: %d/%d (%s), 2018 benchmark %d/%d (%s)",
		t.GroupDraws, t.GroupMatches, percent(t.DrawRate()),
		benchmarkDraws, benchmarkMatches, percent(float64(benchmarkDraws)/benchmarkMatches))
}

// RenderOdds writes the outcome distribution of a fixture.
func RenderOdds(w io.Writer, odds *tournament.FixtureOdds) error {
	home, away, draw := odds.Shares()
	t := newTable("Match", "Home win", "Draw", "Away win")
	t.Row(fmt.Sprintf("%s vs %s", odds.Home, odds.Away), percent(home), percent(draw), percent(away))

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(),
		mutedStyle.Render(fmt.Sprintf("%s, %d trials", odds.Stage, odds.Iterations)))
	return err
}

// RenderRuns writes a listing of stored runs.
func RenderRuns(w io.Writer, list []runs.RunInfo) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No runs stored."))
		return err
	}
	t := newTable("Run", "Started", "Trials", "Seed", "Draw rate", "Focus")
	for _, r := range list {
		t.Row(r.ID, r.StartedAt.Format("2006-01-02 15:04"), fmt.Sprint(r.Iterations), fmt.Sprint(r.Seed), percent(r.DrawRate()), r.FocusTeam)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderCounters writes the persistent counters, sorted by key.
func RenderCounters(w io.Writer, counters map[string]int) error {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := newTable("Metric", "Value")
	for _, k := range keys {
		t.Row(k, fmt.Sprint(counters[k]))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
