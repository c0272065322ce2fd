package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/worldcup-sim/internal/config"
	"github.com/mauv0809/worldcup-sim/internal/database"
	"github.com/mauv0809/worldcup-sim/internal/metrics"
	"github.com/mauv0809/worldcup-sim/internal/notifier/slack"
	"github.com/mauv0809/worldcup-sim/internal/processor"
	"github.com/mauv0809/worldcup-sim/internal/report"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/runs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	simFlags struct {
		iterations int
		seed       int64
		randomize  bool
		focus      string
		top        int
		hostBonus  float64
		kFactor    float64
		ratings    string
		baseline   string
		strict     bool
		save       bool
		keepTrials bool
		notify     bool
	}
	oddsFlags struct {
		stage      string
		iterations int
		seed       int64
		kFactor    float64
		ratings    string
	}
	runsLimit int
)

func init() {
	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		log.Warn("Ignoring invalid environment configuration", "error", err)
	}
	sim := cfg.Sim

	f := simulateCmd.Flags()
	f.IntVarP(&simFlags.iterations, "iterations", "n", sim.Iterations, "Number of simulated tournaments")
	f.Int64Var(&simFlags.seed, "seed", sim.Seed, "Random seed (0 picks one from the clock)")
	f.BoolVar(&simFlags.randomize, "randomize", sim.RandomizeGroups, "Redraw the groups from the seeding pots in every trial")
	f.StringVar(&simFlags.focus, "focus", sim.FocusTeam, "Team to collect group and bracket statistics for")
	f.IntVar(&simFlags.top, "top", 10, "Number of champions to list (0 lists all)")
	f.Float64Var(&simFlags.hostBonus, "host-bonus", sim.HostBonus, "Rating bonus for the host")
	f.Float64Var(&simFlags.kFactor, "k", sim.KFactor, "Elo K-factor")
	f.StringVar(&simFlags.ratings, "ratings", sim.RatingsFile, "YAML or JSON rating table (default: ratings of 13 Nov 2022)")
	f.StringVar(&simFlags.baseline, "baseline", sim.BaselineFile, "Known results file (YAML, JSON or MessagePack)")
	f.BoolVar(&simFlags.strict, "strict", sim.StrictResults, "Fail on invalid known results instead of skipping them")
	f.BoolVar(&simFlags.save, "save", false, "Store the run in the database")
	f.BoolVar(&simFlags.keepTrials, "keep-trials", false, "Store every trial's fixtures with the run")
	f.BoolVar(&simFlags.notify, "notify", false, "Post the forecast to Slack")

	o := oddsCmd.Flags()
	o.StringVar(&oddsFlags.stage, "stage", string(results.StageGroup), "Stage of the fixture (group, round-of-16, quarterfinal, semifinal, final)")
	o.IntVarP(&oddsFlags.iterations, "iterations", "n", 10000, "Number of times to play the fixture")
	o.Int64Var(&oddsFlags.seed, "seed", sim.Seed, "Random seed (0 picks one from the clock)")
	o.Float64Var(&oddsFlags.kFactor, "k", sim.KFactor, "Elo K-factor")
	o.StringVar(&oddsFlags.ratings, "ratings", sim.RatingsFile, "YAML or JSON rating table (default: ratings of 13 Nov 2022)")

	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to list (0 lists all)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(oddsCmd)
	rootCmd.AddCommand(runsCmd)
}

// local wires a processor against the configured database.
type local struct {
	store     runs.RunStore
	processor *processor.Processor
	teardown  func()
}

func newLocal(notify bool) (*local, error) {
	cfg := config.Load()
	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return nil, err
	}
	store := runs.New(db)
	counters := metrics.New(db)
	metricsSvc := metrics.NewService(prometheus.NewRegistry())

	var notif processor.Notifier
	if notify {
		if !cfg.Slack.Enabled() {
			teardown()
			return nil, fmt.Errorf("--notify needs SLACK_BOT_TOKEN and SLACK_CHANNEL_ID")
		}
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc, counters)
	}
	return &local{
		store:     store,
		processor: processor.New(store, counters, notif, metricsSvc, nil),
		teardown:  teardown,
	}, nil
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the tournament many times and print the champions",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLocal(simFlags.notify)
		if err != nil {
			return err
		}
		defer l.teardown()

		req := processor.Request{
			Iterations:       simFlags.iterations,
			Seed:             simFlags.seed,
			RandomizeGroups:  simFlags.randomize,
			FocusTeam:        simFlags.focus,
			HostBonus:        simFlags.hostBonus,
			KFactor:          simFlags.kFactor,
			RatingsFile:      simFlags.ratings,
			BaselineFile:     simFlags.baseline,
			StrictResults:    simFlags.strict,
			KeepTrialMatches: simFlags.keepTrials,
			Notify:           simFlags.notify,
			Top:              simFlags.top,
		}
		summary, err := l.processor.ProcessRun(cmd.Context(), req, !simFlags.save)
		if err != nil {
			return err
		}
		if err := report.Render(cmd.OutOrStdout(), summary, simFlags.top); err != nil {
			return err
		}
		if simFlags.save {
			fmt.Fprintf(cmd.OutOrStdout(), "Stored run %s\n", summary.RunID)
		}
		return nil
	},
}

var oddsCmd = &cobra.Command{
	Use:   "odds <home> <away>",
	Short: "Estimate win, draw and loss probabilities for one fixture",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := results.ParseStage(oddsFlags.stage)
		if err != nil {
			return err
		}
		p := processor.New(nil, nil, nil, metrics.NewService(prometheus.NewRegistry()), nil)
		odds, err := p.ProcessFixture(cmd.Context(), processor.FixtureRequest{
			Home:        args[0],
			Away:        args[1],
			Stage:       stage,
			Iterations:  oddsFlags.iterations,
			Seed:        oddsFlags.seed,
			KFactor:     oddsFlags.kFactor,
			RatingsFile: oddsFlags.ratings,
		}, true)
		if err != nil {
			return err
		}
		return report.RenderOdds(cmd.OutOrStdout(), odds)
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the runs stored in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLocal(false)
		if err != nil {
			return err
		}
		defer l.teardown()

		list, err := l.store.GetRuns(runsLimit)
		if err != nil {
			return err
		}
		return report.RenderRuns(cmd.OutOrStdout(), list)
	},
}
