package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/worldcup-sim/internal/config"
	"github.com/mauv0809/worldcup-sim/internal/database"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/runs"
	"github.com/spf13/cobra"
)

var (
	clearFirst bool
	strict     bool
)

var rootCmd = &cobra.Command{
	Use:   "seeder <results-file>",
	Short: "Load known match results into the database",
	Long: `Reads a YAML, JSON or MessagePack file of played matches and stores each
one as a known result. Every simulation run afterwards takes them as given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return seed(args[0])
	},
}

func init() {
	rootCmd.Flags().BoolVar(&clearFirst, "clear", false, "Remove all stored known results before seeding")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first invalid result instead of skipping it")
}

func seed(path string) error {
	log.Info("Starting database seeder...")
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return err
	}
	defer teardown()
	store := runs.New(db)

	cache, err := results.LoadFile(path, strict)
	if err != nil {
		return err
	}

	if clearFirst {
		if err := store.ClearKnownResults(); err != nil {
			return err
		}
		log.Info("Cleared known results")
	}

	seeded := 0
	for _, r := range cache.Results() {
		if err := store.UpsertKnownResult(r); err != nil {
			return err
		}
		seeded++
	}
	log.Info("Seeding complete", "file", path, "results", seeded)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("Seeder failed", "error", err)
		os.Exit(1)
	}
}
