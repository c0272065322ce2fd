package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	host    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "worldcup-cli",
	Short: "Forecast the World Cup by Monte Carlo simulation",
	Long: `A command-line interface for running tournament simulations locally
and for making requests to the worldcup-sim server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
