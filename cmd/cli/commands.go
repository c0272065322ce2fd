package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(countersCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get the server's Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics")
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Get the server's persistent counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/counters")
	},
}

func performRequest(method, endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
