package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HealthResult mirrors the server's health body
type HealthResult struct {
	Status       string `json:"status"`
	LiveSessions int    `json:"live_sessions"`
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server is up and how many games it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			if err := client.Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			if result.Status != "ok" {
				return fmt.Errorf("server unhealthy: %s", result.Status)
			}
			return nil
		},
	}
}
