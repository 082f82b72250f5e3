package main

import (
	"context"
	"fmt"

	"github.com/aretw0/megaverse/internal/cli"
	httpAdapter "github.com/aretw0/megaverse/pkg/adapters/http"
	"github.com/aretw0/megaverse/pkg/adapters/file"
	"github.com/aretw0/megaverse/pkg/adapters/pattern"
	"github.com/aretw0/megaverse/pkg/ports"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stand-in for the map service",
	Long: `Serves the goal, create and current-map endpoints locally so runs can be rehearsed
without touching the real service. --fail-every N answers every Nth create with 503.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")
		failEvery, _ := cmd.Flags().GetInt("fail-every")

		var source ports.GoalSource = pattern.NewCross()
		if path, _ := cmd.Flags().GetString("goal-file"); path != "" {
			source = file.New(path)
		}
		grid, err := source.FetchGoal(cmd.Context())
		if err != nil {
			return err
		}

		server, err := httpAdapter.NewServer(grid,
			httpAdapter.WithFailEvery(failEvery),
			httpAdapter.WithLogger(env.Logger),
		)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		fmt.Fprintf(cmd.OutOrStdout(), "Serving %dx%d goal on :%s\n", grid.Rows(), grid.Columns(), port)
		if err := server.ListenAndServe(sigCtx, ":"+port); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nStand-in stopped (signal: %v)\n", sigCtx.Signal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("goal-file", "", "Serve the goal from a local YAML or JSON file instead of the cross pattern")
	serveCmd.Flags().Int("fail-every", 0, "Answer every Nth create request with 503 (0 disables)")
}
