package main

import (
	"context"
	"fmt"

	"github.com/aretw0/megaverse"
	"github.com/aretw0/megaverse/internal/cli"
	"github.com/aretw0/megaverse/internal/presentation/tui"
	"github.com/aretw0/megaverse/pkg/adapters/pattern"
	"github.com/aretw0/megaverse/pkg/ports"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the goal and create every entity it describes",
	Long: `Fetches the candidate's goal map (or reads --goal-file) and walks it row by row,
creating each entity with one request. Failed cells are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		goal, client, err := goalSource(cmd, env)
		if err != nil {
			return err
		}
		var remote ports.Dispatcher
		if client != nil {
			remote = client
		}
		return synchronize(cmd, env, goal, env.Dispatcher(remote))
	},
}

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Draw the fixed cross of polyanets without fetching a goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		size, _ := cmd.Flags().GetInt("size")
		margin, _ := cmd.Flags().GetInt("margin")

		var client ports.Dispatcher
		if !env.DryRun {
			c, err := env.Client()
			if err != nil {
				return err
			}
			client = c
		}
		cross := &pattern.Cross{Size: size, Margin: margin}
		return synchronize(cmd, env, cross, env.Dispatcher(client))
	},
}

func synchronize(cmd *cobra.Command, env *cli.Env, goal ports.GoalSource, dispatcher ports.Dispatcher) error {
	sigCtx := cli.NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	s, cleanup, err := env.Synchronizer(sigCtx, goal, dispatcher)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	if tui.IsTerminal(out) {
		tui.PrintBanner(out, megaverse.Version)
	}

	report, err := env.Run(sigCtx, s)
	if err != nil {
		if sig := sigCtx.Signal(); sig != nil {
			return fmt.Errorf("interrupted by %v: %w", sig, err)
		}
		return err
	}
	tui.PrintReport(out, report)
	if env.DryRun {
		fmt.Fprintln(out, "dry run: no requests were sent")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().String("goal-file", "", "Read the goal from a local YAML or JSON file")

	rootCmd.AddCommand(patternCmd)
	patternCmd.Flags().Int("size", 11, "Side of the square map")
	patternCmd.Flags().Int("margin", 2, "Empty border around the cross")
}
