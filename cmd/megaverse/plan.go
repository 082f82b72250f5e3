package main

import (
	"fmt"
	"sort"

	"github.com/aretw0/megaverse/internal/presentation/tui"
	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the requests a sync would send, without sending them",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		env.DryRun = true

		goal, _, err := goalSource(cmd, env)
		if err != nil {
			return err
		}
		s, cleanup, err := env.Synchronizer(cmd.Context(), goal, env.Dispatcher(nil))
		if err != nil {
			return err
		}
		defer cleanup()

		grid, plan, err := s.Plan(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := tui.PrintGrid(out, grid); err != nil {
			return err
		}

		counts := make(map[domain.Route]int)
		for _, req := range plan {
			counts[req.Route]++
		}
		routes := make([]string, 0, len(counts))
		for r := range counts {
			routes = append(routes, string(r))
		}
		sort.Strings(routes)
		for _, r := range routes {
			fmt.Fprintf(out, "%-10s %d\n", r, counts[domain.Route(r)])
		}
		fmt.Fprintf(out, "%-10s %d\n", "total", len(plan))

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			for _, req := range plan {
				fmt.Fprintln(out, req)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("goal-file", "", "Read the goal from a local YAML or JSON file")
	planCmd.Flags().BoolP("verbose", "v", false, "List every request in order")
}
