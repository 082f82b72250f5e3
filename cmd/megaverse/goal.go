package main

import (
	"fmt"

	"github.com/aretw0/megaverse/internal/presentation/tui"
	"github.com/aretw0/megaverse/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Fetch and preview the goal map",
	Long:  `Fetches the candidate's goal map and prints it. With --out the goal is saved for later offline runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		client, err := env.Client()
		if err != nil {
			return err
		}

		grid, err := client.FetchGoal(cmd.Context())
		if err != nil {
			return err
		}
		if err := tui.PrintGrid(cmd.OutOrStdout(), grid); err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := file.Save(out, grid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "goal saved to %s\n", out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.Flags().StringP("out", "o", "", "Save the goal to a YAML or JSON file")
}
