package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/megaverse"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of megaverse",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "megaverse version %s\n", strings.TrimSpace(megaverse.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
