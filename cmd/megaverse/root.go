package main

import (
	"fmt"
	"os"

	"github.com/aretw0/megaverse/internal/cli"
	"github.com/aretw0/megaverse/pkg/adapters/crossmint"
	"github.com/aretw0/megaverse/pkg/adapters/file"
	"github.com/aretw0/megaverse/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "megaverse",
	Short: "megaverse fills a remote map to match its goal",
	Long: `megaverse fetches the goal grid for a candidate and creates every polyanet, soloon and
cometh it describes, one request at a time, retrying rate-limited calls with backoff.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (.yaml, .json or .toml)")
	flags.String("candidate", "", "Candidate identifier (overrides CANDIDATE_ID)")
	flags.String("base-url", "", "Base URL of the map service")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("redis-addr", "", "Redis address used to lock runs per candidate")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address during a run")
	flags.Bool("dry-run", false, "Record creation requests instead of sending them")
}

// newEnv builds the shared command environment from the persistent flags.
func newEnv(cmd *cobra.Command) (*cli.Env, error) {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.CandidateID, _ = flags.GetString("candidate")
	opts.BaseURL, _ = flags.GetString("base-url")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.LogFormat, _ = flags.GetString("log-format")
	opts.RedisAddr, _ = flags.GetString("redis-addr")
	opts.MetricsAddr, _ = flags.GetString("metrics-addr")
	opts.DryRun, _ = flags.GetBool("dry-run")

	env, err := cli.NewEnv(opts)
	if err != nil {
		return nil, err
	}
	env.Stdout = cmd.OutOrStdout()
	return env, nil
}

// goalSource returns the local goal file when --goal-file is set, otherwise the remote
// client. The client is nil for file goals on dry runs, where it is never needed.
func goalSource(cmd *cobra.Command, env *cli.Env) (ports.GoalSource, *crossmint.Client, error) {
	path, _ := cmd.Flags().GetString("goal-file")
	if path != "" {
		if env.DryRun {
			return file.New(path), nil, nil
		}
		client, err := env.Client()
		if err != nil {
			return nil, nil, err
		}
		return file.New(path), client, nil
	}

	client, err := env.Client()
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}
