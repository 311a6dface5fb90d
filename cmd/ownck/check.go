package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ownck/internal/config"
	"ownck/internal/fixture"
	"ownck/internal/observ"
	"ownck/internal/verify"
)

var (
	checkConfigPath string
	checkJobs       int
	checkMaxDiags   int
	checkTimings    bool
)

func init() {
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "path to ownck.toml (default: ./ownck.toml if present)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "parallel verification jobs (0 = GOMAXPROCS)")
	checkCmd.Flags().IntVar(&checkMaxDiags, "max-diagnostics", 0, "maximum diagnostics per function (0 = config default)")
	checkCmd.Flags().BoolVar(&checkTimings, "timings", false, "show phase timing information")
}

var checkCmd = &cobra.Command{
	Use:   "check <fixture>...",
	Short: "Verify ownership discipline of serialized function CFGs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, err := loadConfig()
		if err != nil {
			return err
		}

		opts := verify.Options{
			MaxDiagnostics: cfgFile.Check.MaxDiagnostics,
			Jobs:           cfgFile.Check.Jobs,
		}
		if checkMaxDiags > 0 {
			opts.MaxDiagnostics = checkMaxDiags
		}
		if checkJobs > 0 {
			opts.Jobs = checkJobs
		}
		timings := checkTimings || cfgFile.Check.Timings
		if timings {
			opts.Timer = observ.NewTimer()
		}

		colorMode, _ := cmd.Flags().GetString("color")
		if colorMode == "auto" {
			colorMode = cfgFile.Check.Color
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		failed := false
		for _, path := range args {
			table, funcs, err := fixture.Load(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results, err := verify.Module(cmd.Context(), table, funcs, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			bag := verify.Aggregate(results)
			if bag.HasErrors() {
				failed = true
			}
			bag.Drain(newConsoleReporter(cmd.OutOrStdout(), path, table, funcs, useColor(colorMode, os.Stdout)))
			if !quiet && !bag.HasErrors() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d function(s))\n", path, len(funcs))
			}
		}
		if timings {
			fmt.Fprint(cmd.OutOrStdout(), opts.Timer.Summary())
		}
		if failed {
			return errors.New("verification failed")
		}
		return nil
	},
}

// loadConfig reads --config, or ./ownck.toml when present, or defaults.
func loadConfig() (config.Config, error) {
	path := checkConfigPath
	if path == "" {
		if _, err := os.Stat("ownck.toml"); err != nil {
			return config.Default(), nil
		}
		path = "ownck.toml"
	}
	return config.Load(path)
}
