package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ownck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ownck",
	Short: "Static ownership and aliasing verifier",
	Long:  `ownck proves move, borrow and lifetime discipline over serialized function CFGs`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color tri-state against the output device.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
