// Command boundcheck normalizes and bound-checks a project of typed-AST
// module fixtures, proving array accesses are within bounds wherever the
// analysis can, and reporting a diagnostic wherever it cannot.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"boundcheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "boundcheck",
	Short: "Bound checker for typed-AST module fixtures",
	Long:  "boundcheck normalizes and bound-checks a project's typed-AST modules, proving array accesses in bounds wherever possible.",
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 500, "maximum number of diagnostics to report per module")
	rootCmd.PersistentFlags().Int("jobs", 0, "maximum concurrent module analyses (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().Bool("cache", false, "reuse cached results for unchanged modules")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
