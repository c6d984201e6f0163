// Command polyglint is a thin CLI over the polyglint analysis engine.
// It is the one external collaborator spec §1 names explicitly as out of
// scope for the core; it exists here, following the teacher's
// cmd/canopy/main.go layout, only so the engine has a runnable front end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagProfile       string
	flagLanguages     string
	flagFormat        string
	flagExclude       []string
	flagCache         string
	flagProjectGraph  bool
	flagMaxParams     string
)

// errorHandled is set by commands that already printed a user-facing
// error so main() doesn't double-print cobra's own error line.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "polyglint",
	Short:         "Multi-language static analysis",
	Long:          "polyglint parses source files with tree-sitter, runs a rule engine over the resulting scope graphs and project graph, and reports findings.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "default", "rule profile: default|alpha_default")
	rootCmd.PersistentFlags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. go,python)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().StringArrayVar(&flagExclude, "exclude", nil, "glob to exclude (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flagCache, "cache", "", "path to an incremental analysis cache database (default: disabled)")
	rootCmd.PersistentFlags().BoolVar(&flagProjectGraph, "project-graph", false, "force-build the whole-project graph even if no selected rule requires it")
	rootCmd.PersistentFlags().StringVar(&flagMaxParams, "max-params", "", "override complexity.max_params for this run")

	rootCmd.AddCommand(validateCmd)
}

func validateFormat(f string) error {
	if f != "json" && f != "text" {
		return fmt.Errorf("invalid --format %q: must be json or text", f)
	}
	return nil
}
