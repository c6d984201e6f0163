package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/polyglint"
	"github.com/arnavsurve/polyglint/adapter"
	"github.com/arnavsurve/polyglint/adapter/generic"
	"github.com/arnavsurve/polyglint/adapter/golang"
	"github.com/arnavsurve/polyglint/adapter/python"
	"github.com/arnavsurve/polyglint/adapter/tsx"
	"github.com/arnavsurve/polyglint/rules"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Analyze one or more paths and report findings",
	Long:  "Discovers source files under the given paths (or the current directory if none are given), runs the active rule profile, and prints findings.",
	RunE:  runValidate,
}

func newEngine() *polyglint.Engine {
	adapters := adapter.NewRegistry()
	golang.Register(adapters)
	python.Register(adapters)
	tsx.Register(adapters)
	generic.Register(adapters)

	registry := polyglint.NewRegistry()
	registry.RegisterAll(rules.RULES)

	e := polyglint.NewEngine(adapters, registry)
	e.RegisterProfile("alpha_default", polyglint.AlphaDefaultProfile(
		[]string{
			"imports.unused",
			"ident.duplicate_definition",
			"imports.missing_file_target",
			"complexity.long_parameter_list",
		},
		map[string]polyglint.Severity{
			"complexity.long_parameter_list": polyglint.SeverityInfo,
		},
	))
	return e
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg := polyglint.RunConfig{
		ProfileName:        flagProfile,
		ExcludeGlobs:       flagExclude,
		EnableProjectGraph: flagProjectGraph,
		CachePath:          flagCache,
	}
	if flagLanguages != "" {
		for _, l := range strings.Split(flagLanguages, ",") {
			cfg.Languages = append(cfg.Languages, strings.TrimSpace(l))
		}
	}
	if flagMaxParams != "" {
		cfg.RuleOverrides = map[string]polyglint.RuleOverride{
			"complexity.long_parameter_list": {Config: map[string]string{"complexity.max_params": flagMaxParams}},
		}
	}

	e := newEngine()
	result, err := e.AnalyzeIncremental(context.Background(), paths, cfg)
	if err != nil {
		errorHandled = true
		fmt.Fprintf(cmd.ErrOrStderr(), "polyglint: %s\n", err)
		return err
	}

	w := cmd.OutOrStdout()
	if flagFormat == "json" {
		return writeResultJSON(w, result)
	}
	writeResultText(w, result)

	if hasErrorSeverity(result) {
		errorHandled = true
		return fmt.Errorf("analysis reported %d error-severity finding(s)", countErrorSeverity(result))
	}
	return nil
}

func hasErrorSeverity(r *polyglint.Result) bool {
	return countErrorSeverity(r) > 0
}

func countErrorSeverity(r *polyglint.Result) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == polyglint.SeverityError {
			n++
		}
	}
	return n
}
