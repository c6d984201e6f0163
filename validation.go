package polyglint

import (
	"context"
	"fmt"
	"os"

	"github.com/arnavsurve/polyglint/internal/projectgraph"
)

// ValidatePaths is the Validation Service's entry point for analyzing an
// explicit set of files and/or directories (§4.7). It never returns an
// error mid-analysis; every recoverable failure becomes a Result.Errors
// entry or an engine.* Finding (§7). The only error ValidatePaths itself
// returns synchronously is a ConfigError for an unknown profile name, or a
// filesystem error discovering the given paths (neither of which analysis
// can proceed without).
func (e *Engine) ValidatePaths(ctx context.Context, paths []string, cfg RunConfig) (*Result, error) {
	profile, err := e.resolveProfile(cfg.ProfileName)
	if err != nil {
		return nil, err
	}

	files, err := discoverFiles(paths, cfg.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("polyglint: discover files: %w", err)
	}

	langs := e.planLanguages(cfg)

	tasks := make([]fileTask, 0, len(files))
	var fileInputs []projectgraph.FileInput
	for _, path := range files {
		lang, ok := e.adapters.LanguageForFile(path)
		if !ok {
			continue // AdapterMissing / unknown language tag: skipped silently (§6, §7)
		}
		if !langs[lang] {
			continue
		}
		tasks = append(tasks, fileTask{path: path, lang: lang})

		if text, rerr := os.ReadFile(path); rerr == nil {
			fileInputs = append(fileInputs, projectgraph.FileInput{Path: path, Language: lang, Text: text})
		}
	}

	var pg *projectgraph.ProjectGraph
	var pgFailures []projectgraph.ParseFailure
	if cfg.EnableProjectGraph || e.needsProjectGraph(profile, langs) {
		pg, pgFailures = projectgraph.Build(fileInputs, e.adapters, cfg.ExternalNamespaceLists)
	}

	result := e.runParallel(ctx, tasks, profile, pg, cfg)

	// analyzeFile already emits an engine.parse_error Finding for any file
	// it couldn't parse (engine.go), so a file counted in pgFailures here
	// too (the Project Graph Builder parses independently, per §4.4) would
	// otherwise get a second Finding with a differently-worded Message —
	// dedup keys on Message (finding.go), so the two would not collapse.
	// Only files with no applicable rules (and therefore no per-file parse
	// attempt at all) need the Project Graph Builder's failure surfaced here.
	alreadyReported := make(map[string]bool, len(result.Findings))
	for _, f := range result.Findings {
		if f.RuleID == "engine.parse_error" {
			alreadyReported[f.FilePath] = true
		}
	}

	for _, pf := range pgFailures {
		if alreadyReported[pf.Path] {
			continue
		}
		result.Errors = append(result.Errors, EngineError{Kind: "parse_error", FilePath: pf.Path, Message: pf.Err.Error()})
		result.Findings = append(result.Findings, Finding{
			RuleID:   "engine.parse_error",
			Message:  fmt.Sprintf("failed to parse %s: %s", pf.Path, pf.Err),
			FilePath: pf.Path,
			Span:     Span{0, 0},
			Severity: SeverityError,
		})
	}

	finalize(result, profile)
	return result, nil
}

// ValidateProject is the whole-repository convenience entry point: it
// discovers every file under root and otherwise behaves exactly like
// ValidatePaths with a single-element path list (§4.7).
func (e *Engine) ValidateProject(ctx context.Context, root string, cfg RunConfig) (*Result, error) {
	return e.ValidatePaths(ctx, []string{root}, cfg)
}
