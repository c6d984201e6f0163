package polyglint

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/arnavsurve/polyglint/adapter"
	"github.com/arnavsurve/polyglint/internal/projectgraph"
	"github.com/arnavsurve/polyglint/internal/scopegraph"
)

// Engine orchestrates the rule execution pipeline: file discovery, parsing,
// scope-graph construction, rule dispatch, and result assembly (§4.5). It
// corresponds to the teacher's Engine type (mvp-joe-canopy's engine.go),
// restructured from "extract to SQLite, resolve, query later" into
// "analyze in memory, return a Result" since rules here are Go values with
// a Visit method, not persisted extraction rows.
type Engine struct {
	adapters *adapter.Registry
	rules    *Registry

	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewEngine wires an Engine to an adapter registry and a rule registry.
// The canonical "default" profile is registered automatically; callers add
// "alpha_default" or custom profiles via RegisterProfile.
func NewEngine(adapters *adapter.Registry, rules *Registry) *Engine {
	e := &Engine{
		adapters: adapters,
		rules:    rules,
		profiles: make(map[string]Profile),
	}
	e.RegisterProfile("default", DefaultProfile())
	return e
}

// RegisterProfile makes a named profile available to RunConfig.ProfileName.
func (e *Engine) RegisterProfile(name string, p Profile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profiles[name] = p
}

func (e *Engine) resolveProfile(name string) (Profile, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if name == "" {
		name = "default"
	}
	p, ok := e.profiles[name]
	if !ok {
		return Profile{}, &ConfigError{Message: fmt.Sprintf("unknown profile %q", name)}
	}
	return p, nil
}

// fileTask is the per-file unit of work the parallel pipeline dispatches.
type fileTask struct {
	path string
	lang string
}

// fileOutcome is what analyzing one file produces.
type fileOutcome struct {
	path     string
	lang     string
	findings []Finding
	errs     []EngineError
	analyzed bool
}

// planLanguages resolves the set of languages in play for this run: the
// intersection of RunConfig.Languages (if set) with the adapter registry's
// registered languages.
func (e *Engine) planLanguages(cfg RunConfig) map[string]bool {
	all := e.adapters.Languages()
	registered := make(map[string]bool, len(all))
	for _, l := range all {
		registered[l] = true
	}
	if len(cfg.Languages) == 0 {
		return registered
	}
	out := make(map[string]bool, len(cfg.Languages))
	for _, l := range cfg.Languages {
		if registered[l] {
			out[l] = true
		}
	}
	return out
}

// needsProjectGraph reports whether any rule selected by profile, across
// every language in play, requires tier 2.
func (e *Engine) needsProjectGraph(profile Profile, langs map[string]bool) bool {
	for lang := range langs {
		for _, r := range e.rules.GetForProfile(profile, lang) {
			if r.Requires().ProjectGraph {
				return true
			}
		}
	}
	return false
}

// analyzeFile runs steps 4a-4e of §4.5 for a single file: read, parse,
// optionally build scopes, run every applicable rule, collect findings.
func (e *Engine) analyzeFile(ctx context.Context, path, lang string, profile Profile, pg *projectgraph.ProjectGraph, cfg RunConfig) fileOutcome {
	out := fileOutcome{path: path, lang: lang}

	a, ok := e.adapters.Get(lang)
	if !ok {
		// AdapterMissing: counted in stats by the caller, not an error (§7).
		return out
	}

	text, err := os.ReadFile(path)
	if err != nil {
		out.errs = append(out.errs, EngineError{Kind: "read_error", FilePath: path, Message: err.Error()})
		return out
	}

	applicable := e.rules.GetForProfile(profile, lang)
	if !a.Capabilities().Scopes {
		// An adapter without scope support cannot serve rules that request
		// scopes; those rules are skipped for this file (adapter.Capabilities).
		kept := applicable[:0:0]
		for _, r := range applicable {
			if !r.Requires().Scopes {
				kept = append(kept, r)
			}
		}
		applicable = kept
	}
	if len(applicable) == 0 {
		out.analyzed = true
		return out
	}

	tree, err := a.Parse(text)
	if err != nil {
		out.findings = append(out.findings, Finding{
			RuleID:   "engine.parse_error",
			Message:  fmt.Sprintf("failed to parse %s as %s: %s", path, lang, err),
			FilePath: path,
			Span:     Span{0, 0},
			Severity: SeverityError,
		})
		out.errs = append(out.errs, EngineError{Kind: "parse_error", FilePath: path, Message: err.Error()})
		return out
	}
	out.analyzed = true

	needScopes := false
	for _, r := range applicable {
		if r.Requires().Scopes {
			needScopes = true
			break
		}
	}

	var scopes *scopegraph.ScopeGraph
	if needScopes {
		scopes, err = scopegraph.Build(a, tree)
		if err != nil {
			out.errs = append(out.errs, EngineError{Kind: "scope_build_error", FilePath: path, Message: err.Error()})
			scopes = scopegraph.New()
		}
	}

	rctx := &RuleContext{
		FilePath:     path,
		Text:         text,
		Tree:         tree,
		Adapter:      a,
		Scopes:       scopes,
		ProjectGraph: pg,
		Config:       flattenConfig(cfg, path),
		Language:     lang,
	}

	for _, r := range applicable {
		findings, crashed := e.invokeRule(ctx, r, rctx)
		if crashed != nil {
			out.errs = append(out.errs, *crashed)
			out.findings = append(out.findings, Finding{
				RuleID:   "engine.rule_crashed",
				Message:  fmt.Sprintf("rule %s crashed on %s: %s", r.Meta().ID, path, crashed.Message),
				FilePath: path,
				Span:     Span{0, 0},
				Severity: SeverityError,
			})
			continue
		}
		for _, f := range findings {
			if err := f.ValidateAgainst(path, len(text)); err != nil {
				out.errs = append(out.errs, EngineError{Kind: "invalid_finding", FilePath: path, RuleID: r.Meta().ID, Message: err.Error()})
				continue
			}
			if ov, ok := cfg.RuleOverrides[f.RuleID]; ok && ov.Severity != "" {
				f.Severity = ov.Severity
			}
			out.findings = append(out.findings, f)
		}
	}

	return out
}

// invokeRule calls rule.Visit, recovering a panic into an EngineError
// (RuleCrash, §7) rather than letting it terminate the run.
func (e *Engine) invokeRule(ctx context.Context, rule Rule, rctx *RuleContext) (findings []Finding, crashed *EngineError) {
	defer func() {
		if r := recover(); r != nil {
			crashed = &EngineError{
				Kind:     "rule_crashed",
				FilePath: rctx.FilePath,
				RuleID:   rule.Meta().ID,
				Message:  fmt.Sprintf("%v", r),
			}
		}
	}()
	fs, err := rule.Visit(ctx, rctx)
	if err != nil {
		return nil, &EngineError{
			Kind:     "rule_crashed",
			FilePath: rctx.FilePath,
			RuleID:   rule.Meta().ID,
			Message:  err.Error(),
		}
	}
	return fs, nil
}

// flattenConfig merges per-rule RuleOverride.Config maps into the flat
// string-keyed map a RuleContext carries. polyglint does not validate these
// keys centrally (§9 "Configuration passing") — each rule documents what it
// reads and what it defaults to when absent.
func flattenConfig(cfg RunConfig, _ string) map[string]string {
	out := make(map[string]string)
	for _, override := range cfg.RuleOverrides {
		for k, v := range override.Config {
			out[k] = v
		}
	}
	return out
}

// withFileTimeout runs fn with a per-file timeout derived from cfg, if one
// is configured. On timeout, done is false and the caller records an
// engine.file_timeout finding and discards any rule findings for the file
// (§5 Timeouts).
func withFileTimeout(ctx context.Context, ms int, fn func(context.Context)) bool {
	if ms <= 0 {
		fn(ctx)
		return true
	}
	fileCtx, cancel := context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		fn(fileCtx)
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-fileCtx.Done():
		return false
	}
}
