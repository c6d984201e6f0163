// Package scriptrule is the Risor-backed half of the rule discovery
// contract (spec §6, §9 "Rule registration side-effects"): it lets a rule
// provider ship a .risor script instead of a compiled Go type. Grounded on
// the teacher's Runtime (mvp-joe-canopy's internal/runtime/runtime.go),
// which evaluates Risor scripts against tree-sitter host functions; here
// the host functions mirror RuleContext instead of a Store, and the
// script's accumulated emit() calls become the Rule's Findings rather than
// SQLite rows.
package scriptrule

import (
	"context"
	"fmt"
	"os"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"

	"github.com/arnavsurve/polyglint"
)

// Meta is the declarative header a script provides alongside its body, via
// the explicit meta argument of Load or NewSource. polyglint does not
// attempt to infer RuleMeta from script source, matching §9's preference
// for explicit registration over implicit side effects.
type Meta = polyglint.RuleMeta

// ScriptRule adapts a Risor script to the polyglint.Rule interface. The
// script runs once per RuleContext.Visit call with host functions bound to
// that context: symbols(), refs(), imports(), and emit(finding_map).
type ScriptRule struct {
	meta     Meta
	requires polyglint.Requires
	source   string
	path     string // for error messages; "<inline>" when loaded via NewSource
}

// Load reads a .risor file from disk and wraps it as a Rule with the given
// declared metadata and capability requirements. The engine never inspects
// script contents ahead of running them — meta/requires are supplied by
// the caller (the rule provider), exactly as a compiled Go Rule declares
// its own Meta()/Requires().
func Load(path string, meta Meta, requires polyglint.Requires) (*ScriptRule, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scriptrule: reading %s: %w", path, err)
	}
	return &ScriptRule{meta: meta, requires: requires, source: string(src), path: path}, nil
}

// NewSource wraps Risor source code directly, for providers that embed
// scripts as Go string constants or build them programmatically, and for
// tests that exercise scriptrule without a fixture file.
func NewSource(source string, meta Meta, requires polyglint.Requires) *ScriptRule {
	return &ScriptRule{meta: meta, requires: requires, source: source, path: "<inline>"}
}

func (s *ScriptRule) Meta() polyglint.RuleMeta { return s.meta }
func (s *ScriptRule) Requires() polyglint.Requires { return s.requires }

// Visit evaluates the script with host functions bound to rctx. A script
// reports findings by calling emit(map) one or more times; Visit collects
// every emitted map into a polyglint.Finding. A Risor evaluation error
// (syntax error, host function misuse, unhandled script panic) is returned
// as a Go error, which the Rule Execution Engine turns into an
// engine.rule_crashed finding per §7 — scriptrule itself does not swallow
// failures the way the teacher's extraction scripts' best-effort fallback
// text analysis does (§9 Open question): a script error is a real error.
func (s *ScriptRule) Visit(ctx context.Context, rctx *polyglint.RuleContext) ([]polyglint.Finding, error) {
	var collected []polyglint.Finding
	var collectErr error

	emit := object.NewBuiltin("emit", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("emit", 1, len(args))
		}
		m, ok := args[0].(*object.Map)
		if !ok {
			return object.Errorf("emit: expected a map, got %s", args[0].Type())
		}
		f, err := findingFromMap(s.meta.ID, rctx.FilePath, m.Value())
		if err != nil {
			collectErr = err
			return object.Errorf("emit: %v", err)
		}
		collected = append(collected, f)
		return object.Nil
	})

	globals := map[string]any{
		"emit":       emit,
		"rule_id":    object.NewString(s.meta.ID),
		"file_path":  object.NewString(rctx.FilePath),
		"language":   object.NewString(rctx.Language),
		"symbols":    makeSymbolsFn(rctx),
		"refs":       makeRefsFn(rctx),
		"imports":    makeImportsFn(rctx),
		"config_get": makeConfigGetFn(rctx),
	}

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}

	if _, err := risor.Eval(ctx, s.source, opts...); err != nil {
		return nil, fmt.Errorf("scriptrule: script %s: %w", s.path, err)
	}
	if collectErr != nil {
		return nil, fmt.Errorf("scriptrule: script %s: emit: %w", s.path, collectErr)
	}
	return collected, nil
}

// findingFromMap builds a polyglint.Finding from the map a script's emit()
// call passed in. Unlike the compiled-rule path, a script cannot construct
// a polyglint.Finding struct directly (Risor scripts only manipulate
// Risor's own object kinds), so this is the one place scriptrule bridges
// map-of-primitives into the engine's typed data model — the same
// role storefuncs.go's extractMap/getString/getInt helpers play for the
// teacher's insert_* host functions.
func findingFromMap(ruleID, filePath string, m map[string]object.Object) (polyglint.Finding, error) {
	message := getString(m, "message")
	if message == "" {
		return polyglint.Finding{}, fmt.Errorf("emit: \"message\" is required")
	}
	start := getInt(m, "start_byte")
	end := getInt(m, "end_byte")
	severity := polyglint.Severity(getStringDefault(m, "severity", string(polyglint.SeverityInfo)))

	f := polyglint.Finding{
		RuleID:   ruleID,
		Message:  message,
		FilePath: filePath,
		Span:     polyglint.Span{Start: start, End: end},
		Severity: severity,
	}
	if meta := getMap(m, "meta"); meta != nil {
		f.Meta = toGoMap(meta)
	}
	return f, nil
}

func getString(m map[string]object.Object, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	if s, ok := v.(*object.String); ok {
		return s.Value()
	}
	return ""
}

func getStringDefault(m map[string]object.Object, key, def string) string {
	if v := getString(m, key); v != "" {
		return v
	}
	return def
}

func getInt(m map[string]object.Object, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	if i, ok := v.(*object.Int); ok {
		return int(i.Value())
	}
	return 0
}

func getMap(m map[string]object.Object, key string) map[string]object.Object {
	v, ok := m[key]
	if !ok {
		return nil
	}
	if mm, ok := v.(*object.Map); ok {
		return mm.Value()
	}
	return nil
}

func toGoMap(m map[string]object.Object) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}
