package polyglint

import (
	"context"

	"github.com/arnavsurve/polyglint/adapter"
	"github.com/arnavsurve/polyglint/internal/projectgraph"
	"github.com/arnavsurve/polyglint/internal/scopegraph"
)

// Tier is the engine capability level a rule requires: 0 syntax only,
// 1 syntax + scopes, 2 syntax + scopes + project graph.
type Tier int

const (
	TierSyntax Tier = iota
	TierScopes
	TierProjectGraph
)

// Priority is a rule's relative importance, used by profiles and reporting;
// it does not affect execution order (within a file, rule order has no
// semantic effect, per §4.5).
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

// AutofixSafety classifies a rule's Edits. "safe" edits may be applied
// automatically by downstream tooling; "suggest-only" edits require a
// prompt; "unsafe" is reserved and is not declared by any built-in rule.
type AutofixSafety string

const (
	AutofixSafe        AutofixSafety = "safe"
	AutofixSuggestOnly AutofixSafety = "suggest-only"
	AutofixUnsafe      AutofixSafety = "unsafe"
)

// RuleMeta is a rule's descriptive record, immutable after registration.
type RuleMeta struct {
	ID            string // dotted namespace string, unique within a Registry
	Category      string
	Tier          Tier
	Priority      Priority
	AutofixSafety AutofixSafety
	Description   string
	Langs         map[string]bool // language tags this rule supports
}

// SupportsLang reports whether the rule declares support for lang.
func (m RuleMeta) SupportsLang(lang string) bool {
	return m.Langs[lang]
}

// Requires is a rule's capability request. Requesting Scopes entails
// Syntax; requesting ProjectGraph entails both lower tiers. The engine
// supplies exactly what is requested — it never builds a ScopeGraph or
// ProjectGraph on a rule's behalf beyond what Requires declares.
type Requires struct {
	RawText      bool
	Syntax       bool
	Scopes       bool
	ProjectGraph bool
}

// RequiresForTier returns the canonical Requires value for a declared tier,
// for rules that don't need finer-grained control over RawText.
func RequiresForTier(t Tier) Requires {
	switch t {
	case TierProjectGraph:
		return Requires{Syntax: true, Scopes: true, ProjectGraph: true}
	case TierScopes:
		return Requires{Syntax: true, Scopes: true}
	default:
		return Requires{Syntax: true}
	}
}

// RuleContext is what every Rule.Visit receives. Scopes and ProjectGraph are
// nullable: a rule that declares Requires.Scopes but is invoked with a nil
// ScopeGraph indicates an engine bug (capability planning failed to honor
// the request), not a legitimate "empty project" case — nil ScopeGraph from
// an adapter that cannot supply scope data is represented as a non-nil,
// empty *scopegraph.ScopeGraph (see internal/scopegraph).
type RuleContext struct {
	FilePath     string
	Text         []byte
	Tree         adapter.Tree
	Adapter      adapter.Adapter
	Scopes       *scopegraph.ScopeGraph
	ProjectGraph *projectgraph.ProjectGraph
	Config       map[string]string
	Language     string
}

// Rule is a unit of analysis with declared capability requirements and a
// Visit method. Visit must be pure with respect to ctx: it must not mutate
// ctx.Text, ctx.Tree, ctx.Scopes, or ctx.ProjectGraph. It may allocate and
// mutate its own working state freely.
type Rule interface {
	Meta() RuleMeta
	Requires() Requires
	Visit(ctx context.Context, rctx *RuleContext) ([]Finding, error)
}

// RuleFunc adapts a plain function to the Rule interface for rules with no
// internal state, mirroring the adapter-self-registration ergonomics the
// Language Adapter contract favors (§4.1).
type RuleFunc struct {
	meta     RuleMeta
	requires Requires
	visit    func(ctx context.Context, rctx *RuleContext) ([]Finding, error)
}

// NewRuleFunc builds a Rule from plain data and a visit function.
func NewRuleFunc(meta RuleMeta, requires Requires, visit func(ctx context.Context, rctx *RuleContext) ([]Finding, error)) *RuleFunc {
	return &RuleFunc{meta: meta, requires: requires, visit: visit}
}

func (r *RuleFunc) Meta() RuleMeta      { return r.meta }
func (r *RuleFunc) Requires() Requires  { return r.requires }
func (r *RuleFunc) Visit(ctx context.Context, rctx *RuleContext) ([]Finding, error) {
	return r.visit(ctx, rctx)
}
