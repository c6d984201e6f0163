// Package polyglint is a multi-language static analysis engine. It ingests
// parsed syntax trees of files across many programming languages, runs a
// collection of rules against those trees, and emits structured findings
// with optional fix hints.
//
// # Pipeline
//
// An analysis run has three phases:
//
//  1. Discover: collect target files, detect each file's language from its
//     extension, and select the rules that apply (profile ∩ language).
//  2. Build (optional): if any selected rule needs a whole-project view,
//     parse every file once to build a ProjectGraph (import graph + symbol
//     index) before any rule runs.
//  3. Analyze: for each file, parse it, build a ScopeGraph if a rule needs
//     one, and run every applicable rule, collecting Findings.
//
// Findings are deduplicated, severity-overridden per the active Profile,
// sorted deterministically, and returned as a Result.
//
// # Usage
//
//	adapters := adapter.NewRegistry()
//	golang.Register(adapters)
//	python.Register(adapters)
//
//	registry := polyglint.NewRegistry()
//	registry.RegisterAll(rules.RULES)
//
//	e := polyglint.NewEngine(adapters, registry)
//	result, err := e.ValidateProject(ctx, "/path/to/repo", polyglint.RunConfig{
//		ProfileName: "default",
//	})
//
// # Rules
//
// A Rule declares a RuleMeta (id, category, tier, priority, autofix
// safety, supported languages) and a Requires capability request. The
// engine supplies exactly the capability tier a rule asks for: syntax only,
// syntax plus scopes, or syntax plus scopes plus the whole-project graph.
//
// # Extending
//
// New languages register an adapter.Adapter against a language tag (see
// package adapter and its golang/python/tsx/generic subpackages). New
// rules either implement the Rule interface directly or are loaded from a
// script via internal/scriptrule.
package polyglint
