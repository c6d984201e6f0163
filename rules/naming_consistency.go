package rules

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"context"

	"github.com/arnavsurve/polyglint"
	"github.com/arnavsurve/polyglint/internal/projectindex"
)

// accessorVerbPriority ranks the common synonyms for "retrieve a value"
// accessor functions, most-canonical first. It exists only to break ties
// when every verb in a noun group occurs with equal frequency (S5): without
// a preference order, "get_user"/"fetch_user"/"load_user" would have no
// basis to agree on a winner.
var accessorVerbPriority = []string{
	"get", "list", "find", "fetch", "load", "retrieve", "lookup",
	"create", "make", "new", "build",
	"update", "set", "modify",
	"delete", "remove", "destroy",
}

func verbRank(verb string) int {
	for i, v := range accessorVerbPriority {
		if v == verb {
			return i
		}
	}
	return len(accessorVerbPriority)
}

// TermConsistency flags a project-wide naming split: two or more functions
// bound to the same noun phrase (e.g. "user") but spelled with different
// verbs (get/fetch/load), and suggests renaming every minority spelling to
// the group's majority verb. It is a tier-2 rule: the grouping only makes
// sense computed once over every file's top-level symbols, so it reads
// ctx.ProjectGraph.SymbolIndex rather than ctx.Scopes, and reports only the
// findings whose symbol lives in the current file.
var TermConsistency = polyglint.NewRuleFunc(
	polyglint.RuleMeta{
		ID:            "naming.inconsistent_verb",
		Category:      "naming",
		Tier:          polyglint.TierProjectGraph,
		Priority:      polyglint.PriorityP2,
		AutofixSafety: polyglint.AutofixSuggestOnly,
		Description:   "a function/method whose verb disagrees with the majority verb used for the same noun phrase elsewhere in the project",
		Langs:         map[string]bool{"go": true, "python": true, "javascript": true, "typescript": true},
	},
	polyglint.Requires{Syntax: true, Scopes: true, ProjectGraph: true},
	visitTermConsistency,
)

// verbNoun splits an identifier into a leading verb token and the
// remaining noun phrase, handling both snake_case (get_user) and camelCase
// (getUser) spellings. Returns ok=false for identifiers with no second
// token to compare against (a bare "user" has nothing to be inconsistent
// with).
func verbNoun(name string) (verb, noun string, ok bool) {
	words := splitWords(name)
	if len(words) < 2 {
		return "", "", false
	}
	return strings.ToLower(words[0]), strings.ToLower(strings.Join(words[1:], "_")), true
}

// splitWords tokenizes an identifier on underscores and camelCase
// boundaries.
func splitWords(name string) []string {
	var words []string
	var cur strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '-' {
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
			continue
		}
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

type termGroupEntry struct {
	sym  projectindex.ProjectSymbol
	verb string
}

// majorityVerb picks the winning verb for one noun group: highest
// occurrence count first, ties broken by accessorVerbPriority, remaining
// ties broken alphabetically so the result never depends on map/slice
// iteration order.
func majorityVerb(entries []termGroupEntry) string {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.verb]++
	}
	verbs := make([]string, 0, len(counts))
	for v := range counts {
		verbs = append(verbs, v)
	}
	sort.Slice(verbs, func(i, j int) bool {
		if counts[verbs[i]] != counts[verbs[j]] {
			return counts[verbs[i]] > counts[verbs[j]]
		}
		if r1, r2 := verbRank(verbs[i]), verbRank(verbs[j]); r1 != r2 {
			return r1 < r2
		}
		return verbs[i] < verbs[j]
	})
	return verbs[0]
}

func visitTermConsistency(_ context.Context, rctx *polyglint.RuleContext) ([]polyglint.Finding, error) {
	if rctx.ProjectGraph == nil {
		return nil, nil
	}

	groups := make(map[string][]termGroupEntry)
	for _, sym := range rctx.ProjectGraph.SymbolIndex.FindByKind("function") {
		addToTermGroup(groups, sym)
	}
	for _, sym := range rctx.ProjectGraph.SymbolIndex.FindByKind("method") {
		addToTermGroup(groups, sym)
	}

	var out []polyglint.Finding
	for _, entries := range groups {
		if len(entries) < 2 {
			continue
		}
		distinctVerbs := make(map[string]bool)
		for _, e := range entries {
			distinctVerbs[e.verb] = true
		}
		if len(distinctVerbs) < 2 {
			continue // everyone already agrees
		}
		winner := majorityVerb(entries)
		for _, e := range entries {
			if e.verb == winner || e.sym.FilePath != rctx.FilePath {
				continue
			}
			_, noun, _ := verbNoun(e.sym.Name)
			suggested := renameWith(e.sym.Name, winner, noun)
			out = append(out, polyglint.Finding{
				RuleID:   "naming.inconsistent_verb",
				Message:  fmt.Sprintf("%q uses verb %q but the rest of the project names this concept with %q; consider %q", e.sym.Name, e.verb, winner, suggested),
				FilePath: e.sym.FilePath,
				Span:     polyglint.Span{Start: e.sym.Start, End: e.sym.End},
				Severity: polyglint.SeverityInfo,
				Meta: map[string]any{
					"current_verb":   e.verb,
					"majority_verb":  winner,
					"suggested_name": suggested,
				},
			})
		}
	}
	sortFindingsBySpan(out)
	return out, nil
}

func addToTermGroup(groups map[string][]termGroupEntry, sym projectindex.ProjectSymbol) {
	verb, noun, ok := verbNoun(sym.Name)
	if !ok {
		return
	}
	groups[noun] = append(groups[noun], termGroupEntry{sym: sym, verb: verb})
}

// renameWith rebuilds an identifier's spelling with a new leading verb,
// preserving the original's word-joining style (snake_case vs camelCase).
func renameWith(original, newVerb, noun string) string {
	if strings.Contains(original, "_") {
		return newVerb + "_" + noun
	}
	nounWords := strings.Split(noun, "_")
	var b strings.Builder
	b.WriteString(newVerb)
	for _, w := range nounWords {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

func sortFindingsBySpan(findings []polyglint.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].FilePath != findings[j].FilePath {
			return findings[i].FilePath < findings[j].FilePath
		}
		return findings[i].Span.Start < findings[j].Span.Start
	})
}
