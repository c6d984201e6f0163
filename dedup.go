package polyglint

import "sort"

// applySeverityOverrides rewrites each finding's severity per the profile's
// SeverityOverrides map. Applied before deduplication (§4.6). Severity is
// not part of the dedup key, so findings that differ only in severity
// collapse whether or not an override applies to them.
func applySeverityOverrides(findings []Finding, profile Profile) []Finding {
	for i, f := range findings {
		if sev, ok := profile.OverrideSeverity(f.RuleID); ok {
			findings[i].Severity = sev
		}
	}
	return findings
}

// dedup merges duplicate findings by (rule_id, file_path, start_byte,
// end_byte, message), retaining the first occurrence (§4.6). dedup is
// idempotent: dedup(dedup(xs)) == dedup(xs).
func dedup(findings []Finding) []Finding {
	seen := make(map[dedupKey]bool, len(findings))
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		k := f.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// finalize applies §4.5 step 5 (post-processing) to a Result in place:
// severity overrides, then dedup, then the deterministic sort, then
// recomputed per-rule stats. Called once per run after every source of
// findings (per-file rule output, project-graph parse failures) has been
// merged in, so dedup sees the full set.
func finalize(result *Result, profile Profile) {
	findings := applySeverityOverrides(result.Findings, profile)
	findings = dedup(findings)
	sortFindings(findings)
	result.Findings = findings

	if result.Stats.PerRuleCounts == nil {
		result.Stats.PerRuleCounts = make(map[string]int)
	}
	for _, f := range findings {
		result.Stats.PerRuleCounts[f.RuleID]++
	}
}

// sortFindings orders findings by (file, start_byte, rule_id), the
// deterministic order §4.5/§5 require of the final result.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.RuleID < b.RuleID
	})
}
