package polyglint

// Profile is a named selection of rule ids with per-rule severity
// overrides, applied after rule execution and before deduplication (§4.6).
type Profile struct {
	Name              string
	AllowList         map[string]bool // nil means "every registered rule at tier 0/1"
	SeverityOverrides map[string]Severity
}

// Allows reports whether ruleID is selected by the profile.
func (p Profile) Allows(ruleID string) bool {
	if p.AllowList == nil {
		return true
	}
	return p.AllowList[ruleID]
}

// OverrideSeverity returns the profile's severity override for ruleID, if
// any, and whether one was configured.
func (p Profile) OverrideSeverity(ruleID string) (Severity, bool) {
	sev, ok := p.SeverityOverrides[ruleID]
	return sev, ok
}

// DefaultProfile selects every tier-0 and tier-1 rule in the registry at
// its declared severity. Tier-2 (project-scope) rules are excluded from
// "default" because they require a ProjectGraph build, which the default
// profile does not assume the caller wants to pay for; callers who want
// whole-project rules select AlphaDefaultProfile or construct a custom
// Profile with enable_project_graph set on the RunConfig.
func DefaultProfile() Profile {
	return Profile{Name: "default"}
}

// AlphaDefaultProfile returns the canonical curated profile: an explicit
// allow-list of rule ids with deliberate severity adjustments. The
// allow-list here is exercised by the built-in rules package; external
// rule providers extend it by constructing their own Profile value, there
// is no central registration of profile membership.
func AlphaDefaultProfile(allow []string, overrides map[string]Severity) Profile {
	allowSet := make(map[string]bool, len(allow))
	for _, id := range allow {
		allowSet[id] = true
	}
	return Profile{
		Name:              "alpha_default",
		AllowList:         allowSet,
		SeverityOverrides: overrides,
	}
}

// isDefaultEligible reports whether a rule qualifies for the "default"
// profile: tier 0 or tier 1 only.
func isDefaultEligible(m RuleMeta) bool {
	return m.Tier == TierSyntax || m.Tier == TierScopes
}
