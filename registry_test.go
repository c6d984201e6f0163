package polyglint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopRule(id string, lang string, tier Tier) Rule {
	return NewRuleFunc(
		RuleMeta{ID: id, Tier: tier, Langs: map[string]bool{lang: true}},
		RequiresForTier(tier),
		func(ctx context.Context, rctx *RuleContext) ([]Finding, error) { return nil, nil },
	)
}

// TestRegistry_RegisterGetByID_RoundTrip exercises the round-trip law:
// register(r); get_by_id(r.meta.id) == r.
func TestRegistry_RegisterGetByID_RoundTrip(t *testing.T) {
	r := NewRegistry()
	rule := noopRule("x.one", "go", TierSyntax)
	r.Register(rule)

	got, ok := r.GetByID("x.one")
	require.True(t, ok)
	assert.Same(t, rule, got)

	_, ok = r.GetByID("missing")
	assert.False(t, ok)
}

func TestRegistry_Register_DuplicateIDKeepsPositionLastWriterWins(t *testing.T) {
	r := NewRegistry()
	first := noopRule("x.one", "go", TierSyntax)
	second := noopRule("x.two", "go", TierSyntax)
	replacement := noopRule("x.one", "go", TierSyntax)

	r.Register(first)
	r.Register(second)
	r.Register(replacement)

	all := r.All()
	require.Len(t, all, 2)
	assert.Same(t, replacement, all[0])
	assert.Same(t, second, all[1])
}

func TestRegistry_GetByLanguage(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll([]Rule{
		noopRule("go.only", "go", TierSyntax),
		noopRule("py.only", "python", TierSyntax),
	})

	goRules := r.GetByLanguage("go")
	require.Len(t, goRules, 1)
	assert.Equal(t, "go.only", goRules[0].Meta().ID)
}

func TestRegistry_GetForProfile_DefaultExcludesProjectGraphTier(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll([]Rule{
		noopRule("tier0", "go", TierSyntax),
		noopRule("tier1", "go", TierScopes),
		noopRule("tier2", "go", TierProjectGraph),
	})

	selected := r.GetForProfile(DefaultProfile(), "go")
	ids := make([]string, 0, len(selected))
	for _, rule := range selected {
		ids = append(ids, rule.Meta().ID)
	}
	assert.ElementsMatch(t, []string{"tier0", "tier1"}, ids)
}

func TestRegistry_GetForProfile_AllowListRestrictsAcrossTiers(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll([]Rule{
		noopRule("tier0", "go", TierSyntax),
		noopRule("tier2", "go", TierProjectGraph),
	})

	profile := AlphaDefaultProfile([]string{"tier2"}, nil)
	selected := r.GetForProfile(profile, "go")
	require.Len(t, selected, 1)
	assert.Equal(t, "tier2", selected[0].Meta().ID)
}
