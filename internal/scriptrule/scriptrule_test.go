package scriptrule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/polyglint"
	"github.com/arnavsurve/polyglint/internal/scopegraph"
)

func newTestRuleContext() *polyglint.RuleContext {
	scopes := scopegraph.New()
	return &polyglint.RuleContext{
		FilePath: "a.py",
		Text:     []byte("import os\n"),
		Scopes:   scopes,
		Language: "python",
		Config:   map[string]string{"severity_floor": "warning"},
	}
}

func TestScriptRule_EmitProducesFinding(t *testing.T) {
	source := `
emit({"message": "a scripted finding", "start_byte": 0, "end_byte": 6, "severity": "warning"})
`
	rule := NewSource(source, Meta{ID: "script.example"}, polyglint.Requires{Syntax: true})

	findings, err := rule.Visit(context.Background(), newTestRuleContext())
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "script.example", f.RuleID)
	assert.Equal(t, "a.py", f.FilePath)
	assert.Equal(t, "a scripted finding", f.Message)
	assert.Equal(t, polyglint.Span{Start: 0, End: 6}, f.Span)
	assert.Equal(t, polyglint.SeverityWarning, f.Severity)
}

func TestScriptRule_EmitWithoutMessageIsError(t *testing.T) {
	rule := NewSource(`emit({"start_byte": 0, "end_byte": 1})`, Meta{ID: "script.bad"}, polyglint.Requires{Syntax: true})
	_, err := rule.Visit(context.Background(), newTestRuleContext())
	require.Error(t, err)
}

func TestScriptRule_ConfigGetExposesRuleContextConfig(t *testing.T) {
	source := `
floor := config_get("severity_floor")
emit({"message": 'floor is {floor}', "start_byte": 0, "end_byte": 1})
`
	rule := NewSource(source, Meta{ID: "script.config"}, polyglint.Requires{Syntax: true})
	findings, err := rule.Visit(context.Background(), newTestRuleContext())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "floor is warning", findings[0].Message)
}

func TestScriptRule_SymbolsAndImportsHostFunctions(t *testing.T) {
	source := `
syms := symbols()
imps := imports()
emit({"message": 'symbols={len(syms)} imports={len(imps)}', "start_byte": 0, "end_byte": 1})
`
	rule := NewSource(source, Meta{ID: "script.counts"}, polyglint.Requires{Syntax: true, Scopes: true})
	findings, err := rule.Visit(context.Background(), newTestRuleContext())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "symbols=0 imports=0", findings[0].Message)
}

func TestScriptRule_EvalErrorSurfacesAsGoError(t *testing.T) {
	rule := NewSource(`this is not valid risor syntax {{{`, Meta{ID: "script.broken"}, polyglint.Requires{Syntax: true})
	_, err := rule.Visit(context.Background(), newTestRuleContext())
	require.Error(t, err)
}
