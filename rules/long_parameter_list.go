package rules

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arnavsurve/polyglint"
)

const defaultMaxParams = 5

// LongParameterList flags a function or method scope with more bound
// params than the configured maximum ("complexity.max_params" in
// RuleContext.Config; defaults to 5 when absent or unparsable).
var LongParameterList = polyglint.NewRuleFunc(
	polyglint.RuleMeta{
		ID:            "complexity.long_parameter_list",
		Category:      "complexity",
		Tier:          polyglint.TierScopes,
		Priority:      polyglint.PriorityP2,
		AutofixSafety: polyglint.AutofixSuggestOnly,
		Description:   "a function or method with more parameters than the configured maximum",
		Langs:         map[string]bool{"go": true, "python": true, "javascript": true, "typescript": true},
	},
	polyglint.Requires{Syntax: true, Scopes: true},
	visitLongParameterList,
)

func visitLongParameterList(_ context.Context, rctx *polyglint.RuleContext) ([]polyglint.Finding, error) {
	maxParams := defaultMaxParams
	if raw, ok := rctx.Config["complexity.max_params"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			maxParams = n
		}
	}

	var out []polyglint.Finding
	for _, scope := range rctx.Scopes.Scopes() {
		if scope.Kind != "function" && scope.Kind != "method" {
			continue
		}

		var first, last = -1, -1
		count := 0
		for _, sym := range rctx.Scopes.SymbolsInScope(scope.ID) {
			if sym.Kind != "param" {
				continue
			}
			count++
			if first == -1 {
				first = sym.Start
			}
			last = sym.End
		}
		if count <= maxParams {
			continue
		}

		span := polyglint.Span{Start: first, End: last}
		if first == -1 {
			span = polyglint.Span{Start: 0, End: 0}
		}
		out = append(out, polyglint.Finding{
			RuleID:   "complexity.long_parameter_list",
			Message:  fmt.Sprintf("%d parameters exceeds the configured maximum of %d", count, maxParams),
			FilePath: rctx.FilePath,
			Span:     span,
			Severity: polyglint.SeverityInfo,
			Meta:     map[string]any{"param_count": count},
		})
	}
	return out, nil
}
