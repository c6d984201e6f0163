package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/arnavsurve/polyglint"
)

// writeResultJSON writes the Result document as indented JSON. The structs
// carry no json tags, so keys are the Go field names (Findings,
// FilesAnalyzed, RuleID, FilePath, ...) and a finding's byte range is a
// nested Span object with Start and End; keys are not snake_case.
func writeResultJSON(w io.Writer, r *polyglint.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// writeResultText formats findings as aligned columns, following the
// teacher's tabwriter-based text formatters (cmd/canopy/format.go).
func writeResultText(w io.Writer, r *polyglint.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tRULE\tFILE\tSPAN\tMESSAGE")
	for _, f := range r.Findings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t[%d,%d)\t%s\n", f.Severity, f.RuleID, f.FilePath, f.Span.Start, f.Span.End, f.Message)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d file(s) analyzed, %d finding(s)", r.FilesAnalyzed, len(r.Findings))
	if r.Cancelled {
		fmt.Fprint(w, " (cancelled)")
	}
	fmt.Fprintln(w)

	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "%d engine error(s):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s: %s: %s\n", e.Kind, e.FilePath, e.Message)
		}
	}

	ruleIDs := make([]string, 0, len(r.Stats.PerRuleCounts))
	for id := range r.Stats.PerRuleCounts {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)
	if len(ruleIDs) > 0 {
		fmt.Fprintln(w, "\nby rule:")
		for _, id := range ruleIDs {
			fmt.Fprintf(w, "  %s: %d\n", id, r.Stats.PerRuleCounts[id])
		}
	}
}
