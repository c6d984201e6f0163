package rules

import "github.com/arnavsurve/polyglint"

// RULES is the built-in rule provider's collection, the "module-level
// RULES sequence" form of the rule discovery contract (§6). Callers pass
// it to Registry.RegisterAll; every entry is a plain package variable, not
// a registration side effect.
var RULES = []polyglint.Rule{
	UnusedImport,
	DuplicateDefinition,
	MissingImportTarget,
	LongParameterList,
	TermConsistency,
}
