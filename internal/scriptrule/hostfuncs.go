package scriptrule

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/arnavsurve/polyglint"
)

// makeSymbolsFn exposes ctx.Scopes.Symbols() as a Risor list of maps, the
// script-facing equivalent of the teacher's symbols_by_file host function
// (storefuncs.go) but reading from the in-memory ScopeGraph instead of
// SQLite. symbols() takes no arguments; scripts wanting a particular scope
// filter in Risor itself (`symbols().filter(s => s["kind"] == "function")`)
// rather than the host function growing a query-parameter surface.
func makeSymbolsFn(rctx *polyglint.RuleContext) *object.Builtin {
	return object.NewBuiltin("symbols", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("symbols", 0, len(args))
		}
		if rctx.Scopes == nil {
			return object.NewList(nil)
		}
		var out []object.Object
		for _, sym := range rctx.Scopes.Symbols() {
			out = append(out, object.NewMap(map[string]object.Object{
				"name":       object.NewString(sym.Name),
				"kind":       object.NewString(sym.Kind),
				"scope_id":   object.NewInt(int64(sym.ScopeID)),
				"start_byte": object.NewInt(int64(sym.Start)),
				"end_byte":   object.NewInt(int64(sym.End)),
			}))
		}
		return object.NewList(out)
	})
}

// makeRefsFn exposes ctx.Scopes.Refs() the same way.
func makeRefsFn(rctx *polyglint.RuleContext) *object.Builtin {
	return object.NewBuiltin("refs", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("refs", 0, len(args))
		}
		if rctx.Scopes == nil {
			return object.NewList(nil)
		}
		var out []object.Object
		for _, ref := range rctx.Scopes.Refs() {
			out = append(out, object.NewMap(map[string]object.Object{
				"name":     object.NewString(ref.Name),
				"scope_id": object.NewInt(int64(ref.ScopeID)),
				"byte":     object.NewInt(int64(ref.Byte)),
			}))
		}
		return object.NewList(out)
	})
}

// makeImportsFn exposes the current file's import descriptors via the
// adapter directly (imports are a syntax-level concern, tier 0, not part
// of ScopeGraph).
func makeImportsFn(rctx *polyglint.RuleContext) *object.Builtin {
	return object.NewBuiltin("imports", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("imports", 0, len(args))
		}
		if !rctx.Adapter.Capabilities().Imports {
			return object.NewList(nil)
		}
		descs, err := rctx.Adapter.IterImports(rctx.Tree)
		if err != nil {
			return object.Errorf("imports: %v", err)
		}
		var out []object.Object
		for _, d := range descs {
			out = append(out, object.NewMap(map[string]object.Object{
				"module":     object.NewString(d.Module),
				"level":      object.NewInt(int64(d.Level)),
				"start_byte": object.NewInt(int64(d.Start)),
				"end_byte":   object.NewInt(int64(d.End)),
			}))
		}
		return object.NewList(out)
	})
}

// makeConfigGetFn exposes rctx.Config as a single lookup function rather
// than handing the whole map to the script, mirroring RuleContext.Config's
// "each rule documents the keys it reads" discipline (§9 Configuration
// passing) at the script boundary too.
func makeConfigGetFn(rctx *polyglint.RuleContext) *object.Builtin {
	return object.NewBuiltin("config_get", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("config_get", 1, len(args))
		}
		key, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("config_get: key must be a string, got %s", args[0].Type())
		}
		return object.NewString(rctx.Config[key.Value()])
	})
}
