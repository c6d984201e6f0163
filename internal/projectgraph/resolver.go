package projectgraph

import (
	"path"
	"strings"

	"github.com/arnavsurve/polyglint/internal/projectindex"
)

// languageConventions describes the file-resolution conventions for one
// language's import system, per spec §4.4 "Resolution rules, per language".
type languageConventions struct {
	extensions []string // tried as module+ext
	indexFiles []string // tried as module/indexFile
}

// defaultConventions covers the languages the built-in adapters support.
// A language with no entry here still resolves via bare known-file lookup
// and external-namespace matching, just without extension/index probing.
var defaultConventions = map[string]languageConventions{
	"python": {
		extensions: []string{".py"},
		indexFiles: []string{"__init__.py"},
	},
	"typescript": {
		extensions: []string{".ts", ".tsx", ".js", ".jsx", ".mjs"},
		indexFiles: []string{"index.ts", "index.tsx", "index.js", "index.jsx", "index.mjs"},
	},
	"javascript": {
		extensions: []string{".js", ".jsx", ".mjs", ".ts", ".tsx"},
		indexFiles: []string{"index.js", "index.jsx", "index.mjs", "index.ts", "index.tsx"},
	},
	"go": {
		extensions: []string{".go"},
	},
}

// ImportResolver attempts, in order: (a) internal module lookup against
// known project files, (b) filesystem resolution using language-specific
// path conventions, (c) external-namespace matching. It never errs —
// resolution failure is the data value ImportMissing, not an engine error
// (§4.4 Failure model).
type ImportResolver struct {
	knownFiles map[string]bool    // absolute/cleaned file paths present in this project
	external   map[string][]string // language -> recognized external namespace prefixes
}

// NewImportResolver builds a resolver over the given set of project files
// and per-language external namespace lists (standard library + popular
// third-party packages, per §4.4).
func NewImportResolver(files []string, external map[string][]string) *ImportResolver {
	r := &ImportResolver{
		knownFiles: make(map[string]bool, len(files)),
		external:   external,
	}
	for _, f := range files {
		r.knownFiles[path.Clean(f)] = true
	}
	return r
}

// Resolve resolves one import descriptor into an ImportEdge.
//
// module is expected in slash-separated form (callers translate a
// language's native module syntax — dotted for Python, bare specifiers for
// JS — into slash form before calling Resolve). level is the number of
// leading relative path components to climb before joining module, 0 for
// an absolute import.
func (r *ImportResolver) Resolve(importingFile, lang, module string, level int) projectindex.ImportEdge {
	conv := defaultConventions[lang]

	if level > 0 {
		base := path.Dir(importingFile)
		for i := 1; i < level; i++ {
			base = path.Dir(base)
		}
		joined := path.Join(base, module)
		if edge, ok := r.tryResolve(importingFile, joined, conv); ok {
			return edge
		}
		return r.missing(importingFile, module, r.triedPaths(joined, conv))
	}

	// Internal module lookup: module taken as a project-relative path, with
	// conv's extension/index-file candidates, matched exactly against the
	// known files. No base-name search across directories is done.
	if edge, ok := r.tryResolve(importingFile, module, conv); ok {
		return edge
	}

	// Absolute import: search from the importing file's directory upward
	// toward the project root, stopping at the first match.
	dir := path.Dir(importingFile)
	var tried []string
	for {
		joined := path.Join(dir, module)
		t := r.triedPaths(joined, conv)
		tried = append(tried, t...)
		for _, cand := range t {
			if r.knownFiles[cand] {
				return projectindex.ImportEdge{SourceFile: importingFile, Target: cand, Kind: projectindex.ImportResolvedFile}
			}
		}
		parent := path.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if r.isExternal(lang, module) {
		return projectindex.ImportEdge{SourceFile: importingFile, Target: module, Kind: projectindex.ImportExternal}
	}

	return r.missing(importingFile, module, tried)
}

func (r *ImportResolver) tryResolve(importingFile, candidateBase string, conv languageConventions) (projectindex.ImportEdge, bool) {
	for _, cand := range r.triedPaths(candidateBase, conv) {
		if r.knownFiles[cand] {
			return projectindex.ImportEdge{SourceFile: importingFile, Target: cand, Kind: projectindex.ImportResolvedFile}, true
		}
	}
	return projectindex.ImportEdge{}, false
}

// triedPaths enumerates every candidate file path for a module base path
// under conv's extension/index-file conventions. When conv has no
// extensions or index files configured, the base path itself is the only
// candidate.
func (r *ImportResolver) triedPaths(base string, conv languageConventions) []string {
	base = path.Clean(base)
	var out []string
	if len(conv.extensions) == 0 && len(conv.indexFiles) == 0 {
		out = append(out, base)
		return out
	}
	for _, ext := range conv.extensions {
		if strings.HasSuffix(base, ext) {
			out = append(out, base)
		} else {
			out = append(out, base+ext)
		}
	}
	for _, idx := range conv.indexFiles {
		out = append(out, path.Join(base, idx))
	}
	return out
}

func (r *ImportResolver) isExternal(lang, module string) bool {
	for _, ns := range r.external[lang] {
		if module == ns || strings.HasPrefix(module, ns+"/") || strings.HasPrefix(module, ns+".") {
			return true
		}
	}
	return false
}

func (r *ImportResolver) missing(importingFile, module string, tried []string) projectindex.ImportEdge {
	return projectindex.ImportEdge{
		SourceFile: importingFile,
		Target:     module,
		Kind:       projectindex.ImportMissing,
		TriedPaths: tried,
	}
}
