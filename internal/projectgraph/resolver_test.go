package projectgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/polyglint/internal/projectindex"
)

func TestImportResolver_ResolvesAbsoluteImportUpward(t *testing.T) {
	r := NewImportResolver([]string{"pkg/nowhere.py", "pkg/main.py"}, nil)
	edge := r.Resolve("pkg/main.py", "python", "nowhere", 0)
	assert.Equal(t, projectindex.ImportResolvedFile, edge.Kind)
	assert.Equal(t, "pkg/nowhere.py", edge.Target)
}

func TestImportResolver_MissingImportCarriesTriedPaths(t *testing.T) {
	r := NewImportResolver([]string{"pkg/main.py"}, nil)
	edge := r.Resolve("pkg/main.py", "python", "nowhere", 0)
	assert.Equal(t, projectindex.ImportMissing, edge.Kind)
	assert.NotEmpty(t, edge.TriedPaths)
}

func TestImportResolver_RecognizesExternalNamespace(t *testing.T) {
	r := NewImportResolver([]string{"pkg/main.py"}, map[string][]string{"python": {"os", "sys"}})
	edge := r.Resolve("pkg/main.py", "python", "os", 0)
	assert.Equal(t, projectindex.ImportExternal, edge.Kind)
}

func TestImportResolver_RelativeImportClimbsLevels(t *testing.T) {
	r := NewImportResolver([]string{"pkg/sub/a.py", "pkg/sibling.py"}, nil)
	// from pkg/sub/a.py, "from ..sibling import x" is level=2, module="sibling"
	edge := r.Resolve("pkg/sub/a.py", "python", "sibling", 2)
	require.Equal(t, projectindex.ImportResolvedFile, edge.Kind)
	assert.Equal(t, "pkg/sibling.py", edge.Target)
}

func TestImportResolver_IndexFileConvention(t *testing.T) {
	r := NewImportResolver([]string{"pkg/util/index.ts"}, nil)
	edge := r.Resolve("pkg/main.ts", "typescript", "util", 0)
	assert.Equal(t, projectindex.ImportResolvedFile, edge.Kind)
	assert.Equal(t, "pkg/util/index.ts", edge.Target)
}
