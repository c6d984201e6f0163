package projectgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/polyglint/adapter"
	"github.com/arnavsurve/polyglint/adapter/golang"
)

// loadFixture reads one of the checked-in real-world Go source samples
// under testdata/go, used here to exercise Build against an adapter's
// actual tree-sitter output rather than a hand-built fake.
func loadFixture(t *testing.T, rel string) []byte {
	t.Helper()
	text, err := os.ReadFile(filepath.Join("..", "..", "testdata", "go", rel))
	require.NoError(t, err)
	return text
}

func TestBuild_MultiFileGoInterfaceImplementation(t *testing.T) {
	adapters := adapter.NewRegistry()
	golang.Register(adapters)

	iface := loadFixture(t, "level-08-multi-file-interfaces/src/iface.go")
	dog := loadFixture(t, "level-08-multi-file-interfaces/src/dog.go")

	files := []FileInput{
		{Path: "animals/iface.go", Language: "go", Text: iface},
		{Path: "animals/dog.go", Language: "go", Text: dog},
	}
	pg, failures := Build(files, adapters, nil)
	require.Empty(t, failures)

	var names []string
	for _, s := range pg.SymbolIndex.All() {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Animal")
	assert.Contains(t, names, "Mover")
	assert.Contains(t, names, "Dog")
	assert.Contains(t, names, "NewDog")

	dogMethods := pg.SymbolIndex.FindByName("Name")
	require.Len(t, dogMethods, 1)
	assert.Equal(t, "animals/dog.go", dogMethods[0].FilePath)
}

func TestBuild_ScopeLeakFixtureKeepsReceiverNamesSeparate(t *testing.T) {
	adapters := adapter.NewRegistry()
	golang.Register(adapters)

	handlers := loadFixture(t, "level-09-scope-leak-intrafile/src/handlers.go")
	files := []FileInput{{Path: "demo/handlers.go", Language: "go", Text: handlers}}

	pg, failures := Build(files, adapters, nil)
	require.Empty(t, failures)

	var funcs []string
	for _, s := range pg.SymbolIndex.All() {
		if s.Kind == string(adapter.SymbolFunction) {
			funcs = append(funcs, s.Name)
		}
	}
	assert.ElementsMatch(t, []string{"HandleA", "HandleB"}, funcs)
}
