package polyglint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/polyglint/adapter"
	"github.com/arnavsurve/polyglint/adapter/python"
)

func newIncrementalTestEngine(t *testing.T) *Engine {
	t.Helper()
	adapters := adapter.NewRegistry()
	python.Register(adapters)

	rule := NewRuleFunc(
		RuleMeta{ID: "test.import_count", Tier: TierSyntax, Langs: map[string]bool{"python": true}},
		Requires{Syntax: true},
		func(ctx context.Context, rctx *RuleContext) ([]Finding, error) {
			return []Finding{{RuleID: "test.import_count", FilePath: rctx.FilePath, Span: Span{0, 1}, Severity: SeverityInfo, Message: "visited"}}, nil
		},
	)
	registry := NewRegistry()
	registry.Register(rule)
	return NewEngine(adapters, registry)
}

func TestAnalyzeIncremental_EmptyCachePathFallsBackToFullRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))

	e := newIncrementalTestEngine(t)
	result, err := e.AnalyzeIncremental(context.Background(), []string{dir}, RunConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesAnalyzed)
	assert.Len(t, result.Findings, 1)
}

func TestAnalyzeIncremental_SecondRunReusesCacheForUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	cachePath := filepath.Join(t.TempDir(), "cache.db")

	e := newIncrementalTestEngine(t)
	cfg := RunConfig{CachePath: cachePath}

	first, err := e.AnalyzeIncremental(context.Background(), []string{dir}, cfg)
	require.NoError(t, err)
	require.Len(t, first.Findings, 1)

	second, err := e.AnalyzeIncremental(context.Background(), []string{dir}, cfg)
	require.NoError(t, err)
	require.Len(t, second.Findings, 1)
	assert.Equal(t, first.Findings[0].RuleID, second.Findings[0].RuleID)
	assert.Equal(t, first.Findings[0].Message, second.Findings[0].Message)
	assert.Equal(t, 1, second.FilesAnalyzed)
}

func TestAnalyzeIncremental_ChangedContentIsReanalyzed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	cachePath := filepath.Join(t.TempDir(), "cache.db")

	e := newIncrementalTestEngine(t)
	cfg := RunConfig{CachePath: cachePath}

	_, err := e.AnalyzeIncremental(context.Background(), []string{dir}, cfg)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("x = 2\ny = 3\n"), 0o644))
	second, err := e.AnalyzeIncremental(context.Background(), []string{dir}, cfg)
	require.NoError(t, err)
	require.Len(t, second.Findings, 1)
	assert.Equal(t, path, second.Findings[0].FilePath)
}

func TestAnalyzeIncremental_ProjectGraphTierForcesFullRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("from nowhere import x\n"), 0o644))
	cachePath := filepath.Join(t.TempDir(), "cache.db")

	adapters := adapter.NewRegistry()
	python.Register(adapters)
	registry := NewRegistry()
	registry.Register(NewRuleFunc(
		RuleMeta{ID: "test.project_graph_only", Tier: TierProjectGraph, Langs: map[string]bool{"python": true}},
		Requires{Syntax: true, ProjectGraph: true},
		func(ctx context.Context, rctx *RuleContext) ([]Finding, error) { return nil, nil },
	))
	e := NewEngine(adapters, registry)
	e.RegisterProfile("pg_only", AlphaDefaultProfile([]string{"test.project_graph_only"}, nil))

	result, err := e.AnalyzeIncremental(context.Background(), []string{dir}, RunConfig{CachePath: cachePath, ProfileName: "pg_only"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesAnalyzed)
	_, statErr := os.Stat(cachePath)
	assert.True(t, os.IsNotExist(statErr), "the full-run fallback does not open the cache")
}
