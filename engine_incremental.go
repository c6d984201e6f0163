package polyglint

import (
	"context"
	"fmt"
	"os"

	"github.com/arnavsurve/polyglint/internal/cache"
)

// AnalyzeIncremental supplements ValidatePaths/ValidateProject (SPEC_FULL
// "Incremental analysis"): given cfg.CachePath, a file whose content hash
// matches the cache's recorded hash from a previous run against the same
// path contributes its previously-cached findings without being re-parsed
// or re-ruled, the findings-level analogue of the teacher's
// computeBlastRadius incremental reindex (mvp-joe-canopy's engine.go).
//
// This is additive: cfg.CachePath == "" (or the active profile selecting
// any tier-2 rule, since cross-file findings can change without the
// file's own content changing) falls back to a full ValidatePaths run,
// so §4.5/§4.7's single-run semantics hold whenever the cache isn't in
// play.
func (e *Engine) AnalyzeIncremental(ctx context.Context, paths []string, cfg RunConfig) (*Result, error) {
	if cfg.CachePath == "" {
		return e.ValidatePaths(ctx, paths, cfg)
	}

	profile, err := e.resolveProfile(cfg.ProfileName)
	if err != nil {
		return nil, err
	}
	langs := e.planLanguages(cfg)
	if e.needsProjectGraph(profile, langs) {
		// Cross-file rules can change a file's findings without that
		// file's own bytes changing (e.g. a sibling file's import now
		// resolves); the cache only tracks per-file content hashes, so
		// it cannot safely serve these. Fall back rather than risk a
		// stale result.
		return e.ValidatePaths(ctx, paths, cfg)
	}

	c, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("polyglint: open cache: %w", err)
	}
	defer c.Close()

	files, err := discoverFiles(paths, cfg.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("polyglint: discover files: %w", err)
	}

	result := &Result{
		Stats: Stats{
			PerRuleCounts:     make(map[string]int),
			PerLanguageCounts: make(map[string]int),
		},
	}

	var freshTasks []fileTask
	var reused []Finding

	for _, path := range files {
		lang, ok := e.adapters.LanguageForFile(path)
		if !ok || !langs[lang] {
			continue
		}

		text, rerr := os.ReadFile(path)
		if rerr != nil {
			result.Errors = append(result.Errors, EngineError{Kind: "read_error", FilePath: path, Message: rerr.Error()})
			continue
		}
		hash := cache.ContentHash(text)

		prev, hit, lerr := c.Load(path)
		if lerr != nil {
			result.Errors = append(result.Errors, EngineError{Kind: "cache_error", FilePath: path, Message: lerr.Error()})
			hit = false
		}

		if hit && prev.ContentHash == hash && prev.Language == lang {
			cached, ferr := c.Findings(path)
			if ferr == nil {
				result.FilesAnalyzed++
				result.Stats.PerLanguageCounts[lang]++
				for _, cf := range cached {
					reused = append(reused, Finding{
						RuleID:   cf.RuleID,
						Message:  cf.Message,
						FilePath: path,
						Span:     Span{Start: cf.Start, End: cf.End},
						Severity: Severity(cf.Severity),
					})
				}
				continue
			}
		}

		freshTasks = append(freshTasks, fileTask{path: path, lang: lang})
	}

	fresh := e.runParallel(ctx, freshTasks, profile, nil, cfg)
	result.FilesAnalyzed += fresh.FilesAnalyzed
	result.Errors = append(result.Errors, fresh.Errors...)
	for lang, n := range fresh.Stats.PerLanguageCounts {
		result.Stats.PerLanguageCounts[lang] += n
	}

	for _, task := range freshTasks {
		text, rerr := os.ReadFile(task.path)
		if rerr != nil {
			continue
		}
		var toStore []cache.CachedFinding
		for _, f := range fresh.Findings {
			if f.FilePath != task.path {
				continue
			}
			toStore = append(toStore, cache.CachedFinding{
				RuleID: f.RuleID, Message: f.Message, Start: f.Span.Start, End: f.Span.End, Severity: string(f.Severity),
			})
		}
		if err := c.Store(cache.FileState{Path: task.path, Language: task.lang, ContentHash: cache.ContentHash(text)}); err != nil {
			result.Errors = append(result.Errors, EngineError{Kind: "cache_error", FilePath: task.path, Message: err.Error()})
			continue
		}
		if err := c.StoreFindings(task.path, toStore); err != nil {
			result.Errors = append(result.Errors, EngineError{Kind: "cache_error", FilePath: task.path, Message: err.Error()})
		}
	}

	result.Findings = append(reused, fresh.Findings...)
	finalize(result, profile)
	return result, nil
}
