package polyglint

import (
	"context"
	"runtime"
	"sync"

	"github.com/arnavsurve/polyglint/internal/projectgraph"
)

// runParallel dispatches fileTasks across a worker pool of size
// cfg.Parallelism (default runtime.NumCPU()), mirroring the teacher's
// three-phase pipeline (engine_parallel.go's IndexFilesParallel in
// mvp-joe-canopy): per-file work is independent once any required
// ProjectGraph has been built (§4.5 Concurrency contract), and workers
// check for cancellation between files, never mid-rule (§5).
func (e *Engine) runParallel(ctx context.Context, tasks []fileTask, profile Profile, pg *projectgraph.ProjectGraph, cfg RunConfig) *Result {
	result := &Result{
		Stats: Stats{
			PerRuleCounts:     make(map[string]int),
			PerLanguageCounts: make(map[string]int),
		},
	}

	if len(tasks) == 0 {
		return result
	}

	numWorkers := cfg.Parallelism
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan fileTask, len(tasks))
	for _, t := range tasks {
		workCh <- t
	}
	close(workCh)

	resultCh := make(chan fileOutcome, len(tasks))
	cancelled := false
	var cancelledMu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range workCh {
				select {
				case <-ctx.Done():
					cancelledMu.Lock()
					cancelled = true
					cancelledMu.Unlock()
					return
				default:
				}

				var outcome fileOutcome
				completed := withFileTimeout(ctx, cfg.PerFileTimeoutMS, func(fileCtx context.Context) {
					outcome = e.analyzeFile(fileCtx, task.path, task.lang, profile, pg, cfg)
				})
				if !completed {
					outcome = fileOutcome{
						path: task.path,
						lang: task.lang,
						findings: []Finding{{
							RuleID:   "engine.file_timeout",
							Message:  "analysis exceeded the per-file timeout",
							FilePath: task.path,
							Span:     Span{0, 0},
							Severity: SeverityError,
						}},
						errs: []EngineError{{Kind: "file_timeout", FilePath: task.path, Message: "per-file timeout exceeded"}},
					}
				}
				resultCh <- outcome
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var allFindings []Finding
	for outcome := range resultCh {
		if outcome.analyzed {
			result.FilesAnalyzed++
		}
		if outcome.lang != "" {
			result.Stats.PerLanguageCounts[outcome.lang]++
		}
		result.Errors = append(result.Errors, outcome.errs...)
		allFindings = append(allFindings, outcome.findings...)
	}

	cancelledMu.Lock()
	result.Cancelled = cancelled
	cancelledMu.Unlock()

	result.Findings = allFindings
	return result
}
