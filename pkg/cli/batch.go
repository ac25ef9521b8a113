package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/githubnext/xmlannotate/pkg/annotate"
	"github.com/githubnext/xmlannotate/pkg/config"
	"github.com/githubnext/xmlannotate/pkg/console"
	"github.com/githubnext/xmlannotate/pkg/constants"
	"github.com/sourcegraph/conc/pool"
)

// BatchJob pairs a document with the diagnostics produced for it
type BatchJob struct {
	Document    string
	Diagnostics string
	Output      string
	ErrorsLog   string
}

// BatchResult is the outcome of one job
type BatchResult struct {
	Job    BatchJob
	Result *annotate.Result
	Error  error
}

// FindBatchJobs pairs every "<name>.xml" in dir with the first existing
// "<name>.diagnostics.*" file. Documents without diagnostics and previously
// annotated outputs are skipped. Jobs are sorted by document path.
func FindBatchJobs(dir string) ([]BatchJob, error) {
	docs, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find XML documents: %w", err)
	}
	sort.Strings(docs)

	var jobs []BatchJob
	for _, doc := range docs {
		if strings.HasSuffix(doc, constants.AnnotatedSuffix) {
			continue
		}
		base := strings.TrimSuffix(doc, ".xml")
		for _, ext := range constants.DiagnosticsExtensions {
			candidate := base + ext
			if _, err := os.Stat(candidate); err == nil {
				jobs = append(jobs, BatchJob{
					Document:    doc,
					Diagnostics: candidate,
					Output:      base + constants.AnnotatedSuffix,
					ErrorsLog:   base + constants.ErrorsLogSuffix,
				})
				break
			}
		}
	}
	return jobs, nil
}

// RunBatchJobs annotates jobs with at most workers documents in flight.
// Results come back in job order.
func RunBatchJobs(jobs []BatchJob, cfg config.Config, workers int, progress func(done int)) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	var done atomic.Int64

	p := pool.NewWithResults[BatchResult]().WithMaxGoroutines(workers)
	for _, job := range jobs {
		p.Go(func() BatchResult {
			opts := NewAnnotateOptions(cfg, job.Document, job.Diagnostics)
			opts.Output = job.Output
			opts.ErrorsLog = job.ErrorsLog
			result, err := AnnotateFile(opts)
			if progress != nil {
				progress(int(done.Add(1)))
			}
			return BatchResult{Job: job, Result: result, Error: err}
		})
	}
	results := p.Wait()

	// conc returns results in completion order
	order := make(map[string]int, len(jobs))
	for i, job := range jobs {
		order[job.Document] = i
	}
	sort.Slice(results, func(a, b int) bool {
		return order[results[a].Job.Document] < order[results[b].Job.Document]
	})
	return results
}

// RunBatch annotates every paired document in dir and prints a results table
func RunBatch(dir string, cfg config.Config, workers int, verbose bool) error {
	jobs, err := FindBatchJobs(dir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println(console.FormatWarningMessage(fmt.Sprintf("No documents with diagnostics found in %s", dir)))
		return nil
	}
	if verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Annotating %d documents with %d workers", len(jobs), workers)))
	}

	spinner := console.NewSpinner(fmt.Sprintf("Annotating 0/%d documents...", len(jobs)))
	spinner.Start()
	var mu sync.Mutex
	results := RunBatchJobs(jobs, cfg, workers, func(done int) {
		mu.Lock()
		defer mu.Unlock()
		if !spinner.Enabled() && verbose {
			fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Annotated %d/%d documents", done, len(jobs))))
			return
		}
		spinner.SetMessage(fmt.Sprintf("Annotating %d/%d documents...", done, len(jobs)))
	})
	spinner.Stop()

	fmt.Print(RenderBatchResults(results))

	var failed int
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("%s: %v", console.ToRelativePath(r.Job.Document), r.Error)))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("Annotated %d documents", len(results))))
	return nil
}

// RenderBatchResults renders one row per document plus a totals footer
func RenderBatchResults(results []BatchResult) string {
	var rows [][]string
	var diagnostics, invalid, suggestions int
	for _, r := range results {
		name := filepath.Base(r.Job.Document)
		if r.Error != nil {
			rows = append(rows, []string{name, "-", "-", "-", "failed"})
			continue
		}
		status := "valid"
		if !r.Result.Valid() {
			status = "annotated"
		}
		diagnostics += r.Result.Diagnostics
		invalid += r.Result.Invalid
		suggestions += r.Result.Suggestions
		rows = append(rows, []string{
			name,
			strconv.Itoa(r.Result.Diagnostics),
			strconv.Itoa(r.Result.Invalid),
			strconv.Itoa(r.Result.Suggestions),
			status,
		})
	}
	return console.RenderTable(console.Table{
		Title:   "Batch results",
		Headers: []string{"Document", "Diagnostics", "Invalid", "Suggestions", "Status"},
		Rows:    rows,
		Footer: []string{
			fmt.Sprintf("%d documents", len(results)),
			strconv.Itoa(diagnostics),
			strconv.Itoa(invalid),
			strconv.Itoa(suggestions),
			"",
		},
	})
}
