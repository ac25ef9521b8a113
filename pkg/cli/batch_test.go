package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/githubnext/xmlannotate/pkg/annotate"
	"github.com/githubnext/xmlannotate/pkg/config"
)

func TestFindBatchJobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.xml", "<a/>")
	writeFile(t, dir, "a.diagnostics.log", "")
	writeFile(t, dir, "a.diagnostics.yaml", "diagnostics: []\n")
	writeFile(t, dir, "b.xml", "<b/>")
	writeFile(t, dir, "c.xml", "<c/>")
	writeFile(t, dir, "c.diagnostics.txt", "")
	writeFile(t, dir, "c.annotated.xml", "<c/>")

	jobs, err := FindBatchJobs(dir)
	if err != nil {
		t.Fatalf("FindBatchJobs() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %+v", jobs)
	}

	if jobs[0].Document != filepath.Join(dir, "a.xml") {
		t.Errorf("Expected a.xml first, got %s", jobs[0].Document)
	}
	if jobs[0].Diagnostics != filepath.Join(dir, "a.diagnostics.yaml") {
		t.Errorf("Expected YAML diagnostics to win over the log, got %s", jobs[0].Diagnostics)
	}
	if jobs[0].Output != filepath.Join(dir, "a.annotated.xml") || jobs[0].ErrorsLog != filepath.Join(dir, "a.errors.log") {
		t.Errorf("Unexpected output paths: %+v", jobs[0])
	}
	if jobs[1].Diagnostics != filepath.Join(dir, "c.diagnostics.txt") {
		t.Errorf("Unexpected diagnostics for c.xml: %s", jobs[1].Diagnostics)
	}
}

func TestRunBatchJobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "garage.xml", garage)
	writeFile(t, dir, "garage.diagnostics.yaml", garageDiagnostics)
	writeFile(t, dir, "clean.xml", "<clean><x/></clean>")
	writeFile(t, dir, "clean.diagnostics.log", "")
	writeFile(t, dir, "broken.xml", "<broken>")
	writeFile(t, dir, "broken.diagnostics.log", "")

	jobs, err := FindBatchJobs(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Recover = false

	var calls atomic.Int64
	results := RunBatchJobs(jobs, cfg, 2, func(done int) { calls.Add(1) })
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Job != jobs[i] {
			t.Errorf("Result %d is for %s, expected %s", i, r.Job.Document, jobs[i].Document)
		}
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 progress calls, got %d", calls.Load())
	}

	byName := map[string]BatchResult{}
	for _, r := range results {
		byName[filepath.Base(r.Job.Document)] = r
	}
	if byName["broken.xml"].Error == nil {
		t.Errorf("Expected broken.xml to fail in strict mode")
	}
	if r := byName["clean.xml"]; r.Error != nil || !r.Result.Valid() {
		t.Errorf("Expected clean.xml to be valid, got %+v", r)
	}
	if r := byName["garage.xml"]; r.Error != nil || r.Result.Invalid != 2 {
		t.Errorf("Expected garage.xml to have 2 invalid elements, got %+v", r)
	}

	if _, err := os.Stat(filepath.Join(dir, "garage.annotated.xml")); err != nil {
		t.Errorf("Expected annotated output: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "garage.errors.log")); err != nil {
		t.Errorf("Expected errors log: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "clean.errors.log")); !os.IsNotExist(err) {
		t.Errorf("Expected no errors log for a clean document, stat returned %v", err)
	}
}

func TestRenderBatchResults(t *testing.T) {
	results := []BatchResult{
		{Job: BatchJob{Document: "/tmp/a.xml"}, Result: &annotate.Result{Diagnostics: 2, Invalid: 1, Suggestions: 1}},
		{Job: BatchJob{Document: "/tmp/b.xml"}, Result: &annotate.Result{}},
		{Job: BatchJob{Document: "/tmp/c.xml"}, Error: errors.New("boom")},
	}

	out := RenderBatchResults(results)
	for _, want := range []string{"a.xml", "annotated", "b.xml", "valid", "c.xml", "failed", "3 documents"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, out)
		}
	}
}
