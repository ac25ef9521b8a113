package annotate

import (
	"strings"

	"github.com/githubnext/xmlannotate/pkg/classify"
)

// Bucket holds the findings of a single path. Each structured kind has one
// finding, except unexpected elements which have one per actual tag.
type Bucket struct {
	findings map[classify.Kind][]*classify.Finding
}

// Suggestions renders one sentence per finding, in kind rendering order and
// first-seen order within a kind
func (b *Bucket) Suggestions() []string {
	var sentences []string
	for _, kind := range classify.StructuredKinds() {
		for _, f := range b.findings[kind] {
			if s := f.Suggestion(); s != "" {
				sentences = append(sentences, s)
			}
		}
	}
	return sentences
}

// Suggestion joins the rendered sentences with "; "
func (b *Bucket) Suggestion() string {
	return strings.Join(b.Suggestions(), "; ")
}

// FindingSet maps a document path to the findings aggregated for it
type FindingSet map[string]*Bucket

// ErrorPathSet is the set of document paths known to be invalid
type ErrorPathSet map[string]struct{}

// Has reports whether path was marked invalid
func (s ErrorPathSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Record marks path invalid and, for structured findings, merges f into the
// bucket for (path, f.Kind). Payloads accumulate across calls and are never
// replaced; an unexpected element with a new actual tag gets its own entry.
func Record(findings FindingSet, errors ErrorPathSet, path string, f classify.Finding) {
	errors[path] = struct{}{}
	if !f.Structured() {
		return
	}

	bucket, ok := findings[path]
	if !ok {
		bucket = &Bucket{findings: make(map[classify.Kind][]*classify.Finding)}
		findings[path] = bucket
	}

	for _, existing := range bucket.findings[f.Kind] {
		if existing.Merge(f) {
			return
		}
	}
	copied := classify.Finding{Kind: f.Kind, Actual: f.Actual}
	copied.Merge(f)
	bucket.findings[f.Kind] = append(bucket.findings[f.Kind], &copied)
}
