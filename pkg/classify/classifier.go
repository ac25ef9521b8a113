package classify

import (
	"regexp"
	"strings"
)

// Classifier maps raw validator text to a finding. Implementations must return
// a Generic finding for text they do not recognise.
type Classifier interface {
	Classify(message string) Finding
}

// ClassifierFunc adapts a function to the Classifier interface
type ClassifierFunc func(message string) Finding

// Classify calls fn(message)
func (fn ClassifierFunc) Classify(message string) Finding {
	return fn(message)
}

var (
	// Unexpected-child shapes are tried most specific first
	unexpectedSinglePattern      = regexp.MustCompile(`Unexpected child with tag '(.+?)' at position \d+\. Tag '(.*?)' expected`)
	unexpectedAlternationPattern = regexp.MustCompile(`Unexpected child with tag '(.+?)' at position \d+\. Tag \(([^)]+)\) expected`)
	unexpectedBarePattern        = regexp.MustCompile(`Unexpected child with tag '(.+?)' at position \d+\.`)

	incompleteSinglePattern      = regexp.MustCompile(`is not complete\. Tag '(.*?)' expected`)
	incompleteAlternationPattern = regexp.MustCompile(`is not complete\. Tag \(([^)]+)\) expected`)

	missingAttributePattern    = regexp.MustCompile(`missing required attribute '(.*?)'`)
	disallowedAttributePattern = regexp.MustCompile(`'([^']*)' attribute not allowed`)
)

// PatternClassifier recognises the fixed set of message shapes emitted by
// xmlschema-style validators
type PatternClassifier struct{}

// NewPatternClassifier returns the default message classifier
func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{}
}

// Classify matches message against the known shapes. At most one shape
// applies; unexpected-child shapes win over the incomplete-content shape.
func (c *PatternClassifier) Classify(message string) Finding {
	if m := unexpectedSinglePattern.FindStringSubmatch(message); m != nil {
		return Finding{Kind: UnexpectedElement, Actual: m[1], Names: []string{m[2]}}
	}
	if m := unexpectedAlternationPattern.FindStringSubmatch(message); m != nil {
		return Finding{Kind: UnexpectedElement, Actual: m[1], Names: splitAlternation(m[2])}
	}
	if m := unexpectedBarePattern.FindStringSubmatch(message); m != nil {
		return Finding{Kind: UnexpectedElement, Actual: m[1]}
	}

	if m := incompleteSinglePattern.FindStringSubmatch(message); m != nil {
		return Finding{Kind: MissingElements, Names: []string{m[1]}}
	}
	if m := incompleteAlternationPattern.FindStringSubmatch(message); m != nil {
		return Finding{Kind: MissingElements, Names: splitAlternation(m[1])}
	}

	if m := missingAttributePattern.FindStringSubmatch(message); m != nil {
		return Finding{Kind: MissingAttributes, Names: []string{m[1]}}
	}
	if m := disallowedAttributePattern.FindStringSubmatch(message); m != nil {
		return Finding{Kind: DisallowedAttributes, Names: []string{m[1]}}
	}

	return Finding{Kind: Generic}
}

// splitAlternation turns "'a' | 'b'|c" into [a b c]
func splitAlternation(group string) []string {
	var tags []string
	for _, part := range strings.Split(group, "|") {
		tag := strings.Trim(strings.TrimSpace(part), "'")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
