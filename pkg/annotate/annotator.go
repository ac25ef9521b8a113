package annotate

import (
	"github.com/githubnext/xmlannotate/pkg/constants"
	"github.com/githubnext/xmlannotate/pkg/xmltree"
)

// Attributes names the attributes the annotator writes
type Attributes struct {
	Valid   string
	Suggest string
}

// DefaultAttributes returns the is_valid / suggest pair
func DefaultAttributes() Attributes {
	return Attributes{
		Valid:   constants.DefaultValidAttribute,
		Suggest: constants.DefaultSuggestAttribute,
	}
}

func (a Attributes) withDefaults() Attributes {
	def := DefaultAttributes()
	if a.Valid == "" {
		a.Valid = def.Valid
	}
	if a.Suggest == "" {
		a.Suggest = def.Suggest
	}
	return a
}

// Stats summarises one annotation pass
type Stats struct {
	Elements    int `json:"elements" msgpack:"elements"`
	Invalid     int `json:"invalid" msgpack:"invalid"`
	Suggestions int `json:"suggestions" msgpack:"suggestions"`
}

// Annotate marks every element of doc with a validity attribute and, where
// findings were aggregated for its path, a suggestion attribute. A suggestion
// left over from an earlier pass is removed when nothing applies now.
func Annotate(doc *xmltree.Document, errors ErrorPathSet, findings FindingSet, attrs Attributes) Stats {
	var stats Stats
	annotateWith(doc, errors, findings, attrs, func(_ *xmltree.Element, _ string, valid bool, suggestion string) {
		stats.Elements++
		if !valid {
			stats.Invalid++
		}
		if suggestion != "" {
			stats.Suggestions++
		}
	})
	return stats
}

func annotateWith(doc *xmltree.Document, errors ErrorPathSet, findings FindingSet, attrs Attributes, visit func(e *xmltree.Element, path string, valid bool, suggestion string)) {
	if doc == nil || doc.Root == nil {
		return
	}
	attrs = attrs.withDefaults()

	xmltree.Walk(doc.Root, func(e *xmltree.Element, path string) {
		valid := !errors.Has(path)
		if valid {
			e.SetAttr(attrs.Valid, "true")
		} else {
			e.SetAttr(attrs.Valid, "false")
		}

		var suggestion string
		if bucket, ok := findings[path]; ok {
			suggestion = bucket.Suggestion()
		}
		if suggestion != "" {
			e.SetAttr(attrs.Suggest, suggestion)
		} else {
			e.RemoveAttr(attrs.Suggest)
		}
		visit(e, path, valid, suggestion)
	})
}
