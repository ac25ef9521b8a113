package annotate

// Result summarises one annotation run. It is written as the machine-readable
// report in JSON or msgpack form.
type Result struct {
	Document    string       `json:"document,omitempty" msgpack:"document,omitempty"`
	Diagnostics int          `json:"diagnostics" msgpack:"diagnostics"`
	Classified  int          `json:"classified" msgpack:"classified"`
	Elements    int          `json:"elements" msgpack:"elements"`
	Invalid     int          `json:"invalid" msgpack:"invalid"`
	Suggestions int          `json:"suggestions" msgpack:"suggestions"`
	Entries     []Entry      `json:"entries,omitempty" msgpack:"entries,omitempty"`
	Unresolved  []Unresolved `json:"unresolved,omitempty" msgpack:"unresolved,omitempty"`
}

// Entry describes one element that is invalid or carries a suggestion
type Entry struct {
	Path       string `json:"path" msgpack:"path"`
	Line       int    `json:"line,omitempty" msgpack:"line,omitempty"`
	Valid      bool   `json:"valid" msgpack:"valid"`
	Suggestion string `json:"suggestion,omitempty" msgpack:"suggestion,omitempty"`
}

// Unresolved is a diagnostic that could not be attached to any element
type Unresolved struct {
	Message  string `json:"message" msgpack:"message"`
	Location string `json:"location" msgpack:"location"`
}

// Valid reports whether the run found no problem at all
func (r *Result) Valid() bool {
	return r.Diagnostics == 0
}
