package mapper

// Span is a location in a YAML or JSON source file
type Span struct {
	StartLine  int // 1-based
	StartCol   int // 1-based
	EndLine    int
	EndCol     int
	Confidence float64 // 0.0 - 1.0
	Reason     string
}

// ErrorMeta carries what the schema validator said about the error
type ErrorMeta struct {
	// Keyword is the failing schema keyword: "type", "required", "additionalProperties", ...
	Keyword string
	// Property names the offending or missing property when the keyword has one
	Property string
}
