package constants

// CLIName is the name used in user-facing output to refer to the command
const CLIName = "xmlannotate"

// Attribute names written onto annotated elements
const (
	DefaultValidAttribute   = "is_valid"
	DefaultSuggestAttribute = "suggest"
)

// Default output locations, relative to the working directory
const (
	DefaultOutputFile    = "modified_source.xml"
	DefaultErrorsLogFile = "validation_errors.log"
)

// AnnotatedSuffix replaces ".xml" for documents written by batch runs
const AnnotatedSuffix = ".annotated.xml"

// ErrorsLogSuffix replaces ".xml" for the errors log of batch runs
const ErrorsLogSuffix = ".errors.log"

// DiagnosticsExtensions lists the diagnostics file suffixes batch mode pairs
// with "<name>.xml", in lookup order
var DiagnosticsExtensions = []string{
	".diagnostics.yaml",
	".diagnostics.yml",
	".diagnostics.json",
	".diagnostics.log",
	".diagnostics.txt",
}

// ConfigFileNames are searched for in the working directory when --config is not given
var ConfigFileNames = []string{
	".xmlannotate.yaml",
	".xmlannotate.yml",
	".xmlannotate.json",
	".xmlannotate.toml",
}
