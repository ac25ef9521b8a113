package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/githubnext/xmlannotate/pkg/annotate"
	"github.com/githubnext/xmlannotate/pkg/classify"
	"github.com/githubnext/xmlannotate/pkg/config"
	"github.com/githubnext/xmlannotate/pkg/console"
	"github.com/githubnext/xmlannotate/pkg/constants"
	"github.com/githubnext/xmlannotate/pkg/parser"
	"github.com/githubnext/xmlannotate/pkg/xmltree"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AnnotateXMLArgs is the input of the annotate_xml tool
type AnnotateXMLArgs struct {
	Document    string                   `json:"document" jsonschema:"the XML document to annotate"`
	Diagnostics []parser.DiagnosticEntry `json:"diagnostics" jsonschema:"validator messages reported for the document"`
	Strict      bool                     `json:"strict,omitempty" jsonschema:"reject malformed XML instead of recovering"`
}

// AnnotateXMLOutput is the structured result of the annotate_xml tool
type AnnotateXMLOutput struct {
	Annotated string          `json:"annotated"`
	Result    annotate.Result `json:"result"`
}

// ClassifyArgs is the input of the classify_message tool
type ClassifyArgs struct {
	Message string `json:"message" jsonschema:"a validator message"`
}

// ClassifyOutput is the structured result of the classify_message tool
type ClassifyOutput struct {
	Kind       string   `json:"kind"`
	Names      []string `json:"names,omitempty"`
	Actual     string   `json:"actual,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// NewMCPServer returns a server exposing the annotation engine as tools.
// Attribute names come from cfg.
func NewMCPServer(cfg config.Config, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: constants.CLIName, Version: version}, nil)

	attrs := annotate.Attributes{Valid: cfg.ValidAttribute, Suggest: cfg.SuggestAttribute}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "annotate_xml",
		Description: "Mark every element of an XML document valid or invalid from validator diagnostics and attach repair suggestions",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnnotateXMLArgs) (*mcp.CallToolResult, AnnotateXMLOutput, error) {
		out, err := annotateXML(args, attrs, !cfg.Recover)
		return nil, out, err
	})

	classifier := classify.NewPatternClassifier()
	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_message",
		Description: "Classify one validator message and return the suggestion it produces",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ClassifyArgs) (*mcp.CallToolResult, ClassifyOutput, error) {
		f := classifier.Classify(args.Message)
		return nil, ClassifyOutput{
			Kind:       f.Kind.String(),
			Names:      f.Names,
			Actual:     f.Actual,
			Suggestion: f.Suggestion(),
		}, nil
	})

	return server
}

func annotateXML(args AnnotateXMLArgs, attrs annotate.Attributes, strict bool) (AnnotateXMLOutput, error) {
	if args.Document == "" {
		return AnnotateXMLOutput{}, errors.New("document is empty")
	}
	doc, err := xmltree.ParseString(args.Document, xmltree.ParseOptions{Recover: !strict && !args.Strict})
	if err != nil {
		return AnnotateXMLOutput{}, err
	}

	diags := make([]annotate.Diagnostic, 0, len(args.Diagnostics))
	for _, entry := range args.Diagnostics {
		d, err := entry.Diagnostic()
		if err != nil {
			return AnnotateXMLOutput{}, err
		}
		diags = append(diags, d)
	}

	result, err := annotate.Run(doc, diags, annotate.Options{Attributes: attrs})
	if err != nil {
		return AnnotateXMLOutput{}, err
	}
	return AnnotateXMLOutput{Annotated: doc.String(), Result: *result}, nil
}

// RunMCPServer serves the tools over stdio until the client disconnects or
// ctx is cancelled
func RunMCPServer(ctx context.Context, cfg config.Config, version string, verbose bool) error {
	if verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage("Starting MCP server on stdio"))
	}
	if err := NewMCPServer(cfg, version).Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
