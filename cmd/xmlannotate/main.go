package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/githubnext/xmlannotate/pkg/cli"
	"github.com/githubnext/xmlannotate/pkg/config"
	"github.com/githubnext/xmlannotate/pkg/console"
	"github.com/githubnext/xmlannotate/pkg/constants"
	"github.com/spf13/cobra"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var (
	verbose    bool
	configPath string
)

// validateReportFormat validates the report format flag value
func validateReportFormat(format string) error {
	if format != "json" && format != "msgpack" {
		return fmt.Errorf("invalid report format '%s'. Must be 'json' or 'msgpack'", format)
	}
	return nil
}

// loadConfig resolves the configuration file or exits
func loadConfig() config.Config {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
	if verbose && cfg.Path != "" {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Using configuration %s", cfg.Path)))
	}
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   constants.CLIName,
	Short: "Annotate XML documents with schema validation results",
	Long: `Annotate XML documents with schema validation results.

Every element of the document is marked valid or invalid from the diagnostics a
schema validator reported for it. Messages the tool recognises also produce a
repair suggestion attached to the element they concern.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <document.xml> <diagnostics>",
	Short: "Annotate a document with the diagnostics reported for it",
	Long: `Annotate a document with the diagnostics reported for it.

Diagnostics are read from a YAML or JSON diagnostics file, or from the text
output of a validator for any other extension.

Examples:
  ` + constants.CLIName + ` annotate cars.xml cars.diagnostics.yaml
  ` + constants.CLIName + ` annotate cars.xml xmllint.log -o cars.annotated.xml
  ` + constants.CLIName + ` annotate cars.xml cars.diagnostics.yaml --report report.json
  ` + constants.CLIName + ` annotate cars.xml cars.diagnostics.yaml --show
  ` + constants.CLIName + ` annotate cars.xml cars.diagnostics.yaml --watch`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		opts := cli.NewAnnotateOptions(cfg, args[0], args[1])
		opts.Verbose = verbose

		if cmd.Flags().Changed("output") {
			opts.Output, _ = cmd.Flags().GetString("output")
		}
		if cmd.Flags().Changed("errors-log") {
			opts.ErrorsLog, _ = cmd.Flags().GetString("errors-log")
		}
		if cmd.Flags().Changed("report-format") {
			opts.ReportFormat, _ = cmd.Flags().GetString("report-format")
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			opts.Recover = false
		}
		opts.ReportPath, _ = cmd.Flags().GetString("report")
		opts.Show, _ = cmd.Flags().GetBool("show")
		watch, _ := cmd.Flags().GetBool("watch")

		if err := validateReportFormat(opts.ReportFormat); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}

		run := cli.RunAnnotate
		if watch {
			run = cli.WatchAnnotate
		}
		if err := run(opts); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Annotate every document in a directory that has diagnostics",
	Long: `Annotate every document in a directory that has diagnostics.

Each <name>.xml is paired with the first existing <name>.diagnostics.yaml,
.yml, .json, .log or .txt file and written to <name>` + constants.AnnotatedSuffix + `.

Examples:
  ` + constants.CLIName + ` batch ./fixtures
  ` + constants.CLIName + ` batch ./fixtures -j 8`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		workers := cfg.Workers
		if cmd.Flags().Changed("workers") {
			workers, _ = cmd.Flags().GetInt("workers")
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			cfg.Recover = false
		}
		if err := cli.RunBatch(args[0], cfg, workers, verbose); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var indexCmd = &cobra.Command{
	Use:   "index <document.xml>",
	Short: "Print the source line of every element, attribute and tail of a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		elementsOnly, _ := cmd.Flags().GetBool("elements")
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			cfg.Recover = false
		}
		if err := cli.PrintIndex(os.Stdout, args[0], cfg.Recover, elementsOnly); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify [message...]",
	Short: "Classify validator messages and show the suggestion each produces",
	Long: `Classify validator messages and show the suggestion each produces.

Messages are taken from the arguments, or read one per line from stdin when
none are given.

Examples:
  ` + constants.CLIName + ` classify "missing required attribute 'id'"
  xmllint --schema cars.xsd cars.xml 2>&1 | ` + constants.CLIName + ` classify`,
	Run: func(cmd *cobra.Command, args []string) {
		messages := args
		if len(messages) == 0 {
			var err error
			if messages, err = cli.ReadMessages(os.Stdin); err != nil {
				fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
				os.Exit(1)
			}
		}
		if err := cli.PrintClassifications(os.Stdout, messages); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Serve the annotate_xml and classify_message tools over stdio",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := cli.RunMCPServer(ctx, cfg, version, verbose); err != nil && ctx.Err() == nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.CLIName, version)))
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing detailed information")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: nearest "+constants.ConfigFileNames[0]+", .yml, .json or .toml)")

	annotateCmd.Flags().StringP("output", "o", constants.DefaultOutputFile, "Path of the annotated document")
	annotateCmd.Flags().String("errors-log", constants.DefaultErrorsLogFile, "Path of the raw diagnostics log (empty to disable)")
	annotateCmd.Flags().String("report", "", "Write a machine-readable run summary to this path")
	annotateCmd.Flags().String("report-format", "json", "Report format (json, msgpack)")
	annotateCmd.Flags().Bool("strict", false, "Fail on malformed XML instead of recovering")
	annotateCmd.Flags().Bool("show", false, "Print every invalid element with its source context")
	annotateCmd.Flags().BoolP("watch", "w", false, "Annotate again whenever the document or diagnostics change")

	batchCmd.Flags().IntP("workers", "j", 4, "Number of documents annotated in parallel")
	batchCmd.Flags().Bool("strict", false, "Fail on malformed XML instead of recovering")

	indexCmd.Flags().Bool("elements", false, "Only list elements")
	indexCmd.Flags().Bool("strict", false, "Fail on malformed XML instead of recovering")

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(mcpServerCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
