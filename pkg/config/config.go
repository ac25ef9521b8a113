package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/githubnext/xmlannotate/pkg/constants"
	"github.com/githubnext/xmlannotate/pkg/parser"
	"github.com/goccy/go-yaml"
)

// Config holds the settings shared by all commands. Command-line flags
// override these values.
type Config struct {
	ValidAttribute   string `yaml:"valid_attribute" toml:"valid_attribute"`
	SuggestAttribute string `yaml:"suggest_attribute" toml:"suggest_attribute"`
	Output           string `yaml:"output" toml:"output"`
	ErrorsLog        string `yaml:"errors_log" toml:"errors_log"`
	Recover          bool   `yaml:"recover" toml:"recover"`
	ReportFormat     string `yaml:"report_format" toml:"report_format"`
	Workers          int    `yaml:"workers" toml:"workers"`

	// Path is the file the configuration was read from, "" for defaults
	Path string `yaml:"-" toml:"-"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ValidAttribute:   constants.DefaultValidAttribute,
		SuggestAttribute: constants.DefaultSuggestAttribute,
		Output:           constants.DefaultOutputFile,
		ErrorsLog:        constants.DefaultErrorsLogFile,
		Recover:          true,
		ReportFormat:     "json",
		Workers:          4,
	}
}

// Find looks for a configuration file in startDir and its parents
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range constants.ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Resolve loads explicitPath when given, else the nearest configuration file
// above the working directory, else the defaults
func Resolve(explicitPath string) (Config, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}
	path, ok, err := Find(".")
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a YAML, JSON or TOML configuration file over the defaults
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	cfg.Path = path

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var raw map[string]any
		if _, err := toml.Decode(string(content), &raw); err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if err := parser.ValidateConfig(raw, nil, path); err != nil {
			return Config{}, err
		}
		if len(raw) == 0 {
			break
		}
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	case ".yaml", ".yml", ".json":
		var raw map[string]any
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse config: %w", path, err)
		}
		if err := parser.ValidateConfig(raw, content, path); err != nil {
			return Config{}, err
		}
		// an empty or comment-only document would zero the defaults
		if len(raw) == 0 {
			break
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse config: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%s: unsupported config format (use .yaml, .yml, .json or .toml)", path)
	}
	return cfg, nil
}
