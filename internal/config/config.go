package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rohmanhakim/csp-hasher/internal/digest"
	"github.com/rohmanhakim/csp-hasher/pkg/fileutil"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// FormatList prints one hash expression per line.
	FormatList OutputFormat = "list"
	// FormatDirective prints CSP directives per document.
	FormatDirective OutputFormat = "directive"
	// FormatJSON prints a manifest of every document.
	FormatJSON OutputFormat = "json"
)

func (f OutputFormat) Valid() bool {
	switch f {
	case FormatList, FormatDirective, FormatJSON:
		return true
	default:
		return false
	}
}

type Config struct {
	//===============
	//  Input
	//===============
	// Documents to hash: file paths, or "-" for standard input.
	sources []string

	//===============
	//  Hashing
	//===============
	// Algorithms every inline element is hashed with. Each algorithm
	// contributes its own expressions to the result.
	algorithms []digest.Algorithm
	// Maximum number of documents processed concurrently.
	concurrency int

	//===============
	// Output
	//===============
	// Report format: list, directive or json
	format OutputFormat
	// File the report is written to. Empty means standard output.
	outputPath string

	//===============
	// Logging
	//===============
	// slog handler: text or json
	logFormat string
	// Minimum level: debug, info, warn or error
	logLevel string
}

type configDTO struct {
	Sources     []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	Algorithms  []string `json:"algorithms,omitempty" yaml:"algorithms,omitempty"`
	Concurrency int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	Format      string   `json:"format,omitempty" yaml:"format,omitempty"`
	OutputPath  string   `json:"outputPath,omitempty" yaml:"outputPath,omitempty"`
	LogFormat   string   `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
	LogLevel    string   `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

func newConfigFromDTO(dto configDTO, sources []string) (Config, error) {
	// Sources given on the command line win over the file
	if len(sources) == 0 {
		sources = dto.Sources
	}
	builder := WithDefault(sources)

	if len(dto.Algorithms) > 0 {
		algos := make([]digest.Algorithm, 0, len(dto.Algorithms))
		for _, name := range dto.Algorithms {
			algo, err := digest.ParseAlgorithm(name)
			if err != nil {
				return Config{}, fmt.Errorf("%w: algorithms: %s", ErrInvalidConfig, err.Error())
			}
			algos = append(algos, algo)
		}
		builder = builder.WithAlgorithms(algos)
	}
	if dto.Concurrency != 0 {
		builder = builder.WithConcurrency(dto.Concurrency)
	}
	if dto.Format != "" {
		builder = builder.WithFormat(OutputFormat(dto.Format))
	}
	if dto.OutputPath != "" {
		builder = builder.WithOutputPath(dto.OutputPath)
	}
	if dto.LogFormat != "" {
		builder = builder.WithLogFormat(dto.LogFormat)
	}
	if dto.LogLevel != "" {
		builder = builder.WithLogLevel(dto.LogLevel)
	}

	return builder.Build()
}

// WithConfigFile loads a JSON or YAML config file, chosen by extension
// (.yaml and .yml are YAML, anything else JSON). sources, when non-empty,
// replaces the sources listed in the file.
func WithConfigFile(path string, sources []string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	switch strings.ToLower(fileutil.GetFileExtension(path)) {
	case "yaml", "yml":
		err = yaml.Unmarshal(configContent, &cfgDTO)
	default:
		err = json.Unmarshal(configContent, &cfgDTO)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO, sources)
}

// WithDefault creates a new Config with the provided sources and default values for all other fields.
// sources is mandatory; Build returns an error when it is empty.
func WithDefault(sources []string) *Config {
	defaultConfig := Config{
		sources:     sources,
		algorithms:  []digest.Algorithm{digest.SHA256},
		concurrency: 4,
		format:      FormatList,
		outputPath:  "",
		logFormat:   "text",
		logLevel:    "warn",
	}
	return &defaultConfig
}

func (c *Config) WithSources(sources []string) *Config {
	c.sources = sources
	return c
}

func (c *Config) WithAlgorithms(algos []digest.Algorithm) *Config {
	c.algorithms = algos
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithFormat(format OutputFormat) *Config {
	c.format = format
	return c
}

func (c *Config) WithOutputPath(path string) *Config {
	c.outputPath = path
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) Build() (Config, error) {
	if len(c.sources) == 0 {
		return Config{}, fmt.Errorf("%w: sources cannot be empty", ErrInvalidConfig)
	}
	stdin := 0
	for _, s := range c.sources {
		if s == "" {
			return Config{}, fmt.Errorf("%w: sources cannot contain an empty path", ErrInvalidConfig)
		}
		if s == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return Config{}, fmt.Errorf("%w: standard input (-) can be read only once", ErrInvalidConfig)
	}

	if len(c.algorithms) == 0 {
		return Config{}, fmt.Errorf("%w: algorithms cannot be empty", ErrInvalidConfig)
	}
	seen := make(map[digest.Algorithm]bool, len(c.algorithms))
	algos := make([]digest.Algorithm, 0, len(c.algorithms))
	for _, a := range c.algorithms {
		if !a.Valid() {
			return Config{}, fmt.Errorf("%w: unknown algorithm %s", ErrInvalidConfig, a)
		}
		if !seen[a] {
			seen[a] = true
			algos = append(algos, a)
		}
	}
	c.algorithms = algos

	if c.concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, c.concurrency)
	}
	if !c.format.Valid() {
		return Config{}, fmt.Errorf("%w: format must be list, directive or json, got %q", ErrInvalidConfig, c.format)
	}
	switch strings.ToLower(c.logFormat) {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("%w: log format must be text or json, got %q", ErrInvalidConfig, c.logFormat)
	}
	switch strings.ToLower(c.logLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return Config{}, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.logLevel)
	}

	return *c, nil
}

func (c Config) Sources() []string {
	sources := make([]string, len(c.sources))
	copy(sources, c.sources)
	return sources
}

func (c Config) Algorithms() []digest.Algorithm {
	algos := make([]digest.Algorithm, len(c.algorithms))
	copy(algos, c.algorithms)
	return algos
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) Format() OutputFormat {
	return c.format
}

func (c Config) OutputPath() string {
	return c.outputPath
}

func (c Config) LogFormat() string {
	return c.logFormat
}

func (c Config) LogLevel() string {
	return c.logLevel
}
