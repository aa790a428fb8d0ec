package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rohmanhakim/csp-hasher/internal/build"
	"github.com/rohmanhakim/csp-hasher/internal/config"
	"github.com/rohmanhakim/csp-hasher/internal/digest"
	"github.com/rohmanhakim/csp-hasher/internal/logger"
	"github.com/rohmanhakim/csp-hasher/internal/metadata"
	"github.com/rohmanhakim/csp-hasher/internal/report"
	"github.com/rohmanhakim/csp-hasher/internal/scheduler"
	"github.com/rohmanhakim/csp-hasher/internal/storage"
	"github.com/rohmanhakim/csp-hasher/pkg/failure"
	"github.com/rohmanhakim/csp-hasher/pkg/retry"
	"github.com/rohmanhakim/csp-hasher/pkg/timeutil"
	"github.com/spf13/cobra"
)

// reportWriteRetry bounds retries of a report write that failed recoverably (e.g. disk full).
var reportWriteRetry = retry.NewRetryParam(
	3,
	timeutil.NewBackoffParam(100*time.Millisecond, 2.0, time.Second),
)

var (
	cfgFile     string
	algorithms  []string
	format      string
	outputPath  string
	concurrency int
	logFormat   string
	logLevel    string
)

// parseAlgorithms converts flag values to digest algorithms, keeping their order
func parseAlgorithms(names []string) ([]digest.Algorithm, error) {
	var algos []digest.Algorithm
	for _, name := range names {
		algo, err := digest.ParseAlgorithm(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
		}
		algos = append(algos, algo)
	}
	return algos, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "csp-hasher [file...]",
	Short: "Compute Content-Security-Policy hashes for inline scripts and styles.",
	Long: `csp-hasher reads complete HTML documents and prints the CSP hash
expressions ('sha256-...', 'sha384-...', 'sha512-...') of every inline
<script> and <style> element, ready for script-src and style-src directives.

Documents are validated strictly: any parse error rejects the whole document
rather than risk hashing content a browser would see differently.

Pass "-" or no arguments to read a single document from standard input.`,
	Version: build.Summary(),
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := InitConfigWithError(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		os.Exit(Run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, JSON or YAML (e.g., /home/myuser/csp-hasher.yaml)")
	rootCmd.PersistentFlags().StringArrayVar(&algorithms, "algorithm", []string{}, "digest algorithm: sha256, sha384 or sha512 (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "output format: list, directive or json (default list)")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "", "write the report to this path instead of stdout")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "number of documents processed at once (default 4)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (default text)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default warn)")
}

// Run executes a configured run, writing the report to stdout or the
// configured output path and per-document failures to stderr.
// It returns the process exit status: 1 when any document failed.
func Run(ctx context.Context, cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) int {
	log := logger.Init(stderr, cfg.LogFormat(), cfg.LogLevel())
	recorder := metadata.NewRecorder(log)

	s := scheduler.NewScheduler(recorder, stdin)
	execution, err := s.Execute(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, cfg.Format(), execution); err != nil {
		fmt.Fprintf(stderr, "Error: rendering report: %s\n", err)
		return 1
	}

	if cfg.OutputPath() != "" {
		if err := writeReport(ctx, storage.NewLocalSink(recorder), cfg.OutputPath(), buf.Bytes()); err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1
		}
	} else if _, err := stdout.Write(buf.Bytes()); err != nil {
		fmt.Fprintf(stderr, "Error: writing report: %s\n", err)
		return 1
	}

	for _, r := range execution.Results {
		if r.Failed() {
			fmt.Fprintf(stderr, "Error: %s\n", r.Err)
		}
	}
	if execution.FailedCount() > 0 {
		return 1
	}
	return 0
}

// writeReport persists content, retrying recoverable storage failures.
func writeReport(ctx context.Context, sink storage.LocalSink, path string, content []byte) error {
	_, err := retry.Retry(ctx, reportWriteRetry, func() (storage.WriteResult, failure.ClassifiedError) {
		return sink.Write(path, content)
	})
	if err != nil {
		return err
	}
	return nil
}

// InitConfigWithError reads in the config file if set, otherwise builds the
// config from flags, returning any errors.
// sources are the command arguments. When empty, the config file's sources are
// used, and without a config file the document is read from standard input.
func InitConfigWithError(sources []string) (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile, sources)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	if len(sources) == 0 {
		sources = []string{scheduler.StdinSource}
	}

	configBuilder := config.WithDefault(sources)

	if len(algorithms) > 0 {
		algos, err := parseAlgorithms(algorithms)
		if err != nil {
			return config.Config{}, err
		}
		configBuilder = configBuilder.WithAlgorithms(algos)
	}

	if format != "" {
		configBuilder = configBuilder.WithFormat(config.OutputFormat(format))
	}

	if outputPath != "" {
		configBuilder = configBuilder.WithOutputPath(outputPath)
	}

	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	algorithms = []string{}
	format = ""
	outputPath = ""
	concurrency = 0
	logFormat = ""
	logLevel = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetAlgorithmsForTest(names []string) {
	algorithms = names
}

func SetFormatForTest(f string) {
	format = f
}

func SetOutputPathForTest(path string) {
	outputPath = path
}

func SetConcurrencyForTest(conc int) {
	concurrency = conc
}

func SetLogFormatForTest(f string) {
	logFormat = f
}

func SetLogLevelForTest(level string) {
	logLevel = level
}
