package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/pschema/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// LoadDotEnv loads variables from path into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	envCfg, err := app.LoadEnvConfig()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("pschema", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pschema - Validate a graph against shape expressions and extract the
subgraph that satisfies them.

Usage:
  pschema [options] -input URI [SCHEMA_PATH]

Arguments:
  SCHEMA_PATH
    Path to a single .hcl file or a directory containing .hcl files.

URIs:
  data.nt, file://data.nt   N-Triples file ("-" for stdin/stdout)
  sqlite://graph.db         SQLite database
  badger://dir              Badger directory
  postgres://...            PostgreSQL (table_prefix=... selects tables)
  s3://bucket/key.nt        N-Triples object in S3-compatible storage

Options:
`)
		flagSet.PrintDefaults()
	}

	schemaFlag := flagSet.String("schema", "", "Path to the schema file or directory.")
	sFlag := flagSet.String("s", "", "Path to the schema file or directory (shorthand).")
	rootFlag := flagSet.String("root", "", "Name of the root shape. Overrides the root attribute of the schema files.")
	inputFlag := flagSet.String("input", "", "URI of the graph to validate.")
	outputFlag := flagSet.String("output", "", "URI to write the witness subgraph to.")
	reportFlag := flagSet.String("report", "", "Path of a YAML run report. '-' writes to standard output.")
	workersFlag := flagSet.Int("workers", envCfg.Workers, "Number of parallel partitions. 0 uses all CPUs. Env: PSCHEMA_WORKERS.")
	maxStepsFlag := flagSet.Int("max-supersteps", envCfg.MaxSupersteps, "Superstep limit. 0 derives it from the graph and schema. Env: PSCHEMA_MAX_SUPERSTEPS.")
	healthPortFlag := flagSet.Int("healthcheck-port", envCfg.HealthcheckPort, "Port for the HTTP health check and metrics server. 0 is disabled. Env: PSCHEMA_HEALTHCHECK_PORT.")
	logFormatFlag := flagSet.String("log-format", envCfg.LogFormat, "Log output format. Options: 'text' or 'json'. Env: PSCHEMA_LOG_FORMAT.")
	logLevelFlag := flagSet.String("log-level", envCfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Env: PSCHEMA_LOG_LEVEL.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *schemaFlag != "" {
		path = *schemaFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Schema path determined.", "path", path)

	if path == "" {
		slog.Debug("No schema path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SchemaPath:      path,
		RootShape:       *rootFlag,
		InputURI:        *inputFlag,
		OutputURI:       *outputFlag,
		ReportPath:      *reportFlag,
		Workers:         *workersFlag,
		MaxSupersteps:   *maxStepsFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
		S3:              envCfg.S3,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "schema", config.SchemaPath, "input", config.InputURI)
	return config, false, nil
}
