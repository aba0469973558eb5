package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vk/partgrid/internal/app"
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

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// envLookup returns the value of key, or fallback when it is unset.
type envLookup func(key, fallback string) string

func lookupEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flag defaults come from PARTGRID_* environment variables, which an
// optional -env-file may populate first.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	envFile, err := preloadEnv(args)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return parse(args, output, envFile, lookupEnv)
}

// preloadEnv loads the -env-file named in args, if any, before the flag
// defaults are computed. Variables already set in the environment win.
func preloadEnv(args []string) (string, error) {
	var path string
	for i, a := range args {
		switch {
		case a == "--":
			return "", nil
		case a == "-env-file" || a == "--env-file":
			if i+1 < len(args) {
				path = args[i+1]
			}
		case strings.HasPrefix(a, "-env-file="), strings.HasPrefix(a, "--env-file="):
			_, path, _ = strings.Cut(a, "=")
		}
	}
	if path == "" {
		return "", nil
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("loading env file %q: %w", path, err)
	}
	slog.Debug("Environment file loaded.", "path", path)
	return path, nil
}

func parse(args []string, output io.Writer, envFile string, env envLookup) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("partgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
partgrid - compose declared parts into a lazily instantiated object graph.

Usage:
  partgrid [options] MODULE [MODULE...]

Arguments:
  MODULE
    Name of a module under the modules path: a directory of .hcl files or
    a single NAME.hcl file.

Options:
`)
		flagSet.PrintDefaults()
	}

	port, err := strconv.Atoi(env("PARTGRID_INTROSPECT_PORT", "0"))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid PARTGRID_INTROSPECT_PORT: must be an integer"}
	}

	var exports listFlag
	flagSet.Var(&exports, "export", "Contract to resolve after composing, e.g. 'Logger' or 'Logger#main'. Repeatable.")
	flagSet.String("env-file", envFile, "Optional .env file providing PARTGRID_* defaults.")
	modulesPathFlag := flagSet.String("modules-path", env("PARTGRID_MODULES_PATH", "modules"), "Root directory module names are resolved against.")
	introspectPortFlag := flagSet.Int("introspect-port", port, "Port for the HTTP introspection API. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", env("PARTGRID_LOG_FORMAT", "json"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env("PARTGRID_LOG_LEVEL", "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Maximum number of modules discovered concurrently. 0 is unbounded.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No modules provided, printing usage and exiting.")
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

	config, err := app.NewConfig(app.Config{
		ModulesPath:    *modulesPathFlag,
		Modules:        flagSet.Args(),
		Exports:        exports,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		IntrospectPort: *introspectPortFlag,
		Workers:        *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
