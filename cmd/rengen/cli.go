package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/syssam/rengen/compiler/gen"
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Environment values supplying flag defaults.
const (
	envRuntime = "RENGEN_RUNTIME"
	envPackage = "RENGEN_PACKAGE"
	envOut     = "RENGEN_OUT"
)

// options holds the parsed command line.
type options struct {
	model     string
	out       string
	pkg       string
	runtime   string
	main      bool
	eager     bool
	goimports bool
	workers   int
	logLevel  string
	logFormat string
	watch     bool
}

// parse processes command-line arguments. It reports whether the program
// should exit cleanly without generating, or returns an ExitError.
func parse(args []string, output io.Writer) (*options, bool, error) {
	flagSet := flag.NewFlagSet("rengen", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
rengen - generates Go classes from a reactive object model.

Usage:
  rengen [options] MODEL

Arguments:
  MODEL
    Path to a .json, .yaml or .msgpack model description.

Options:
`)
		flagSet.PrintDefaults()
	}

	o := &options{}
	flagSet.StringVar(&o.out, "out", envOr(envOut, "."), "Output directory of the generated package. Defaults to $"+envOut+".")
	flagSet.StringVar(&o.pkg, "pkg", os.Getenv(envPackage), "Import path of the generated package. Defaults to $"+envPackage+".")
	flagSet.StringVar(&o.runtime, "runtime", os.Getenv(envRuntime), "Import path of the runtime library. Defaults to $"+envRuntime+".")
	flagSet.BoolVar(&o.main, "main", false, "Emit cmd/<class>/main.go for every generated class. Requires -pkg.")
	flagSet.BoolVar(&o.eager, "eager-bindings", false, "Evaluate every binding once at the end of Initialize.")
	flagSet.BoolVar(&o.goimports, "goimports", true, "Resolve imports of verbatim expressions with goimports.")
	flagSet.IntVar(&o.workers, "workers", 0, "Number of classes generated in parallel. 0 uses GOMAXPROCS.")
	flagSet.StringVar(&o.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVar(&o.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flagSet.BoolVar(&o.watch, "watch", false, "Regenerate whenever the model file changes, until interrupted.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	switch flagSet.NArg() {
	case 0:
		flagSet.Usage()
		return nil, true, nil
	case 1:
		o.model = flagSet.Arg(0)
	default:
		return nil, false, &ExitError{Code: 2, Message: "expected a single model path, got " + strings.Join(flagSet.Args(), " ")}
	}

	o.logFormat = strings.ToLower(o.logFormat)
	if o.logFormat != "text" && o.logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	o.logLevel = strings.ToLower(o.logLevel)
	switch o.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if o.workers < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must not be negative"}
	}
	if o.main && o.pkg == "" {
		return nil, false, &ExitError{Code: 2, Message: "-main requires -pkg or $" + envPackage}
	}
	return o, false, nil
}

// genOptions returns the generator options selected by o.
func (o *options) genOptions(logger *slog.Logger) []gen.Option {
	opts := []gen.Option{
		gen.WithTarget(o.out),
		gen.WithWorkers(o.workers),
		gen.WithLogger(logger),
	}
	if o.pkg != "" {
		opts = append(opts, gen.WithPackage(o.pkg))
	}
	if o.runtime != "" {
		opts = append(opts, gen.WithRuntime(o.runtime))
	}
	var features []gen.Feature
	if o.main {
		features = append(features, gen.FeatureEntryPoint)
	}
	if o.goimports {
		features = append(features, gen.FeatureImports)
	}
	if o.eager {
		features = append(features, gen.FeatureEagerBindings)
	}
	if len(features) > 0 {
		opts = append(opts, gen.WithFeatures(features...))
	}
	return opts
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
