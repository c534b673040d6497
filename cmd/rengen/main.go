// Command rengen generates Go classes from a reactive object model
// description.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/syssam/rengen/compiler"
	"github.com/syssam/rengen/compiler/gen"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	_ = godotenv.Load()

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args and generates the model once, or until interrupted in
// watch mode.
func run(outW io.Writer, args []string) error {
	o, exit, err := parse(args, outW)
	if err != nil || exit {
		return err
	}
	logger := newLogger(o.logLevel, o.logFormat, outW)
	if !o.watch {
		return generate(context.Background(), o, logger)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch(ctx, o, logger)
}

// generate runs one generation of the model.
func generate(ctx context.Context, o *options, logger *slog.Logger) error {
	report, err := compiler.Generate(ctx, o.model, o.genOptions(logger)...)
	switch {
	case gen.IsConfigError(err):
		return &ExitError{Code: 2, Message: err.Error()}
	case report == nil && err != nil:
		return &ExitError{Code: 1, Message: err.Error()}
	case !report.OK():
		return &ExitError{
			Code:    1,
			Message: fmt.Sprintf("generation failed for %s", strings.Join(report.Failed, ", ")),
		}
	}
	logger.Debug("generation complete", "files", report.Metrics.FilesGenerated, "bytes", report.Metrics.TotalBytes)
	return nil
}
