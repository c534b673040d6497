package gen

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/rengen/schema"
)

// Generator emits one artifact per generated class of a registry.
type Generator struct {
	registry *schema.Registry
	cfg      *Config
	w        *writer
}

// NewGenerator creates a generator for the classes of reg.
//
// Example:
//
//	cfg := gen.MustNewConfig(gen.WithTarget("scene"), gen.WithPackage("github.com/org/app/scene"))
//	report, err := gen.NewGenerator(reg, cfg).Generate(ctx)
func NewGenerator(reg *schema.Registry, cfg *Config) *Generator {
	if reg == nil {
		reg = schema.MustNewRegistry()
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return &Generator{registry: reg, cfg: cfg, w: newWriter(cfg)}
}

// Report describes the outcome of a generation run.
type Report struct {
	// Written holds the written artifact paths in class-name order.
	Written []string
	// Failed holds the names of the classes with at least one failed
	// artifact.
	Failed []string
	// Errors holds the per-artifact errors.
	Errors []error
	// Metrics of the written output.
	Metrics WriterMetrics
}

// OK reports whether every artifact was written.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// classResult is the outcome of one class task.
type classResult struct {
	written []string
	errs    []error
}

// Generate emits every generated class in parallel. A failing class does
// not stop the others; the returned error joins all per-class errors.
// Canceling ctx stops scheduling new classes.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	log := g.cfg.logger()
	classes := g.registry.Generated()
	if len(classes) == 0 {
		log.Warn("no class definitions present in input, nothing generated")
		return &Report{}, nil
	}

	results := make([]classResult, len(classes))
	var eg errgroup.Group
	eg.SetLimit(g.cfg.workers())
	for i, c := range classes {
		if err := ctx.Err(); err != nil {
			results[i].errs = append(results[i].errs, NewGenerationError(c.Name, "schedule", "", "generation canceled", err))
			continue
		}
		eg.Go(func() error {
			results[i] = g.generateClass(c)
			return nil
		})
	}
	_ = eg.Wait()

	report := &Report{Metrics: g.w.Metrics()}
	for i, res := range results {
		for _, p := range res.written {
			log.Info("wrote", "path", p)
		}
		for _, err := range res.errs {
			logFailure(log, err)
		}
		report.Written = append(report.Written, res.written...)
		if len(res.errs) > 0 {
			report.Failed = append(report.Failed, classes[i].Name)
			report.Errors = append(report.Errors, res.errs...)
		}
	}
	return report, errors.Join(report.Errors...)
}

// generateClass writes the artifacts of one class.
func (g *Generator) generateClass(c *schema.Class) classResult {
	var res classResult
	f, err := newClassGen(g.cfg, g.registry, c).File()
	if err != nil {
		res.errs = append(res.errs, err)
		return res
	}
	p, err := g.w.write(c.Name, f, ClassFile(c.Name))
	if err != nil {
		res.errs = append(res.errs, err)
		return res
	}
	res.written = append(res.written, p)

	if !g.cfg.enabled(FeatureEntryPoint) {
		if err := FeatureEntryPoint.cleanup(g.cfg, c.Name); err != nil {
			res.errs = append(res.errs, NewGenerationError(c.Name, "cleanup", entryPointFile(c.Name), "remove stale entry point", err))
		}
		return res
	}
	program, err := entryPoint(g.cfg, c)
	if err == nil {
		p, err = g.w.write(c.Name, program, entryPointFile(c.Name))
	}
	if err != nil {
		res.errs = append(res.errs, err)
		return res
	}
	res.written = append(res.written, p)
	return res
}

// logFailure logs a per-artifact error.
func logFailure(log *slog.Logger, err error) {
	var genErr *GenerationError
	if errors.As(err, &genErr) && genErr.Phase == "open" {
		log.Error("failed to open file", "path", genErr.File, "error", genErr.Cause)
		return
	}
	if errors.As(err, &genErr) {
		log.Error("generation failed", "class", genErr.Class, "phase", genErr.Phase, "error", err)
		return
	}
	log.Error("generation failed", "error", err)
}

// Generate is the convenience function emitting the generated classes of
// reg with the given options.
func Generate(ctx context.Context, reg *schema.Registry, opts ...Option) (*Report, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return NewGenerator(reg, cfg).Generate(ctx)
}
