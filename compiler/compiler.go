// Package compiler provides an interface for generating Go code from a
// model description file.
package compiler

import (
	"context"

	"github.com/syssam/rengen/compiler/gen"
	"github.com/syssam/rengen/compiler/load"
)

// Generate loads the model description at path and runs the code
// generator with the given options. Load errors are returned as is; see
// gen.Generate for the generation semantics.
//
//	report, err := compiler.Generate(ctx, "./model.yaml",
//	    gen.WithTarget("./scene"),
//	    gen.WithPackage("github.com/org/app/scene"),
//	)
func Generate(ctx context.Context, path string, opts ...gen.Option) (*gen.Report, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	reg, err := load.File(path)
	if err != nil {
		return nil, err
	}
	return gen.NewGenerator(reg, cfg).Generate(ctx)
}
