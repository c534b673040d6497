package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/rengen/schema"
)

// entryPoint returns the runnable program of a generated class.
func entryPoint(cfg *Config, class *schema.Class) (*jen.File, error) {
	if cfg.Package == "" {
		return nil, NewGenerationError(class.Name, "entrypoint", entryPointFile(class.Name),
			"entry point needs the import path of the generated package", ErrMissingConfig)
	}
	rt := cfg.runtime()
	f := newFile(cfg, "main")
	f.ImportName(cfg.Package, cfg.packageName())
	f.Func().Id("main").Params().Block(
		jen.Qual(rt, "Main").Call(
			jen.Qual(rt, "NewSurfaceForGenerated").Call(jen.New(jen.Qual(cfg.Package, class.Name))),
		),
	)
	return f, nil
}
