// Package gen generates Go source for the classes of a rengen model.
//
// Every class of a [schema.Registry] that is not declaration-only produces
// one artifact, "<snake_name>_generated.go", in the target directory. The
// artifact declares a struct with storage for the declared properties, a
// slot per object of the class tree, the resources to acquire and the
// replicated child collections, and an Initialize method building the
// object tree against the runtime library.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	Model description (yaml, json, msgpack)
//	        ↓
//	   compiler/load (decode + resolve)
//	        ↓
//	   schema.Registry
//	        ↓
//	   Generator (checks, then one jen.File per class)
//	        ↓
//	   writer (render, optional goimports, write)
//
// Classes are emitted on a bounded worker pool. Each task owns its file;
// the registry and the configuration are only read.
//
// # Generated Initialize
//
// Initialize runs initResources, initObjects and, when the class declares
// replicators, initReplicators, in that order. initObjects allocates the
// tree depth-first, sets literal properties in name order, wires each
// binding to the change signals of its dependencies and appends every
// object to its parent. A binding handler re-evaluates the expression
// verbatim and stores the result through the bound property setter.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: invalid model declarations
//   - ReferenceError: unknown classes or objects
//   - ConfigError: invalid options
//   - GenerationError: per-artifact failures, with the failing phase
//
// A failing class does not stop the others:
//
//	report, err := gen.Generate(ctx, reg, gen.WithTarget("scene"))
//	if err != nil {
//	    for _, name := range report.Failed {
//	        log.Printf("class %s not generated", name)
//	    }
//	}
//
// # Features
//
// Optional output is controlled by feature flags: FeatureEntryPoint emits a
// runnable main package per class, FeatureImports resolves imports used
// only by verbatim expressions, and FeatureEagerBindings evaluates all
// bindings once at the end of Initialize.
package gen
