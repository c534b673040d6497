package gen

import (
	"bytes"
	"os"
	"path/filepath"
)

var (
	// FeatureEntryPoint provides a feature-flag for emitting a runnable
	// program per generated class.
	FeatureEntryPoint = Feature{
		Name:        "entrypoint",
		Stage:       Stable,
		Default:     false,
		Description: "Emits cmd/<class>/main.go running the generated class through the runtime entry point",
		cleanup: func(c *Config, class string) error {
			return removeGenerated(c, filepath.Join(c.target(), entryPointFile(class)))
		},
	}

	// FeatureImports pipes every artifact through goimports, adding the
	// imports referenced only from verbatim expressions (binding
	// expressions, alloc expressions, literals and initializors).
	FeatureImports = Feature{
		Name:        "goimports",
		Stage:       Beta,
		Default:     false,
		Description: "Resolves imports used by verbatim expressions with golang.org/x/tools/imports",
	}

	// FeatureEagerBindings evaluates every binding once after the class is
	// initialized, so bound properties hold a value before any dependency
	// changes.
	FeatureEagerBindings = Feature{
		Name:        "bindings/eager",
		Stage:       Experimental,
		Default:     false,
		Description: "Evaluates all bindings once at the end of Initialize",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureEntryPoint,
		FeatureImports,
		FeatureEagerBindings,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change or go away.
	Experimental

	// Alpha features are complete but their output may still change.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features have been running for a while.
	Stable
)

// A Feature of the rengen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup removes the per-class output of a previous run when the
	// feature is disabled.
	cleanup func(c *Config, class string) error
}

// removeGenerated removes file if it exists and carries the generated
// header, then its directory if it became empty. Hand-written files are
// left alone.
func removeGenerated(c *Config, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !bytes.HasPrefix(content, []byte("// "+c.header())) {
		return nil
	}
	if err := os.Remove(file); err != nil {
		return err
	}
	dir := filepath.Dir(file)
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
