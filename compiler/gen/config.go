package gen

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"unicode"
)

// DefaultRuntime is the import path of the runtime library generated code
// links against.
const DefaultRuntime = "github.com/syssam/rengine"

// DefaultHeader is the comment written at the top of every generated file.
const DefaultHeader = "Code generated by rengen. DO NOT EDIT."

// Config holds the global codegen configuration shared by all generated
// artifacts.
type Config struct {
	// Target is the output directory. Empty means the current directory.
	Target string

	// Package is the import path of the generated package, for example
	// "github.com/org/app/scene". It is required by the entry-point feature.
	Package string

	// PackageName overrides the Go package name of the generated files.
	// It defaults to the last element of Package, then of Target.
	PackageName string

	// Runtime is the import path of the runtime library. Opaque classes
	// without an Include are resolved in this package.
	Runtime string

	// Header is the comment written at the top of each generated file.
	Header string

	// Receiver fixes the receiver name of generated methods. Binding
	// expressions, literals and initializors refer to the instance through
	// it. Empty means the lowercased first letter of the class name.
	Receiver string

	// Features holds the enabled feature flags.
	Features []Feature

	// Workers bounds the number of classes emitted in parallel.
	Workers int

	// Logger receives the generation diagnostics.
	Logger *slog.Logger
}

// Output groups the output-related settings.
type Output struct {
	Target      string
	Package     string
	PackageName string
	Header      string
}

// Output returns the output-related settings with defaults applied.
func (c *Config) Output() Output {
	return Output{
		Target:      c.target(),
		Package:     c.Package,
		PackageName: c.packageName(),
		Header:      c.header(),
	}
}

// FeatureEnabled reports if the given feature name is enabled, either
// explicitly or by default. It fails for unknown feature names.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	for _, f := range AllFeatures {
		if f.Name != name {
			continue
		}
		if f.Default {
			return true, nil
		}
		return slices.ContainsFunc(c.Features, func(e Feature) bool { return e.Name == name }), nil
	}
	return false, fmt.Errorf("unexpected feature name %q", name)
}

func (c *Config) enabled(f Feature) bool {
	enabled, _ := c.FeatureEnabled(f.Name)
	return enabled
}

func (c *Config) target() string {
	if c.Target == "" {
		return "."
	}
	return c.Target
}

func (c *Config) runtime() string {
	if c.Runtime == "" {
		return DefaultRuntime
	}
	return c.Runtime
}

func (c *Config) header() string {
	if c.Header == "" {
		return DefaultHeader
	}
	return c.Header
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// packageName resolves the Go package name of the generated files.
func (c *Config) packageName() string {
	if c.PackageName != "" {
		return c.PackageName
	}
	if c.Package != "" {
		if name := sanitizePackage(path.Base(c.Package)); name != "" {
			return name
		}
	}
	dir := c.target()
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if name := sanitizePackage(filepath.Base(dir)); name != "" {
		return name
	}
	return "generated"
}

// sanitizePackage turns a directory or path element into a package name.
func sanitizePackage(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), "go-")
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return ""
	}
	return name
}
