package gen

import (
	"errors"
	"go/token"
	"log/slog"
	"slices"
)

// generatedLocals are the parameter and variable names used inside the
// generated methods.
var generatedLocals = []string{"manager", "err", "count", "index", "instance", "value"}

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory. An empty directory selects the
// current directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			dir = "."
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the import path of the generated package.
// For example: "github.com/org/project/scene".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithPackageName sets the Go package name of the generated files.
func WithPackageName(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) || token.IsKeyword(name) {
			return NewConfigError("PackageName", name, "package name must be a Go identifier")
		}
		c.PackageName = name
		return nil
	}
}

// WithRuntime sets the import path of the runtime library.
func WithRuntime(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Runtime", nil, "runtime package cannot be empty")
		}
		c.Runtime = pkg
		return nil
	}
}

// WithHeader replaces the first comment line of every generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithReceiver fixes the receiver name used by generated methods.
func WithReceiver(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) || token.IsKeyword(name) || name == "_" {
			return NewConfigError("Receiver", name, "receiver must be a Go identifier")
		}
		if slices.Contains(generatedLocals, name) {
			return NewConfigError("Receiver", name, "receiver shadows a local of the generated methods")
		}
		c.Receiver = name
		return nil
	}
}

// WithFeatures enables optional emission steps. Unknown features are
// rejected.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if _, err := c.FeatureEnabled(f.Name); err != nil {
				return NewConfigError("Features", f.Name, err.Error())
			}
		}
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithWorkers sets the number of classes emitted in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger receiving generation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply runs opts in order and stops at the first rejected option.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll runs every option and joins all rejections.
func (c *Config) ApplyAll(opts ...Option) error {
	errs := make([]error, 0, len(opts))
	for _, opt := range opts {
		errs = append(errs, opt(c))
	}
	return errors.Join(errs...)
}

// NewConfig returns a Config built from opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on a rejected option.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
