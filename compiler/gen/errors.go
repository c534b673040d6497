package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is against the structured errors below.
var (
	// ErrInvalidSchema matches every SchemaError.
	ErrInvalidSchema = errors.New("rengen: invalid schema")
	// ErrMissingConfig matches every ConfigError.
	ErrMissingConfig = errors.New("rengen: missing configuration")
	// ErrUnresolvedReference matches every ReferenceError.
	ErrUnresolvedReference = errors.New("rengen: unresolved reference")
	// ErrGenerationFailed matches every GenerationError.
	ErrGenerationFailed = errors.New("rengen: code generation failed")
)

// SchemaError reports a malformed declaration in a class: a bad name, a
// duplicate, an invalid value or an identifier collision.
type SchemaError struct {
	Class   string // Class name
	Member  string // Object, property or member name (if applicable)
	Message string
	Cause   error
}

func (e *SchemaError) Error() string {
	b := newErrorText("schema error")
	b.qualify("on class", e.Class)
	b.qualify("member", e.Member)
	return b.finish(e.Message, e.Cause)
}

func (e *SchemaError) Unwrap() error        { return e.Cause }
func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// NewSchemaError returns a SchemaError for member of class.
func NewSchemaError(class, member, message string, cause error) *SchemaError {
	return &SchemaError{Class: class, Member: member, Message: message, Cause: cause}
}

// ConfigError reports an option rejected while building a Config.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("rengen: config error for %q: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("rengen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
}

func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// NewConfigError returns a ConfigError for option.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// ReferenceError reports a name used by class From that resolves to no
// class or object. Kind tells what was referenced, for example
// "replicator class" or "dependency object".
type ReferenceError struct {
	From    string
	Kind    string
	To      string
	Message string
}

func (e *ReferenceError) Error() string {
	b := newErrorText("unresolved")
	if e.Kind != "" {
		b.WriteString(" " + e.Kind)
	}
	if e.To != "" {
		fmt.Fprintf(b, " %q", e.To)
	}
	b.qualify("in class", e.From)
	return b.finish(e.Message, nil)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrUnresolvedReference }

// NewReferenceError returns a ReferenceError from class from to the kind
// named to.
func NewReferenceError(from, kind, to, message string) *ReferenceError {
	return &ReferenceError{From: from, Kind: kind, To: to, Message: message}
}

// GenerationError reports an artifact of Class that was not written.
// Phase is one of "check", "render", "format", "open", "write",
// "entrypoint", "cleanup" or "schedule".
type GenerationError struct {
	Class   string
	Phase   string
	File    string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	b := newErrorText("generation error")
	b.qualify("for class", e.Class)
	b.qualify("in phase", e.Phase)
	if e.File != "" {
		b.WriteString(" (file: " + e.File + ")")
	}
	return b.finish(e.Message, e.Cause)
}

func (e *GenerationError) Unwrap() error        { return e.Cause }
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// NewGenerationError returns a GenerationError for the artifact file of
// class.
func NewGenerationError(class, phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Class: class, Phase: phase, File: file, Message: message, Cause: cause}
}

// IsSchemaError reports whether err has a SchemaError in its tree.
func IsSchemaError(err error) bool { return has[*SchemaError](err) }

// IsConfigError reports whether err has a ConfigError in its tree.
func IsConfigError(err error) bool { return has[*ConfigError](err) }

// IsReferenceError reports whether err has a ReferenceError in its tree.
func IsReferenceError(err error) bool { return has[*ReferenceError](err) }

// IsGenerationError reports whether err has a GenerationError in its tree.
func IsGenerationError(err error) bool { return has[*GenerationError](err) }

func has[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// errorText assembles "rengen: <kind> <qualifiers>: <message>: <cause>".
type errorText struct{ strings.Builder }

func newErrorText(kind string) *errorText {
	b := &errorText{}
	b.WriteString("rengen: " + kind)
	return b
}

func (b *errorText) qualify(label, value string) {
	if value != "" {
		b.WriteString(" " + label + " " + value)
	}
}

func (b *errorText) finish(msg string, cause error) string {
	for _, s := range []string{msg, errText(cause)} {
		if s != "" {
			b.WriteString(": " + s)
		}
	}
	return b.String()
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
