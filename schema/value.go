package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ValueKind identifies the active payload of a Value.
type ValueKind uint8

// Value kinds.
const (
	_ ValueKind = iota
	// KindString is a literal emitted verbatim as Go source.
	KindString
	// KindNumber is a numeric literal.
	KindNumber
	// KindBinding is an expression re-evaluated on dependency changes.
	KindBinding
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBinding:
		return "binding"
	default:
		return "invalid"
	}
}

// Value is the value attached to a property: exactly one of a string
// literal, a number literal or a binding.
type Value struct {
	// Kind selects the active payload.
	Kind ValueKind
	// Str holds the literal text for KindString. It is expected to already
	// be a valid Go expression (for example a quoted string).
	Str string
	// Num holds the number for KindNumber.
	Num float64
	// Binding holds the binding for KindBinding. The value owns it.
	Binding *Binding
}

// Dependency names one (object, property) pair a binding listens to.
type Dependency struct {
	Object   string `json:"object" yaml:"object" msgpack:"object"`
	Property string `json:"property" yaml:"property" msgpack:"property"`
}

// Binding is an expression plus the ordered dependencies whose change
// notifications trigger its re-evaluation. The order only governs the
// order in which connections are emitted; a change in any dependency
// re-evaluates the whole expression.
type Binding struct {
	Expression   string
	Dependencies []Dependency
}

// String returns a string literal value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Number returns a number literal value.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// Bind returns a binding value for expr depending on deps.
func Bind(expr string, deps ...Dependency) Value {
	return Value{Kind: KindBinding, Binding: &Binding{Expression: expr, Dependencies: deps}}
}

// Dep is a shorthand for a Dependency literal.
func Dep(object, property string) Dependency {
	return Dependency{Object: object, Property: property}
}

// IsBinding reports whether v holds a binding.
func (v Value) IsBinding() bool { return v.Kind == KindBinding }

// Text returns the Go source text of a literal value. Strings are returned
// verbatim, numbers in their shortest representation. Bindings return
// their expression.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBinding:
		if v.Binding != nil {
			return v.Binding.Expression
		}
	}
	return ""
}

// Count returns the value as a non-negative integral count. It fails for
// anything but a whole, non-negative Number.
func (v Value) Count() (int, error) {
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("count must be a number, got %s", v.Kind)
	}
	if v.Num < 0 || v.Num != math.Trunc(v.Num) || v.Num > math.MaxInt32 {
		return 0, fmt.Errorf("count must be a non-negative integer, got %s", v.Text())
	}
	return int(v.Num), nil
}

// Validate checks that exactly one payload is active.
func (v Value) Validate() error {
	switch v.Kind {
	case KindString:
		if v.Binding != nil || v.Num != 0 {
			return errors.New("string value carries another payload")
		}
	case KindNumber:
		if v.Binding != nil || v.Str != "" {
			return errors.New("number value carries another payload")
		}
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return fmt.Errorf("number value %v is not finite", v.Num)
		}
	case KindBinding:
		if v.Binding == nil {
			return errors.New("binding value without binding")
		}
		if v.Str != "" || v.Num != 0 {
			return errors.New("binding value carries another payload")
		}
		if v.Binding.Expression == "" {
			return errors.New("binding without expression")
		}
	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}
	return nil
}
