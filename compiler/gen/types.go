package gen

import (
	"path"
	"strings"

	"github.com/dave/jennifer/jen"
)

// neutralTypes maps the language-neutral type names accepted in the model
// to Go types. Any other name is read as a Go type expression.
//
// Generated storage relies on Go zero values for defaults: false for the
// booleans, 0 for the integer family, 0.0 for float32/float64, nil for
// pointers, slices, maps and funcs, and the zero composite value for
// everything else.
var neutralTypes = map[string]string{
	"bool":               "bool",
	"boolean":            "bool",
	"char":               "int8",
	"signed char":        "int8",
	"unsigned char":      "uint8",
	"short":              "int16",
	"unsigned short":     "uint16",
	"int":                "int",
	"unsigned":           "uint",
	"unsigned int":       "uint",
	"long":               "int64",
	"unsigned long":      "uint64",
	"long long":          "int64",
	"unsigned long long": "uint64",
	"float":              "float32",
	"double":             "float64",
	"number":             "float64",
	"string":             "string",
}

// goTypeName returns the Go spelling of a declared type.
func goTypeName(raw string) string {
	raw = strings.TrimSpace(raw)
	if t, ok := neutralTypes[raw]; ok {
		return t
	}
	return raw
}

// typeCode returns the Jennifer code for a declared type. Qualified names
// use the full import path before the last dot ("github.com/org/ui.Image"),
// and a bare qualifier matching the runtime package name resolves to the
// runtime package.
func (c *Config) typeCode(raw string) jen.Code {
	t := goTypeName(raw)
	switch {
	case strings.HasPrefix(t, "*"):
		return jen.Op("*").Add(c.typeCode(t[1:]))
	case strings.HasPrefix(t, "[]"):
		return jen.Index().Add(c.typeCode(t[2:]))
	case strings.ContainsAny(t, "[]() {}"):
		// maps, arrays, funcs, channels and instantiated generics are
		// emitted as written.
		return jen.Id(t)
	}
	idx := strings.LastIndex(t, ".")
	if idx <= 0 || idx == len(t)-1 {
		return jen.Id(t)
	}
	pkg, name := t[:idx], t[idx+1:]
	if !strings.Contains(pkg, "/") && pkg == path.Base(c.runtime()) {
		pkg = c.runtime()
	}
	return jen.Qual(pkg, name)
}

// isComparable reports whether values of the declared type can be compared
// with ==. Setters of other types compare with reflect.DeepEqual.
func isComparable(raw string) bool {
	t := goTypeName(raw)
	for _, prefix := range []string{"[]", "map[", "func(", "func ("} {
		if strings.HasPrefix(t, prefix) {
			return false
		}
	}
	return true
}
