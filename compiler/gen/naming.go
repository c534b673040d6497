package gen

import (
	"go/token"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

// titleCase capitalizes the first letter of a string.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

// lowerFirst lowercases the first letter of a string.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}

// safeIdent prefixes names that are Go keywords.
func safeIdent(name string) string {
	if token.Lookup(name).IsKeyword() {
		return "_" + name
	}
	return name
}

// ChangedSignal returns the name of the signal emitted when the named
// property changes. Property setters emit it and binding wiring connects
// to it, so both sides must derive the name through this function.
func ChangedSignal(property string) string {
	return "On" + titleCase(property) + "Changed"
}

// Getter returns the name of the property read accessor.
func Getter(property string) string { return titleCase(property) }

// Setter returns the name of the property write accessor.
func Setter(property string) string { return "Set" + titleCase(property) }

// storageField returns the name of the field backing a property.
func storageField(property string) string { return safeIdent(lowerFirst(property)) }

// memberField returns the name of the field holding an object.
func memberField(id string) string { return safeIdent(id) }

// resourceField returns the name of the field holding a resource.
func resourceField(name string) string { return safeIdent(name) }

// signalAccessor returns the name of the method returning a declared signal.
func signalAccessor(signal string) string { return titleCase(signal) }

// signalsVar returns the name of the package-level variable holding the
// class signals.
func signalsVar(class string) string { return lowerFirst(class) + "Signals" }

// functionsInterface returns the name of the interface listing the
// hand-written functions of a class.
func functionsInterface(class string) string { return class + "Functions" }

// bindingHandler returns the name of the handler field of a binding.
func bindingHandler(id, property string) string { return "binding_" + id + "_" + property }

// bindingExpression returns the name of the method evaluating a binding.
func bindingExpression(id, property string) string {
	return "expression_" + bindingHandler(id, property)
}

// replicatorField returns the name of the collection of a replicator.
func replicatorField(id string) string { return "replicator_" + id }

// defaultReceiver is used for class names without a letter to take the
// receiver from, such as "_1".
const defaultReceiver = "self"

// receiverName returns the receiver of the generated methods of class: the
// first letter of the class name, lower-cased.
func (c *Config) receiverName(class string) string {
	if c.Receiver != "" {
		return c.Receiver
	}
	for _, r := range class {
		if unicode.IsLetter(r) {
			return safeIdent(string(unicode.ToLower(r)))
		}
	}
	return defaultReceiver
}

// functionName extracts the method name of a function signature.
func functionName(signature string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(signature), "(")
	return strings.TrimSpace(name)
}

// ClassFile returns the artifact name of a generated class, relative to
// the target directory. For example, "RowItem" is written to
// "row_item_generated.go". The suffix keeps names such as "FooLinux" from
// turning into build-constrained files.
func ClassFile(class string) string {
	return inflect.Underscore(class) + "_generated.go"
}

// entryPointFile returns the entry-point artifact of a class relative to
// the target directory.
func entryPointFile(class string) string {
	return filepath.Join("cmd", inflect.Dasherize(class), "main.go")
}
