package gen

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/syssam/rengen/schema"
)

// identifier reports whether name can be used as the base of a generated
// identifier. Keywords are accepted since they are prefixed on use.
func identifier(name string) bool {
	return token.IsIdentifier(name) || token.IsKeyword(name)
}

// check validates the parts of a class the emitter relies on. The loader
// already rejects most of these; registries built in code skip it.
func (g *classGen) check() error {
	c := g.class
	if !token.IsIdentifier(c.Name) {
		return NewSchemaError(c.Name, "", "class name is not a Go identifier", nil)
	}
	if c.Root == nil {
		return NewSchemaError(c.Name, "", "generated class has no root object", nil)
	}
	var errs []error
	fail := func(member, msg string, cause error) {
		errs = append(errs, NewSchemaError(c.Name, member, msg, cause))
	}

	ids := make(map[string]*schema.Object)
	_ = c.Root.Walk(func(o *schema.Object) error {
		switch {
		case o.ID == "":
			fail("", "object without id", nil)
			return nil
		case !identifier(o.ID):
			fail(o.ID, "object id is not a Go identifier", nil)
		case ids[o.ID] != nil:
			fail(o.ID, "duplicate object id", nil)
		}
		ids[o.ID] = o
		switch {
		case o.Class == nil:
			fail(o.ID, "object has no class", nil)
		case strings.TrimSpace(o.Class.Alloc) == "":
			fail(o.ID, fmt.Sprintf("class %s has no alloc expression", o.Class.Name), nil)
		}
		for _, name := range o.PropertyNames() {
			if !identifier(name) {
				fail(o.ID+"."+name, "property name is not a Go identifier", nil)
			}
			if err := o.Properties[name].Validate(); err != nil {
				fail(o.ID+"."+name, "invalid property value", err)
			}
		}
		return nil
	})

	_ = c.Root.Walk(func(o *schema.Object) error {
		for _, name := range o.PropertyNames() {
			v := o.Properties[name]
			if !v.IsBinding() {
				continue
			}
			for _, dep := range v.Binding.Dependencies {
				source := ids[dep.Object]
				switch {
				case source == nil:
					errs = append(errs, NewReferenceError(c.Name, "dependency object", dep.Object,
						fmt.Sprintf("binding %s.%s depends on an unknown object", o.ID, name)))
				case !identifier(dep.Property):
					fail(o.ID+"."+name, fmt.Sprintf("dependency property %q is not a Go identifier", dep.Property), nil)
				case declaresProperties(source.Class):
					if _, ok := source.Class.Property(dep.Property); !ok {
						errs = append(errs, NewReferenceError(c.Name, "dependency property", dep.Object+"."+dep.Property,
							fmt.Sprintf("binding %s.%s depends on a property class %s does not declare", o.ID, name, source.Class.Name)))
					}
				}
			}
		}
		return nil
	})

	reps := make(map[string]bool)
	for _, r := range c.Replicators {
		member := "replicator " + r.ID
		switch {
		case !identifier(r.ID):
			fail(member, "replicator id is not a Go identifier", nil)
		case reps[r.ID]:
			fail(member, "duplicate replicator id", nil)
		}
		reps[r.ID] = true
		target, ok := g.registry.Lookup(r.Class)
		switch {
		case !ok:
			errs = append(errs, NewReferenceError(c.Name, "replicator class", r.Class,
				fmt.Sprintf("replicator %s instantiates an unknown class", r.ID)))
		case !target.Generated() && strings.TrimSpace(target.Alloc) == "":
			fail(member, fmt.Sprintf("class %s has no alloc expression", target.Name), nil)
		}
		if _, err := r.Count.Count(); err != nil {
			fail(member, "invalid count", err)
		}
		if ids[r.Parent] == nil {
			errs = append(errs, NewReferenceError(c.Name, "replicator parent", r.Parent,
				fmt.Sprintf("replicator %s attaches to an unknown object", r.ID)))
		}
	}

	for _, p := range c.Properties {
		if !identifier(p.Name) {
			fail(p.Name, "property name is not a Go identifier", nil)
		}
		if strings.TrimSpace(p.Type) == "" {
			fail(p.Name, "property has no type", nil)
		}
	}
	for _, s := range c.Signals {
		if !token.IsIdentifier(titleCase(s.Name)) {
			fail(s.Name, "signal name is not a Go identifier", nil)
		}
		if sig := strings.TrimSpace(s.Signature); sig != "" {
			if _, err := parser.ParseExpr(sig); err != nil {
				fail(s.Name, "signal signature must be a single Go type", err)
			}
		}
	}
	for _, f := range c.Functions {
		if !token.IsIdentifier(functionName(f.Signature)) {
			fail(f.Signature, "function signature has no method name", nil)
		}
	}
	for _, r := range c.Resources {
		if !identifier(r.Name) {
			fail(r.Name, "resource name is not a Go identifier", nil)
		}
		if strings.TrimSpace(r.Type) == "" {
			fail(r.Name, "resource has no type", nil)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return g.checkIdentifiers()
}

// declaresProperties reports whether the properties of class are known, so
// a dependency on an undeclared one can be rejected. Opaque classes that
// declare nothing expose the runtime's properties unchecked.
func declaresProperties(class *schema.Class) bool {
	return class != nil && (class.Generated() || len(class.Properties) > 0)
}

// checkIdentifiers reports generated identifiers that end up with the same
// name. Fields and methods share one namespace on the generated type.
func (g *classGen) checkIdentifiers() error {
	c := g.class
	var errs []error
	seen := make(map[string]string)
	add := func(name, what string) {
		if prev, ok := seen[name]; ok {
			errs = append(errs, NewSchemaError(c.Name, name, fmt.Sprintf("%s collides with %s", what, prev), nil))
			return
		}
		seen[name] = what
	}

	add("initialized", "the initialization guard")
	add("Initialize", "method Initialize")
	add("Root", "method Root")
	add("initResources", "method initResources")
	add("initObjects", "method initObjects")
	if len(c.Replicators) > 0 {
		add("initReplicators", "method initReplicators")
	}
	if g.eager() {
		add("evaluateBindings", "method evaluateBindings")
	}
	for _, p := range c.Properties {
		add(storageField(p.Name), "storage of property "+p.Name)
		add(Getter(p.Name), "getter of property "+p.Name)
		add(Setter(p.Name), "setter of property "+p.Name)
		add(ChangedSignal(p.Name), "change signal of property "+p.Name)
	}
	for _, s := range c.Signals {
		add(signalAccessor(s.Name), "signal "+s.Name)
	}
	for _, f := range c.Functions {
		add(functionName(f.Signature), "function "+functionName(f.Signature))
	}
	for _, r := range c.Resources {
		add(resourceField(r.Name), "resource "+r.Name)
	}
	_ = c.Root.Walk(func(o *schema.Object) error {
		add(memberField(o.ID), "object "+o.ID)
		for _, name := range o.PropertyNames() {
			if o.Properties[name].IsBinding() {
				add(bindingHandler(o.ID, name), "handler of binding "+o.ID+"."+name)
				add(bindingExpression(o.ID, name), "expression of binding "+o.ID+"."+name)
			}
		}
		return nil
	})
	for _, r := range c.Replicators {
		add(replicatorField(r.ID), "replicator "+r.ID)
	}
	return errors.Join(errs...)
}
