package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/rengen/schema"
)

// binding is one binding-valued property of an object.
type binding struct {
	object   *schema.Object
	property string
	value    *schema.Binding
}

func (b binding) handler() string    { return bindingHandler(b.object.ID, b.property) }
func (b binding) expression() string { return bindingExpression(b.object.ID, b.property) }

// bindings returns the bindings of the class tree in Walk order, properties
// sorted by name.
func (g *classGen) bindings() []binding {
	var bs []binding
	_ = g.class.Root.Walk(func(o *schema.Object) error {
		for _, name := range o.PropertyNames() {
			if v := o.Properties[name]; v.IsBinding() {
				bs = append(bs, binding{object: o, property: name, value: v.Binding})
			}
		}
		return nil
	})
	return bs
}

// initObjects emits the construction of the object tree. Objects are
// allocated parent first, their literal properties set and bindings wired,
// then appended to their parent. Bindings depending on an object allocated
// later are wired once the whole tree exists.
func (g *classGen) initObjects(f *jen.File) {
	var (
		body     []jen.Code
		deferred []binding
		built    = make(map[string]bool)
	)
	_ = g.class.Root.Walk(func(o *schema.Object) error {
		built[o.ID] = true
		member := g.field(memberField(o.ID))
		if len(body) > 0 {
			body = append(body, jen.Line())
		}
		body = append(body, member.Clone().Op("=").Id(strings.TrimSpace(o.Class.Alloc)))
		for _, name := range o.PropertyNames() {
			v := o.Properties[name]
			if !v.IsBinding() {
				body = append(body, member.Clone().Dot(Setter(name)).Call(jen.Id(v.Text())))
				continue
			}
			b := binding{object: o, property: name, value: v.Binding}
			if !g.constructed(b, built) {
				deferred = append(deferred, b)
				continue
			}
			body = append(body, g.wire(b)...)
		}
		if o.Parent != nil {
			body = append(body, g.field(memberField(o.Parent.ID)).Dot("Append").Call(member))
		}
		return nil
	})
	if len(deferred) > 0 {
		body = append(body, jen.Line(), jen.Comment("bindings on objects allocated after their target"))
		for _, b := range deferred {
			body = append(body, g.wire(b)...)
		}
	}
	f.Line()
	g.method(f, "initObjects").Params().Block(body...)
}

// constructed reports whether every dependency of b names an allocated
// object.
func (g *classGen) constructed(b binding, built map[string]bool) bool {
	for _, dep := range b.value.Dependencies {
		if !built[dep.Object] {
			return false
		}
	}
	return true
}

// wire assigns the handler of b and connects it to the change signal of
// every dependency.
func (g *classGen) wire(b binding) []jen.Code {
	stmts := []jen.Code{
		g.field(b.handler()).Op("=").Add(g.field(b.expression())),
	}
	for _, dep := range b.value.Dependencies {
		source := g.field(memberField(dep.Object))
		stmts = append(stmts, source.Clone().Dot(ChangedSignal(dep.Property)).Call().
			Dot("Connect").Call(source, g.field(b.handler())))
	}
	return stmts
}

// bindingExpressions emits one method per binding re-evaluating its
// expression into the bound property.
func (g *classGen) bindingExpressions(f *jen.File) {
	for _, b := range g.bindings() {
		f.Line()
		g.method(f, b.expression()).Params().Block(
			g.field(memberField(b.object.ID)).Dot(Setter(b.property)).Call(jen.Id(strings.TrimSpace(b.value.Expression))),
		)
	}
}

// evaluateBindings emits the method giving every bound property its
// initial value.
func (g *classGen) evaluateBindings(f *jen.File) {
	f.Line()
	g.method(f, "evaluateBindings").Params().BlockFunc(func(grp *jen.Group) {
		for _, b := range g.bindings() {
			grp.Add(g.field(b.expression()).Call())
		}
	})
}
