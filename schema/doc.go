// Package schema holds the declarative object model consumed by the rengen
// code generator.
//
// A model is a [Registry] of named [Class] declarations. A generated class
// owns a tree of [Object] nodes, each typed by another class and carrying
// property [Value]s; a value is a string literal, a number literal or a
// [Binding] that recomputes the property whenever one of its dependencies
// changes. A class may also declare [Replicator]s, which instantiate a
// counted collection of another class at initialization time.
//
// # Quick Start
//
//	rect := &schema.Class{
//	    Name:            "RectangleNode",
//	    DeclarationOnly: true,
//	    Alloc:           "rengine.NewRectangleNode()",
//	}
//	row := &schema.Class{
//	    Name: "Row",
//	    Properties: []schema.Property{
//	        {Name: "width", Type: "number"},
//	        {Name: "selected", Type: "bool"},
//	    },
//	}
//	row.Root = schema.NewObject("root", rect).
//	    Set("width", schema.Bind("pick(r.root.Selected())", schema.Dep("root", "selected")))
//
//	reg, err := schema.NewRegistry(rect, row)
//
// # Invariants
//
// The model is built before generation and never mutated during it.
// Object ids are unique within their class tree, property and signal names
// are unique within a class, and every class instantiated as an object has
// a non-empty Alloc expression. The generator checks the invariants it
// depends on and reports violations per class.
package schema
