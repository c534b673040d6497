package schema

import (
	"errors"
	"slices"
)

// SkipChildren is returned by a Walk callback to skip the children of the
// current object.
var SkipChildren = errors.New("skip children")

// Object is one node instance in a class's declaration tree.
type Object struct {
	// ID is unique within the owning class tree and names the member slot
	// holding the object in the generated class.
	ID string
	// Class is the type of the node.
	Class *Class
	// Parent is nil only for the tree root.
	Parent *Object
	// Children in declaration order.
	Children []*Object
	// Properties maps property names to values.
	Properties map[string]Value
}

// NewObject returns a parentless object of the given class.
func NewObject(id string, class *Class) *Object {
	return &Object{ID: id, Class: class}
}

// Set sets a property value and returns the object for chaining.
func (o *Object) Set(name string, v Value) *Object {
	if o.Properties == nil {
		o.Properties = make(map[string]Value)
	}
	o.Properties[name] = v
	return o
}

// Append adds children in order and points their Parent at o.
func (o *Object) Append(children ...*Object) *Object {
	for _, c := range children {
		c.Parent = o
		o.Children = append(o.Children, c)
	}
	return o
}

// PropertyNames returns the names of the set properties in sorted order,
// the order in which the generator emits them.
func (o *Object) PropertyNames() []string {
	names := make([]string, 0, len(o.Properties))
	for name := range o.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Walk calls fn for o and its descendants, depth-first, parents before
// children and children in declaration order. Returning SkipChildren skips
// the subtree of the current object; any other error stops the walk.
func (o *Object) Walk(fn func(*Object) error) error {
	if o == nil {
		return nil
	}
	err := o.walk(fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func (o *Object) walk(fn func(*Object) error) error {
	switch err := fn(o); {
	case errors.Is(err, SkipChildren):
		return nil
	case err != nil:
		return err
	}
	for _, c := range o.Children {
		if err := c.walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Objects returns o and its descendants in Walk order.
func (o *Object) Objects() []*Object {
	var objs []*Object
	_ = o.Walk(func(obj *Object) error {
		objs = append(objs, obj)
		return nil
	})
	return objs
}

// Find returns the object with the given id in the subtree rooted at o.
func (o *Object) Find(id string) *Object {
	var found *Object
	_ = o.Walk(func(obj *Object) error {
		if obj.ID == id {
			found = obj
			return errStop
		}
		return nil
	})
	return found
}

var errStop = errors.New("stop")
