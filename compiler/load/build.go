package load

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/rengen/schema"
)

// Error is returned by Build for an invalid description.
type Error struct {
	Class  string // Class holding the error
	Object string // Object or member id (if applicable)
	Msg    string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("load:")
	if e.Class != "" {
		b.WriteString(" class ")
		b.WriteString(e.Class)
	}
	if e.Object != "" {
		b.WriteString(" object ")
		b.WriteString(e.Object)
	}
	if e.Class != "" || e.Object != "" {
		b.WriteString(":")
	}
	b.WriteString(" ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Build resolves a description into a registry. Object classes are looked
// up by name, so classes may be declared in any order.
func Build(d *Description) (*schema.Registry, error) {
	if d == nil {
		return nil, &Error{Msg: "nil description"}
	}
	reg := schema.MustNewRegistry()
	for _, dc := range d.Classes {
		if dc == nil {
			return nil, &Error{Msg: "null class entry"}
		}
		c, err := dc.class()
		if err != nil {
			return nil, err
		}
		if err := reg.Add(c); err != nil {
			return nil, &Error{Class: dc.Name, Msg: "cannot register class", Err: err}
		}
	}

	var errs []error
	for _, dc := range d.Classes {
		c, _ := reg.Lookup(dc.Name)
		switch {
		case dc.DeclarationOnly && dc.Root != nil:
			errs = append(errs, &Error{Class: dc.Name, Msg: "declaration-only class cannot have a root object"})
		case !dc.DeclarationOnly && dc.Root == nil:
			errs = append(errs, &Error{Class: dc.Name, Msg: "generated class has no root object"})
		case dc.Root != nil:
			root, err := dc.Root.object(reg, dc.Name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			c.Root = root
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}

func (dc *Class) class() (*schema.Class, error) {
	c := &schema.Class{
		Name:            dc.Name,
		Include:         dc.Include,
		DeclarationOnly: dc.DeclarationOnly,
		Alloc:           dc.Alloc,
		Properties:      dc.Properties,
		Signals:         dc.Signals,
		Functions:       dc.Functions,
		Resources:       dc.Resources,
	}
	for _, r := range dc.Replicators {
		if r == nil {
			return nil, &Error{Class: dc.Name, Msg: "null replicator entry"}
		}
		count, err := (*Value)(&r.Count).value()
		if err != nil {
			return nil, &Error{Class: dc.Name, Object: r.ID, Msg: "invalid replicator count", Err: err}
		}
		c.Replicators = append(c.Replicators, schema.Replicator{
			ID:          r.ID,
			Class:       r.Class,
			Count:       count,
			Initializor: r.Initializor,
			Parent:      r.Parent,
		})
	}
	return c, nil
}

// object resolves o and its subtree. class names the owning class.
func (o *Object) object(reg *schema.Registry, class string) (*schema.Object, error) {
	if o == nil {
		return nil, &Error{Class: class, Msg: "null object entry"}
	}
	typ, ok := reg.Lookup(o.Class)
	if !ok {
		return nil, &Error{Class: class, Object: o.ID, Msg: fmt.Sprintf("unknown class %q", o.Class)}
	}
	obj := schema.NewObject(o.ID, typ)
	for name, dv := range o.Properties {
		v, err := dv.value()
		if err != nil {
			return nil, &Error{Class: class, Object: o.ID, Msg: fmt.Sprintf("invalid value of property %s", name), Err: err}
		}
		obj.Set(name, v)
	}
	for _, child := range o.Children {
		c, err := child.object(reg, class)
		if err != nil {
			return nil, err
		}
		obj.Append(c)
	}
	return obj, nil
}

// value converts v, which must hold exactly one payload.
func (v *Value) value() (schema.Value, error) {
	if v == nil {
		return schema.Value{}, errors.New("missing value")
	}
	n := 0
	for _, set := range []bool{v.String != nil, v.Number != nil, v.Binding != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return schema.Value{}, fmt.Errorf("value must hold exactly one of string, number or binding, got %d", n)
	}
	var sv schema.Value
	switch {
	case v.String != nil:
		sv = schema.String(*v.String)
	case v.Number != nil:
		sv = schema.Number(*v.Number)
	default:
		sv = schema.Bind(v.Binding.Expression, v.Binding.Dependencies...)
	}
	return sv, sv.Validate()
}
