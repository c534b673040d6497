package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Registry maps class names to classes. It is the only state shared by a
// generation run and is treated as immutable while generating.
type Registry struct {
	classes map[string]*Class
}

// NewRegistry returns a registry holding the given classes.
func NewRegistry(classes ...*Class) (*Registry, error) {
	r := &Registry{classes: make(map[string]*Class, len(classes))}
	for _, c := range classes {
		if err := r.Add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(classes ...*Class) *Registry {
	r, err := NewRegistry(classes...)
	if err != nil {
		panic(err)
	}
	return r
}

// Add registers c. Names must be non-empty and unique.
func (r *Registry) Add(c *Class) error {
	switch {
	case c == nil:
		return fmt.Errorf("schema: nil class")
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("schema: class without name")
	}
	if r.classes == nil {
		r.classes = make(map[string]*Class)
	}
	if _, ok := r.classes[c.Name]; ok {
		return fmt.Errorf("schema: duplicate class %q", c.Name)
	}
	r.classes[c.Name] = c
	return nil
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.classes[name]
	return c, ok
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.classes)
}

// Classes returns all classes sorted by name.
func (r *Registry) Classes() []*Class {
	if r == nil {
		return nil
	}
	classes := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		classes = append(classes, c)
	}
	slices.SortFunc(classes, func(a, b *Class) int { return strings.Compare(a.Name, b.Name) })
	return classes
}

// Generated returns the non-opaque classes sorted by name.
func (r *Registry) Generated() []*Class {
	var classes []*Class
	for _, c := range r.Classes() {
		if c.Generated() {
			classes = append(classes, c)
		}
	}
	return classes
}
