package schema

type (
	// Class is a named declaration unit. An opaque class (DeclarationOnly)
	// is implemented outside the generated code and only referenced; every
	// other class gets one generated artifact.
	Class struct {
		// Name is unique across the registry and becomes the Go type name.
		Name string
		// Include is the import path providing an opaque class. Empty means
		// the class lives in the runtime package.
		Include string
		// DeclarationOnly marks an opaque class.
		DeclarationOnly bool
		// Root of the object tree; nil iff DeclarationOnly.
		Root *Object
		// Alloc is the Go expression constructing an instance when the class
		// is used as an object type.
		Alloc string
		// Properties declared on the class.
		Properties []Property
		// Signals declared on the class.
		Signals []Signal
		// Functions implemented by hand for the generated class.
		Functions []Function
		// Resources acquired from the resource manager on initialization.
		Resources []Resource
		// Replicators instantiated on initialization.
		Replicators []Replicator
	}

	// Property is a declared, change-notifying property.
	Property struct {
		Name string `json:"name" yaml:"name" msgpack:"name"`
		Type string `json:"type" yaml:"type" msgpack:"type"`
	}

	// Signal is a declared signal. An empty Signature is a zero-argument
	// notification; otherwise Signature is the single payload type, for
	// example "int" or "[]string". Several values travel as one struct type.
	Signal struct {
		Name      string `json:"name" yaml:"name" msgpack:"name"`
		Signature string `json:"signature,omitempty" yaml:"signature,omitempty" msgpack:"signature,omitempty"`
	}

	// Function is the Go method signature of a hand-written function, for
	// example "OnClicked(x, y float64) bool".
	Function struct {
		Signature string `json:"signature" yaml:"signature" msgpack:"signature"`
	}

	// Resource is a value acquired from the runtime resource manager by its
	// declared type and initializer key.
	Resource struct {
		Name        string `json:"name" yaml:"name" msgpack:"name"`
		Type        string `json:"type" yaml:"type" msgpack:"type"`
		Initializer string `json:"initializer" yaml:"initializer" msgpack:"initializer"`
	}

	// Replicator instantiates Count instances of Class while initializing
	// the owning class, attaching each instance root under the object
	// identified by Parent.
	Replicator struct {
		ID          string
		Class       string
		Count       Value
		Initializor string
		Parent      string
	}
)

// Generated reports whether the class gets a generated artifact.
func (c *Class) Generated() bool { return !c.DeclarationOnly }

// Property returns the declared property with the given name.
func (c *Class) Property(name string) (Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Objects returns the objects of the class tree in Walk order.
func (c *Class) Objects() []*Object {
	if c.Root == nil {
		return nil
	}
	return c.Root.Objects()
}

// Object returns the object with the given id in the class tree.
func (c *Class) Object(id string) *Object {
	if c.Root == nil {
		return nil
	}
	return c.Root.Find(id)
}
