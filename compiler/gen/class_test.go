package gen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rengen/schema"
)

// testClasses returns the shared opaque classes and a Row class with a
// label child, a resource, two signals, a replicator of Item and one
// binding on the label width.
func testClasses() (rect, text, item, row *schema.Class) {
	rect = &schema.Class{Name: "RectangleNode", DeclarationOnly: true, Alloc: "rengine.NewRectangleNode()"}
	text = &schema.Class{Name: "TextNode", DeclarationOnly: true, Include: "github.com/org/ui", Alloc: "ui.NewTextNode()"}
	item = &schema.Class{
		Name:       "Item",
		Properties: []schema.Property{{Name: "index", Type: "int"}},
		Root:       schema.NewObject("root", rect),
	}
	row = &schema.Class{
		Name: "Row",
		Properties: []schema.Property{
			{Name: "width", Type: "number"},
			{Name: "tags", Type: "[]string"},
		},
		Signals: []schema.Signal{
			{Name: "clicked", Signature: "int"},
			{Name: "closed"},
		},
		Functions: []schema.Function{{Signature: "OnClicked(x int)"}},
		Resources: []schema.Resource{{Name: "background", Type: "rengine.Image", Initializer: "bg.png"}},
		Replicators: []schema.Replicator{{
			ID:          "items",
			Class:       "Item",
			Count:       schema.Number(3),
			Initializor: "instance.SetIndex(index)",
			Parent:      "root",
		}},
	}
	label := schema.NewObject("label", text).
		Set("text", schema.String(`"hello"`)).
		Set("width", schema.Bind("r.root.Width() / 2", schema.Dep("root", "width")))
	row.Root = schema.NewObject("root", rect).
		Set("width", schema.Number(100)).
		Append(label)
	return rect, text, item, row
}

func testRegistry(t *testing.T, classes ...*schema.Class) *schema.Registry {
	t.Helper()
	reg, err := schema.NewRegistry(classes...)
	require.NoError(t, err)
	return reg
}

// render renders the artifact of the named class.
func render(t *testing.T, cfg *Config, reg *schema.Registry, name string) string {
	t.Helper()
	c, ok := reg.Lookup(name)
	require.True(t, ok)
	f, err := newClassGen(cfg, reg, c).File()
	require.NoError(t, err)
	return f.GoString()
}

// squash collapses whitespace runs so assertions do not depend on gofmt
// alignment.
func squash(s string) string { return strings.Join(strings.Fields(s), " ") }

// assertOrder asserts that the snippets appear in src in the given order.
func assertOrder(t *testing.T, src string, snippets ...string) {
	t.Helper()
	last := -1
	for _, s := range snippets {
		idx := strings.Index(src, s)
		if !assert.GreaterOrEqual(t, idx, 0, "missing %q", s) {
			return
		}
		assert.Greater(t, idx, last, "%q out of order", s)
		last = idx
	}
}

func testConfig() *Config { return &Config{PackageName: "scene"} }

func TestClassArtifact(t *testing.T) {
	rect, text, item, row := testClasses()
	reg := testRegistry(t, rect, text, item, row)
	out := render(t, testConfig(), reg, "Row")

	_, err := parser.ParseFile(token.NewFileSet(), "row_generated.go", out, parser.ParseComments)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "// "+DefaultHeader+"\n"))

	src := squash(out)
	for _, want := range []string{
		"package scene",
		`"github.com/org/ui"`,
		`"github.com/syssam/rengine"`,
		"type RowFunctions interface { OnClicked(x int) }",
		"var _ RowFunctions = (*Row)(nil)",
		"OnWidthChanged rengine.Signal",
		"OnTagsChanged rengine.Signal",
		"Clicked rengine.TypedSignal[int]",
		"Closed rengine.Signal",
		"initialized bool",
		"background *rengine.Image",
		"width float64",
		"tags []string",
		"root *rengine.RectangleNode",
		"label *ui.TextNode",
		"binding_label_width rengine.HandlerFunc",
		"replicator_items []*Item",
		"func (r *Row) Root() *rengine.RectangleNode { return r.root }",
		"func (r *Row) Width() float64 { return r.width }",
		"func (r *Row) OnWidthChanged() *rengine.Signal { return &rowSignals.OnWidthChanged }",
		"func (r *Row) Clicked() *rengine.TypedSignal[int] { return &rowSignals.Clicked }",
		"func (r *Row) Closed() *rengine.Signal { return &rowSignals.Closed }",
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "evaluateBindings")
}

func TestInitialize(t *testing.T) {
	rect, text, item, row := testClasses()
	reg := testRegistry(t, rect, text, item, row)
	src := squash(render(t, testConfig(), reg, "Row"))

	assert.Contains(t, src, `if r.initialized { panic("Row: Initialize called twice") }`)
	assertOrder(t, src,
		"func (r *Row) Initialize(manager rengine.ResourceManager) error {",
		"if err := r.initResources(manager); err != nil { return err }",
		"r.initObjects()",
		"if err := r.initReplicators(manager); err != nil { return err }",
		"r.initialized = true",
		"return nil }",
	)

	t.Run("without replicators", func(t *testing.T) {
		src := squash(render(t, testConfig(), reg, "Item"))
		assert.NotContains(t, src, "initReplicators")
		assert.Contains(t, src, "func (i *Item) initResources(manager rengine.ResourceManager) error { return nil }")
		assert.NotContains(t, src, "var err error")
	})
}

func TestPropertySetters(t *testing.T) {
	rect, text, item, row := testClasses()
	reg := testRegistry(t, rect, text, item, row)
	src := squash(render(t, testConfig(), reg, "Row"))

	assert.Contains(t, src, "func (r *Row) SetWidth(value float64) { if r.width == value { return } r.width = value rowSignals.OnWidthChanged.Emit(r) }")
	assert.Contains(t, src, "func (r *Row) SetTags(value []string) { if reflect.DeepEqual(r.tags, value) { return } r.tags = value rowSignals.OnTagsChanged.Emit(r) }")
	assert.Contains(t, src, `"reflect"`)
}

func TestInitResources(t *testing.T) {
	rect, text, item, row := testClasses()
	reg := testRegistry(t, rect, text, item, row)
	src := squash(render(t, testConfig(), reg, "Row"))

	assertOrder(t, src,
		"func (r *Row) initResources(manager rengine.ResourceManager) error {",
		"var err error",
		`if r.background, err = rengine.Acquire[rengine.Image](manager, "bg.png"); err != nil {`,
		`return fmt.Errorf("Row: acquire resource background: %w", err)`,
	)
}

func TestInitObjects(t *testing.T) {
	rect, text, item, row := testClasses()
	reg := testRegistry(t, rect, text, item, row)
	src := squash(render(t, testConfig(), reg, "Row"))

	assertOrder(t, src,
		"func (r *Row) initObjects() {",
		"r.root = rengine.NewRectangleNode()",
		"r.root.SetWidth(100)",
		"r.label = ui.NewTextNode()",
		`r.label.SetText("hello")`,
		"r.binding_label_width = r.expression_binding_label_width",
		"r.root.OnWidthChanged().Connect(r.root, r.binding_label_width)",
		"r.root.Append(r.label)",
		"func (r *Row) expression_binding_label_width() { r.label.SetWidth(r.root.Width() / 2) }",
	)
	assert.Equal(t, 1, strings.Count(src, "r.root.Append(r.label)"))
}

func TestBindingFanIn(t *testing.T) {
	rect, text, _, _ := testClasses()
	panel := &schema.Class{Name: "Panel"}
	a := schema.NewObject("a", rect)
	b := schema.NewObject("b", rect)
	c := schema.NewObject("c", text).Set("width", schema.Bind("r.a.Width() + r.b.Width()",
		schema.Dep("a", "width"), schema.Dep("b", "width")))
	panel.Root = schema.NewObject("root", rect).Append(a, b, c)
	reg := testRegistry(t, rect, text, panel)

	src := squash(render(t, testConfig(), reg, "Panel"))
	assert.Equal(t, 1, strings.Count(src, "p.binding_c_width = p.expression_binding_c_width"))
	assertOrder(t, src,
		"p.a.OnWidthChanged().Connect(p.a, p.binding_c_width)",
		"p.b.OnWidthChanged().Connect(p.b, p.binding_c_width)",
		"p.root.Append(p.c)",
	)
}

func TestForwardReferencedBinding(t *testing.T) {
	rect, text, _, _ := testClasses()
	panel := &schema.Class{Name: "Panel"}
	label := schema.NewObject("label", text)
	panel.Root = schema.NewObject("root", rect).
		Set("height", schema.Bind("r.label.Height()", schema.Dep("label", "height"))).
		Append(label)
	reg := testRegistry(t, rect, text, panel)

	src := squash(render(t, &Config{PackageName: "scene", Receiver: "self"}, reg, "Panel"))
	assertOrder(t, src,
		"self.root = rengine.NewRectangleNode()",
		"self.label = ui.NewTextNode()",
		"self.root.Append(self.label)",
		"self.binding_root_height = self.expression_binding_root_height",
		"self.label.OnHeightChanged().Connect(self.label, self.binding_root_height)",
	)
}

func TestSelfReferencedBinding(t *testing.T) {
	rect, _, _, _ := testClasses()
	panel := &schema.Class{Name: "Panel"}
	panel.Root = schema.NewObject("root", rect).
		Set("height", schema.Bind("p.root.Width()", schema.Dep("root", "width")))
	reg := testRegistry(t, rect, panel)

	src := squash(render(t, testConfig(), reg, "Panel"))
	assertOrder(t, src,
		"p.root = rengine.NewRectangleNode()",
		"p.binding_root_height = p.expression_binding_root_height",
		"p.root.OnWidthChanged().Connect(p.root, p.binding_root_height)",
	)
	assert.NotContains(t, src, "allocated after")
}

func TestInitReplicators(t *testing.T) {
	rect, text, item, row := testClasses()
	reg := testRegistry(t, rect, text, item, row)
	src := squash(render(t, testConfig(), reg, "Row"))

	assertOrder(t, src,
		"func (r *Row) initReplicators(manager rengine.ResourceManager) error {",
		"var count int",
		"count = 3",
		"for index := 0; index < count; index++ {",
		"instance := &Item{}",
		"if err := instance.Initialize(manager); err != nil {",
		`return fmt.Errorf("Row: replicator items: %w", err)`,
		"r.replicator_items = append(r.replicator_items, instance)",
		"instance.SetIndex(index)",
		"r.root.Append(instance.Root())",
	)

	t.Run("zero count", func(t *testing.T) {
		rect, text, item, row := testClasses()
		row.Replicators[0].Count = schema.Number(0)
		reg := testRegistry(t, rect, text, item, row)
		src := squash(render(t, testConfig(), reg, "Row"))
		assertOrder(t, src, "count = 0", "for index := 0; index < count; index++ {")
	})

	t.Run("opaque target", func(t *testing.T) {
		rect, text, _, row := testClasses()
		row.Replicators[0].Class = "TextNode"
		row.Replicators[0].Initializor = ""
		reg := testRegistry(t, rect, text, row)
		src := squash(render(t, testConfig(), reg, "Row"))
		assert.Contains(t, src, "replicator_items []*ui.TextNode")
		assert.Contains(t, src, "instance := ui.NewTextNode()")
	})
}

func TestEagerBindings(t *testing.T) {
	rect, text, item, row := testClasses()
	reg := testRegistry(t, rect, text, item, row)
	cfg := &Config{PackageName: "scene", Features: []Feature{FeatureEagerBindings}}

	src := squash(render(t, cfg, reg, "Row"))
	assertOrder(t, src,
		"if err := r.initReplicators(manager); err != nil { return err }",
		"r.evaluateBindings()",
		"r.initialized = true",
	)
	assert.Contains(t, src, "func (r *Row) evaluateBindings() { r.expression_binding_label_width() }")

	t.Run("no bindings", func(t *testing.T) {
		assert.NotContains(t, render(t, cfg, reg, "Item"), "evaluateBindings")
	})
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		modify func(rect, text, item, row *schema.Class)
		errIs  error
		msg    string
	}{
		{
			name:   "unknown replicator class",
			modify: func(_, _, _, row *schema.Class) { row.Replicators[0].Class = "Missing" },
			errIs:  ErrUnresolvedReference,
			msg:    `replicator class "Missing"`,
		},
		{
			name:   "negative count",
			modify: func(_, _, _, row *schema.Class) { row.Replicators[0].Count = schema.Number(-1) },
			errIs:  ErrInvalidSchema,
			msg:    "invalid count",
		},
		{
			name:   "fractional count",
			modify: func(_, _, _, row *schema.Class) { row.Replicators[0].Count = schema.Number(1.5) },
			errIs:  ErrInvalidSchema,
			msg:    "invalid count",
		},
		{
			name:   "string count",
			modify: func(_, _, _, row *schema.Class) { row.Replicators[0].Count = schema.String("3") },
			errIs:  ErrInvalidSchema,
			msg:    "count must be a number",
		},
		{
			name:   "unknown replicator parent",
			modify: func(_, _, _, row *schema.Class) { row.Replicators[0].Parent = "list" },
			errIs:  ErrUnresolvedReference,
			msg:    `replicator parent "list"`,
		},
		{
			name: "unknown dependency object",
			modify: func(_, _, _, row *schema.Class) {
				row.Root.Set("height", schema.Bind("r.missing.Height()", schema.Dep("missing", "height")))
			},
			errIs: ErrUnresolvedReference,
			msg:   `dependency object "missing"`,
		},
		{
			name: "undeclared property of a generated dependency",
			modify: func(_, _, item, row *schema.Class) {
				item.Alloc = "&Item{}"
				row.Root.Append(schema.NewObject("entry", item))
				row.Root.Set("height", schema.Bind("r.entry.Size()", schema.Dep("entry", "size")))
			},
			errIs: ErrUnresolvedReference,
			msg:   `dependency property "entry.size"`,
		},
		{
			name: "undeclared property of an opaque dependency declaring properties",
			modify: func(rect, _, _, row *schema.Class) {
				rect.Properties = []schema.Property{{Name: "width", Type: "number"}}
				row.Root.Set("height", schema.Bind("r.root.Height()", schema.Dep("root", "height")))
			},
			errIs: ErrUnresolvedReference,
			msg:   `dependency property "root.height"`,
		},
		{
			name: "signal with several payload types",
			modify: func(_, _, _, row *schema.Class) {
				row.Signals = append(row.Signals, schema.Signal{Name: "moved", Signature: "int, float64"})
			},
			errIs: ErrInvalidSchema,
			msg:   "signal signature must be a single Go type",
		},
		{
			name: "duplicate object id",
			modify: func(_, text, _, row *schema.Class) {
				row.Root.Append(schema.NewObject("label", text))
			},
			errIs: ErrInvalidSchema,
			msg:   "duplicate object id",
		},
		{
			name:   "missing alloc",
			modify: func(rect, _, _, _ *schema.Class) { rect.Alloc = "" },
			errIs:  ErrInvalidSchema,
			msg:    "class RectangleNode has no alloc expression",
		},
		{
			name:   "missing root",
			modify: func(_, _, _, row *schema.Class) { row.Root = nil },
			errIs:  ErrInvalidSchema,
			msg:    "no root object",
		},
		{
			name: "property collides with object",
			modify: func(_, _, _, row *schema.Class) {
				row.Properties = append(row.Properties, schema.Property{Name: "label", Type: "string"})
			},
			errIs: ErrInvalidSchema,
			msg:   "object label collides with storage of property label",
		},
		{
			name: "signal collides with change signal",
			modify: func(_, _, _, row *schema.Class) {
				row.Signals = append(row.Signals, schema.Signal{Name: "onWidthChanged"})
			},
			errIs: ErrInvalidSchema,
			msg:   "signal onWidthChanged collides with change signal of property width",
		},
		{
			name: "function collides with getter",
			modify: func(_, _, _, row *schema.Class) {
				row.Functions = append(row.Functions, schema.Function{Signature: "Width() float64"})
			},
			errIs: ErrInvalidSchema,
			msg:   "function Width collides with getter of property width",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rect, text, item, row := testClasses()
			tt.modify(rect, text, item, row)
			reg := testRegistry(t, rect, text, item, row)

			f, err := newClassGen(testConfig(), reg, row).File()
			require.Error(t, err)
			assert.Nil(t, f)
			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, "check", genErr.Phase)
			assert.Equal(t, "Row", genErr.Class)
			assert.ErrorIs(t, err, tt.errIs)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestCheckJoinsViolations(t *testing.T) {
	rect, text, item, row := testClasses()
	row.Replicators[0].Class = "Missing"
	row.Replicators[0].Parent = "list"
	reg := testRegistry(t, rect, text, item, row)

	_, err := newClassGen(testConfig(), reg, row).File()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Missing"`)
	assert.Contains(t, err.Error(), `"list"`)
}

func TestKeywordNames(t *testing.T) {
	rect, _, _, _ := testClasses()
	c := &schema.Class{
		Name:       "Menu",
		Properties: []schema.Property{{Name: "type", Type: "string"}},
	}
	c.Root = schema.NewObject("range", rect).Set("width", schema.Number(1))
	reg := testRegistry(t, rect, c)

	out := render(t, testConfig(), reg, "Menu")
	_, err := parser.ParseFile(token.NewFileSet(), "menu_generated.go", out, 0)
	require.NoError(t, err)
	src := squash(out)
	assert.Contains(t, src, "func (m *Menu) Type() string { return m._type }")
	assert.Contains(t, src, "m._range = rengine.NewRectangleNode()")
}

func TestDeclaredDependencyProperty(t *testing.T) {
	rect, text, item, row := testClasses()
	item.Alloc = "&Item{}"
	row.Root.Append(schema.NewObject("entry", item))
	row.Root.Set("height", schema.Bind("float64(r.entry.Index())", schema.Dep("entry", "index")))
	reg := testRegistry(t, rect, text, item, row)

	src := squash(render(t, testConfig(), reg, "Row"))
	assertOrder(t, src,
		"r.entry = &Item{}",
		"r.root.Append(r.entry)",
		"r.binding_root_height = r.expression_binding_root_height",
		"r.entry.OnIndexChanged().Connect(r.entry, r.binding_root_height)",
	)
}

func TestUnderscoreClassName(t *testing.T) {
	rect, _, _, _ := testClasses()
	c := &schema.Class{
		Name:       "_Row",
		Properties: []schema.Property{{Name: "width", Type: "number"}},
		Root:       schema.NewObject("root", rect),
	}
	reg := testRegistry(t, rect, c)

	out := render(t, testConfig(), reg, "_Row")
	_, err := parser.ParseFile(token.NewFileSet(), "_row_generated.go", out, 0)
	require.NoError(t, err)
	src := squash(out)
	assert.Contains(t, src, "func (r *_Row) Width() float64 { return r.width }")
	assert.NotContains(t, src, "_.initialized")
}

func TestGenericSignalPayload(t *testing.T) {
	rect, text, item, row := testClasses()
	row.Signals = append(row.Signals, schema.Signal{Name: "moved", Signature: "struct{ X, Y float64 }"})
	reg := testRegistry(t, rect, text, item, row)

	src := squash(render(t, testConfig(), reg, "Row"))
	assert.Contains(t, src, "Moved rengine.TypedSignal[struct{ X, Y float64 }]")
}

func TestDeterministicOutput(t *testing.T) {
	rect, text, item, row := testClasses()
	reg := testRegistry(t, rect, text, item, row)
	first := render(t, testConfig(), reg, "Row")
	for range 5 {
		assert.Equal(t, first, render(t, testConfig(), reg, "Row"))
	}
}

func TestEntryPoint(t *testing.T) {
	_, _, _, row := testClasses()

	t.Run("calls the runtime entry point", func(t *testing.T) {
		f, err := entryPoint(&Config{Package: "github.com/org/app/scene"}, row)
		require.NoError(t, err)
		src := squash(f.GoString())
		assert.Contains(t, src, "package main")
		assert.Contains(t, src, `"github.com/org/app/scene"`)
		assert.Contains(t, src, "func main() { rengine.Main(rengine.NewSurfaceForGenerated(new(scene.Row))) }")
	})

	t.Run("needs the package path", func(t *testing.T) {
		_, err := entryPoint(&Config{}, row)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingConfig)
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, "entrypoint", genErr.Phase)
	})
}

func TestNewFile(t *testing.T) {
	f := newFile(&Config{Header: "Code generated by test. DO NOT EDIT."}, "scene")
	f.Var().Id("x").Int()
	out := f.GoString()
	assert.True(t, strings.HasPrefix(out, "// Code generated by test. DO NOT EDIT.\n"))
	assert.Contains(t, out, "// Any changes you make to it will be lost when it is regenerated.")
}
