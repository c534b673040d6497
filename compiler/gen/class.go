package gen

import (
	"path"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/rengen/schema"
)

// classGen emits the artifact of one generated class. Each instance owns
// its jen.File; the config and registry are only read.
type classGen struct {
	cfg      *Config
	registry *schema.Registry
	class    *schema.Class
	recv     string
}

func newClassGen(cfg *Config, reg *schema.Registry, class *schema.Class) *classGen {
	return &classGen{
		cfg:      cfg,
		registry: reg,
		class:    class,
		recv:     cfg.receiverName(class.Name),
	}
}

// eager reports whether the class evaluates its bindings at the end of
// Initialize.
func (g *classGen) eager() bool {
	return g.cfg.enabled(FeatureEagerBindings) && g.hasBindings()
}

func (g *classGen) hasBindings() bool { return len(g.bindings()) > 0 }

// File checks the class and returns its artifact.
func (g *classGen) File() (*jen.File, error) {
	if err := g.check(); err != nil {
		return nil, NewGenerationError(g.class.Name, "check", ClassFile(g.class.Name), "artifact not written", err)
	}
	f := newFile(g.cfg, g.cfg.packageName())
	if name := sanitizePackage(path.Base(g.cfg.runtime())); name != "" {
		f.ImportName(g.cfg.runtime(), name)
	}
	g.functions(f)
	g.signals(f)
	g.structType(f)
	g.initialize(f)
	g.root(f)
	g.properties(f)
	g.signalAccessors(f)
	g.initResources(f)
	g.initObjects(f)
	g.bindingExpressions(f)
	if len(g.class.Replicators) > 0 {
		g.initReplicators(f)
	}
	if g.eager() {
		g.evaluateBindings(f)
	}
	return f, nil
}

// newFile creates a new Jennifer file with the header comment.
func newFile(cfg *Config, pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(cfg.header())
	f.HeaderComment("Any changes you make to it will be lost when it is regenerated.")
	return f
}

func (g *classGen) rt(name string) *jen.Statement {
	return jen.Qual(g.cfg.runtime(), name)
}

// field returns the selector of a member of the receiver.
func (g *classGen) field(name string) *jen.Statement {
	return jen.Id(g.recv).Dot(name)
}

// method adds a method declaration on the generated type to f.
func (g *classGen) method(f *jen.File, name string) *jen.Statement {
	return f.Func().Params(jen.Id(g.recv).Op("*").Id(g.class.Name)).Id(name)
}

// classType returns the object slot type of class.
func (g *classGen) classType(c *schema.Class) jen.Code {
	switch {
	case c.Generated():
		return jen.Op("*").Id(c.Name)
	case c.Include != "":
		return jen.Op("*").Qual(c.Include, c.Name)
	default:
		return jen.Op("*").Add(g.rt(c.Name))
	}
}

// signalType returns the signal type of a signature.
func (g *classGen) signalType(signature string) jen.Code {
	if strings.TrimSpace(signature) == "" {
		return g.rt("Signal")
	}
	return g.rt("TypedSignal").Types(g.cfg.typeCode(signature))
}

func (g *classGen) functions(f *jen.File) {
	c := g.class
	if len(c.Functions) == 0 {
		return
	}
	name := functionsInterface(c.Name)
	methods := make([]jen.Code, 0, len(c.Functions))
	for _, fn := range c.Functions {
		methods = append(methods, jen.Id(strings.TrimSpace(fn.Signature)))
	}
	f.Commentf("%s lists the functions of %s implemented by hand.", name, c.Name)
	f.Type().Id(name).Interface(methods...)
	f.Var().Id("_").Id(name).Op("=").Parens(jen.Op("*").Id(c.Name)).Parens(jen.Nil())
}

func (g *classGen) signals(f *jen.File) {
	c := g.class
	fields := make([]jen.Code, 0, len(c.Properties)+len(c.Signals))
	for _, p := range c.Properties {
		fields = append(fields, jen.Id(ChangedSignal(p.Name)).Add(g.rt("Signal")))
	}
	for _, s := range c.Signals {
		fields = append(fields, jen.Id(signalAccessor(s.Name)).Add(g.signalType(s.Signature)))
	}
	if len(fields) == 0 {
		return
	}
	f.Var().Id(signalsVar(c.Name)).Struct(fields...)
}

func (g *classGen) structType(f *jen.File) {
	c := g.class
	fields := []jen.Code{jen.Id("initialized").Bool()}
	if len(c.Resources) > 0 {
		fields = append(fields, jen.Line())
		for _, r := range c.Resources {
			fields = append(fields, jen.Id(resourceField(r.Name)).Op("*").Add(g.cfg.typeCode(r.Type)))
		}
	}
	if len(c.Properties) > 0 {
		fields = append(fields, jen.Line())
		for _, p := range c.Properties {
			fields = append(fields, jen.Id(storageField(p.Name)).Add(g.cfg.typeCode(p.Type)))
		}
	}
	fields = append(fields, jen.Line())
	var handlers []jen.Code
	_ = c.Root.Walk(func(o *schema.Object) error {
		fields = append(fields, jen.Id(memberField(o.ID)).Add(g.classType(o.Class)))
		for _, name := range o.PropertyNames() {
			if o.Properties[name].IsBinding() {
				handlers = append(handlers, jen.Id(bindingHandler(o.ID, name)).Add(g.rt("HandlerFunc")))
			}
		}
		return nil
	})
	if len(handlers) > 0 {
		fields = append(fields, jen.Line())
		fields = append(fields, handlers...)
	}
	if len(c.Replicators) > 0 {
		fields = append(fields, jen.Line())
		for _, r := range c.Replicators {
			target, _ := g.registry.Lookup(r.Class)
			fields = append(fields, jen.Id(replicatorField(r.ID)).Index().Add(g.classType(target)))
		}
	}
	f.Commentf("%s is generated from its model declaration.", c.Name)
	f.Type().Id(c.Name).Struct(fields...)
}

func (g *classGen) initialize(f *jen.File) {
	c := g.class
	body := []jen.Code{
		jen.If(g.field("initialized")).Block(
			jen.Panic(jen.Lit(c.Name + ": Initialize called twice")),
		),
		jen.If(
			jen.Err().Op(":=").Add(g.field("initResources")).Call(jen.Id("manager")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())),
		g.field("initObjects").Call(),
	}
	if len(c.Replicators) > 0 {
		body = append(body, jen.If(
			jen.Err().Op(":=").Add(g.field("initReplicators")).Call(jen.Id("manager")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())))
	}
	if g.eager() {
		body = append(body, g.field("evaluateBindings").Call())
	}
	body = append(body,
		g.field("initialized").Op("=").True(),
		jen.Return(jen.Nil()),
	)
	f.Comment("Initialize acquires the resources and builds the object tree.")
	f.Comment("It panics when called twice.")
	g.method(f, "Initialize").
		Params(jen.Id("manager").Add(g.rt("ResourceManager"))).
		Error().
		Block(body...)
}

func (g *classGen) root(f *jen.File) {
	root := g.class.Root
	f.Comment("Root returns the root object.")
	g.method(f, "Root").Params().Add(g.classType(root.Class)).Block(
		jen.Return(g.field(memberField(root.ID))),
	)
}

func (g *classGen) properties(f *jen.File) {
	c := g.class
	for _, p := range c.Properties {
		storage := storageField(p.Name)
		f.Line()
		g.method(f, Getter(p.Name)).Params().Add(g.cfg.typeCode(p.Type)).Block(
			jen.Return(g.field(storage)),
		)
		equal := g.field(storage).Op("==").Id("value")
		if !isComparable(p.Type) {
			equal = jen.Qual("reflect", "DeepEqual").Call(g.field(storage), jen.Id("value"))
		}
		f.Line()
		g.method(f, Setter(p.Name)).Params(jen.Id("value").Add(g.cfg.typeCode(p.Type))).Block(
			jen.If(equal).Block(jen.Return()),
			g.field(storage).Op("=").Id("value"),
			jen.Id(signalsVar(c.Name)).Dot(ChangedSignal(p.Name)).Dot("Emit").Call(jen.Id(g.recv)),
		)
		f.Line()
		g.method(f, ChangedSignal(p.Name)).Params().Op("*").Add(g.rt("Signal")).Block(
			jen.Return(jen.Op("&").Id(signalsVar(c.Name)).Dot(ChangedSignal(p.Name))),
		)
	}
}

func (g *classGen) signalAccessors(f *jen.File) {
	c := g.class
	for _, s := range c.Signals {
		name := signalAccessor(s.Name)
		f.Line()
		g.method(f, name).Params().Op("*").Add(g.signalType(s.Signature)).Block(
			jen.Return(jen.Op("&").Id(signalsVar(c.Name)).Dot(name)),
		)
	}
}

func (g *classGen) initResources(f *jen.File) {
	c := g.class
	var body []jen.Code
	if len(c.Resources) > 0 {
		body = append(body, jen.Var().Err().Error())
	}
	for _, r := range c.Resources {
		acquire := g.rt("Acquire").Types(g.cfg.typeCode(r.Type)).Call(jen.Id("manager"), jen.Lit(r.Initializer))
		body = append(body, jen.If(
			jen.List(g.field(resourceField(r.Name)), jen.Err()).Op("=").Add(acquire),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(c.Name+": acquire resource "+r.Name+": %w"), jen.Err())),
		))
	}
	body = append(body, jen.Return(jen.Nil()))
	f.Line()
	g.method(f, "initResources").Params(jen.Id("manager").Add(g.rt("ResourceManager"))).Error().Block(body...)
}

func (g *classGen) initReplicators(f *jen.File) {
	c := g.class
	body := []jen.Code{jen.Var().Id("count").Int()}
	for _, r := range c.Replicators {
		target, _ := g.registry.Lookup(r.Class)
		n, _ := r.Count.Count()
		alloc := jen.Op("&").Id(target.Name).Values()
		if !target.Generated() {
			alloc = jen.Id(strings.TrimSpace(target.Alloc))
		}
		loop := []jen.Code{
			jen.Id("instance").Op(":=").Add(alloc),
			jen.If(
				jen.Err().Op(":=").Id("instance").Dot("Initialize").Call(jen.Id("manager")),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(c.Name+": replicator "+r.ID+": %w"), jen.Err())),
			),
			g.field(replicatorField(r.ID)).Op("=").Append(g.field(replicatorField(r.ID)), jen.Id("instance")),
		}
		if init := strings.TrimSpace(r.Initializor); init != "" {
			loop = append(loop, jen.Id(init))
		}
		loop = append(loop, g.field(memberField(r.Parent)).Dot("Append").Call(jen.Id("instance").Dot("Root").Call()))
		body = append(body,
			jen.Line(),
			jen.Comment("replicator "+r.ID),
			jen.Id("count").Op("=").Lit(n),
			jen.For(
				jen.Id("index").Op(":=").Lit(0),
				jen.Id("index").Op("<").Id("count"),
				jen.Id("index").Op("++"),
			).Block(loop...),
		)
	}
	body = append(body, jen.Return(jen.Nil()))
	f.Line()
	g.method(f, "initReplicators").Params(jen.Id("manager").Add(g.rt("ResourceManager"))).Error().Block(body...)
}
