package mirror

// StaticClass is an in-memory Class, used for snapshots and tests.
type StaticClass struct {
	RuntimeName    string
	ClassNamespace string
	BaseTypes      []TypeRef
	Entries        []Entry
	CanIterate     bool
}

func (c *StaticClass) Name() string      { return c.RuntimeName }
func (c *StaticClass) Namespace() string { return c.ClassNamespace }
func (c *StaticClass) Bases() []TypeRef  { return c.BaseTypes }
func (c *StaticClass) Members() []Entry  { return c.Entries }
func (c *StaticClass) Iterable() bool    { return c.CanIterate }

// Add appends a successfully read member and returns the class for
// chaining.
func (c *StaticClass) Add(name string, m Member) *StaticClass {
	c.Entries = append(c.Entries, Found(name, m))
	return c
}

// Fail appends a member whose read failed.
func (c *StaticClass) Fail(name string, reason Reason) *StaticClass {
	c.Entries = append(c.Entries, Failed(name, reason, nil))
	return c
}

// StaticPackage is an in-memory Package.
type StaticPackage struct {
	PackageName string
	Entries     []Entry
}

func (p *StaticPackage) Name() string     { return p.PackageName }
func (p *StaticPackage) Members() []Entry { return p.Entries }

func (p *StaticPackage) AddClass(name string, c Class) *StaticPackage {
	p.Entries = append(p.Entries, Found(name, &NestedClass{Class: c}))
	return p
}

func (p *StaticPackage) AddPackage(name string, sub Package) *StaticPackage {
	p.Entries = append(p.Entries, Found(name, &SubPackage{Package: sub}))
	return p
}

// ConstValue returns a Field.Value func that always yields v.
func ConstValue(v any) func() (any, error) {
	return func() (any, error) { return v, nil }
}

// IllegalValue is a Field.Value func for values that cannot be bridged.
func IllegalValue() (any, error) {
	return nil, ErrIllegalValue
}
