package docindex

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/stubgen/typemodel"
)

var log = commonlog.GetLogger("stubgen.docindex")

// ConstructorName is the method name under which constructors are
// documented.
const ConstructorName = "<init>"

// Index resolves class documentation and memoizes every lookup, including
// misses, keyed by class name. It is safe for concurrent use.
type Index struct {
	store Store

	mu    sync.Mutex
	cache map[string]lookup
}

type lookup struct {
	doc *ClassDoc
	err error
}

// New returns an Index over store. A nil store has no documentation.
func New(store Store) *Index {
	if store == nil {
		store = emptyStore{}
	}
	return &Index{store: store, cache: make(map[string]lookup)}
}

// ForClass returns the documentation of the named class, or an error
// matching ErrDocumentationNotFound.
func (ix *Index) ForClass(className string) (*ClassDoc, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if l, ok := ix.cache[className]; ok {
		return l.doc, l.err
	}

	var l lookup
	rec, err := ix.store.Record(className)
	if err != nil {
		l.err = err
	} else {
		l.doc = newClassDoc(ix, className, rec)
	}
	ix.cache[className] = l
	return l.doc, l.err
}

// ClassDoc is the documentation of one class.
type ClassDoc struct {
	index   *Index
	name    string
	record  *Record
	methods map[string][]MethodDesc
}

func newClassDoc(ix *Index, name string, rec *Record) *ClassDoc {
	doc := &ClassDoc{
		index:   ix,
		name:    name,
		record:  rec,
		methods: make(map[string][]MethodDesc),
	}
	for _, m := range rec.Methods {
		doc.methods[m.Name] = append(doc.methods[m.Name], m)
	}
	return doc
}

func (d *ClassDoc) Name() string { return d.name }

func (d *ClassDoc) Comment() string { return d.record.Comment }

func (d *ClassDoc) Extends() string { return d.record.Extends }

func (d *ClassDoc) Implements() []string { return d.record.Implements }

// OverloadSet collects the documented overloads of method: those declared
// on the class first, then those of the superclass and of each interface,
// recursively. Ancestors without documentation contribute nothing.
func (d *ClassDoc) OverloadSet(method string) *OverloadSetDoc {
	visited := map[string]bool{}
	return &OverloadSetDoc{Overloads: d.overloads(method, visited)}
}

func (d *ClassDoc) overloads(method string, visited map[string]bool) []MethodDesc {
	if visited[d.name] {
		return nil
	}
	visited[d.name] = true

	result := append([]MethodDesc(nil), d.methods[method]...)

	ancestors := make([]string, 0, 1+len(d.record.Implements))
	if d.record.Extends != "" {
		ancestors = append(ancestors, d.record.Extends)
	}
	ancestors = append(ancestors, d.record.Implements...)

	for _, name := range ancestors {
		ancestor, err := d.index.ForClass(name)
		if err != nil {
			if !errors.Is(err, ErrDocumentationNotFound) {
				log.Warningf("docs for %s (ancestor of %s): %s", name, d.name, err)
			}
			continue
		}
		result = append(result, ancestor.overloads(method, visited)...)
	}
	return result
}

// OverloadSetDoc is every documented overload sharing one method name.
type OverloadSetDoc struct {
	Overloads []MethodDesc
}

// MatchingOverload returns the first documented overload whose parameter
// types have the same arity as args and are pairwise overload-compatible
// with them. It returns nil when nothing matches. Ambiguous documentation
// resolves to the overload declared first.
func (s *OverloadSetDoc) MatchingOverload(args []typemodel.Descriptor) (*MethodDoc, error) {
	if s == nil {
		return nil, nil
	}
	for _, overload := range s.Overloads {
		if len(overload.Params) != len(args) {
			continue
		}
		doc := &MethodDoc{desc: overload}
		params, err := doc.Params()
		if err != nil {
			return nil, err
		}
		if matches(params, args) {
			return doc, nil
		}
	}
	return nil, nil
}

func matches(params []ParamDoc, args []typemodel.Descriptor) bool {
	for i, p := range params {
		if !p.Type.OverloadCompatible(args[i]) {
			return false
		}
	}
	return true
}

// MethodDoc is one documented overload.
type MethodDoc struct {
	desc MethodDesc
}

type ParamDoc struct {
	Name    string
	Type    typemodel.Descriptor
	Comment string
}

func (m *MethodDoc) Name() string { return m.desc.Name }

func (m *MethodDoc) Javadoc() string { return m.desc.Javadoc }

func (m *MethodDoc) Comment() string { return m.desc.Comment }

func (m *MethodDoc) Params() ([]ParamDoc, error) {
	params := make([]ParamDoc, len(m.desc.Params))
	for i, p := range m.desc.Params {
		t, err := typemodel.FromSignature(p.TypeLong)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s of %s", p.Name, m.desc.Name)
		}
		params[i] = ParamDoc{Name: p.Name, Type: t, Comment: p.Comment}
	}
	return params, nil
}

// ReturnType resolves the documented return type. ok is false when the
// overload documents no return type, as for constructors.
func (m *MethodDoc) ReturnType() (t typemodel.Descriptor, ok bool, err error) {
	if m.desc.Return.TypeLong == "" {
		return typemodel.Descriptor{}, false, nil
	}
	t, err = typemodel.FromSignature(m.desc.Return.TypeLong)
	if err != nil {
		return typemodel.Descriptor{}, false, errors.Wrapf(err, "return type of %s", m.desc.Name)
	}
	return t, true, nil
}
