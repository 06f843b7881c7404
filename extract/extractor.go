package extract

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/stubgen/docindex"
	"github.com/dhamidi/stubgen/mirror"
	"github.com/dhamidi/stubgen/typemodel"
)

var log = commonlog.GetLogger("stubgen.extract")

// ConstructorName is the Python name constructors are rendered under.
const ConstructorName = "__init__"

// Extractor builds models from reflection handles. Member reads that fail
// and missing documentation degrade the model; malformed documented type
// signatures abort the class being extracted.
//
// An Extractor is not safe for concurrent use.
type Extractor struct {
	docs *docindex.Index
	acc  *Accumulator

	// Docstring converts raw documentation prose before it is stored in
	// the model. The zero value keeps prose unchanged.
	Docstring func(string) string
}

// NewExtractor returns an Extractor that looks up package members'
// documentation in docs (which may be nil) and records its progress in
// acc (a fresh Accumulator when nil).
func NewExtractor(docs *docindex.Index, acc *Accumulator) *Extractor {
	if acc == nil {
		acc = NewAccumulator()
	}
	return &Extractor{docs: docs, acc: acc}
}

func (e *Extractor) Accumulator() *Accumulator {
	return e.acc
}

func (e *Extractor) docstring(s string) string {
	if e.Docstring == nil || s == "" {
		return s
	}
	return e.Docstring(s)
}

// ExtractPackage walks p and every package below it. Classes reachable
// more than once within a run are only extracted the first time.
func (e *Extractor) ExtractPackage(p mirror.Package) (*PackageModel, error) {
	e.acc.stats.Packages++
	model := &PackageModel{Name: p.Name()}

	for _, entry := range p.Members() {
		if !entry.OK() {
			e.skipped(p.Name(), entry)
			continue
		}

		switch m := entry.Member.(type) {
		case *mirror.SubPackage:
			sub, err := e.ExtractPackage(m.Package)
			if err != nil {
				return nil, err
			}
			model.Subpackages = append(model.Subpackages, sub)

		case *mirror.NestedClass:
			qualified := p.Name() + "." + entry.Name
			if !e.acc.markSeen(qualified) {
				continue
			}
			cls, err := e.ExtractClass(m.Class, e.classDoc(qualified))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to extract %s", qualified)
			}
			model.Classes = append(model.Classes, cls)
		}
	}
	return model, nil
}

func (e *Extractor) classDoc(qualified string) *docindex.ClassDoc {
	if e.docs == nil {
		e.acc.undocumented(qualified)
		return nil
	}
	doc, err := e.docs.ForClass(qualified)
	if err != nil {
		if !errors.Is(err, docindex.ErrDocumentationNotFound) {
			log.Warningf("ignoring docs for %s: %s", qualified, err)
		}
		e.acc.undocumented(qualified)
		return nil
	}
	return doc
}

func (e *Extractor) skipped(owner string, entry mirror.Entry) {
	reason := mirror.ReasonUnbridgeable
	var readErr *mirror.ReadError
	if errors.As(entry.Err, &readErr) {
		reason = readErr.Reason
	}
	e.acc.skip(reason)
	log.Debugf("skipping %s.%s: %v", owner, entry.Name, entry.Err)
}

// ExtractClass builds the model of c. doc may be nil when c is
// undocumented.
func (e *Extractor) ExtractClass(c mirror.Class, doc *docindex.ClassDoc) (*ClassModel, error) {
	e.acc.stats.Classes++

	runtimeName := c.Name()
	model := &ClassModel{
		Name:       runtimeName[strings.LastIndex(runtimeName, "$")+1:],
		IsIterable: c.Iterable(),
	}
	if doc != nil {
		model.Docstring = e.docstring(doc.Comment())
	}
	for _, base := range c.Bases() {
		model.Bases = append(model.Bases, typemodel.FromRuntime(base))
	}

	self := typemodel.FromRuntime(mirror.TypeRef{Name: runtimeName, Namespace: c.Namespace()})
	owner := self.QualifiedName()

	for _, entry := range c.Members() {
		if !entry.OK() {
			e.skipped(owner, entry)
			continue
		}

		switch m := entry.Member.(type) {
		case *mirror.Method:
			set, err := e.overloadSet(entry.Name, m.Overloads, nil, methodDocs(doc, entry.Name))
			if err != nil {
				return nil, errors.Wrapf(err, "method %s.%s", owner, entry.Name)
			}
			set.Name = ValidName(set.Name)
			model.Methods = append(model.Methods, set)

		case *mirror.Constructor:
			set, err := e.overloadSet(ConstructorName, m.Overloads, &self, methodDocs(doc, docindex.ConstructorName))
			if err != nil {
				return nil, errors.Wrapf(err, "constructor of %s", owner)
			}
			model.Constructors = append(model.Constructors, set)

		case *mirror.Property:
			if prop, ok := property(entry.Name, m); ok {
				model.Properties = append(model.Properties, prop)
			}

		case *mirror.Field:
			model.Fields = append(model.Fields, e.field(owner, entry.Name, m))

		case *mirror.NestedClass:
			if !isNestedClass(c, m.Class) {
				continue
			}
			// Documentation records only exist for top-level classes.
			nested, err := e.ExtractClass(m.Class, nil)
			if err != nil {
				return nil, err
			}
			model.NestedClasses = append(model.NestedClasses, nested)
		}
	}
	return model, nil
}

func methodDocs(doc *docindex.ClassDoc, name string) *docindex.OverloadSetDoc {
	if doc == nil {
		return nil
	}
	return doc.OverloadSet(name)
}

// isNestedClass reports whether child is declared inside parent rather
// than merely sharing its namespace.
func isNestedClass(parent, child mirror.Class) bool {
	if parent.Namespace() != child.Namespace() {
		return false
	}
	name := child.Name()
	i := strings.LastIndex(name, "$")
	return i >= 0 && name[:i] == parent.Name()
}

func (e *Extractor) overloadSet(name string, sigs []mirror.Signature, ctorFor *typemodel.Descriptor, docs *docindex.OverloadSetDoc) (OverloadSet, error) {
	set := OverloadSet{Name: name, IsConstructor: ctorFor != nil}
	for _, sig := range sigs {
		o, err := e.overload(sig, ctorFor, docs)
		if err != nil {
			return OverloadSet{}, err
		}
		set.Overloads = append(set.Overloads, o)
	}
	return set, nil
}

// overload merges a reflected signature with its documentation, if any.
// Documented argument types supersede reflected ones since they keep
// generic parameters that reflection erases.
func (e *Extractor) overload(sig mirror.Signature, ctorFor *typemodel.Descriptor, docs *docindex.OverloadSetDoc) (Overload, error) {
	o := Overload{IsStatic: sig.IsStatic}
	if ctorFor != nil {
		o.ReturnType = *ctorFor
	} else {
		o.ReturnType = typemodel.FromRuntime(sig.Return)
	}
	for _, p := range sig.Params {
		o.ArgumentTypes = append(o.ArgumentTypes, typemodel.FromRuntime(p))
	}
	o.ArgumentNames = PlaceholderNames(len(o.ArgumentTypes))

	match, err := docs.MatchingOverload(o.ArgumentTypes)
	if err != nil || match == nil {
		return o, err
	}

	params, err := match.Params()
	if err != nil {
		return Overload{}, err
	}
	for i, p := range params {
		o.ArgumentNames[i] = ValidName(p.Name)
		o.ArgumentTypes[i] = p.Type
	}
	if ctorFor == nil {
		ret, ok, err := match.ReturnType()
		if err != nil {
			return Overload{}, err
		}
		if ok {
			o.ReturnType = ret
		}
	}
	o.Docstring = e.docstring(match.Javadoc())
	return o, nil
}

func property(name string, m *mirror.Property) (Property, bool) {
	if m.Getter == nil && m.Setter == nil {
		return Property{}, false
	}
	prop := Property{Name: ValidName(name)}
	if m.Getter != nil {
		t := typemodel.FromRuntime(*m.Getter)
		prop.Getter = &t
	}
	if m.Setter != nil {
		t := typemodel.FromRuntime(*m.Setter)
		prop.Setter = &t
	}
	return prop, true
}

// field reads static final values right away; the bridge's value objects
// do not outlive the extraction pass.
func (e *Extractor) field(owner, name string, m *mirror.Field) Field {
	f := Field{
		Name:     ValidName(name),
		Type:     typemodel.FromRuntime(m.Type),
		IsStatic: m.IsStatic,
		IsFinal:  m.IsFinal,
	}
	if !m.IsStatic || !m.IsFinal || m.Value == nil {
		return f
	}

	v, err := m.Value()
	if err != nil {
		if !errors.Is(err, mirror.ErrIllegalValue) {
			log.Warningf("cannot read %s.%s: %s", owner, name, err)
		}
		return f
	}
	lit, err := Literal(v)
	if err != nil {
		log.Warningf("cannot render %s.%s: %s", owner, name, err)
		return f
	}
	f.Literal, f.HasValue = lit, true
	return f
}
