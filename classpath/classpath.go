// Package classpath is a reflection source backed by compiled class files.
// It lists the public surface of the classes found in directories and jar
// files, parsing each class only when its package is walked.
package classpath

import (
	"bytes"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/mirror"
)

var log = commonlog.GetLogger("stubgen.classpath")

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrPackageNotFound = errors.New("package not found")
)

// Classpath resolves class and package names against an ordered list of
// entries; the first entry that has a class wins. It is safe for
// concurrent use.
type Classpath struct {
	sources []source
	owner   map[string]source

	mu       sync.Mutex
	loaded   map[string]*classfile.ClassFile
	packages map[string]*packageIndex
}

type packageIndex struct {
	classes     []string
	subpackages []string
}

// Open indexes the class names of every entry. Class files themselves are
// read later, on demand.
func Open(paths ...string) (*Classpath, error) {
	cp := &Classpath{
		owner:  make(map[string]source),
		loaded: make(map[string]*classfile.ClassFile),
	}
	for _, path := range paths {
		src, err := openSource(path)
		if err != nil {
			cp.Close()
			return nil, err
		}
		cp.sources = append(cp.sources, src)

		names, err := src.classes()
		if err != nil {
			cp.Close()
			return nil, err
		}
		for _, name := range names {
			if _, ok := cp.owner[name]; !ok {
				cp.owner[name] = src
			}
		}
		log.Debugf("indexed %d classes in %s", len(names), src)
	}
	cp.packages = buildIndex(cp.owner, nil)
	return cp, nil
}

func (cp *Classpath) Close() error {
	var err error
	for _, src := range cp.sources {
		err = errors.CombineErrors(err, src.Close())
	}
	return err
}

// Restrict limits package listings to the named top-level classes, given
// as dotted names. Packages left without classes disappear. Classes can
// still be loaded directly by name.
func (cp *Classpath) Restrict(names []string) {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[classfile.SourceToInternalName(name)] = true
	}
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.packages = buildIndex(cp.owner, keep)
}

func buildIndex(owner map[string]source, keep map[string]bool) map[string]*packageIndex {
	packages := map[string]*packageIndex{}
	ensure := func(pkg string) *packageIndex {
		idx, ok := packages[pkg]
		if !ok {
			idx = &packageIndex{}
			packages[pkg] = idx
		}
		return idx
	}

	for internal := range owner {
		pkg, simple := splitInternal(internal)
		if strings.Contains(simple, "$") || (keep != nil && !keep[internal]) {
			continue
		}
		ensure(pkg).classes = append(ensure(pkg).classes, simple)

		// Register the package with each of its ancestors.
		for pkg != "" {
			parent := ""
			if i := strings.LastIndex(pkg, "."); i >= 0 {
				parent = pkg[:i]
			}
			p := ensure(parent)
			if containsString(p.subpackages, pkg) {
				break
			}
			p.subpackages = append(p.subpackages, pkg)
			pkg = parent
		}
	}

	for _, idx := range packages {
		sort.Strings(idx.classes)
		sort.Strings(idx.subpackages)
	}
	return packages
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// splitInternal splits a/b/C$D into the dotted package a.b and C$D.
func splitInternal(internal string) (pkg, simple string) {
	i := strings.LastIndex(internal, "/")
	if i < 0 {
		return "", internal
	}
	return classfile.InternalToSourceName(internal[:i]), internal[i+1:]
}

// Package returns the handle of a dotted package name. The empty name is
// the unnamed root package.
func (cp *Classpath) Package(name string) (mirror.Package, error) {
	cp.mu.Lock()
	_, ok := cp.packages[name]
	cp.mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrPackageNotFound, "%s", name)
	}
	return &javaPackage{cp: cp, name: name}, nil
}

// Class returns the handle of a class given by its dotted binary name,
// such as java.util.Map$Entry.
func (cp *Classpath) Class(name string) (mirror.Class, error) {
	cf, err := cp.load(classfile.SourceToInternalName(name))
	if err != nil {
		return nil, err
	}
	return newClass(cp, cf), nil
}

// load parses a class file once and caches it.
func (cp *Classpath) load(internal string) (*classfile.ClassFile, error) {
	cp.mu.Lock()
	cf, ok := cp.loaded[internal]
	cp.mu.Unlock()
	if ok {
		return cf, nil
	}

	src, ok := cp.owner[internal]
	if !ok {
		return nil, errors.Wrapf(ErrClassNotFound, "%s", classfile.InternalToSourceName(internal))
	}
	data, err := src.read(internal)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrClassNotFound, "%s", classfile.InternalToSourceName(internal))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s from %s", internal, src)
	}
	cf, err = classfile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", internal)
	}

	cp.mu.Lock()
	cp.loaded[internal] = cf
	cp.mu.Unlock()
	return cf, nil
}

type javaPackage struct {
	cp   *Classpath
	name string
}

func (p *javaPackage) Name() string { return p.name }

// Members lists subpackages, then public top-level classes. Classes that
// fail to parse are reported as unbridgeable.
func (p *javaPackage) Members() []mirror.Entry {
	p.cp.mu.Lock()
	idx := p.cp.packages[p.name]
	p.cp.mu.Unlock()
	if idx == nil {
		return nil
	}

	var entries []mirror.Entry
	for _, sub := range idx.subpackages {
		short := sub[strings.LastIndex(sub, ".")+1:]
		entries = append(entries, mirror.Found(short, &mirror.SubPackage{Package: &javaPackage{cp: p.cp, name: sub}}))
	}

	prefix := ""
	if p.name != "" {
		prefix = classfile.SourceToInternalName(p.name) + "/"
	}
	for _, simple := range idx.classes {
		cf, err := p.cp.load(prefix + simple)
		if err != nil {
			log.Warningf("skipping %s%s: %s", prefix, simple, err)
			entries = append(entries, mirror.Failed(simple, mirror.ReasonUnbridgeable, err))
			continue
		}
		if !cf.AccessFlags.IsPublic() {
			continue
		}
		entries = append(entries, mirror.Found(simple, &mirror.NestedClass{Class: newClass(p.cp, cf)}))
	}
	return entries
}
