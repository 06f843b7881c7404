package stub

import (
	"sort"
	"strings"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/typemodel"
)

const (
	// CompatShimPath is the module that aliases the wide integer type
	// under Python 3.
	CompatShimPath = "py3_compatibility.pyi"
	CompatShim     = "import sys\nif sys.version_info.major >= 3:\n    long = int\n"

	InitFile = "__init__.pyi"
)

// File is one rendered stub file. Path is slash separated and relative to
// the stub root.
type File struct {
	Path    string
	Content string
}

// RenderPackageInit renders the __init__.pyi of p: one re-export per class
// and one per immediate subpackage, merged with the lines of an existing
// file at the same path.
func RenderPackageInit(p *extract.PackageModel, existing []string) string {
	lines := make(map[string]struct{})
	for _, line := range existing {
		if strings.TrimSpace(line) != "" {
			lines[line] = struct{}{}
		}
	}
	for _, c := range p.Classes {
		lines["from ."+c.Name+" import "+c.Name+" as "+c.Name] = struct{}{}
	}
	for _, sub := range p.Subpackages {
		name := sub.ShortName()
		lines["from . import "+name+" as "+name] = struct{}{}
	}

	sorted := make([]string, 0, len(lines))
	for line := range lines {
		sorted = append(sorted, line)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "\n")
}

// PackagePath is the slash separated directory of a package.
func PackagePath(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// RenderTree renders every package below roots into an __init__.pyi per
// package and a .pyi per class, sorted by path. existing returns the lines
// already present at an __init__.pyi path and may be nil.
func RenderTree(roots []*extract.PackageModel, existing func(path string) []string) []File {
	var files []File
	for _, root := range roots {
		root.Walk(func(p *extract.PackageModel) {
			dir := PackagePath(p.Name)

			initPath := dir + "/" + InitFile
			var prior []string
			if existing != nil {
				prior = existing(initPath)
			}
			files = append(files, File{Path: initPath, Content: RenderPackageInit(p, prior)})

			for _, c := range p.Classes {
				files = append(files, File{Path: dir + "/" + c.Name + ".pyi", Content: RenderClass(c)})
			}
		})
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// BoundModule describes a module of free functions whose signatures come
// from methods already bound to an instance, such as a scripting
// environment's globals.
type BoundModule struct {
	Classes []*extract.ClassModel
	// Names restricts the module to these methods. Nil keeps all of them.
	Names map[string]bool
	// Variables are module-level names declared with a type only.
	Variables map[string]typemodel.Descriptor
}

type boundDecl struct {
	text    string
	imports []typemodel.Import
}

// RenderBoundModule renders m. When several classes declare the same
// method, the last one wins, imports included.
func RenderBoundModule(m BoundModule) string {
	decls := make(map[string]boundDecl)

	for _, c := range m.Classes {
		for i := range c.Methods {
			set := &c.Methods[i]
			if m.Names != nil && !m.Names[set.Name] {
				continue
			}
			decls[set.Name] = boundDecl{
				text:    strings.Join(RenderOverloadSet(set, true), "\n\n"),
				imports: set.Imports(),
			}
		}
	}
	for name, t := range m.Variables {
		if _, ok := decls[name]; ok {
			continue
		}
		decls[name] = boundDecl{text: name + ": " + t.RenderedName(), imports: t.Imports()}
	}

	var imports typemodel.ImportSet
	bodies := make([]string, 0, len(decls))
	for _, decl := range decls {
		imports.Add(decl.imports...)
		bodies = append(bodies, decl.text)
	}
	sort.Strings(bodies)

	return renderImports(imports.Sorted()) + "\n\n\n\n" + strings.Join(bodies, "\n\n")
}
