// Package generate runs a complete stub generation: it extracts the
// requested package trees, writes their stub files and, optionally, a
// module of script builtins.
package generate

import (
	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/stubgen/docindex"
	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/javadoc"
	"github.com/dhamidi/stubgen/mirror"
	"github.com/dhamidi/stubgen/stub"
	"github.com/dhamidi/stubgen/stubtree"
	"github.com/dhamidi/stubgen/typemodel"
)

var log = commonlog.GetLogger("stubgen.generate")

type Generator struct {
	docs      *docindex.Index
	extractor *extract.Extractor
	writer    *stubtree.Writer
}

// New returns a Generator writing through w. docs may be nil. plainText
// converts javadoc markup in docstrings to plain text.
func New(docs *docindex.Index, plainText bool, w *stubtree.Writer) *Generator {
	e := extract.NewExtractor(docs, nil)
	if plainText {
		e.Docstring = javadoc.PlainText
	}
	return &Generator{docs: docs, extractor: e, writer: w}
}

func (g *Generator) Stats() extract.Stats {
	return g.extractor.Accumulator().Stats()
}

// Extract builds the models of the given package trees without writing
// anything.
func (g *Generator) Extract(roots []mirror.Package) ([]*extract.PackageModel, error) {
	models := make([]*extract.PackageModel, 0, len(roots))
	for _, root := range roots {
		model, err := g.extractor.ExtractPackage(root)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	return models, nil
}

// Packages extracts and writes the given package trees and returns the
// number of files written.
func (g *Generator) Packages(roots []mirror.Package) (int, error) {
	models, err := g.Extract(roots)
	if err != nil {
		return 0, err
	}
	n, err := g.writer.WriteTree(models)
	if err != nil {
		return 0, err
	}
	stats := g.Stats()
	log.Infof("wrote %d files: %d packages, %d classes, %d skipped members, %d undocumented classes",
		n, stats.Packages, stats.Classes, stats.SkippedTotal(), len(stats.Undocumented))
	return n, nil
}

// Builtins describes a module of functions and variables that a scripting
// environment injects into every script's globals.
type Builtins struct {
	// Module is the slash separated path of the stub, without extension.
	Module string
	// Classes contribute their methods, the last class winning on name
	// clashes.
	Classes []mirror.Class
	// Names restricts the module to these methods. Empty keeps all.
	Names []string
	// Variables maps global names to dotted class names.
	Variables map[string]string
}

// WriteBuiltins renders and writes b.
func (g *Generator) WriteBuiltins(b Builtins) error {
	m := stub.BoundModule{Variables: make(map[string]typemodel.Descriptor)}
	if len(b.Names) > 0 {
		m.Names = make(map[string]bool, len(b.Names))
		for _, name := range b.Names {
			m.Names[name] = true
		}
	}

	for _, c := range b.Classes {
		qualified := c.Namespace() + "." + c.Name()
		var doc *docindex.ClassDoc
		if g.docs != nil {
			d, err := g.docs.ForClass(qualified)
			switch {
			case err == nil:
				doc = d
			case !errors.Is(err, docindex.ErrDocumentationNotFound):
				log.Warningf("ignoring docs for %s: %s", qualified, err)
			}
		}
		model, err := g.extractor.ExtractClass(c, doc)
		if err != nil {
			return errors.Wrapf(err, "failed to extract builtins class %s", qualified)
		}
		m.Classes = append(m.Classes, model)
	}

	for name, class := range b.Variables {
		t, err := typemodel.FromSignature(class)
		if err != nil {
			return errors.Wrapf(err, "builtins variable %s", name)
		}
		m.Variables[name] = t
	}

	return g.writer.WriteFile(b.Module+".pyi", stub.RenderBoundModule(m))
}
