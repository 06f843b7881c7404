// Package stubtree writes rendered stub files to disk.
package stubtree

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/stub"
)

var log = commonlog.GetLogger("stubgen.stubtree")

// Writer places stub files below Root. Package __init__.pyi files are
// merged with what is already on disk, so several runs over different
// roots can share one output tree.
type Writer struct {
	Root string
	// CompatShim writes the module that aliases long for Python 3.
	CompatShim bool
}

func NewWriter(root string) *Writer {
	return &Writer{Root: root, CompatShim: true}
}

func (w *Writer) path(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// ExistingLines returns the lines of the file at rel, or nil when it does
// not exist or cannot be read.
func (w *Writer) ExistingLines(rel string) []string {
	f, err := os.Open(w.path(rel))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warningf("ignoring existing %s: %s", rel, err)
		}
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Warningf("ignoring existing %s: %s", rel, err)
		return nil
	}
	return lines
}

// WriteTree renders and writes every package below roots, and returns the
// number of files written.
func (w *Writer) WriteTree(roots []*extract.PackageModel) (int, error) {
	files := stub.RenderTree(roots, w.ExistingLines)
	if w.CompatShim {
		files = append(files, stub.File{Path: stub.CompatShimPath, Content: stub.CompatShim})
	}
	if err := w.Write(files); err != nil {
		return 0, err
	}
	return len(files), nil
}

func (w *Writer) Write(files []stub.File) error {
	for _, f := range files {
		if err := w.WriteFile(f.Path, f.Content); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes content to the slash separated path rel, creating
// directories as needed.
func (w *Writer) WriteFile(rel, content string) error {
	path := w.path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", rel)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", rel)
	}
	log.Debugf("wrote %s", rel)
	return nil
}
