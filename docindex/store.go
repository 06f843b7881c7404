package docindex

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrDocumentationNotFound is returned when no record exists for a class.
// Callers proceed undocumented.
var ErrDocumentationNotFound = errors.New("documentation not found")

// Store looks up documentation records by fully qualified class name.
type Store interface {
	Record(className string) (*Record, error)
}

func notFound(className string) error {
	return errors.Wrapf(ErrDocumentationNotFound, "no docs for %s", className)
}

// DirStore reads records laid out as <root>/a/b/C.json for class a.b.C.
type DirStore struct {
	Root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{Root: root}
}

func (s *DirStore) path(className string) string {
	return filepath.Join(s.Root, filepath.FromSlash(strings.ReplaceAll(className, ".", "/"))) + ".json"
}

func (s *DirStore) Record(className string) (*Record, error) {
	data, err := os.ReadFile(s.path(className))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(className)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read docs for %s", className)
	}
	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, errors.Wrapf(err, "docs for %s", className)
	}
	return rec, nil
}

// Names lists every documented class under the root, sorted.
func (s *DirStore) Names() ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		rel = strings.TrimSuffix(filepath.ToSlash(rel), ".json")
		names = append(names, strings.ReplaceAll(rel, "/", "."))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list docs under %s", s.Root)
	}
	sort.Strings(names)
	return names, nil
}

// MapStore is an in-memory Store.
type MapStore map[string]*Record

func (s MapStore) Record(className string) (*Record, error) {
	if rec, ok := s[className]; ok {
		return rec, nil
	}
	return nil, notFound(className)
}

// emptyStore has no records at all.
type emptyStore struct{}

func (emptyStore) Record(className string) (*Record, error) {
	return nil, notFound(className)
}
