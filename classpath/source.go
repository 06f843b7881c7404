package classpath

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// source is one classpath entry: a directory tree or a jar.
type source interface {
	// classes lists internal class names (a/b/C) without the extension.
	classes() ([]string, error)
	read(internal string) ([]byte, error)
	Close() error
	String() string
}

func openSource(path string) (source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open classpath entry %s", path)
	}
	if info.IsDir() {
		return &dirSource{root: path}, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open jar %s", path)
	}
	js := &jarSource{path: path, zr: zr, files: make(map[string]*zip.File)}
	for _, f := range zr.File {
		if name, ok := className(f.Name); ok {
			if _, dup := js.files[name]; !dup {
				js.files[name] = f
			}
		}
	}
	return js, nil
}

// className maps a slash separated file path to an internal class name.
// Module and package descriptors are not classes.
func className(path string) (string, bool) {
	if !strings.HasSuffix(path, ".class") {
		return "", false
	}
	name := strings.TrimSuffix(path, ".class")
	if strings.HasPrefix(name, "META-INF/") {
		return "", false
	}
	base := name[strings.LastIndex(name, "/")+1:]
	if base == "module-info" || base == "package-info" {
		return "", false
	}
	return name, true
}

type dirSource struct {
	root string
}

func (s *dirSource) String() string { return s.root }

func (s *dirSource) Close() error { return nil }

func (s *dirSource) classes() ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if name, ok := className(filepath.ToSlash(rel)); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list classes under %s", s.root)
	}
	return names, nil
}

func (s *dirSource) read(internal string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(internal)+".class"))
}

type jarSource struct {
	path  string
	zr    *zip.ReadCloser
	files map[string]*zip.File
}

func (s *jarSource) String() string { return s.path }

func (s *jarSource) Close() error { return s.zr.Close() }

func (s *jarSource) classes() ([]string, error) {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	return names, nil
}

func (s *jarSource) read(internal string) ([]byte, error) {
	f, ok := s.files[internal]
	if !ok {
		return nil, fs.ErrNotExist
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
