// Package watch reruns a function when the files it was computed from
// change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("stubgen.watch")

const DefaultDebounce = 500 * time.Millisecond

// Watcher observes a set of files and directory trees. Directories are
// watched recursively, including ones created after the watch started.
type Watcher struct {
	// Debounce is how long the watched files must stay quiet before the
	// function runs again.
	Debounce time.Duration

	fs *fsnotify.Watcher
}

// New starts watching paths. Empty entries are ignored.
func New(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}
	w := &Watcher{Debounce: DefaultDebounce, fs: fw}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := w.add(path); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}
	if !info.IsDir() {
		return errors.Wrapf(w.fs.Add(path), "failed to watch %s", path)
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			return errors.Wrapf(err, "failed to watch %s", p)
		}
		return nil
	})
}

// Run calls fn after every burst of changes until ctx is done. Errors from
// fn are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.add(event.Name); err != nil {
						log.Warningf("%s", err)
					}
				}
			}
			log.Debugf("%s: %s", event.Op, event.Name)
			timer.Reset(w.Debounce)

		case <-timer.C:
			log.Infof("change detected, regenerating")
			if err := fn(); err != nil {
				log.Errorf("regeneration failed: %s", err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch error: %s", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
