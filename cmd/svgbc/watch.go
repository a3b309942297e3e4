package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher is a wrapper for watching SVG file changes in directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	dirs    map[string]bool
	paths   map[string]bool
}

// NewWatcher returns a new Watcher.
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{watcher, map[string]bool{}, map[string]bool{}}, nil
}

// Close closes the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) addDir(dir string) error {
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

// AddPath adds a file, or a directory and its sub-directories, to watch.
func (w *Watcher) AddPath(root string) error {
	root = filepath.Clean(root)
	w.paths[root] = true

	info, err := os.Lstat(root)
	if err != nil {
		return err
	}
	if info.Mode().IsRegular() {
		return w.addDir(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.addDir(path)
		}
		return nil
	})
}

// watched returns true if file is one of the paths, or inside one of them.
func (w *Watcher) watched(file string) bool {
	file = filepath.Clean(file)
	for path := range w.paths {
		if path == file || strings.HasPrefix(file, path+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run watches for changes of SVG files, sending their names.
func (w *Watcher) Run() chan string {
	files := make(chan string, 10)
	go func() {
		changetimes := map[string]time.Time{}
		for w.watcher.Events != nil && w.watcher.Errors != nil {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					w.watcher.Events = nil
					break
				}
				if !w.watched(event.Name) {
					break
				}

				info, err := os.Lstat(event.Name)
				if err != nil {
					if event.Has(fsnotify.Remove) && isSVG(event.Name) {
						files <- event.Name
					}
					break
				}
				if info.IsDir() {
					if event.Has(fsnotify.Create) {
						if err := w.AddPath(event.Name); err != nil {
							logger.Error("watching", "path", event.Name, "err", err)
						}
					}
				} else if info.Mode().IsRegular() && isSVG(event.Name) {
					if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
						if t, ok := changetimes[event.Name]; !ok || 100*time.Millisecond < time.Since(t) {
							time.Sleep(100 * time.Millisecond) // wait to make sure write is finished
							files <- event.Name
							changetimes[event.Name] = time.Now()
						}
					}
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					w.watcher.Errors = nil
					break
				}
				logger.Error("watching", "err", err)
			}
		}
		close(files)
	}()
	return files
}
