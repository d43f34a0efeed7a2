package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func watchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directories...]",
		Short: "Recompile components when they change",
		Long: `Compile every component, then watch the given directories (default .)
and recompile components as they are written.

Examples:
  sigc watch
  sigc watch src`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args)
		},
	}
	return cmd
}

type watcher struct {
	app   *app
	fs    *fsnotify.Watcher
	roots []string

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func (a *app) watch(ctx context.Context, dirs []string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	w := &watcher{app: a, fs: fw, roots: dirs, timers: map[string]*time.Timer{}}
	for _, dir := range dirs {
		if err := w.add(dir); err != nil {
			return err
		}
	}

	files, err := sources(dirs, a.cfg.Build.Include, a.cfg.Build.Exclude)
	if err != nil {
		return err
	}
	for _, s := range files {
		w.compile(ctx, s)
	}
	info("watching %d directories for changes", len(fw.WatchList()))

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", "error", err)
		}
	}
}

// add watches dir and its subdirectories, skipping excluded ones.
func (w *watcher) add(dir string) error {
	root := w.root(dir)
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel := w.rel(root, p); rel != "." && matchAny(w.app.cfg.Build.Exclude, rel+"/") {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

func (w *watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.add(event.Name); err != nil {
				w.app.log.Warn("watching new directory", "path", event.Name, "error", err)
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	root := w.root(event.Name)
	rel := w.rel(root, event.Name)
	cfg := w.app.cfg.Build
	if !matchAny(cfg.Include, rel) || matchAny(cfg.Exclude, rel) {
		return
	}

	s := source{Path: event.Name, Root: root}
	w.debounce(s.Path, func() { w.compile(ctx, s) })
}

// debounce runs fn once writes to path have settled.
func (w *watcher) debounce(path string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.app.cfg.Watch.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		fn()
	})
}

func (w *watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *watcher) compile(ctx context.Context, s source) {
	if err := w.app.compileFile(ctx, s, "", false); err != nil {
		report(err)
	}
}

// root returns the watched directory containing path.
func (w *watcher) root(path string) string {
	for _, r := range w.roots {
		if rel, err := filepath.Rel(r, path); err == nil && !filepath.IsAbs(rel) && !startsWithParent(rel) {
			return r
		}
	}
	return filepath.Dir(path)
}

func (w *watcher) rel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func startsWithParent(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}
