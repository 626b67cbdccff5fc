package assets

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/taigrr/softras/pkg/render"
)

// Reload carries a texture re-read after its file changed on disk.
type Reload struct {
	Path    string // As passed to NewWatcher
	Texture *render.Texture
}

// Watcher reloads texture files when they change. Directories are
// watched rather than files so editors that replace files atomically are
// still seen.
type Watcher struct {
	fs      *fsnotify.Watcher
	loader  *Loader
	logger  *log.Logger
	paths   map[string]string // absolute path -> path as given
	reloads chan Reload
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWatcher watches paths and reloads them with loader. A nil logger
// discards output.
func NewWatcher(loader *Loader, logger *log.Logger, paths ...string) (*Watcher, error) {
	if loader == nil {
		loader = NewLoader()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:      fsw,
		loader:  loader,
		logger:  logger.WithPrefix("assets"),
		paths:   make(map[string]string),
		reloads: make(chan Reload, 8),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.paths[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Reloads returns the channel of reloaded textures. It is closed by Close.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.reloads)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path, ok := w.paths[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			w.reload(path)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) reload(path string) {
	tex, err := w.loader.Load(path)
	if err != nil {
		// Writers often truncate before writing; the next event retries.
		if errors.Is(err, ErrTextureLoad) {
			w.logger.Debug("reload skipped", "path", path, "err", err)
		}
		return
	}
	w.logger.Info("texture reloaded", "path", path, "size", fmt.Sprintf("%dx%d", tex.Width, tex.Height))

	select {
	case w.reloads <- Reload{Path: path, Texture: tex}:
	case <-w.done:
	}
}
