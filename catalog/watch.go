package catalog

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	edikit "github.com/reoring/edikit"
)

// DefaultDebounce is the quiet period Watch waits for after the last file
// event before reloading.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Logger receives reload outcomes; nil discards them.
	Logger *slog.Logger
	// OnReload, when set, is called after every reload attempt with the
	// new catalogue or the error that kept the registry unchanged.
	OnReload func(*Catalog, error)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Watch reloads the catalogue at path into reg whenever its files change.
// A catalogue that fails to load or validate leaves reg untouched. Close
// the returned io.Closer to stop watching.
func Watch(path string, reg *edikit.Registry, opts WatchOptions) (io.Closer, error) {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// single files are watched through their directory: editors replace
	// files by rename, which drops a watch on the file itself
	match := func(string) bool { return true }
	if fi.IsDir() {
		err = addWatchRecursive(watcher, path)
	} else {
		abs, _ := filepath.Abs(path)
		match = func(name string) bool {
			n, _ := filepath.Abs(name)
			return n == abs
		}
		err = watcher.Add(filepath.Dir(path))
	}
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	triggerCh := make(chan struct{}, 1)

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}
		runReload := func() {
			c, err := Load(path)
			if err == nil {
				err = c.Install(reg)
			}
			if opts.OnReload != nil {
				opts.OnReload(c, err)
			}
			if err != nil {
				logger.Error("catalog reload failed", "path", path, "err", err)
				return
			}
			logger.Info("catalog reloaded", "path", path, "types", c.Types(), "files", len(c.Sources))
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				runReload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("catalog watcher error", "err", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if fi.IsDir() && evt.Op&fsnotify.Create != 0 {
					if st, statErr := os.Stat(evt.Name); statErr == nil && st.IsDir() {
						if addErr := addWatchRecursive(watcher, evt.Name); addErr != nil {
							logger.Warn("catalog watch add failed", "path", evt.Name, "err", addErr)
						}
					}
				}
				if shouldTriggerReload(evt) && match(evt.Name) {
					select {
					case triggerCh <- struct{}{}:
					default:
					}
				}
			case <-triggerCh:
				resetTimer()
			}
		}
	}()

	logger.Debug("catalog watch enabled", "path", path, "debounce", debounce)
	return closerFunc(func() error {
		close(stopCh)
		_ = watcher.Close()
		<-doneCh
		return nil
	}), nil
}

func shouldTriggerReload(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return isCatalogFile(evt.Name)
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
