package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/githubnext/xmlannotate/pkg/console"
)

const watchDebounceDelay = 300 * time.Millisecond

// WatchAnnotate runs the annotation once and again every time the document
// or the diagnostics file changes, until interrupted
func WatchAnnotate(opts AnnotateOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	targets, err := watchTargets(opts.DocumentPath, opts.DiagnosticsPath)
	if err != nil {
		return err
	}
	// Watch directories, not files, so editors that replace files on save
	// keep triggering events
	for dir := range watchDirs(targets) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	fmt.Printf("Watching for changes to %s and %s...\n", opts.DocumentPath, opts.DiagnosticsPath)
	if opts.Verbose {
		fmt.Println("Press Ctrl+C to stop watching.")
	}

	run := func() {
		if err := RunAnnotate(opts); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		}
	}
	run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	stop := make(chan struct{})
	go func() {
		<-sigChan
		if opts.Verbose {
			fmt.Println("\n🛑 Stopping watch mode...")
		}
		close(stop)
	}()

	return watchLoop(watcher, targets, stop, opts.Verbose, run)
}

// watchLoop calls run, debounced, for every write, create or rename of one
// of targets. Runs never overlap. It returns when stop is closed.
func watchLoop(watcher *fsnotify.Watcher, targets map[string]struct{}, stop <-chan struct{}, verbose bool, run func()) error {
	var (
		mu            sync.Mutex
		runMu         sync.Mutex
		debounceTimer *time.Timer
	)
	serialRun := func() {
		runMu.Lock()
		defer runMu.Unlock()
		run()
	}
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[name]; !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if verbose {
				fmt.Printf("📝 Detected change: %s (%s)\n", event.Name, event.Op.String())
			}

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounceDelay, serialRun)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if verbose {
				fmt.Println(console.FormatWarningMessage(fmt.Sprintf("Watcher error: %v", err)))
			}

		case <-stop:
			return nil
		}
	}
}

func watchTargets(paths ...string) (map[string]struct{}, error) {
	targets := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, fmt.Errorf("cannot watch %s: %w", p, err)
		}
		targets[abs] = struct{}{}
	}
	return targets, nil
}

func watchDirs(targets map[string]struct{}) map[string]struct{} {
	dirs := make(map[string]struct{})
	for t := range targets {
		dirs[filepath.Dir(t)] = struct{}{}
	}
	return dirs
}
