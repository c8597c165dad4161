package main

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// fileChangedMsg reports that the open drawing was written by someone else.
type fileChangedMsg struct{ path string }

// fileWatcher watches the directory of one file and reports writes to it.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	events  chan string

	mu     sync.Mutex
	path   string
	ignore time.Time
	timer  *time.Timer
	closed bool
}

func newFileWatcher() (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	fw := &fileWatcher{
		watcher: watcher,
		events:  make(chan string, 1),
	}
	go fw.watchLoop()
	return fw, nil
}

// Watch switches the watched file. An empty path stops watching.
func (fw *fileWatcher) Watch(path string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.path != "" {
		fw.watcher.Remove(filepath.Dir(fw.path))
		fw.path = ""
	}
	if path == "" {
		return nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	fw.path = absPath
	return nil
}

// IgnoreFor suppresses events caused by our own save.
func (fw *fileWatcher) IgnoreFor(d time.Duration) {
	fw.mu.Lock()
	fw.ignore = time.Now().Add(d)
	fw.mu.Unlock()
}

func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}

func (fw *fileWatcher) watchLoop() {
	defer fw.shutdown()
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)

			fw.mu.Lock()
			if absPath != fw.path || time.Now().Before(fw.ignore) {
				fw.mu.Unlock()
				continue
			}
			if fw.timer != nil {
				fw.timer.Stop()
			}
			fw.timer = time.AfterFunc(watchDebounce, func() { fw.notify(absPath) })
			fw.mu.Unlock()
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func (fw *fileWatcher) notify(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return
	}
	select {
	case fw.events <- path:
	default:
	}
}

// shutdown closes events once the fsnotify watcher is gone, releasing any pending wait.
func (fw *fileWatcher) shutdown() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.closed = true
	close(fw.events)
}

// wait blocks until the watched file changes.
func (fw *fileWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		path, ok := <-fw.events
		if !ok {
			return nil
		}
		return fileChangedMsg{path: path}
	}
}
