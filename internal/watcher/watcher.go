package watcher

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// HistoryWatcher monitors a hand-history directory for appended content. The
// card-room client appends finished hands to per-table files, so the watcher
// tracks a read offset per file and hands raw text chunks to the callback.
type HistoryWatcher struct {
	Dir string

	watcher  *fsnotify.Watcher
	done     chan struct{}
	mu       sync.Mutex
	readMu   sync.Mutex
	stopOnce sync.Once
	offsets  map[string]int64

	onNewData func(path string, chunk string)
	onNewFile func(path string)
	onError   func(err error)
}

type Config struct {
	// OnNewData receives the raw text appended to a history file since the
	// last read. Chunks can start or end mid-hand.
	OnNewData func(path string, chunk string)
	OnNewFile func(path string)
	OnError   func(err error)
}

// New creates a watcher over the given hand-history directory.
func New(dir string, cfg Config) (*HistoryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &HistoryWatcher{
		Dir:       filepath.Clean(dir),
		watcher:   w,
		done:      make(chan struct{}),
		offsets:   make(map[string]int64),
		onNewData: cfg.OnNewData,
		onNewFile: cfg.OnNewFile,
		onError:   cfg.OnError,
	}, nil
}

// Start begins watching. Files already in the directory are read from their
// current offsets first, so a caller that imported them beforehand should
// SkipExisting to avoid double-feeding.
func (hw *HistoryWatcher) Start() error {
	slog.Info("watcher starting", "dir", hw.Dir)
	if err := hw.watcher.Add(hw.Dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", hw.Dir, err)
	}

	for _, path := range hw.historyFiles() {
		if err := hw.readNewContent(path); err != nil && hw.onError != nil {
			hw.onError(err)
		}
	}

	go hw.watchLoop()
	return nil
}

// Stop stops the watcher.
func (hw *HistoryWatcher) Stop() {
	hw.stopOnce.Do(func() {
		slog.Info("watcher stopped", "dir", hw.Dir)
		close(hw.done)
		_ = hw.watcher.Close()
	})
}

// SkipExisting fast-forwards every current history file to its end so only
// content appended after this call is reported.
func (hw *HistoryWatcher) SkipExisting() {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	for _, path := range hw.historyFiles() {
		if info, err := os.Stat(path); err == nil {
			hw.offsets[path] = info.Size()
		}
	}
}

func (hw *HistoryWatcher) historyFiles() []string {
	matches, err := filepath.Glob(filepath.Join(hw.Dir, "HH*.txt"))
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}

func (hw *HistoryWatcher) watchLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-hw.done:
			return
		case event, ok := <-hw.watcher.Events:
			if !ok {
				return
			}
			if !isHistoryFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) && hw.onNewFile != nil {
				hw.onNewFile(event.Name)
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := hw.readNewContent(event.Name); err != nil && hw.onError != nil {
					hw.onError(err)
				}
			}
		case err, ok := <-hw.watcher.Errors:
			if !ok {
				return
			}
			if hw.onError != nil {
				hw.onError(err)
			}
		case <-ticker.C:
			// Periodic poll as fallback for editors and network shares that
			// do not emit write events reliably.
			for _, path := range hw.historyFiles() {
				if err := hw.readNewContent(path); err != nil && hw.onError != nil {
					hw.onError(err)
				}
			}
		}
	}
}

func (hw *HistoryWatcher) readNewContent(path string) error {
	hw.readMu.Lock()
	defer hw.readMu.Unlock()

	path = filepath.Clean(path)
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hw.mu.Lock()
	defer hw.mu.Unlock()
	offset := hw.offsets[path]
	if info.Size() < offset {
		// Truncated or rotated, start over.
		offset = 0
	}
	if info.Size() <= offset {
		return nil
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	r := bufio.NewReader(f)
	buf := make([]byte, info.Size()-offset)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	hw.offsets[path] = info.Size()

	if hw.onNewData != nil {
		slog.Debug("new data detected", "path", path, "bytes", len(buf))
		hw.onNewData(path, string(buf))
	}
	return nil
}

func isHistoryFile(path string) bool {
	matched, err := filepath.Match("HH*.txt", filepath.Base(path))
	return err == nil && matched
}

// DefaultHistoryDirs returns the OS-specific locations where the client
// writes hand-history files, most likely first.
func DefaultHistoryDirs(user string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	switch runtime.GOOS {
	case "windows":
		return []string{
			filepath.Join(os.Getenv("LOCALAPPDATA"), "PokerStars", "HandHistory", user),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "PokerStars.BE", "HandHistory", user),
		}
	case "linux":
		// Wine prefix layouts.
		return []string{
			filepath.Join(home, ".wine", "drive_c", "users", os.Getenv("USER"), "AppData", "Local", "PokerStars", "HandHistory", user),
			filepath.Join(home, ".wine", "drive_c", "users", os.Getenv("USER"), "AppData", "Local", "PokerStars.BE", "HandHistory", user),
		}
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Application Support", "PokerStars", "HandHistory", user),
		}
	default:
		return nil
	}
}
