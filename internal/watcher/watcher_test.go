package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIsHistoryFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"HH20240326 Ostara III - $0.01-$0.02 - USD No Limit Hold'em.txt", true},
		{"/some/dir/HH20240329.txt", true},
		{"notes.txt", false},
		{"HH20240326.log", false},
		{"tracker.db", false},
	}
	for _, c := range cases {
		if got := isHistoryFile(c.path); got != c.want {
			t.Errorf("isHistoryFile(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestReadNewContentTracksOffsets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "HH20240326.txt")
	if err := os.WriteFile(path, []byte("first hand\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var chunks []string
	hw, err := New(dir, Config{
		OnNewData: func(_ string, chunk string) {
			chunks = append(chunks, chunk)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer hw.Stop()

	if err := hw.readNewContent(path); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "first hand\n" {
		t.Fatalf("chunks = %q", chunks)
	}

	// No growth, no callback.
	if err := hw.readNewContent(path); err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("unchanged file produced a chunk: %q", chunks)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("second hand\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	if err := hw.readNewContent(path); err != nil {
		t.Fatalf("read after append: %v", err)
	}
	if len(chunks) != 2 || chunks[1] != "second hand\n" {
		t.Fatalf("chunks after append = %q", chunks)
	}
}

func TestReadNewContentAfterTruncate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "HH1.txt")
	if err := os.WriteFile(path, []byte("a long first version\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var last string
	hw, err := New(dir, Config{
		OnNewData: func(_ string, chunk string) { last = chunk },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer hw.Stop()

	if err := hw.readNewContent(path); err != nil {
		t.Fatal(err)
	}

	// A rotated file restarts from offset zero.
	if err := os.WriteFile(path, []byte("short\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := hw.readNewContent(path); err != nil {
		t.Fatal(err)
	}
	if last != "short\n" {
		t.Errorf("chunk after truncate = %q, want full new content", last)
	}
}

func TestSkipExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "HH2.txt")
	if err := os.WriteFile(path, []byte("old content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := false
	hw, err := New(dir, Config{
		OnNewData: func(string, string) { fired = true },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer hw.Stop()

	hw.SkipExisting()
	if err := hw.readNewContent(path); err != nil {
		t.Fatal(err)
	}
	if fired {
		t.Error("existing content reported after SkipExisting")
	}
}

func TestStartDeliversAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "HH3.txt")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	got := make(chan string, 8)
	hw, err := New(dir, Config{
		OnNewData: func(_ string, chunk string) { got <- chunk },
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := hw.Start(); err != nil {
		t.Fatal(err)
	}
	defer hw.Stop()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("appended hand\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	// The 500ms poll fallback bounds how long delivery can take even when
	// no fsnotify event fires.
	var buf strings.Builder
	deadline := time.After(3 * time.Second)
	for {
		select {
		case chunk := <-got:
			buf.WriteString(chunk)
			if strings.Contains(buf.String(), "appended hand\n") {
				return
			}
		case <-deadline:
			t.Fatalf("appended content never delivered, got %q", buf.String())
		}
	}
}
