package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kanno/yt-chapters-go/internal/domain"
	"go.uber.org/zap"
)

func TestWriteChaptersMatchesRender(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, zap.NewNop())

	list := &domain.ChapterList{
		Markers: []domain.ChapterMarker{
			{Offset: 0, Title: "Intro"},
			{Offset: 250 * time.Second, Title: "Recap"},
		},
		Hashtags: []string{"#nixos", "#linux"},
	}

	path, err := w.WriteChapters("dQw4w9WgXcQ", list)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if filepath.Base(path) != "dQw4w9WgXcQ_chapters.txt" {
		t.Fatalf("unexpected artifact name: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := list.Render() + "\n"
	if string(content) != want {
		t.Fatalf("file content differs from render:\n got %q\nwant %q", content, want)
	}
}

func TestWriteURLRefs(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, zap.NewNop())

	refs := []domain.URLRef{
		{Offset: 65 * time.Second, URL: "https://github.com/owner/repo"},
	}

	path, err := w.WriteURLRefs("vid123", refs)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "GitHub URLs extracted from live chat:\n\n1:05 - https://github.com/owner/repo\n"
	if string(content) != want {
		t.Fatalf("unexpected content:\n got %q\nwant %q", content, want)
	}
}

func TestWriteChaptersFailsOnBadDir(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "missing", "nested"), zap.NewNop())

	_, err := w.WriteChapters("vid", &domain.ChapterList{
		Markers: []domain.ChapterMarker{{Offset: 0, Title: "Intro"}},
	})
	if err == nil {
		t.Fatal("expected error for nonexistent directory")
	}
}
