// Package output writes the validated chapter artifact. Files are written
// atomically so a failing run never leaves a partial artifact behind.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/creachadair/atomicfile"
	"github.com/kanno/yt-chapters-go/internal/domain"
	"go.uber.org/zap"
)

type Writer struct {
	dir    string
	logger *zap.Logger
}

func NewWriter(dir string, logger *zap.Logger) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, logger: logger}
}

// WriteChapters saves the chapter block to <videoID>_chapters.txt and
// returns the artifact path. The file content matches the console render
// exactly.
func (w *Writer) WriteChapters(videoID string, list *domain.ChapterList) (string, error) {
	path := filepath.Join(w.dir, videoID+"_chapters.txt")

	if err := w.writeAtomic(path, list.Render()+"\n"); err != nil {
		return "", err
	}

	w.logger.Info("Chapter markers saved",
		zap.String("path", path),
		zap.Int("markers", len(list.Markers)),
		zap.Int("hashtags", len(list.Hashtags)),
	)

	return path, nil
}

// WriteURLRefs saves timestamped URL references extracted from live chat to
// <videoID>_github_urls.txt.
func (w *Writer) WriteURLRefs(videoID string, refs []domain.URLRef) (string, error) {
	path := filepath.Join(w.dir, videoID+"_github_urls.txt")

	var b strings.Builder
	b.WriteString("GitHub URLs extracted from live chat:\n\n")
	for _, ref := range refs {
		fmt.Fprintf(&b, "%s - %s\n", domain.FormatTimestamp(ref.Offset), ref.URL)
	}

	if err := w.writeAtomic(path, b.String()); err != nil {
		return "", err
	}

	w.logger.Info("Extracted URLs saved",
		zap.String("path", path),
		zap.Int("urls", len(refs)),
	)

	return path, nil
}

func (w *Writer) writeAtomic(path, content string) error {
	f, err := atomicfile.New(path, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Cancel()

	if _, err := f.Write([]byte(content)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
