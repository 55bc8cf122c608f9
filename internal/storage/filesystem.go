package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Compile-time check that FileSystem implements Saver.
var _ Saver = (*FileSystem)(nil)

// FileSystem implements Saver on the local filesystem. Images are written
// losslessly as PNG using an atomic write (temp file + rename).
type FileSystem struct{}

func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// Save writes img into dir, creating the directory (including parents) if
// missing. The filename is a sanitized prefix of hint plus a time and
// uniqueness suffix, so repeated saves never collide.
func (fs *FileSystem) Save(img image.Image, dir, hint string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	dst := filepath.Join(dir, deriveFilename(hint, time.Now()))

	tmp, err := os.CreateTemp(dir, "save-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encoding png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return "", fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}

	// Rename succeeded; prevent deferred cleanup from removing the final file.
	tmpPath = ""

	return dst, nil
}

// deriveFilename builds "<sanitized-hint>_<unix>_<uid>.png". The hint is
// truncated to 30 characters with every non-alphanumeric character replaced
// by an underscore; the uuid fragment keeps same-second saves distinct.
func deriveFilename(hint string, now time.Time) string {
	if len(hint) > 30 {
		hint = hint[:30]
	}
	var b strings.Builder
	for _, r := range hint {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	prefix := b.String()
	if prefix == "" {
		prefix = "image"
	}
	uid := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%d_%s.png", prefix, now.Unix(), uid)
}
