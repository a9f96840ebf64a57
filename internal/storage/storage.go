// Package storage persists uploaded images on disk and removes them
// by filename. Deletion is best-effort: a failed unlink never fails
// the enclosing request.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Folder conventions, relative to the public base directory.
const (
	PropertyImagesDir = "images/properties"
	ReviewImagesDir   = "images/reviews/users"
)

// ErrNotImage is returned when an upload is not an image MIME type.
var ErrNotImage = errors.New("only images are allowed")

// Store writes and unlinks files under a fixed public directory.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Path resolves the on-disk location of a stored file.
func (s *Store) Path(dir, filename string) string {
	return filepath.Join(s.baseDir, dir, filename)
}

// Dir resolves the on-disk location of a storage folder.
func (s *Store) Dir(dir string) string {
	return filepath.Join(s.baseDir, dir)
}

// SaveUpload stores one multipart file and returns the assigned
// filename. Non-image MIME types are rejected with ErrNotImage.
func (s *Store) SaveUpload(dir string, fh *multipart.FileHeader) (string, error) {
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	return s.Save(dir, fh.Filename, src)
}

// Save writes the reader's content under a generated filename:
// sanitized base name, a dash, the upload timestamp in milliseconds,
// and the original extension. Collision avoidance is the timestamp,
// not a content hash.
func (s *Store) Save(dir, originalName string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir(dir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	base = strings.Join(strings.Fields(base), "-")
	filename := fmt.Sprintf("%s-%d%s", base, time.Now().UnixMilli(), ext)

	dst, err := os.Create(s.Path(dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filename, nil
}

// Delete unlinks a stored file. A read-only filesystem is swallowed
// silently; every other failure, including a missing file, is logged
// and otherwise ignored.
func (s *Store) Delete(dir, filename string) {
	if filename == "" {
		return
	}
	path := s.Path(dir, filename)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, syscall.EROFS) {
			return
		}
		log.Printf("[images] failed to delete %s: %v", path, err)
	}
}

// DeleteAll issues one concurrent delete per filename and waits for
// all of them. One failure does not block the others.
func (s *Store) DeleteAll(dir string, filenames []string) {
	var wg sync.WaitGroup
	for _, filename := range filenames {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			s.Delete(dir, name)
		}(filename)
	}
	wg.Wait()
}
