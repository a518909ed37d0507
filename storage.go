package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileTooLarge is returned by WriteStream when a part crosses the size
// ceiling.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// Store owns all filesystem access below the upload directory.
type Store struct {
	basePath string
	maxSize  int64
}

func NewStore(basePath string, maxSize int64) *Store {
	return &Store{basePath: basePath, maxSize: maxSize}
}

// Create opens a new file for the given name. If the name is already taken,
// the collision is resolved by inserting the first 8 characters of the
// upload id between stem and extension (report.pdf -> report_a1b2c3d4.pdf).
// O_EXCL makes the create atomic, so two concurrent uploads of the same
// name cannot end up sharing a path. Returns the open file and the name it
// was created under.
func (s *Store) Create(name, id string) (*os.File, string, error) {
	path := filepath.Join(s.basePath, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err == nil {
		return f, name, nil
	}
	if !os.IsExist(err) {
		return nil, "", err
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	resolved := fmt.Sprintf("%s_%s%s", stem, id[:8], ext)
	path = filepath.Join(s.basePath, resolved)
	f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, "", err
	}
	return f, resolved, nil
}

// WriteStream copies src into dst until EOF, enforcing the size ceiling on
// the running total. On ceiling breach or write failure the partial file is
// removed best-effort and dst is closed. Returns the number of bytes
// written on success.
func (s *Store) WriteStream(dst *os.File, src io.Reader) (int64, error) {
	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return 0, fmt.Errorf("write error: %w", err)
	}
	if written > s.maxSize {
		dst.Close()
		os.Remove(dst.Name())
		return 0, ErrFileTooLarge
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return 0, fmt.Errorf("write error: %w", err)
	}
	return written, nil
}

// Remove deletes the backing file for name. A missing file is not an error.
func (s *Store) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.basePath, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Open opens the backing file for name for reading.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	path := filepath.Join(s.basePath, name)
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return nil, nil, os.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

// SanitizeFilename maps every rune outside [A-Za-z0-9.- _] to '_',
// one-for-one. Runs are not collapsed and nothing is trimmed; an empty
// input stays empty, callers supply the fallback name.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_', r == ' ':
			return r
		default:
			return '_'
		}
	}, name)
}

// guessMimeType returns the content type for a filename based on its
// extension, defaulting to application/octet-stream.
func guessMimeType(name string) string {
	if mt := mime.TypeByExtension(filepath.Ext(name)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
