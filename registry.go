package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileRecord describes one stored file as reported by the API.
type FileRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimeType"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Registry is the in-memory view of the upload directory. A single mutex
// serializes all access; the lock is never held across disk I/O, so registry
// and filesystem state may disagree for the duration of a single request.
type Registry struct {
	mu    sync.Mutex
	files []FileRecord
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Load rebuilds the registry from the files in dir. The scan is
// non-recursive and skips dotfiles and subdirectories. Each file gets a
// fresh id; ids are stable for the process lifetime only. Records are
// sorted by modification time, newest first. Any stat failure is returned
// to the caller, which treats it as fatal: the registry must not start in
// a partially known state.
func (r *Registry) Load(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read upload directory: %w", err)
	}

	files := make([]FileRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		files = append(files, FileRecord{
			ID:         uuid.New().String(),
			Name:       entry.Name(),
			Size:       info.Size(),
			MimeType:   guessMimeType(entry.Name()),
			UploadedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadedAt.After(files[j].UploadedAt)
	})

	r.mu.Lock()
	r.files = files
	r.mu.Unlock()
	return nil
}

// InsertFront prepends a record. Uploads arrive in real time, so prepending
// approximates newest-first order without a re-sort.
func (r *Registry) InsertFront(record FileRecord) {
	r.mu.Lock()
	r.files = append([]FileRecord{record}, r.files...)
	r.mu.Unlock()
}

// Remove deletes the record with the given id and returns it. The second
// return value is false when the id is unknown; the registry is untouched
// in that case.
func (r *Registry) Remove(id string) (FileRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.files {
		if f.ID == id {
			r.files = append(r.files[:i], r.files[i+1:]...)
			return f, true
		}
	}
	return FileRecord{}, false
}

// Snapshot returns a copy of the current records in listing order.
func (r *Registry) Snapshot() []FileRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FileRecord, len(r.files))
	copy(out, r.files)
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}
