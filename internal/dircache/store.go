package dircache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	json "github.com/goccy/go-json"
)

// Store persists the whole directory map
type Store interface {
	Load() (map[string][]string, error)
	Save(entries map[string][]string) error
}

// FileStore keeps the map as a JSON object keyed by directory path
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the map from disk. A missing or empty file yields an empty
// map and nil error; a file that cannot be parsed returns an error.
func (s *FileStore) Load() (map[string][]string, error) {
	entries := map[string][]string{}
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return entries, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return entries, fmt.Errorf("read cache: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string][]string{}, fmt.Errorf("decode cache: %w", err)
	}
	if entries == nil {
		entries = map[string][]string{}
	}
	return entries, nil
}

// Save writes the map atomically through a temporary file
func (s *FileStore) Save(entries map[string][]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store, mainly for tests
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]string
	saves   int
}

// NewMemoryStore returns a store seeded with a copy of entries
func NewMemoryStore(entries map[string][]string) *MemoryStore {
	return &MemoryStore{entries: cloneEntries(entries)}
}

// Load returns a copy of the stored map
func (s *MemoryStore) Load() (map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries), nil
}

// Save replaces the stored map with a copy of entries
func (s *MemoryStore) Save(entries map[string][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = cloneEntries(entries)
	s.saves++
	return nil
}

// Saves returns how many times Save has been called
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func cloneEntries(entries map[string][]string) map[string][]string {
	out := make(map[string][]string, len(entries))
	for k, v := range entries {
		out[k] = slices.Clone(v)
	}
	return out
}
