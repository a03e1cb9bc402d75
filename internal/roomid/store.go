// Package roomid persists the device's room id and generates new ones.
package roomid

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Key is the single key under which the room id is stored.
const Key = "latest_viewer_room_id"

// Store loads, saves and clears the device's room id.
// Implementations do not validate ids; callers apply their own length policy.
type Store interface {
	// Load returns the stored room id, or "" when none is stored.
	Load() (string, error)
	// Save replaces the stored room id.
	Save(id string) error
	// Clear removes the stored room id.
	Clear() error
}

// FileStore keeps the room id in a small YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the file at path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the room id. A missing file yields "".
func (s *FileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read room file: %w", err)
	}

	doc := map[string]string{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse room file %s: %w", s.path, err)
	}
	return doc[Key], nil
}

// Save writes the room id, replacing any previous value.
func (s *FileStore) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(map[string]string{Key: id})
	if err != nil {
		return fmt.Errorf("encode room file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create room dir: %w", err)
	}

	// Write to a sibling temp file so a crash never leaves a half-written id.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write room file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace room file: %w", err)
	}
	return nil
}

// Clear deletes the room file. Clearing an absent id is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove room file: %w", err)
	}
	return nil
}

// MemoryStore keeps the room id in memory only.
type MemoryStore struct {
	mu sync.Mutex
	id string
}

// NewMemoryStore returns a store holding id.
func NewMemoryStore(id string) *MemoryStore {
	return &MemoryStore{id: id}
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

func (s *MemoryStore) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	return nil
}
