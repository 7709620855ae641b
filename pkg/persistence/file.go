package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileVersion is the current version of the key-value file format.
const FileVersion = 1

// fileState is the on-disk JSON document of a FileStore.
type fileState struct {
	// Version is the file format version.
	Version int `json:"version"`

	// SavedAt is when the file was last written.
	SavedAt time.Time `json:"saved_at"`

	// Values holds the stored values by key. encoding/json writes the byte
	// slices as base64 strings.
	Values map[string][]byte `json:"values,omitempty"`
}

// FileStore is a KVStore persisted as a JSON file.
// The whole document is loaded on open and rewritten on every mutation.
type FileStore struct {
	mu    sync.Mutex
	path  string
	state *fileState
}

// OpenFileStore loads the store at path. A missing file yields an empty store;
// the file is created on the first write.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	state, err := s.load()
	if err != nil {
		return nil, err
	}
	s.state = state
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// SyncSetKeyValue stores value under key and rewrites the file.
func (s *FileStore) SyncSetKeyValue(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.state.Values[key]
	s.state.Values[key] = append([]byte(nil), value...)
	if err := s.save(); err != nil {
		if existed {
			s.state.Values[key] = previous
		} else {
			delete(s.state.Values, key)
		}
		return err
	}
	return nil
}

// SyncGetKeyValue copies the value stored under key into buf.
func (s *FileStore) SyncGetKeyValue(key string, buf []byte) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, exists := s.state.Values[key]
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return copyOut(buf, value)
}

// SyncDeleteKeyValue removes key and rewrites the file.
func (s *FileStore) SyncDeleteKeyValue(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.state.Values[key]
	if !exists {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	delete(s.state.Values, key)
	if err := s.save(); err != nil {
		s.state.Values[key] = previous
		return err
	}
	return nil
}

// Clear removes the backing file and all values.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = &fileState{Version: FileVersion, Values: make(map[string][]byte)}
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

// save writes the document. Callers hold s.mu.
func (s *FileStore) save() error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.state.Version = FileVersion
	s.state.SavedAt = time.Now()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	// Write to a temporary file first so a crash never leaves a torn document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

func (s *FileStore) load() (*fileState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileState{Version: FileVersion, Values: make(map[string][]byte)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	state := &fileState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: corrupt store %s: %v", ErrStorageFailure, s.path, err)
	}
	if state.Version != FileVersion {
		return nil, fmt.Errorf("%w: unsupported store version %d", ErrStorageFailure, state.Version)
	}
	if state.Values == nil {
		state.Values = make(map[string][]byte)
	}
	return state, nil
}

// Compile-time interface satisfaction check.
var _ KVStore = (*FileStore)(nil)
