package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/parle/internal/shared"
	"github.com/gofrs/flock"
)

// DefaultTokenKey is the storage key the token is persisted under.
const DefaultTokenKey = "access_token"

// MemoryTokens is a [TokenStore] that lives only as long as the process.
type MemoryTokens struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokens(token string) *MemoryTokens {
	return &MemoryTokens{token: token}
}

func (m *MemoryTokens) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokens) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// FileTokens stores tokens in a JSON object file, one entry per key, readable only by the owner.
//
// A sibling ".lock" file serializes access across processes. mu serializes callers within
// this process around the one flock handle.
type FileTokens struct {
	path string
	key  string

	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileTokens creates a file store at path (~ is expanded). An empty key means [DefaultTokenKey].
func NewFileTokens(path, key string) (*FileTokens, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: token path is empty", shared.ErrInvalidConfig)
	}
	expanded := shared.ExpandHome(path)
	if key == "" {
		key = DefaultTokenKey
	}
	return &FileTokens{path: expanded, key: key, lock: flock.New(expanded + ".lock")}, nil
}

// Path returns the token file location.
func (f *FileTokens) Path() string {
	return f.path
}

// Load returns the token for the key. A missing directory reads as no token and is not created.
func (f *FileTokens) Load() (string, error) {
	if _, err := os.Stat(filepath.Dir(f.path)); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.RLock(); err != nil {
		return "", fmt.Errorf("%w: lock %s: %w", shared.ErrTokenStore, f.path, err)
	}
	defer f.lock.Unlock()

	entries, err := f.read()
	if err != nil {
		return "", err
	}
	return entries[f.key], nil
}

func (f *FileTokens) Save(token string) error {
	return f.update(func(entries map[string]string) {
		entries[f.key] = token
	})
}

// Clear removes the key. The file is deleted once no keys remain. Clearing a missing
// key or file succeeds.
func (f *FileTokens) Clear() error {
	return f.update(func(entries map[string]string) {
		delete(entries, f.key)
	})
}

func (f *FileTokens) update(fn func(map[string]string)) error {
	if err := f.ensureDir(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock %s: %w", shared.ErrTokenStore, f.path, err)
	}
	defer f.lock.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	fn(entries)

	if len(entries) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: remove %s: %w", shared.ErrTokenStore, f.path, err)
		}
		return nil
	}
	return f.write(entries)
}

func (f *FileTokens) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("%w: create directory: %w", shared.ErrTokenStore, err)
	}
	return nil
}

func (f *FileTokens) read() (map[string]string, error) {
	entries := map[string]string{}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", shared.ErrTokenStore, f.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", shared.ErrTokenStore, f.path, err)
	}
	return entries, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (f *FileTokens) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", shared.ErrTokenStore, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".token-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", shared.ErrTokenStore, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: chmod: %w", shared.ErrTokenStore, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %w", shared.ErrTokenStore, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", shared.ErrTokenStore, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("%w: rename: %w", shared.ErrTokenStore, err)
	}
	return nil
}
