package cache

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
)

const readCacheSize = 128

// fsStore persists one JSON file per key under dir. A small LRU shields
// repeated reads of hot snapshots (bulk collections get re-read on every
// session resume) from disk and decode costs.
type fsStore struct {
	fs  afero.Fs
	dir string

	mu        sync.Mutex
	readCache *lru.Cache[string, []byte]
}

// New creates a Store rooted at dir on the OS filesystem.
func New(dir string) (Store, error) {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs creates a Store on an explicit filesystem. Tests pass
// afero.NewMemMapFs().
func NewWithFs(fs afero.Fs, dir string) (Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %q: %w", dir, err)
	}
	readCache, err := lru.New[string, []byte](readCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create read cache: %w", err)
	}
	return &fsStore{fs: fs, dir: dir, readCache: readCache}, nil
}

func (s *fsStore) Get(key string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok := s.readCache.Get(key); ok {
		if err := json.Unmarshal(raw, out); err != nil {
			s.readCache.Remove(key)
			return fmt.Errorf("failed to decode cache key %q: %w", key, err)
		}
		return nil
	}

	raw, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read cache key %q: %w", key, err)
	}

	s.readCache.Add(key, raw)
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode cache key %q: %w", key, err)
	}
	return nil
}

func (s *fsStore) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := afero.WriteFile(s.fs, s.path(key), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write cache key %q: %w", key, err)
	}
	s.readCache.Add(key, raw)
	return nil
}

func (s *fsStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(key)
}

func (s *fsStore) deleteLocked(key string) error {
	s.readCache.Remove(key)
	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache key %q: %w", key, err)
	}
	return nil
}

func (s *fsStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keysLocked()
}

func (s *fsStore) keysLocked() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache directory: %w", err)
	}

	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(info.Name(), ".json"))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *fsStore) PurgeUser(userID string) error {
	if userID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.keysLocked()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if IsUserKey(key, userID) {
			if err := s.deleteLocked(key); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *fsStore) ClearGlobals() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range GlobalKeys {
		if err := s.deleteLocked(key); err != nil {
			return err
		}
	}
	return nil
}

// path maps a key to its file. Keys contain user emails, so escape anything
// the filesystem might object to.
func (s *fsStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}
