package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/patrickmn/go-cache"
)

// Persistence is the durable key-value store the session lives in.
type Persistence interface {
	Save(key, value string) error
	Load(key string) (string, bool)
	Clear(key string) error
}

// CacheStore keeps entries in a non-expiring go-cache. With a file path set
// every write is flushed so the next process run can pick the session up.
type CacheStore struct {
	cache *cache.Cache
	path  string
	mu    sync.Mutex
}

func NewCacheStore() *CacheStore {
	return &CacheStore{cache: cache.New(cache.NoExpiration, 0)}
}

// OpenFileStore restores entries from path when it exists.
func OpenFileStore(path string) (*CacheStore, error) {
	s := NewCacheStore()
	s.path = path

	if err := s.cache.LoadFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load session file: %w", err)
	}
	return s, nil
}

func (s *CacheStore) Save(key, value string) error {
	s.cache.Set(key, value, cache.NoExpiration)
	return s.flush()
}

func (s *CacheStore) Load(key string) (string, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *CacheStore) Clear(key string) error {
	s.cache.Delete(key)
	return s.flush()
}

func (s *CacheStore) flush() error {
	if s.path == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	// CreateTemp opens the file 0600; the rename keeps that mode.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.cache.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
