// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package authclient

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// storageKey is the single well-known key under which the access token is
// persisted. Clients never store anything else through this package.
const storageKey = "authToken"

// TokenStorage abstracts where the raw access token lives between process
// restarts. Implementations must be safe for concurrent use.
type TokenStorage interface {
	// Get returns the persisted token and true, or ("", false) when absent.
	Get() (string, bool)

	// Set persists the token, replacing any previous value.
	Set(token string) error

	// Remove deletes the persisted token. Removing an absent token is a no-op.
	Remove() error
}

// MemoryStorage keeps the token in process memory only. Suitable for tests
// and for short-lived tools that re-authenticate on every run.
type MemoryStorage struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemoryStorage constructs an empty in-memory token store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Get implements [TokenStorage].
func (storage *MemoryStorage) Get() (string, bool) {
	storage.mu.RLock()
	defer storage.mu.RUnlock()
	return storage.token, storage.set
}

// Set implements [TokenStorage].
func (storage *MemoryStorage) Set(token string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.token = token
	storage.set = true
	return nil
}

// Remove implements [TokenStorage].
func (storage *MemoryStorage) Remove() error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.token = ""
	storage.set = false
	return nil
}

// FileStorage persists the token to a single file on disk, created with
// owner-only permissions. The token survives process restarts.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage constructs a file-backed token store rooted at dir. The
// token is written to <dir>/<storageKey>.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{path: filepath.Join(dir, storageKey)}
}

// Get implements [TokenStorage].
func (storage *FileStorage) Get() (string, bool) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	data, err := os.ReadFile(storage.path)
	if err != nil {
		return "", false
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Set implements [TokenStorage].
func (storage *FileStorage) Set(token string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(storage.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(storage.path, []byte(token), 0o600)
}

// Remove implements [TokenStorage].
func (storage *FileStorage) Remove() error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	err := os.Remove(storage.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
