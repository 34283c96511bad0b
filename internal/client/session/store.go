// Package session owns the client's bearer token: the single source of truth
// for "is a user logged in". Components receive a TokenStore; nothing else is
// allowed to touch the stored credential.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore holds at most one bearer token.
//
// Contract:
//   - Token: returns the current token, or false when logged out.
//   - SetToken: overwrites any prior token; called only after a successful
//     login.
//   - Clear: removes the token; clearing an empty store is a no-op, not an
//     error.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string) error
	Clear() error
}

// ErrEmptyToken is returned when SetToken is called with an empty string.
var ErrEmptyToken = errors.New("session: empty token")

// MemStore keeps the token in memory only. Used in tests and for one-shot
// commands that should not persist a session.
type MemStore struct {
	mu    sync.Mutex
	token string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemStore) SetToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// FileStore persists the token to a file so the session survives process
// restarts. The file is created owner-only.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (s *FileStore) SetToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}
