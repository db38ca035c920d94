// Package session owns the persisted credentials: who is logged in and what
// bearer token outbound requests carry. It is the only component that writes
// the session; login, refresh and logout flows go through it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cinequest/cinequest-go/internal/types"
)

// ErrNoSession is returned by refresh-path writes when no session exists.
var ErrNoSession = errors.New("no session")

// Store is the single source of truth for authentication state.
// AccessToken is a non-blocking read; IsAuthenticated is a presence check
// only. Expiry is discovered reactively via a 401.
type Store interface {
	Session() *types.Session
	AccessToken() string
	SetSession(types.Session) error
	SetAccessToken(token string) error
	Clear() error
	IsAuthenticated() bool
}

// MemStore keeps the session in memory. Used in tests and by embedders that
// manage persistence themselves.
type MemStore struct {
	mu   sync.RWMutex
	sess *types.Session
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Session() *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return nil
	}
	cp := *s.sess
	return &cp
}

func (s *MemStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return ""
	}
	return s.sess.AccessToken
}

func (s *MemStore) SetSession(sess types.Session) error {
	if sess.AccessToken == "" {
		return fmt.Errorf("session requires an access token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = &sess
	return nil
}

func (s *MemStore) SetAccessToken(token string) error {
	if token == "" {
		return fmt.Errorf("access token cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return ErrNoSession
	}
	s.sess.AccessToken = token
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}

func (s *MemStore) IsAuthenticated() bool { return s.AccessToken() != "" }

// FileStore persists the session as a JSON file, the CLI analog of the
// browser's local storage. Writes are atomic (temp file + rename) and
// all-or-none: either the full session lands on disk or nothing changes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens a store at path. An empty path defaults to
// cinequest/session.json under the user config dir.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "cinequest", "session.json")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() *types.Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var sess types.Session
	if json.Unmarshal(data, &sess) != nil || sess.AccessToken == "" {
		return nil
	}
	return &sess
}

func (s *FileStore) write(sess types.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Session() *types.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) AccessToken() string {
	if sess := s.Session(); sess != nil {
		return sess.AccessToken
	}
	return ""
}

func (s *FileStore) SetSession(sess types.Session) error {
	if sess.AccessToken == "" {
		return fmt.Errorf("session requires an access token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(sess)
}

// SetAccessToken replaces only the access token of the existing session,
// the refresh-flow write path.
func (s *FileStore) SetAccessToken(token string) error {
	if token == "" {
		return fmt.Errorf("access token cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.load()
	if sess == nil {
		return ErrNoSession
	}
	sess.AccessToken = token
	return s.write(*sess)
}

// Clear removes the persisted session. Idempotent.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) IsAuthenticated() bool { return s.AccessToken() != "" }
