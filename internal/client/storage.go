package client

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

// Storage keys, matching the browser build's sessionStorage layout.
const (
	keyAccessToken = "jwtAccessToken"
	keyExpireAt    = "expireAt"
	keyRole        = "role"
	keyUser        = "user"
)

// Storage is tab-scoped key/value storage with sessionStorage semantics:
// single writer per tab, cleared when the tab dies.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
	Clear()
}

// MemoryStorage is the in-process Storage used by tests and non-browser hosts.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryStorage) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

func (m *MemoryStorage) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
}

// SessionStore reads and writes the Session through a Storage. Every load
// re-checks expiry: an expired session is dropped on read and reported as
// absent, so no caller can ever observe a stale credential.
type SessionStore struct {
	storage Storage
	now     func() time.Time
}

func NewSessionStore(storage Storage) *SessionStore {
	return &SessionStore{storage: storage, now: time.Now}
}

// Load returns the current session, or nil when none is stored or the
// stored one has expired. Expired credentials are removed as a side effect.
func (s *SessionStore) Load() *domain.Session {
	token, ok := s.storage.Get(keyAccessToken)
	if !ok || token == "" {
		return nil
	}

	var expireAt int64
	if raw, ok := s.storage.Get(keyExpireAt); ok {
		expireAt, _ = strconv.ParseInt(raw, 10, 64)
	}

	sess := &domain.Session{AccessToken: token, ExpireAt: expireAt}
	if !sess.Live(s.now()) {
		s.DropCredentials()
		return nil
	}

	if role, ok := s.storage.Get(keyRole); ok {
		sess.Role = role
	}
	if raw, ok := s.storage.Get(keyUser); ok {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			sess.User = &user
		}
	}
	return sess
}

func (s *SessionStore) Save(sess *domain.Session) {
	s.storage.Set(keyAccessToken, sess.AccessToken)
	if sess.ExpireAt > 0 {
		s.storage.Set(keyExpireAt, strconv.FormatInt(sess.ExpireAt, 10))
	} else {
		s.storage.Remove(keyExpireAt)
	}
	if sess.Role != "" {
		s.storage.Set(keyRole, sess.Role)
	}
	if sess.User != nil {
		if raw, err := json.Marshal(sess.User); err == nil {
			s.storage.Set(keyUser, string(raw))
		}
	}
}

// DropCredentials removes the token and expiry only — the 401 path. Role and
// profile stay so the timeout page can still address the user.
func (s *SessionStore) DropCredentials() {
	s.storage.Remove(keyAccessToken)
	s.storage.Remove(keyExpireAt)
}

// Clear wipes all session-scoped state — the 403 and logout path.
func (s *SessionStore) Clear() {
	s.storage.Clear()
}
