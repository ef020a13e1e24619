package portal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// sessionKey is the single durable key holding the logged-in user.
const sessionKey = "currentUser"

// UserDirectory resolves users by identity. *Store satisfies it.
type UserDirectory interface {
	UserByID(id int) (User, bool)
}

// Session holds the logged-in principal and mirrors it into durable
// storage so it survives a restart.
type Session struct {
	mu        sync.RWMutex
	kv        KeyValue
	log       *slog.Logger
	principal *User
}

// NewSession restores a persisted principal from kv, if any. The stored
// record is trusted as is: credentials are not re-checked and the user may
// no longer exist. Content that does not decode is treated as no session
// and removed, as is a record without a user id.
func NewSession(kv KeyValue, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{kv: kv, log: logger}

	raw, ok, err := kv.Get(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return s, nil
	}

	var u User
	err = json.Unmarshal([]byte(raw), &u)
	if err == nil && u.UserID <= 0 {
		err = fmt.Errorf("no user id in %q", raw)
	}
	if err != nil {
		logger.Warn("discarding unreadable session", "error", err)
		if err := kv.Delete(sessionKey); err != nil {
			logger.Warn("remove unreadable session", "error", err)
		}
		return s, nil
	}
	s.principal = &u
	logger.Debug("session restored", "user_id", u.UserID)
	return s, nil
}

// Login looks for a user in pool whose Email and password both match. The
// email comparison is exact and case-sensitive. A failed login leaves any
// existing session in place.
func (s *Session) Login(email, password string, pool []User) (User, error) {
	for _, u := range pool {
		if u.Email != email || !passwordMatches(u.Password, password) {
			continue
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.persist(u); err != nil {
			return User{}, err
		}
		s.principal = &u
		s.log.Info("login", "user_id", u.UserID, "role", u.Role)
		return u, nil
	}
	s.log.Info("login rejected")
	return User{}, ErrInvalidCredentials
}

// Logout forgets the principal and removes it from storage.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(sessionKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if s.principal != nil {
		s.log.Info("logout", "user_id", s.principal.UserID)
	}
	s.principal = nil
	return nil
}

// UpdateUser replaces the principal's snapshot. It does not check that u is
// the same identity; that is up to the caller.
func (s *Session) UpdateUser(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return ErrNotAuthenticated
	}
	if err := s.persist(u); err != nil {
		return err
	}
	s.principal = &u
	return nil
}

func (s *Session) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return User{}, false
	}
	return *s.principal, true
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal != nil
}

// Resolve re-reads the principal from dir by UserID, so callers see the
// directory's current data rather than the snapshot taken at login. It
// reports false when nobody is logged in or the user has been deleted.
func (s *Session) Resolve(dir UserDirectory) (User, bool) {
	cur, ok := s.Current()
	if !ok {
		return User{}, false
	}
	return dir.UserByID(cur.UserID)
}

func (s *Session) persist(u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(sessionKey, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
