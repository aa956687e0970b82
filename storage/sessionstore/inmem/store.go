package inmemstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/walimu/walimu/core/session"
)

// store keeps the two session entries (token, serialized profile) in two maps
// guarded by one mutex so they are always written and cleared together.
// Used in DEV/TEST; sessions do not survive a restart.
type store struct {
	mutex    sync.RWMutex
	tokens   map[string]string
	profiles map[string][]byte
}

var _ session.Store = (*store)(nil)

func New() *store {
	return &store{
		tokens:   make(map[string]string),
		profiles: make(map[string][]byte),
	}
}

func (s *store) Save(_ context.Context, sid string, sess session.Session) error {
	data, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tokens[sid] = sess.Token
	s.profiles[sid] = data
	return nil
}

func (s *store) Get(_ context.Context, sid string) (session.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	token, ok := s.tokens[sid]
	if !ok || token == "" {
		return session.Session{}, session.ErrNotFound
	}
	data, ok := s.profiles[sid]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}

	var profile session.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return session.Session{}, err
	}
	return session.Session{SID: sid, Token: token, User: &profile}, nil
}

func (s *store) Delete(_ context.Context, sid string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.tokens, sid)
	delete(s.profiles, sid)
	return nil
}
