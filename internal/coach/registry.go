package coach

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/neuropilot/internal/adaptive"
	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/scenario"
)

// ErrUnknownSession is returned for IDs that were never started or have ended.
var ErrUnknownSession = errors.New("unknown session")

// session is the in-memory state of one practice conversation. mu serializes
// its turns; distinct sessions never share anything.
type session struct {
	mu sync.Mutex

	id       uuid.UUID
	scenario scenario.Scenario
	avatarID string
	system   string
	state    *adaptive.SessionState
	history  []conversation.Turn
	results  []feedback.Result
	ended    bool
}

// Registry maps session IDs to their state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*session)}
}

func (r *Registry) add(s *session) {
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
}

func (r *Registry) get(id uuid.UUID) (*session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

func (r *Registry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// lock returns the session with its mutex held. Callers must unlock.
func (r *Registry) lock(id uuid.UUID) (*session, error) {
	s, err := r.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil, ErrUnknownSession
	}
	return s, nil
}
