// Package session runs one game controller per player session and
// serializes the commands sent to it.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"digital.vasic.challengegame/pkg/command"
	"digital.vasic.challengegame/pkg/game"
	"digital.vasic.challengegame/pkg/logging"
)

// ErrSessionNotFound is returned for unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session owns one controller. Execute may be called from any
// goroutine; commands run one at a time in arrival order.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu   sync.Mutex
	ctrl *game.Controller
}

// Controller returns the session's controller, for subscribing to
// its bus or reading state.
func (s *Session) Controller() *game.Controller { return s.ctrl }

// Execute runs one command against the session's game.
func (s *Session) Execute(cmd command.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Execute(cmd)
}

// State returns a copy of the session's game state.
func (s *Session) State() game.GameState { return s.ctrl.State() }

// Manager tracks live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     []game.Option
	logger   logging.Logger
}

// NewManager creates a manager. opts are applied to every
// controller it creates.
func NewManager(logger logging.Logger, opts ...game.Option) *Manager {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   logger,
	}
}

// Create starts a session over state, with its own controller and
// event bus.
func (m *Manager) Create(state *game.GameState, opts ...game.Option) *Session {
	id := uuid.NewString()
	log := m.logger.WithFields(logging.SessionField(id))

	all := make([]game.Option, 0, len(m.opts)+len(opts)+1)
	all = append(all, game.WithLogger(log))
	all = append(all, m.opts...)
	all = append(all, opts...)

	s := &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		ctrl:      game.NewController(state, all...),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Info("session created", logging.StringField("map", s.State().MapID))
	return s
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Execute runs cmd in the session with the given ID.
func (m *Manager) Execute(id string, cmd command.Command) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	return s.Execute(cmd)
}

// Delete ends a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	m.logger.Info("session deleted", logging.SessionField(id))
	return true
}

// List returns live sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
