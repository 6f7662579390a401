// Package store holds the process-wide state stores: pure reducers applied by
// a single writer, read by any number of subscribers. A reducer never does
// I/O; a reader never observes a partially-applied update.
package store

import (
	"log/slog"
	"sync"

	"github.com/freemarket-app/freemarket_client/internal/model"
)

// SessionEvent is one transition of the authentication state machine.
type SessionEvent interface {
	isSessionEvent()
}

// SignIn replaces the session unconditionally with a signed-in one.
type SignIn struct {
	Session model.Session
}

// SignOut resets to the default unauthenticated session.
type SignOut struct{}

// SignUpAck is the same transition as SignIn, kept distinct so logs show why
// the state changed.
type SignUpAck struct {
	Session model.Session
}

func (SignIn) isSessionEvent()    {}
func (SignOut) isSessionEvent()   {}
func (SignUpAck) isSessionEvent() {}

// ReduceSession is the pure transition function of the session state machine.
func ReduceSession(state model.Session, event SessionEvent) model.Session {
	switch e := event.(type) {
	case SignIn:
		return e.Session
	case SignUpAck:
		return e.Session
	case SignOut:
		return model.Session{}
	default:
		return state
	}
}

// SessionStore owns the session state. Apply is the only mutation path.
type SessionStore struct {
	mu    sync.RWMutex
	state model.Session
	subs  []chan model.Session
}

// NewSessionStore starts unauthenticated.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Apply(event SessionEvent) model.Session {
	s.mu.Lock()
	s.state = ReduceSession(s.state, event)
	snapshot := s.state
	subs := make([]chan model.Session, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	slog.Debug(
		"session event applied",
		slog.String("event", eventName(event)),
		slog.Bool("signedIn", snapshot.SignedIn),
	)

	for _, sub := range subs {
		select {
		case sub <- snapshot:
		default: // a lagging subscriber skips intermediate snapshots
		}
	}

	return snapshot
}

func (s *SessionStore) Current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel of complete snapshots. Slow consumers miss
// intermediate states, never partial ones.
func (s *SessionStore) Subscribe() <-chan model.Session {
	ch := make(chan model.Session, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func eventName(event SessionEvent) string {
	switch event.(type) {
	case SignIn:
		return "SignIn"
	case SignOut:
		return "SignOut"
	case SignUpAck:
		return "SignUpAck"
	default:
		return "unknown"
	}
}
