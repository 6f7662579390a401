package store

import (
	"testing"

	"github.com/freemarket-app/freemarket_client/internal/model"
)

func TestReduceSession_SignIn(t *testing.T) {
	got := ReduceSession(model.Session{}, SignIn{Session: model.Session{
		SignedIn:    true,
		Username:    "ada",
		DisplayName: "Ada Lovelace",
		Email:       "ada@example.com",
	}})

	if !got.SignedIn || got.Username != "ada" {
		t.Errorf("ReduceSession(SignIn) = %+v, want signed-in ada", got)
	}
}

func TestReduceSession_SignUpAck(t *testing.T) {
	got := ReduceSession(model.Session{}, SignUpAck{Session: model.Session{
		SignedIn: true,
		Username: "bob",
	}})

	if !got.SignedIn || got.Username != "bob" {
		t.Errorf("ReduceSession(SignUpAck) = %+v, want signed-in bob", got)
	}
}

// Sign-out yields the exact default session no matter what came before.
func TestReduceSession_SignOutFromAnyState(t *testing.T) {
	priors := []model.Session{
		{},
		{SignedIn: true, Username: "ada", DisplayName: "Ada Lovelace", Email: "ada@example.com"},
		{Username: "stale-but-not-signed-in"},
	}

	for _, prior := range priors {
		got := ReduceSession(prior, SignOut{})
		if got != (model.Session{}) {
			t.Errorf("ReduceSession(%+v, SignOut) = %+v, want zero session", prior, got)
		}
	}
}

func TestSessionStore_StartsUnauthenticated(t *testing.T) {
	s := NewSessionStore()

	if got := s.Current(); got.SignedIn {
		t.Errorf("Current() = %+v, want unauthenticated", got)
	}
}

func TestSessionStore_ApplyAndSubscribe(t *testing.T) {
	s := NewSessionStore()
	sub := s.Subscribe()

	s.Apply(SignIn{Session: model.Session{SignedIn: true, Username: "ada"}})

	if got := s.Current(); !got.SignedIn || got.Username != "ada" {
		t.Errorf("Current() = %+v, want signed-in ada", got)
	}

	select {
	case snapshot := <-sub:
		if !snapshot.SignedIn {
			t.Errorf("subscriber snapshot = %+v, want signed-in", snapshot)
		}
	default:
		t.Fatal("no snapshot delivered to subscriber")
	}

	s.Apply(SignOut{})

	if got := s.Current(); got != (model.Session{}) {
		t.Errorf("Current() after SignOut = %+v, want zero session", got)
	}
}
