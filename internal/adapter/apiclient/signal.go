package apiclient

import (
	"context"
	"encoding/json"
	"sync"
)

// AuthRequired is emitted on every 401. Retry replays the original request
// once the listener has re-authenticated.
type AuthRequired struct {
	Endpoint string
	Retry    func(context.Context) (json.RawMessage, error)
}

type authSignal struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(AuthRequired)
}

func newAuthSignal() *authSignal {
	return &authSignal{subs: make(map[int]func(AuthRequired))}
}

func (s *authSignal) subscribe(fn func(AuthRequired)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *authSignal) emit(ev AuthRequired) {
	s.mu.RLock()
	fns := make([]func(AuthRequired), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
