package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
)

// SessionKey is where the admin session lives.
const SessionKey = "adminUser"

var _ port.TokenSource = (*SessionStore)(nil)

type SessionStore struct {
	kv port.KeyValueStorage
}

func NewSessionStore(kv port.KeyValueStorage) *SessionStore {
	return &SessionStore{kv}
}

// Load returns the stored session. ok is false when nobody is logged in.
func (s *SessionStore) Load(ctx context.Context) (session domain.Session, ok bool, err error) {
	const op = "SessionStore.Load"

	data, err := s.kv.Get(ctx, SessionKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Session{}, false, nil
		}
		return domain.Session{}, false, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, false, fmt.Errorf("%s: corrupted session: %w", op, err)
	}
	return session, session.Token != "", nil
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	const op = "SessionStore.Save"

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.kv.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	const op = "SessionStore.Clear"

	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Token returns an empty string when there is no session.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	const op = "SessionStore.Token"

	session, _, err := s.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return session.Token, nil
}
