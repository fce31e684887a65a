package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/validate"
)

type sessionWire struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	User        *struct {
		ID      flexString `json:"id"`
		MongoID flexString `json:"_id"`
		Name    string     `json:"name"`
		Email   string     `json:"email"`
		Role    string     `json:"role"`
	} `json:"user"`
}

func (w sessionWire) toDomain() (domain.Session, error) {
	s := domain.Session{Token: firstNonEmpty(w.Token, w.AccessToken)}
	if s.Token == "" {
		return s, fmt.Errorf("session: missing token")
	}
	if u := w.User; u != nil {
		s.User = domain.SessionUser{
			ID:    firstNonEmpty(string(u.MongoID), string(u.ID)),
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		}
	}
	return s, nil
}

type Auth struct {
	api Requester
}

func NewAuth(api Requester) *Auth {
	return &Auth{api: api}
}

// Login exchanges credentials for a session. Storing it is up to the caller.
func (s *Auth) Login(ctx context.Context, c domain.Credentials) (domain.Session, error) {
	const op = "Auth.Login"
	if err := validate.Struct(c); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := s.api.Request(ctx, "/auth/login", apiclient.Options{
		Method: http.MethodPost,
		Body:   c,
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	sess, err := decodeOne[sessionWire, domain.Session](raw, "data")
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}
