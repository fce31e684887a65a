package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/validate"
)

type Newsletter struct {
	api Requester
}

func NewNewsletter(api Requester) *Newsletter {
	return &Newsletter{api: api}
}

// Subscribe adds an email address to the mailing list.
func (s *Newsletter) Subscribe(ctx context.Context, sub domain.NewsletterSubscription) error {
	const op = "Newsletter.Subscribe"
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	if err := validate.Struct(sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err := s.api.Request(ctx, "/newsletter/subscribe", apiclient.Options{
		Method: http.MethodPost,
		Body:   sub,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
