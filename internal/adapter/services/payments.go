package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
)

var _ port.PaymentsService = (*Payments)(nil)

type preferenceWire struct {
	ID               flexString `json:"id"`
	PreferenceID     flexString `json:"preferenceId"`
	InitPoint        string     `json:"init_point"`
	InitPointCamel   string     `json:"initPoint"`
	SandboxInitPoint string     `json:"sandbox_init_point"`
}

func (w preferenceWire) toDomain() (domain.Preference, error) {
	p := domain.Preference{
		ID:        firstNonEmpty(string(w.ID), string(w.PreferenceID)),
		InitPoint: firstNonEmpty(w.InitPoint, w.InitPointCamel, w.SandboxInitPoint),
	}
	if p.ID == "" {
		return p, fmt.Errorf("preference: missing id")
	}
	u, err := url.Parse(p.InitPoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return p, fmt.Errorf("preference %s: init point %q is not an absolute URL", p.ID, p.InitPoint)
	}
	return p, nil
}

type Payments struct {
	api Requester
}

func NewPayments(api Requester) *Payments {
	return &Payments{api: api}
}

// CreatePreference asks the backend to open a payment processor checkout.
func (s *Payments) CreatePreference(ctx context.Context, req domain.PreferenceRequest) (domain.Preference, error) {
	const op = "Payments.CreatePreference"
	if len(req.Items) == 0 {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, errors.New("no items"))
	}
	raw, err := s.api.Request(ctx, "/checkout/create-preference", apiclient.Options{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, err)
	}
	p, err := decodeOne[preferenceWire, domain.Preference](raw, "preference", "data")
	if err != nil {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
