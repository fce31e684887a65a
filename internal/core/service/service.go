// Package service runs the checkout: it turns the cart into a payment
// preference and settles the cart once the payment comes back.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
	"github.com/niksmo/galeria/internal/core/validate"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrUnknownReference = errors.New("payment does not belong to the pending checkout")
)

var _ port.Checkouter = (*Service)(nil)
var _ port.PaymentCompleter = (*Service)(nil)

type Service struct {
	cart     port.CartReader
	payments port.PaymentsService

	mu      sync.Mutex
	pending string
}

func New(cart port.CartReader, payments port.PaymentsService) *Service {
	return &Service{cart: cart, payments: payments}
}

// Checkout opens a payment preference for the current cart. The buyer is
// redirected to the returned InitPoint and, when back is set, sent back to
// it once the payment settles.
func (s *Service) Checkout(
	ctx context.Context, buyer domain.Buyer, back *domain.BackURLs,
) (domain.Preference, error) {
	const op = "Service.Checkout"

	if err := ctx.Err(); err != nil {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validate.Struct(buyer); err != nil {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, err)
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	req := domain.PreferenceRequest{
		Items:             make([]domain.PreferenceItem, 0, len(items)),
		Payer:             buyer,
		ExternalReference: uuid.NewString(),
	}
	if back != nil {
		req.BackURLs = back
		req.AutoReturn = domain.PaymentApproved
	}
	for _, it := range items {
		req.Items = append(req.Items, domain.PreferenceItem{
			ID:         it.ID,
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.Price,
			CurrencyID: it.Currency,
			PictureURL: it.ImageURL,
		})
	}

	pref, err := s.payments.CreatePreference(ctx, req)
	if err != nil {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.pending = req.ExternalReference
	s.mu.Unlock()

	slog.With("op", op).Info("checkout started",
		"preference", pref.ID, "reference", req.ExternalReference, "items", len(items))
	return pref, nil
}

// CompletePayment clears the cart for an approved payment. Other statuses
// keep the cart so the buyer can retry. The result must carry the reference
// of the checkout started by this service.
func (s *Service) CompletePayment(ctx context.Context, res domain.PaymentResult) error {
	const op = "Service.CompletePayment"
	log := slog.With("op", op, "status", res.Status, "payment", res.PaymentID)

	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()

	if pending == "" || res.ExternalReference != pending {
		return fmt.Errorf("%s: %w", op, ErrUnknownReference)
	}

	if res.Status != domain.PaymentApproved {
		log.Info("payment not approved, cart kept")
		return nil
	}

	if err := s.cart.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.pending = ""
	s.mu.Unlock()

	log.Info("payment approved, cart cleared")
	return nil
}
