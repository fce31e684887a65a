package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/niksmo/galeria/internal/core/domain"
)

type financeWire struct {
	ID          flexString       `json:"id"`
	MongoID     flexString       `json:"_id"`
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    string           `json:"currency"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        *flexTime        `json:"date"`
}

func (w financeWire) toDomain() (domain.FinanceEntry, error) {
	e := domain.FinanceEntry{
		ID:          firstNonEmpty(string(w.MongoID), string(w.ID)),
		Type:        strings.ToLower(w.Type),
		Currency:    currencyOrDefault(w.Currency),
		Category:    w.Category,
		Description: w.Description,
	}
	if e.ID == "" {
		return e, fmt.Errorf("finance entry: missing id")
	}
	if e.Type != "income" && e.Type != "expense" {
		return e, fmt.Errorf("finance entry %s: unknown type %q", e.ID, w.Type)
	}
	if w.Amount == nil {
		return e, fmt.Errorf("finance entry %s: missing amount", e.ID)
	}
	e.Amount = *w.Amount
	if w.Date != nil {
		e.Date = w.Date.Time
	}
	return e, nil
}

// FinanceFilter narrows GET /admin/finances. Zero values are ignored.
type FinanceFilter struct {
	Type string
	From time.Time
	To   time.Time
}

func (f FinanceFilter) values() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if !f.From.IsZero() {
		q.Set("from", f.From.Format(time.DateOnly))
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.Format(time.DateOnly))
	}
	return q
}

// Finances is the admin ledger of income and expenses.
type Finances struct {
	res resource[financeWire, domain.FinanceEntry]
}

func NewFinances(api Requester) *Finances {
	return &Finances{
		res: resource[financeWire, domain.FinanceEntry]{
			api:       api,
			path:      "/admin/finances",
			protected: true,
			one:       []string{"finance", "entry", "data"},
			many:      []string{"finances", "entries", "data"},
		},
	}
}

func (s *Finances) List(ctx context.Context, f FinanceFilter) ([]domain.FinanceEntry, error) {
	const op = "Finances.List"
	es, err := s.res.list(ctx, f.values())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return es, nil
}

func (s *Finances) Get(ctx context.Context, id string) (domain.FinanceEntry, error) {
	const op = "Finances.Get"
	e, err := s.res.get(ctx, id)
	if err != nil {
		return domain.FinanceEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s *Finances) Create(ctx context.Context, in domain.FinanceInput) (domain.FinanceEntry, error) {
	const op = "Finances.Create"
	e, err := s.res.create(ctx, in)
	if err != nil {
		return domain.FinanceEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s *Finances) Update(ctx context.Context, id string, in domain.FinanceInput) (domain.FinanceEntry, error) {
	const op = "Finances.Update"
	e, err := s.res.update(ctx, id, in)
	if err != nil {
		return domain.FinanceEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s *Finances) Delete(ctx context.Context, id string) error {
	const op = "Finances.Delete"
	if err := s.res.delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
