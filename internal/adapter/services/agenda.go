package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/niksmo/galeria/internal/core/domain"
)

type agendaWire struct {
	ID          flexString `json:"id"`
	MongoID     flexString `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *flexTime  `json:"date"`
	Location    string     `json:"location"`
	Completed   bool       `json:"completed"`
}

func (w agendaWire) toDomain() (domain.AgendaEvent, error) {
	e := domain.AgendaEvent{
		ID:          firstNonEmpty(string(w.MongoID), string(w.ID)),
		Title:       w.Title,
		Description: w.Description,
		Location:    w.Location,
		Completed:   w.Completed,
	}
	if e.ID == "" {
		return e, fmt.Errorf("agenda event: missing id")
	}
	if w.Date == nil || w.Date.IsZero() {
		return e, fmt.Errorf("agenda event %s: missing date", e.ID)
	}
	e.Date = w.Date.Time
	return e, nil
}

type Agenda struct {
	res resource[agendaWire, domain.AgendaEvent]
}

func NewAgenda(api Requester) *Agenda {
	return &Agenda{
		res: resource[agendaWire, domain.AgendaEvent]{
			api:       api,
			path:      "/admin/agenda",
			protected: true,
			one:       []string{"event", "data"},
			many:      []string{"events", "data"},
		},
	}
}

// List returns the events between from and to; zero bounds are open.
func (s *Agenda) List(ctx context.Context, from, to time.Time) ([]domain.AgendaEvent, error) {
	const op = "Agenda.List"
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format(time.DateOnly))
	}
	if !to.IsZero() {
		q.Set("to", to.Format(time.DateOnly))
	}
	es, err := s.res.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return es, nil
}

func (s *Agenda) Create(ctx context.Context, in domain.AgendaInput) (domain.AgendaEvent, error) {
	const op = "Agenda.Create"
	e, err := s.res.create(ctx, in)
	if err != nil {
		return domain.AgendaEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s *Agenda) Update(ctx context.Context, id string, in domain.AgendaInput) (domain.AgendaEvent, error) {
	const op = "Agenda.Update"
	e, err := s.res.update(ctx, id, in)
	if err != nil {
		return domain.AgendaEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s *Agenda) ToggleComplete(ctx context.Context, id string) (domain.AgendaEvent, error) {
	const op = "Agenda.ToggleComplete"
	e, err := s.res.patch(ctx, id, "complete", nil)
	if err != nil {
		return domain.AgendaEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s *Agenda) Delete(ctx context.Context, id string) error {
	const op = "Agenda.Delete"
	if err := s.res.delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
