package services

import (
	"context"
	"fmt"

	"github.com/niksmo/galeria/internal/core/domain"
)

type noteWire struct {
	ID        flexString `json:"id"`
	MongoID   flexString `json:"_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Color     string     `json:"color"`
	Pinned    bool       `json:"pinned"`
	UpdatedAt *flexTime  `json:"updatedAt"`
}

func (w noteWire) toDomain() (domain.Note, error) {
	n := domain.Note{
		ID:      firstNonEmpty(string(w.MongoID), string(w.ID)),
		Title:   w.Title,
		Content: w.Content,
		Color:   w.Color,
		Pinned:  w.Pinned,
	}
	if n.ID == "" {
		return n, fmt.Errorf("note: missing id")
	}
	if w.UpdatedAt != nil {
		n.UpdatedAt = w.UpdatedAt.Time
	}
	return n, nil
}

type Notes struct {
	res resource[noteWire, domain.Note]
}

func NewNotes(api Requester) *Notes {
	return &Notes{
		res: resource[noteWire, domain.Note]{
			api:       api,
			path:      "/admin/notes",
			protected: true,
			one:       []string{"note", "data"},
			many:      []string{"notes", "data"},
		},
	}
}

// List returns notes, pinned first, keeping server order otherwise.
func (s *Notes) List(ctx context.Context) ([]domain.Note, error) {
	const op = "Notes.List"
	ns, err := s.res.list(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]domain.Note, 0, len(ns))
	for _, n := range ns {
		if n.Pinned {
			out = append(out, n)
		}
	}
	for _, n := range ns {
		if !n.Pinned {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Notes) Create(ctx context.Context, in domain.NoteInput) (domain.Note, error) {
	const op = "Notes.Create"
	n, err := s.res.create(ctx, in)
	if err != nil {
		return domain.Note{}, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Notes) Update(ctx context.Context, id string, in domain.NoteInput) (domain.Note, error) {
	const op = "Notes.Update"
	n, err := s.res.update(ctx, id, in)
	if err != nil {
		return domain.Note{}, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Notes) TogglePin(ctx context.Context, id string) (domain.Note, error) {
	const op = "Notes.TogglePin"
	n, err := s.res.patch(ctx, id, "pin", nil)
	if err != nil {
		return domain.Note{}, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Notes) Delete(ctx context.Context, id string) error {
	const op = "Notes.Delete"
	if err := s.res.delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
