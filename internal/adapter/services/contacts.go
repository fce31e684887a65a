package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/niksmo/galeria/internal/core/domain"
)

type contactWire struct {
	ID       flexString `json:"id"`
	MongoID  flexString `json:"_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Company  string     `json:"company"`
	Notes    string     `json:"notes"`
	Favorite bool       `json:"favorite"`
}

func (w contactWire) toDomain() (domain.Contact, error) {
	c := domain.Contact{
		ID:       firstNonEmpty(string(w.MongoID), string(w.ID)),
		Name:     w.Name,
		Email:    w.Email,
		Phone:    w.Phone,
		Company:  w.Company,
		Notes:    w.Notes,
		Favorite: w.Favorite,
	}
	if c.ID == "" {
		return c, fmt.Errorf("contact: missing id")
	}
	if c.Name == "" {
		return c, fmt.Errorf("contact %s: missing name", c.ID)
	}
	return c, nil
}

// Contacts is the admin address book.
type Contacts struct {
	res resource[contactWire, domain.Contact]
}

func NewContacts(api Requester) *Contacts {
	return &Contacts{
		res: resource[contactWire, domain.Contact]{
			api:       api,
			path:      "/admin/contacts",
			protected: true,
			one:       []string{"contact", "data"},
			many:      []string{"contacts", "data"},
		},
	}
}

func (s *Contacts) List(ctx context.Context, search string) ([]domain.Contact, error) {
	const op = "Contacts.List"
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	cs, err := s.res.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (s *Contacts) Get(ctx context.Context, id string) (domain.Contact, error) {
	const op = "Contacts.Get"
	c, err := s.res.get(ctx, id)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *Contacts) Create(ctx context.Context, in domain.ContactInput) (domain.Contact, error) {
	const op = "Contacts.Create"
	c, err := s.res.create(ctx, in)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *Contacts) Update(ctx context.Context, id string, in domain.ContactInput) (domain.Contact, error) {
	const op = "Contacts.Update"
	c, err := s.res.update(ctx, id, in)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ToggleFavorite flips the favorite flag on the server.
func (s *Contacts) ToggleFavorite(ctx context.Context, id string) (domain.Contact, error) {
	const op = "Contacts.ToggleFavorite"
	c, err := s.res.patch(ctx, id, "favorite", nil)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *Contacts) Delete(ctx context.Context, id string) error {
	const op = "Contacts.Delete"
	if err := s.res.delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
