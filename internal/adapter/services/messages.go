package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/validate"
)

type messageWire struct {
	ID        flexString `json:"id"`
	MongoID   flexString `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	Read      *bool      `json:"read"`
	CreatedAt *flexTime  `json:"createdAt"`
}

func (w messageWire) toDomain() (domain.ContactMessage, error) {
	m := domain.ContactMessage{
		ID:      firstNonEmpty(string(w.MongoID), string(w.ID)),
		Name:    w.Name,
		Email:   w.Email,
		Phone:   w.Phone,
		Subject: w.Subject,
		Message: w.Message,
		Status:  w.Status,
	}
	if m.ID == "" {
		return m, fmt.Errorf("message: missing id")
	}
	if m.Email == "" || m.Message == "" {
		return m, fmt.Errorf("message %s: missing email or body", m.ID)
	}
	if m.Status == "" {
		m.Status = "new"
	}
	m.Read = firstBool(m.Status != "new", w.Read)
	if w.CreatedAt != nil {
		m.CreatedAt = w.CreatedAt.Time
	}
	return m, nil
}

// Messages is the client of the /contact resource. Sending is public, the
// inbox is admin only.
type Messages struct {
	api Requester
	res resource[messageWire, domain.ContactMessage]
}

func NewMessages(api Requester) *Messages {
	return &Messages{
		api: api,
		res: resource[messageWire, domain.ContactMessage]{
			api:       api,
			path:      "/contact",
			protected: true,
			one:       []string{"message", "contact", "data"},
			many:      []string{"messages", "contacts", "data"},
		},
	}
}

// Send submits the public contact form.
func (s *Messages) Send(ctx context.Context, form domain.ContactForm) error {
	const op = "Messages.Send"
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err := s.api.Request(ctx, s.res.path, apiclient.Options{
		Method: http.MethodPost,
		Body:   form,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Messages) List(ctx context.Context, status string) ([]domain.ContactMessage, error) {
	const op = "Messages.List"
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	msgs, err := s.res.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

func (s *Messages) Get(ctx context.Context, id string) (domain.ContactMessage, error) {
	const op = "Messages.Get"
	m, err := s.res.get(ctx, id)
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func (s *Messages) Update(ctx context.Context, id string, upd domain.MessageUpdate) (domain.ContactMessage, error) {
	const op = "Messages.Update"
	if err := validate.Struct(upd); err != nil {
		return domain.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}
	m, err := s.res.patch(ctx, id, "", upd)
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func (s *Messages) Delete(ctx context.Context, id string) error {
	const op = "Messages.Delete"
	if err := s.res.delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
