package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/niksmo/galeria/internal/core/domain"
)

type sizeWire struct {
	ID         flexString       `json:"id"`
	MongoID    flexString       `json:"_id"`
	Size       string           `json:"size"`
	Label      string           `json:"label"`
	Name       string           `json:"name"`
	Dimensions dimensions       `json:"dimensions"`
	Price      *decimal.Decimal `json:"price"`
	Currency   string           `json:"currency"`
	Available  *bool            `json:"available"`
}

func (w sizeWire) toDomain() (domain.Size, error) {
	s := domain.Size{
		Label:      firstNonEmpty(w.Size, w.Label, w.Name),
		Dimensions: string(w.Dimensions),
		Currency:   currencyOrDefault(w.Currency),
		Available:  firstBool(true, w.Available),
	}
	// Sizes without their own id are keyed by label.
	s.ID = firstNonEmpty(string(w.MongoID), string(w.ID), s.Label)
	if s.ID == "" {
		return s, fmt.Errorf("size: missing id and label")
	}
	if w.Price == nil || w.Price.IsNegative() {
		return s, fmt.Errorf("size %s: missing or negative price", s.ID)
	}
	s.Price = *w.Price
	return s, nil
}

type digitalWire struct {
	ID              flexString `json:"id"`
	MongoID         flexString `json:"_id"`
	Title           string     `json:"title"`
	Artist          string     `json:"artist"`
	Description     string     `json:"description"`
	ImageURL        imageRef   `json:"imageUrl"`
	Image           imageRef   `json:"image"`
	Category        string     `json:"category"`
	Featured        bool       `json:"featured"`
	Tags            []string   `json:"tags"`
	OriginalArtwork ref        `json:"originalArtwork"`
	OriginalID      ref        `json:"originalArtworkId"`
	Sizes           []sizeWire `json:"sizes"`
	UpdatedAt       *flexTime  `json:"updatedAt"`
}

func (w digitalWire) toDomain() (domain.DigitalArtwork, error) {
	d := domain.DigitalArtwork{
		ID:                firstNonEmpty(string(w.MongoID), string(w.ID)),
		Title:             strings.TrimSpace(w.Title),
		Artist:            w.Artist,
		Description:       w.Description,
		ImageURL:          firstNonEmpty(string(w.ImageURL), string(w.Image)),
		Category:          strings.TrimSpace(w.Category),
		Featured:          w.Featured,
		Tags:              w.Tags,
		OriginalArtworkID: firstNonEmpty(string(w.OriginalArtwork), string(w.OriginalID)),
		UpdatedAt:         w.UpdatedAt.ptr(),
	}
	if d.ID == "" {
		return d, fmt.Errorf("digital artwork: missing id")
	}
	if d.Title == "" {
		return d, fmt.Errorf("digital artwork %s: missing title", d.ID)
	}

	seen := make(map[string]struct{}, len(w.Sizes))
	d.Sizes = make([]domain.Size, 0, len(w.Sizes))
	for _, sw := range w.Sizes {
		s, err := sw.toDomain()
		if err != nil {
			return d, fmt.Errorf("digital artwork %s: %w", d.ID, err)
		}
		if _, dup := seen[s.ID]; dup {
			return d, fmt.Errorf("digital artwork %s: duplicate size %s", d.ID, s.ID)
		}
		seen[s.ID] = struct{}{}
		d.Sizes = append(d.Sizes, s)
	}
	return d, nil
}

// DigitalArt is the client of the /digital-art resource.
type DigitalArt struct {
	res resource[digitalWire, domain.DigitalArtwork]
}

func NewDigitalArt(api Requester) *DigitalArt {
	return &DigitalArt{
		res: resource[digitalWire, domain.DigitalArtwork]{
			api:  api,
			path: "/digital-art",
			one:  []string{"digitalArt", "artwork", "data"},
			many: []string{"digitalArt", "artworks", "data"},
		},
	}
}

// List returns digital artworks, optionally filtered by category.
func (s *DigitalArt) List(ctx context.Context, category string) ([]domain.DigitalArtwork, error) {
	const op = "DigitalArt.List"
	q := url.Values{}
	if category != "" && !strings.EqualFold(category, domain.CategoryAll) {
		q.Set("category", category)
	}
	items, err := s.res.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (s *DigitalArt) Get(ctx context.Context, id string) (domain.DigitalArtwork, error) {
	const op = "DigitalArt.Get"
	d, err := s.res.get(ctx, id)
	if err != nil {
		return domain.DigitalArtwork{}, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (s *DigitalArt) Create(ctx context.Context, in domain.DigitalArtworkInput) (domain.DigitalArtwork, error) {
	const op = "DigitalArt.Create"
	d, err := s.res.create(ctx, in)
	if err != nil {
		return domain.DigitalArtwork{}, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (s *DigitalArt) Update(ctx context.Context, id string, in domain.DigitalArtworkInput) (domain.DigitalArtwork, error) {
	const op = "DigitalArt.Update"
	d, err := s.res.update(ctx, id, in)
	if err != nil {
		return domain.DigitalArtwork{}, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (s *DigitalArt) Delete(ctx context.Context, id string) error {
	const op = "DigitalArt.Delete"
	if err := s.res.delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
