package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
)

var _ port.ArtworksService = (*Artworks)(nil)

// artworkWire accepts both the flat artwork shape and the nested one with
// pricing, status and images objects.
type artworkWire struct {
	ID                 flexString       `json:"id"`
	MongoID            flexString       `json:"_id"`
	Title              string           `json:"title"`
	Artist             string           `json:"artist"`
	Year               *flexInt         `json:"year"`
	Technique          string           `json:"technique"`
	Dimensions         dimensions       `json:"dimensions"`
	Price              *decimal.Decimal `json:"price"`
	Currency           string           `json:"currency"`
	DiscountPercentage *flexInt         `json:"discountPercentage"`
	ImageURL           imageRef         `json:"imageUrl"`
	Image              imageRef         `json:"image"`
	ThumbnailURL       imageRef         `json:"thumbnailUrl"`
	Description        string           `json:"description"`
	Available          *bool            `json:"available"`
	Sold               *bool            `json:"sold"`
	Category           string           `json:"category"`
	Featured           *bool            `json:"featured"`
	Tags               []string         `json:"tags"`
	UpdatedAt          *flexTime        `json:"updatedAt"`

	Pricing *struct {
		Price              *decimal.Decimal `json:"price"`
		Currency           string           `json:"currency"`
		DiscountPercentage *flexInt         `json:"discountPercentage"`
	} `json:"pricing"`
	Status *artworkStatus `json:"status"`
	Images *struct {
		Main      imageRef `json:"main"`
		Thumbnail imageRef `json:"thumbnail"`
	} `json:"images"`
}

// artworkStatus is either {"available":..,"sold":..,"featured":..} or a
// plain word such as "available" or "sold".
type artworkStatus struct {
	Available *bool `json:"available"`
	Sold      *bool `json:"sold"`
	Featured  *bool `json:"featured"`
}

func (s *artworkStatus) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var word string
		if err := json.Unmarshal(b, &word); err != nil {
			return err
		}
		var available, sold bool
		switch strings.ToLower(word) {
		case "available", "disponible":
			available = true
		case "sold", "vendida", "vendido":
			sold = true
		case "reserved", "reservada", "unavailable":
		default:
			return fmt.Errorf("unknown artwork status %q", word)
		}
		s.Available, s.Sold = &available, &sold
		return nil
	}
	type plain artworkStatus
	return json.Unmarshal(b, (*plain)(s))
}

func (w artworkWire) toDomain() (domain.Artwork, error) {
	a := domain.Artwork{
		ID:          firstNonEmpty(string(w.MongoID), string(w.ID)),
		Title:       strings.TrimSpace(w.Title),
		Artist:      w.Artist,
		Year:        w.Year.orZero(),
		Technique:   w.Technique,
		Dimensions:  string(w.Dimensions),
		Description: w.Description,
		Category:    strings.TrimSpace(w.Category),
		Tags:        w.Tags,
		UpdatedAt:   w.UpdatedAt.ptr(),
	}
	if a.ID == "" {
		return a, fmt.Errorf("artwork: missing id")
	}
	if a.Title == "" {
		return a, fmt.Errorf("artwork %s: missing title", a.ID)
	}

	price, currency, discount := w.Price, w.Currency, w.DiscountPercentage
	if p := w.Pricing; p != nil {
		if p.Price != nil {
			price = p.Price
		}
		if p.Currency != "" {
			currency = p.Currency
		}
		if p.DiscountPercentage != nil {
			discount = p.DiscountPercentage
		}
	}
	if price == nil {
		return a, fmt.Errorf("artwork %s: missing price", a.ID)
	}
	if price.IsNegative() {
		return a, fmt.Errorf("artwork %s: negative price", a.ID)
	}
	a.Price = *price
	a.Currency = currencyOrDefault(currency)
	a.DiscountPercentage = discount.orZero()
	if a.DiscountPercentage < 0 || a.DiscountPercentage > 100 {
		return a, fmt.Errorf("artwork %s: discount %d out of range", a.ID, a.DiscountPercentage)
	}

	available, sold, featured := w.Available, w.Sold, w.Featured
	if s := w.Status; s != nil {
		if s.Available != nil {
			available = s.Available
		}
		if s.Sold != nil {
			sold = s.Sold
		}
		if s.Featured != nil {
			featured = s.Featured
		}
	}
	a.Sold = firstBool(false, sold)
	a.Available = firstBool(!a.Sold, available)
	a.Featured = firstBool(false, featured)

	var main, thumb string
	if im := w.Images; im != nil {
		main, thumb = string(im.Main), string(im.Thumbnail)
	}
	a.ImageURL = firstNonEmpty(main, string(w.ImageURL), string(w.Image))
	a.ThumbnailURL = firstNonEmpty(thumb, string(w.ThumbnailURL), a.ImageURL)
	return a, nil
}

// pageWire is the pagination block of GET /artworks.
type pageWire struct {
	Page       *flexInt `json:"page"`
	Pages      *flexInt `json:"pages"`
	TotalPages *flexInt `json:"totalPages"`
	Total      *flexInt `json:"total"`
	Pagination *struct {
		Page       *flexInt `json:"page"`
		Pages      *flexInt `json:"pages"`
		TotalPages *flexInt `json:"totalPages"`
		Total      *flexInt `json:"total"`
	} `json:"pagination"`
}

// Artworks is the client of the /artworks resource.
type Artworks struct {
	api Requester
	res resource[artworkWire, domain.Artwork]
}

func NewArtworks(api Requester) *Artworks {
	return &Artworks{
		api: api,
		res: resource[artworkWire, domain.Artwork]{
			api:  api,
			path: "/artworks",
			one:  []string{"artwork", "data"},
			many: []string{"artworks", "data"},
		},
	}
}

func artworkValues(q domain.ArtworkQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" && !strings.EqualFold(q.Category, domain.CategoryAll) {
		v.Set("category", q.Category)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Featured != nil {
		v.Set("featured", strconv.FormatBool(*q.Featured))
	}
	return v
}

// ListArtworks returns one page of artworks. A bare list body is accepted
// as a single page.
func (s *Artworks) ListArtworks(ctx context.Context, q domain.ArtworkQuery) (domain.ArtworkPage, error) {
	const op = "Artworks.ListArtworks"

	raw, err := s.api.Request(ctx, s.res.path, apiclient.Options{
		Query: artworkValues(q),
	})
	if err != nil {
		return domain.ArtworkPage{}, fmt.Errorf("%s: %w", op, err)
	}
	if raw == nil {
		return domain.ArtworkPage{Page: 1, Pages: 1}, nil
	}

	items, err := decodeMany[artworkWire, domain.Artwork](raw, s.res.many...)
	if err != nil {
		return domain.ArtworkPage{}, fmt.Errorf("%s: %w", op, err)
	}

	page := domain.ArtworkPage{Artworks: items, Page: 1, Total: len(items)}
	var pw pageWire
	if json.Unmarshal(unwrap(raw, []string{"data"}), &pw) == nil {
		pp, pages, total := pw.Page, firstPtr(pw.Pages, pw.TotalPages), pw.Total
		if p := pw.Pagination; p != nil {
			pp = firstPtr(p.Page, pp)
			pages = firstPtr(p.Pages, p.TotalPages, pages)
			total = firstPtr(p.Total, total)
		}
		if v := pp.orZero(); v > 0 {
			page.Page = v
		}
		if v := total.orZero(); v > 0 {
			page.Total = v
		}
		page.Pages = pages.orZero()
	}
	if page.Pages == 0 {
		page.Pages = 1
		if q.Limit > 0 && page.Total > len(items) {
			page.Pages = int(math.Ceil(float64(page.Total) / float64(q.Limit)))
		}
	}
	return page, nil
}

func (s *Artworks) GetArtwork(ctx context.Context, id string) (domain.Artwork, error) {
	const op = "Artworks.GetArtwork"
	a, err := s.res.get(ctx, id)
	if err != nil {
		return domain.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (s *Artworks) CreateArtwork(ctx context.Context, in domain.ArtworkInput) (domain.Artwork, error) {
	const op = "Artworks.CreateArtwork"
	a, err := s.res.create(ctx, in)
	if err != nil {
		return domain.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (s *Artworks) UpdateArtwork(ctx context.Context, id string, in domain.ArtworkInput) (domain.Artwork, error) {
	const op = "Artworks.UpdateArtwork"
	a, err := s.res.update(ctx, id, in)
	if err != nil {
		return domain.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (s *Artworks) DeleteArtwork(ctx context.Context, id string) error {
	const op = "Artworks.DeleteArtwork"
	if err := s.res.delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UploadImage posts an image to /upload and returns its hosted URL.
func (s *Artworks) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	const op = "Artworks.UploadImage"

	raw, err := s.api.Upload(ctx, "/upload", "image", filename, r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var body struct {
		URL       string `json:"url"`
		ImageURL  string `json:"imageUrl"`
		SecureURL string `json:"secure_url"`
		Data      *struct {
			URL       string `json:"url"`
			SecureURL string `json:"secure_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidResponse, err)
	}
	var nested string
	if body.Data != nil {
		nested = firstNonEmpty(body.Data.SecureURL, body.Data.URL)
	}
	u := firstNonEmpty(body.SecureURL, body.URL, body.ImageURL, nested)
	if u == "" {
		return "", fmt.Errorf("%s: %w", op, invalid("upload: missing url"))
	}
	return u, nil
}

func firstPtr[T any](vs ...*T) *T {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}
