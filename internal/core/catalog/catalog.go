// Package catalog holds the fetched artworks and the filters applied to them.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
)

// RefetchLimit is the page size used to reload the catalog after an admin
// create or update.
const RefetchLimit = 100

const allCategoriesLabel = "Todas las Obras"

type Category struct {
	Value string
	Label string
}

// State is a snapshot of the store.
type State struct {
	Artworks         []domain.Artwork
	Filtered         []domain.Artwork
	Categories       []string
	SelectedCategory string
	SearchTerm       string
	Loading          bool
	Err              error
	Page             int
	Pages            int
	Total            int
}

type Listener func(State)

type Store struct {
	svc port.ArtworksService

	mu    sync.Mutex
	state State
	seq   uint64

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewStore(svc port.ArtworksService) *Store {
	return &Store{
		svc:       svc,
		state:     State{SelectedCategory: domain.CategoryAll},
		listeners: make(map[int]Listener),
	}
}

// FetchArtworks loads a page of artworks and replaces the catalog with it.
//
// Every call takes a sequence number. When calls overlap, only the answer of
// the latest one is applied; older answers are dropped and return nil. On
// failure the previous artworks are kept and Err is set.
func (s *Store) FetchArtworks(ctx context.Context, q domain.ArtworkQuery) error {
	const op = "Store.FetchArtworks"
	log := slog.With("op", op)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.Loading = true
	snap := s.snapshot()
	s.mu.Unlock()
	s.notify(snap)

	page, err := s.svc.ListArtworks(ctx, q)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		log.Debug("dropping stale catalog response", "seq", seq)
		return nil
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err
		snap = s.snapshot()
		s.mu.Unlock()
		s.notify(snap)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.state.Err = nil
	s.state.Artworks = page.Artworks
	s.state.Page, s.state.Pages, s.state.Total = page.Page, page.Pages, page.Total
	s.recompute()
	snap = s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

func (s *Store) SetSelectedCategory(category string) {
	s.mu.Lock()
	if category == "" {
		category = domain.CategoryAll
	}
	s.state.SelectedCategory = category
	s.state.Filtered = filter(s.state.Artworks, s.state.SelectedCategory, s.state.SearchTerm)
	snap := s.snapshot()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	s.state.SearchTerm = term
	s.state.Filtered = filter(s.state.Artworks, s.state.SelectedCategory, s.state.SearchTerm)
	snap := s.snapshot()
	s.mu.Unlock()
	s.notify(snap)
}

// ArtworkByID looks the id up as given, then as a number so "7" finds "07".
func (s *Store) ArtworkByID(id string) (domain.Artwork, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.state.Artworks {
		if a.ID == id {
			return a, true
		}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(id), 64)
	if err != nil {
		return domain.Artwork{}, false
	}
	for _, a := range s.state.Artworks {
		if m, err := strconv.ParseFloat(a.ID, 64); err == nil && m == n {
			return a, true
		}
	}
	return domain.Artwork{}, false
}

// Categories lists the category choices, "all" first.
func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Category, 0, len(s.state.Categories)+1)
	out = append(out, Category{Value: domain.CategoryAll, Label: allCategoriesLabel})
	for _, c := range s.state.Categories {
		out = append(out, Category{Value: c, Label: capitalize(c)})
	}
	return out
}

// CreateArtwork creates an artwork and reloads the catalog.
func (s *Store) CreateArtwork(ctx context.Context, in domain.ArtworkInput) (domain.Artwork, error) {
	const op = "Store.CreateArtwork"

	a, err := s.svc.CreateArtwork(ctx, in)
	if err != nil {
		return domain.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.FetchArtworks(ctx, domain.ArtworkQuery{Limit: RefetchLimit}); err != nil {
		return a, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// UpdateArtwork updates an artwork and reloads the catalog.
func (s *Store) UpdateArtwork(ctx context.Context, id string, in domain.ArtworkInput) (domain.Artwork, error) {
	const op = "Store.UpdateArtwork"

	a, err := s.svc.UpdateArtwork(ctx, id, in)
	if err != nil {
		return domain.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.FetchArtworks(ctx, domain.ArtworkQuery{Limit: RefetchLimit}); err != nil {
		return a, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// DeleteArtwork deletes an artwork and drops it locally without a reload.
func (s *Store) DeleteArtwork(ctx context.Context, id string) error {
	const op = "Store.DeleteArtwork"

	if err := s.svc.DeleteArtwork(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.state.Artworks = slices.DeleteFunc(slices.Clone(s.state.Artworks), func(a domain.Artwork) bool {
		return a.ID == id
	})
	if s.state.Total > 0 {
		s.state.Total--
	}
	s.recompute()
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// State returns a snapshot of the store.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) Filtered() []domain.Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Filtered)
}

func (s *Store) Subscribe(fn Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(st State) {
	s.lmu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// recompute refreshes categories and the filtered view. Callers hold s.mu.
func (s *Store) recompute() {
	s.state.Categories = categories(s.state.Artworks)
	s.state.Filtered = filter(s.state.Artworks, s.state.SelectedCategory, s.state.SearchTerm)
}

func (s *Store) snapshot() State {
	st := s.state
	st.Artworks = slices.Clone(st.Artworks)
	st.Filtered = slices.Clone(st.Filtered)
	st.Categories = slices.Clone(st.Categories)
	return st
}

// categories returns the sorted distinct non-empty categories.
func categories(artworks []domain.Artwork) []string {
	out := make([]string, 0)
	for _, a := range artworks {
		if a.Category != "" && !slices.Contains(out, a.Category) {
			out = append(out, a.Category)
		}
	}
	slices.Sort(out)
	return out
}

// filter keeps artworks of exactly category (any, for "todos") whose title
// or description contains term, ignoring case.
func filter(artworks []domain.Artwork, category, term string) []domain.Artwork {
	term = strings.ToLower(term)
	out := make([]domain.Artwork, 0, len(artworks))
	for _, a := range artworks {
		if category != domain.CategoryAll && a.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(a.Title), term) &&
			!strings.Contains(strings.ToLower(a.Description), term) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
