// Package cart holds the shopping cart and keeps it in the key-value storage.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
)

const (
	// StorageKey is where the cart is persisted.
	StorageKey = "cart-storage"

	envelopeVersion = 0
)

var (
	ErrCurrencyMismatch = errors.New("item currency differs from cart currency")
	ErrEmptyItemID      = errors.New("cart item without id")
)

var _ port.CartReader = (*Store)(nil)

// envelope is the persisted layout: {"state":{"items":[...]},"version":0}.
type envelope struct {
	State struct {
		Items []domain.CartItem `json:"items"`
	} `json:"state"`
	Version int `json:"version"`
}

type Listener func(items []domain.CartItem)

type Opt func(*Store)

// WithPublisher sends a [domain.CartEvent] after every successful mutation.
func WithPublisher(p port.CartEventPublisher) Opt {
	return func(s *Store) {
		s.pub = p
	}
}

// A Store is the cart of one user. Every mutation is written through to the
// storage before it becomes visible.
type Store struct {
	kv  port.KeyValueStorage
	pub port.CartEventPublisher

	mu    sync.Mutex
	items []domain.CartItem

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewStore(kv port.KeyValueStorage, opts ...Opt) *Store {
	s := &Store{
		kv:        kv,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory cart with the persisted one. A missing,
// unreadable or unknown-version record leaves an empty cart.
func (s *Store) Load(ctx context.Context) error {
	const op = "Store.Load"
	log := slog.With("op", op)

	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil && !errors.Is(err, port.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var items []domain.CartItem
	if err == nil {
		var env envelope
		switch uerr := json.Unmarshal(data, &env); {
		case uerr != nil:
			log.Warn("discarding unreadable cart", "err", uerr)
		case env.Version != envelopeVersion:
			log.Warn("discarding cart of unknown version", "version", env.Version)
		default:
			items = dedupe(env.State.Items)
		}
	}

	s.mu.Lock()
	s.items = items
	snapshot := slices.Clone(items)
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// dedupe keeps the first item of every id and forces quantity 1.
func dedupe(items []domain.CartItem) []domain.CartItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		it.Quantity = 1
		out = append(out, it)
	}
	return out
}

// Add appends item with quantity 1. An item already in the cart is left
// alone and added is false.
func (s *Store) Add(ctx context.Context, item domain.CartItem) (added bool, err error) {
	const op = "Store.Add"

	if item.ID == "" {
		return false, fmt.Errorf("%s: %w", op, ErrEmptyItemID)
	}
	item.Quantity = 1
	if item.Kind == "" {
		item.Kind = domain.KindOriginal
	}

	s.mu.Lock()
	if s.indexOf(item.ID) >= 0 {
		s.mu.Unlock()
		return false, nil
	}
	if len(s.items) > 0 && !strings.EqualFold(s.items[0].Currency, item.Currency) {
		cur := s.items[0].Currency
		s.mu.Unlock()
		return false, fmt.Errorf("%s: %w: cart is %s, item is %s",
			op, ErrCurrencyMismatch, cur, item.Currency)
	}

	next := append(slices.Clone(s.items), item)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("%s: %w", op, err)
	}
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	s.notify(snapshot)
	s.publish(ctx, domain.CartItemAdded, &item, snapshot)
	return true, nil
}

// Remove drops the item with id. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) (removed bool, err error) {
	const op = "Store.Remove"

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	item := s.items[i]

	next := slices.Delete(slices.Clone(s.items), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("%s: %w", op, err)
	}
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	s.notify(snapshot)
	s.publish(ctx, domain.CartItemRemoved, &item, snapshot)
	return true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	const op = "Store.Clear"

	s.mu.Lock()
	if err := s.commit(ctx, nil); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	s.mu.Unlock()

	s.notify(nil)
	s.publish(ctx, domain.CartCleared, nil, nil)
	return nil
}

// commit persists next and only then swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []domain.CartItem) error {
	var env envelope
	env.Version = envelopeVersion
	env.State.Items = next
	if env.State.Items == nil {
		env.State.Items = []domain.CartItem{}
	}

	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it domain.CartItem) bool {
		return it.ID == id
	})
}

// Items returns a copy of the cart in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// TotalPrice is the sum of price times quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Currency is the currency of the first item, or "" for an empty cart.
func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return currency(s.items)
}

func total(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func currency(items []domain.CartItem) string {
	if len(items) == 0 {
		return ""
	}
	return items[0].Currency
}

// Subscribe registers fn for cart changes and returns its unsubscribe func.
// fn runs after the change is persisted, outside the store lock.
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

func (s *Store) notify(snapshot []domain.CartItem) {
	s.lmu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(snapshot))
	}
}

// publish reports a mutation. Delivery problems are logged, the mutation
// itself has already succeeded.
func (s *Store) publish(
	ctx context.Context, t domain.CartEventType, item *domain.CartItem, snapshot []domain.CartItem,
) {
	if s.pub == nil {
		return
	}
	const op = "Store.publish"

	ev := domain.NewCartEvent(t, item)
	ev.CartSize = len(snapshot)
	ev.Total = total(snapshot).StringFixed(2)
	ev.Currency = currency(snapshot)
	if item != nil && ev.Currency == "" {
		ev.Currency = item.Currency
	}

	if err := s.pub.PublishCartEvent(ctx, ev); err != nil {
		slog.With("op", op).Warn("failed to publish cart event", "type", t, "err", err)
	}
}
