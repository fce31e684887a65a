package port

import (
	"context"
	"errors"

	"github.com/niksmo/galeria/internal/core/domain"
)

// ErrNotFound is returned by KeyValueStorage.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// A KeyValueStorage is the durable client-side storage.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type CartEventPublisher interface {
	PublishCartEvent(context.Context, domain.CartEvent) error
}

type ArtworksService interface {
	ListArtworks(context.Context, domain.ArtworkQuery) (domain.ArtworkPage, error)
	GetArtwork(ctx context.Context, id string) (domain.Artwork, error)
	CreateArtwork(context.Context, domain.ArtworkInput) (domain.Artwork, error)
	UpdateArtwork(ctx context.Context, id string, in domain.ArtworkInput) (domain.Artwork, error)
	DeleteArtwork(ctx context.Context, id string) error
}

type PaymentsService interface {
	CreatePreference(context.Context, domain.PreferenceRequest) (domain.Preference, error)
}

// CartReader is the part of the cart the checkout needs.
type CartReader interface {
	Items() []domain.CartItem
	Clear(context.Context) error
}

type Checkouter interface {
	Checkout(context.Context, domain.Buyer, *domain.BackURLs) (domain.Preference, error)
}

type PaymentCompleter interface {
	CompletePayment(context.Context, domain.PaymentResult) error
}
