package domain

import (
	"time"

	"github.com/google/uuid"
)

type ItemKind string

const (
	KindOriginal ItemKind = "original"
	KindDigital  ItemKind = "digital"
)

// A CartItem is an artwork snapshot taken when it was added to the cart.
type CartItem struct {
	Artwork
	Quantity         int      `json:"quantity"`
	Kind             ItemKind `json:"kind"`
	DigitalArtworkID string   `json:"digitalArtworkId,omitempty"`
	SizeID           string   `json:"sizeId,omitempty"`
}

// NewCartItem snapshots an original artwork at its discounted price.
func NewCartItem(a Artwork) CartItem {
	a.Price = a.FinalPrice()
	a.DiscountPercentage = 0
	return CartItem{Artwork: a, Quantity: 1, Kind: KindOriginal}
}

// DigitalCartItemID is the cart id of a digital artwork size variant.
func DigitalCartItemID(digitalArtworkID, sizeID string) string {
	return digitalArtworkID + "-" + sizeID
}

// NewDigitalCartItem snapshots one size variant of a digital artwork.
func NewDigitalCartItem(d DigitalArtwork, s Size) CartItem {
	return CartItem{
		Artwork: Artwork{
			ID:          DigitalCartItemID(d.ID, s.ID),
			Title:       d.Title + " (" + s.Label + ")",
			Artist:      d.Artist,
			Dimensions:  s.Dimensions,
			Price:       s.Price,
			Currency:    s.Currency,
			ImageURL:    d.ImageURL,
			Description: d.Description,
			Available:   s.Available,
			Category:    d.Category,
			Tags:        d.Tags,
		},
		Quantity:         1,
		Kind:             KindDigital,
		DigitalArtworkID: d.ID,
		SizeID:           s.ID,
	}
}

type CartEventType string

const (
	CartItemAdded   CartEventType = "item_added"
	CartItemRemoved CartEventType = "item_removed"
	CartCleared     CartEventType = "cleared"
)

// A CartEvent describes one successful cart mutation.
type CartEvent struct {
	ID         string
	Type       CartEventType
	Item       *CartItem
	CartSize   int
	Total      string
	Currency   string
	OccurredAt time.Time
}

func NewCartEvent(t CartEventType, item *CartItem) CartEvent {
	return CartEvent{
		ID:         uuid.NewString(),
		Type:       t,
		Item:       item,
		OccurredAt: time.Now().UTC(),
	}
}
