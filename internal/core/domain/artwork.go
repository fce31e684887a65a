package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAll is the category value that disables category filtering.
const CategoryAll = "todos"

type (
	Artwork struct {
		ID                 string          `json:"id"`
		Title              string          `json:"title"`
		Artist             string          `json:"artist"`
		Year               int             `json:"year"`
		Technique          string          `json:"technique"`
		Dimensions         string          `json:"dimensions"`
		Price              decimal.Decimal `json:"price"`
		Currency           string          `json:"currency"`
		ImageURL           string          `json:"imageUrl"`
		ThumbnailURL       string          `json:"thumbnailUrl"`
		Description        string          `json:"description"`
		Available          bool            `json:"available"`
		Sold               bool            `json:"sold"`
		Category           string          `json:"category"`
		Featured           bool            `json:"featured"`
		DiscountPercentage int             `json:"discountPercentage"`
		Tags               []string        `json:"tags"`
		UpdatedAt          *time.Time      `json:"updatedAt,omitempty"`
	}

	// ArtworkQuery holds the list parameters accepted by GET /artworks.
	ArtworkQuery struct {
		Page     int
		Limit    int
		Category string
		Search   string
		Featured *bool
	}

	ArtworkPage struct {
		Artworks []Artwork
		Page     int
		Pages    int
		Total    int
	}

	// ArtworkInput is the admin form payload for create and update.
	ArtworkInput struct {
		Title              string          `json:"title" validate:"required,max=200"`
		Artist             string          `json:"artist" validate:"required"`
		Year               int             `json:"year,omitempty" validate:"omitempty,gte=1000,lte=3000"`
		Technique          string          `json:"technique,omitempty"`
		Dimensions         string          `json:"dimensions,omitempty"`
		Price              decimal.Decimal `json:"price" validate:"gte=0"`
		Currency           string          `json:"currency" validate:"required,len=3"`
		ImageURL           string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
		Description        string          `json:"description,omitempty" validate:"max=5000"`
		Available          bool            `json:"available"`
		Sold               bool            `json:"sold"`
		Category           string          `json:"category" validate:"required"`
		Featured           bool            `json:"featured"`
		DiscountPercentage int             `json:"discountPercentage" validate:"gte=0,lte=100"`
		Tags               []string        `json:"tags,omitempty"`
	}
)

// FinalPrice is the price after applying DiscountPercentage.
func (a Artwork) FinalPrice() decimal.Decimal {
	if a.DiscountPercentage <= 0 {
		return a.Price
	}
	rest := decimal.NewFromInt(int64(100 - a.DiscountPercentage))
	return a.Price.Mul(rest).Div(decimal.NewFromInt(100)).Round(2)
}

// Purchasable reports whether the artwork can be put in a cart.
func (a Artwork) Purchasable() bool {
	return a.Available && !a.Sold
}
