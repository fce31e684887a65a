package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	DigitalArtwork struct {
		ID                string     `json:"id"`
		Title             string     `json:"title"`
		Artist            string     `json:"artist"`
		Description       string     `json:"description"`
		ImageURL          string     `json:"imageUrl"`
		Category          string     `json:"category"`
		Featured          bool       `json:"featured"`
		Tags              []string   `json:"tags"`
		OriginalArtworkID string     `json:"originalArtworkId"`
		Sizes             []Size     `json:"sizes"`
		UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
	}

	Size struct {
		ID         string          `json:"id"`
		Label      string          `json:"size"`
		Dimensions string          `json:"dimensions"`
		Price      decimal.Decimal `json:"price"`
		Currency   string          `json:"currency"`
		Available  bool            `json:"available"`
	}

	DigitalArtworkInput struct {
		Title             string      `json:"title" validate:"required,max=200"`
		Artist            string      `json:"artist" validate:"required"`
		Description       string      `json:"description,omitempty"`
		ImageURL          string      `json:"imageUrl" validate:"required,url"`
		Category          string      `json:"category,omitempty"`
		Featured          bool        `json:"featured"`
		Tags              []string    `json:"tags,omitempty"`
		OriginalArtworkID string      `json:"originalArtwork,omitempty"`
		Sizes             []SizeInput `json:"sizes" validate:"required,min=1,dive"`
	}

	SizeInput struct {
		Label      string          `json:"size" validate:"required"`
		Dimensions string          `json:"dimensions,omitempty"`
		Price      decimal.Decimal `json:"price" validate:"gte=0"`
		Currency   string          `json:"currency" validate:"required,len=3"`
		Available  bool            `json:"available"`
	}
)

// SizeByID returns the size variant with the given id.
func (d DigitalArtwork) SizeByID(id string) (Size, bool) {
	for _, s := range d.Sizes {
		if s.ID == id {
			return s, true
		}
	}
	return Size{}, false
}
