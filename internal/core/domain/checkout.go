package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const PaymentApproved = "approved"

type (
	Buyer struct {
		Name  string `json:"name" validate:"required,min=2,max=100"`
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone,omitempty" validate:"omitempty,max=30"`
	}

	PreferenceItem struct {
		ID         string          `json:"id"`
		Title      string          `json:"title"`
		Quantity   int             `json:"quantity"`
		UnitPrice  decimal.Decimal `json:"unit_price"`
		CurrencyID string          `json:"currency_id"`
		PictureURL string          `json:"picture_url,omitempty"`
	}

	// BackURLs are where the payment processor sends the buyer once the
	// payment settles.
	BackURLs struct {
		Success string `json:"success"`
		Failure string `json:"failure"`
		Pending string `json:"pending"`
	}

	PreferenceRequest struct {
		Items             []PreferenceItem `json:"items"`
		Payer             Buyer            `json:"payer"`
		ExternalReference string           `json:"external_reference"`
		BackURLs          *BackURLs        `json:"back_urls,omitempty"`
		AutoReturn        string           `json:"auto_return,omitempty"`
	}

	// A Preference is the payment processor checkout created by the backend.
	Preference struct {
		ID        string
		InitPoint string
	}

	// PaymentResult is what the payment processor reports on its return URL.
	PaymentResult struct {
		Status            string
		PaymentID         string
		ExternalReference string
	}

	Order struct {
		ID        string
		Buyer     Buyer
		Items     []OrderItem
		Total     decimal.Decimal
		Currency  string
		Status    string
		PaymentID string
		CreatedAt time.Time
	}

	OrderItem struct {
		ArtworkID string
		Title     string
		Quantity  int
		Price     decimal.Decimal
	}

	Session struct {
		Token string      `json:"token"`
		User  SessionUser `json:"user"`
	}

	SessionUser struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}

	Credentials struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	NewsletterSubscription struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name,omitempty"`
	}
)

// ReturnURLs builds the back URLs served under base, e.g.
// http://127.0.0.1:8765/checkout.
func ReturnURLs(base string) BackURLs {
	base = strings.TrimRight(base, "/")
	return BackURLs{
		Success: base + "/success",
		Failure: base + "/failure",
		Pending: base + "/pending",
	}
}

// OrderStatuses are the statuses accepted by PATCH /orders/:id/status.
var OrderStatuses = []string{"pending", "paid", "shipped", "delivered", "cancelled"}
