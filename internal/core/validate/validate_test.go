package validate_test

import (
	"testing"
	"time"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/validate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct(t *testing.T) {
	t.Run("ValidContactForm", func(t *testing.T) {
		err := validate.Struct(domain.ContactForm{
			Name:    "Ana",
			Email:   "ana@example.com",
			Message: "Quisiera consultar por la obra",
		})
		assert.NoError(t, err)
	})

	t.Run("FieldErrorsUseJSONNames", func(t *testing.T) {
		err := validate.Struct(domain.ContactForm{
			Name:    "A",
			Email:   "not-an-email",
			Message: "",
		})
		require.Error(t, err)

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)

		msg, ok := ve.Field("email")
		require.True(t, ok)
		assert.Equal(t, "must be a valid email address", msg)

		msg, ok = ve.Field("message")
		require.True(t, ok)
		assert.Equal(t, "is required", msg)

		_, ok = ve.Field("name")
		assert.True(t, ok)
	})

	t.Run("DecimalBounds", func(t *testing.T) {
		in := domain.FinanceInput{
			Type:        "income",
			Amount:      decimal.NewFromInt(-5),
			Currency:    "ARS",
			Description: "venta",
			Date:        time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		}
		err := validate.Struct(in)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		_, ok := ve.Field("amount")
		assert.True(t, ok)

		in.Amount = decimal.RequireFromString("10.50")
		assert.NoError(t, validate.Struct(in))
	})

	t.Run("NestedSizes", func(t *testing.T) {
		in := domain.DigitalArtworkInput{
			Title:    "Ola",
			Artist:   "Marta",
			ImageURL: "https://cdn.example.com/ola.jpg",
			Sizes: []domain.SizeInput{
				{Label: "A4", Price: decimal.NewFromInt(100), Currency: "ARS"},
				{Label: "", Price: decimal.NewFromInt(200), Currency: "ARS"},
			},
		}
		err := validate.Struct(in)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		_, ok := ve.Field("sizes[1].size")
		assert.True(t, ok, "got %v", ve.Fields)
	})
}
