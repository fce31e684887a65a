package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/galeria/pkg/schema"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeCartEventV1(t *testing.T) {
	const subject = "cart-events-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(t.Context())
		require.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.ErrorIs(t, err, schema.ErrEmptySubject)
	})

	t.Run("RegistryFailure", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		boom := errors.New("registry down")
		si.On("DetermineID", t.Context(), subject, schema.CartEventSchemaTextV1).Return(0, boom)

		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.ErrorIs(t, err, boom)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On("DetermineID", t.Context(), subject, schema.CartEventSchemaTextV1).Return(7, nil)

		serde, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.NoError(t, err)
		assert.Equal(t, 7, serde.SchemaID())

		v1 := schema.CartEventV1{
			EventID:    "e1",
			Type:       "item_added",
			OccurredAt: time.UnixMilli(1_700_000_000_123).UTC(),
			CartSize:   2,
			Total:      "300.00",
			Currency:   "ARS",
			Item: &schema.CartItemV1{
				ItemID:   "a1",
				Kind:     "original",
				Title:    "Sol",
				Price:    "100",
				Currency: "ARS",
			},
		}

		data, err := serde.Encode(v1)
		require.NoError(t, err)
		require.Greater(t, len(data), 5)
		assert.Equal(t, byte(0), data[0], "magic byte")
		assert.Equal(t, []byte{0, 0, 0, 7}, data[1:5], "schema id")

		var v2 schema.CartEventV1
		require.NoError(t, serde.Decode(data, &v2))
		assert.Equal(t, v1.EventID, v2.EventID)
		assert.Equal(t, v1.Type, v2.Type)
		assert.True(t, v1.OccurredAt.Equal(v2.OccurredAt))
		assert.Equal(t, v1.CartSize, v2.CartSize)
		assert.Equal(t, v1.Total, v2.Total)
		require.NotNil(t, v2.Item)
		assert.Equal(t, *v1.Item, *v2.Item)
	})
}
