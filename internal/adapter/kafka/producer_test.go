package kafka_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/galeria/internal/adapter/kafka"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/pkg/schema"
)

type clientMock struct {
	mock.Mock
}

func (m *clientMock) Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	m.Called(ctx, r)
	promise(r, nil)
}

func (m *clientMock) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *clientMock) Close() {
	m.Called()
}

type encoderMock struct {
	mock.Mock
}

func (m *encoderMock) Encode(v any) ([]byte, error) {
	args := m.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func event() domain.CartEvent {
	item := domain.NewCartItem(domain.Artwork{
		ID: "a1", Title: "Sol", Price: decimal.NewFromInt(100), Currency: "ARS",
	})
	ev := domain.NewCartEvent(domain.CartItemAdded, &item)
	ev.CartSize, ev.Total, ev.Currency = 1, "100.00", "ARS"
	return ev
}

func TestCartEventsProducer_PublishCartEvent(t *testing.T) {
	t.Run("EncodesAndProduces", func(t *testing.T) {
		ev := event()
		cl := &clientMock{}
		enc := &encoderMock{}
		enc.On("Encode", mock.MatchedBy(func(s schema.CartEventV1) bool {
			return s.EventID == ev.ID && s.Type == "item_added" &&
				s.Item != nil && s.Item.ItemID == "a1" && s.Item.Price == "100" &&
				s.Total == "100.00" && s.CartSize == 1
		})).Return([]byte("payload"), nil)
		cl.On("Produce", mock.Anything, mock.MatchedBy(func(r *kgo.Record) bool {
			return string(r.Key) == ev.ID && string(r.Value) == "payload" &&
				r.Timestamp.Equal(ev.OccurredAt) &&
				len(r.Headers) == 1 && string(r.Headers[0].Value) == "item_added"
		})).Once()

		p, err := kafka.NewCartEventsProducer(
			kafka.ProducerClientInstanceOpt(cl),
			kafka.ProducerEncoderOpt(enc),
		)
		require.NoError(t, err)

		require.NoError(t, p.PublishCartEvent(t.Context(), ev))
		cl.AssertExpectations(t)
		enc.AssertExpectations(t)
	})

	t.Run("EncodeFailure", func(t *testing.T) {
		cl := &clientMock{}
		enc := &encoderMock{}
		boom := errors.New("boom")
		enc.On("Encode", mock.Anything).Return(nil, boom)

		p, err := kafka.NewCartEventsProducer(
			kafka.ProducerClientInstanceOpt(cl),
			kafka.ProducerEncoderOpt(enc),
		)
		require.NoError(t, err)

		require.ErrorIs(t, p.PublishCartEvent(t.Context(), event()), boom)
		cl.AssertNotCalled(t, "Produce", mock.Anything, mock.Anything)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		p, err := kafka.NewCartEventsProducer(
			kafka.ProducerClientInstanceOpt(&clientMock{}),
			kafka.ProducerEncoderOpt(&encoderMock{}),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		require.ErrorIs(t, p.PublishCartEvent(ctx, event()), context.Canceled)
	})
}

func TestCartEventsProducer_Close(t *testing.T) {
	cl := &clientMock{}
	cl.On("Flush", mock.Anything).Return(nil).Once()
	cl.On("Close").Once()

	p, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientInstanceOpt(cl),
		kafka.ProducerEncoderOpt(&encoderMock{}),
	)
	require.NoError(t, err)

	p.Close()
	cl.AssertExpectations(t)
}

func TestNewCartEventsProducer_TooFewOpts(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = kafka.NewCartEventsProducer(kafka.ProducerEncoderOpt(&encoderMock{}))
	})
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, kafka.NopPublisher{}.PublishCartEvent(t.Context(), event()))
}
