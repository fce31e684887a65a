package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
)

const (
	flushTimeout    = 5 * time.Second
	eventTypeHeader = "event-type"
)

var (
	_ port.CartEventPublisher = (*CartEventsProducer)(nil)
	_ port.CartEventPublisher = NopPublisher{}
)

// A producer is used for composition.
//
// Producing records asynchronously and flushing before closing the
// underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := p.cl.Flush(ctx); err != nil {
		log.Warn("failed to flush records", "err", err)
	}
	p.cl.Close()
	log.Info("producer is closed")
}

// produce hands r to the client. The delivery outlives ctx, failures are
// logged by the promise.
func (p producer) produce(ctx context.Context, r *kgo.Record) {
	const op = "produce"
	log := slog.With("op", makeOp(p.opPrefix, op))

	p.cl.Produce(context.WithoutCancel(ctx), r, func(r *kgo.Record, err error) {
		if err != nil {
			log.Error("failed to deliver record", "key", string(r.Key), "err", err)
			return
		}
		log.Debug("record delivered", "partition", r.Partition, "offset", r.Offset)
	})
}

// A CartEventsProducer publishes [domain.CartEvent] keyed by event id.
type CartEventsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewCartEventsProducer(opts ...ProducerOpt) (*CartEventsProducer, error) {
	const op = "NewCartEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, opErr(err, op)
		}
	}

	opPrefix := "CartEventsProducer"
	return &CartEventsProducer{
		producer: producer{opPrefix: opPrefix, cl: options.cl},
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p *CartEventsProducer) Close() {
	p.producer.close()
}

func (p *CartEventsProducer) PublishCartEvent(ctx context.Context, ev domain.CartEvent) error {
	const op = "PublishCartEvent"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	b, err := p.encoder.Encode(cartEventToSchemaV1(ev))
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	p.producer.produce(ctx, &kgo.Record{
		Key:       []byte(ev.ID),
		Value:     b,
		Timestamp: ev.OccurredAt,
		Headers: []kgo.RecordHeader{
			{Key: eventTypeHeader, Value: []byte(ev.Type)},
		},
	})
	return nil
}

// NopPublisher drops events. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCartEvent(context.Context, domain.CartEvent) error {
	return nil
}
