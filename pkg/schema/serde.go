package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var (
	ErrTooFewOpts   = errors.New("too few options")
	ErrEmptySubject = errors.New("subject is empty string")
)

// A Serde writes and reads registry framed Avro payloads: a zero magic
// byte, the 4-byte schema id, then the Avro body.
type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	SchemaID() int
}

type avroSerde struct {
	id     int
	schema avro.Schema
	sr     *sr.Serde
}

func (s avroSerde) Encode(v any) ([]byte, error) {
	return s.sr.Encode(v)
}

func (s avroSerde) Decode(data []byte, v any) error {
	return s.sr.Decode(data, v)
}

func (s avroSerde) SchemaID() int {
	return s.id
}

type Opt func(*serdeOpts) error

type serdeOpts struct {
	subject string
	si      SchemaIdentifier
}

func SubjectOpt(subject string) Opt {
	return func(so *serdeOpts) error {
		if subject == "" {
			return ErrEmptySubject
		}
		so.subject = subject
		return nil
	}
}

func SchemaIdentifierOpt(sc SchemaIdentifier) Opt {
	return func(so *serdeOpts) error {
		if sc == nil {
			return errors.New("schema identifier is nil")
		}
		so.si = sc
		return nil
	}
}

// NewSerdeCartEventV1 registers CartEventSchemaTextV1 under the subject and
// returns a serde for [CartEventV1] values. Both options are required.
func NewSerdeCartEventV1(ctx context.Context, opts ...Opt) (Serde, error) {
	const op = "NewSerdeCartEventV1"

	so, err := applyOpts(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := so.si.DetermineID(ctx, so.subject, CartEventSchemaTextV1)
	if err != nil {
		return nil, fmt.Errorf("%s: subject %q: %w", op, so.subject, err)
	}

	return newAvroSerde(id, CartEventV1Avro(), CartEventV1{}), nil
}

func applyOpts(opts []Opt) (serdeOpts, error) {
	var so serdeOpts
	for _, o := range opts {
		if err := o(&so); err != nil {
			return serdeOpts{}, err
		}
	}
	if so.subject == "" || so.si == nil {
		return serdeOpts{}, ErrTooFewOpts
	}
	return so, nil
}

// newAvroSerde binds the type of example to schema under id.
func newAvroSerde(id int, schema avro.Schema, example any) avroSerde {
	s := avroSerde{id: id, schema: schema, sr: new(sr.Serde)}
	s.sr.Register(
		id,
		example,
		sr.EncodeFn(func(v any) ([]byte, error) {
			return avro.Marshal(schema, v)
		}),
		sr.DecodeFn(func(data []byte, v any) error {
			return avro.Unmarshal(schema, data, v)
		}),
	)
	return s
}
