package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "galeria.cart",
	"name": "cart_event",
	"fields": [
		{"name": "event_id", "type": "string"},
		{"name": "type", "type": {
			"type": "enum",
			"name": "cart_event_type",
			"symbols": ["item_added", "item_removed", "cleared"]
		}},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "cart_size", "type": "int"},
		{"name": "total", "type": "string"},
		{"name": "currency", "type": "string"},
		{"name": "item", "type": ["null", {
			"type": "record",
			"name": "cart_item",
			"fields": [
				{"name": "item_id", "type": "string"},
				{"name": "kind", "type": "string"},
				{"name": "title", "type": "string"},
				{"name": "price", "type": "string"},
				{"name": "currency", "type": "string"}
			]
		}], "default": null}
	]
}`

type (
	CartEventV1 struct {
		EventID    string      `avro:"event_id"`
		Type       string      `avro:"type"`
		OccurredAt time.Time   `avro:"occurred_at"`
		CartSize   int         `avro:"cart_size"`
		Total      string      `avro:"total"`
		Currency   string      `avro:"currency"`
		Item       *CartItemV1 `avro:"item"`
	}

	CartItemV1 struct {
		ItemID   string `avro:"item_id"`
		Kind     string `avro:"kind"`
		Title    string `avro:"title"`
		Price    string `avro:"price"`
		Currency string `avro:"currency"`
	}
)

// CartEventV1Avro parses the schema and panics if it is invalid.
func CartEventV1Avro() avro.Schema {
	return avro.MustParse(CartEventSchemaTextV1)
}
