// Package services maps the gallery REST endpoints to typed calls.
//
// Every payload goes through a strict parse step: wire structs are decoded,
// nested objects are flattened and required fields are checked before a
// domain value is returned. Anything else fails with
// [domain.ErrInvalidResponse].
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/validate"
)

var ErrEmptyID = errors.New("empty id")

type Requester interface {
	Request(ctx context.Context, endpoint string, opts apiclient.Options) (json.RawMessage, error)
	Upload(ctx context.Context, endpoint, field, filename string, r io.Reader) (json.RawMessage, error)
}

// wire is a decoded backend payload that knows its domain shape.
type wire[T any] interface {
	toDomain() (T, error)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidResponse, fmt.Sprintf(format, args...))
}

// unwrap descends into the first envelope key present in an object body.
func unwrap(raw json.RawMessage, keys []string) json.RawMessage {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || data[0] != '{' || len(keys) == 0 {
		return data
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return data
	}
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || isNull(v) {
			continue
		}
		return unwrap(v, keys)
	}
	return data
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func decodeOne[W wire[T], T any](raw json.RawMessage, keys ...string) (T, error) {
	var zero T

	data := unwrap(raw, keys)
	if len(data) == 0 || data[0] != '{' {
		return zero, invalid("expected an object")
	}

	var w W
	if err := json.Unmarshal(data, &w); err != nil {
		return zero, fmt.Errorf("%w: %w", domain.ErrInvalidResponse, err)
	}
	v, err := w.toDomain()
	if err != nil {
		return zero, fmt.Errorf("%w: %w", domain.ErrInvalidResponse, err)
	}
	return v, nil
}

func decodeMany[W wire[T], T any](raw json.RawMessage, keys ...string) ([]T, error) {
	data := unwrap(raw, keys)
	if len(data) == 0 || data[0] != '[' {
		return nil, invalid("expected a list")
	}

	var ws []W
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidResponse, err)
	}

	out := make([]T, 0, len(ws))
	for i, w := range ws {
		v, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", domain.ErrInvalidResponse, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// A resource is a REST collection with the usual CRUD endpoints.
type resource[W wire[T], T any] struct {
	api       Requester
	path      string
	protected bool
	one       []string
	many      []string
}

func (r resource[W, T]) itemPath(id string, action ...string) (string, error) {
	if id == "" {
		return "", ErrEmptyID
	}
	p := r.path + "/" + url.PathEscape(id)
	for _, a := range action {
		p += "/" + a
	}
	return p, nil
}

func (r resource[W, T]) list(ctx context.Context, q url.Values) ([]T, error) {
	raw, err := r.api.Request(ctx, r.path, apiclient.Options{
		Query:     q,
		Protected: r.protected,
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return decodeMany[W, T](raw, r.many...)
}

func (r resource[W, T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	p, err := r.itemPath(id)
	if err != nil {
		return zero, err
	}
	raw, err := r.api.Request(ctx, p, apiclient.Options{Protected: r.protected})
	if err != nil {
		return zero, err
	}
	return decodeOne[W, T](raw, r.one...)
}

func (r resource[W, T]) create(ctx context.Context, in any) (T, error) {
	var zero T
	if err := validate.Struct(in); err != nil {
		return zero, err
	}
	raw, err := r.api.Request(ctx, r.path, apiclient.Options{
		Method:    http.MethodPost,
		Body:      in,
		Protected: true,
	})
	if err != nil {
		return zero, err
	}
	return decodeOne[W, T](raw, r.one...)
}

func (r resource[W, T]) update(ctx context.Context, id string, in any) (T, error) {
	var zero T
	p, err := r.itemPath(id)
	if err != nil {
		return zero, err
	}
	if err := validate.Struct(in); err != nil {
		return zero, err
	}
	raw, err := r.api.Request(ctx, p, apiclient.Options{
		Method:    http.MethodPut,
		Body:      in,
		Protected: true,
	})
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return r.get(ctx, id)
	}
	return decodeOne[W, T](raw, r.one...)
}

// patch calls PATCH path/id[/action]; a 204 answer is followed by a get.
func (r resource[W, T]) patch(ctx context.Context, id, action string, body any) (T, error) {
	var zero T
	var actions []string
	if action != "" {
		actions = append(actions, action)
	}
	p, err := r.itemPath(id, actions...)
	if err != nil {
		return zero, err
	}
	raw, err := r.api.Request(ctx, p, apiclient.Options{
		Method:    http.MethodPatch,
		Body:      body,
		Protected: true,
	})
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return r.get(ctx, id)
	}
	return decodeOne[W, T](raw, r.one...)
}

func (r resource[W, T]) delete(ctx context.Context, id string) error {
	p, err := r.itemPath(id)
	if err != nil {
		return err
	}
	_, err = r.api.Request(ctx, p, apiclient.Options{
		Method:    http.MethodDelete,
		Protected: true,
	})
	return err
}
