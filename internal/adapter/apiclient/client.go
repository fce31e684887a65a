// Package apiclient is the thin HTTP layer in front of the gallery REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/internal/core/port"
)

const requestIDHeader = "X-Request-ID"

func init() {
	// The API reads prices and amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Options describe a single call. An empty Method means GET.
type Options struct {
	Method    string
	Query     url.Values
	Body      any
	Protected bool
}

type Opt func(*Client)

func WithHTTPClient(hc *http.Client) Opt {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// A Client sends every request once. There is no retry and no backoff.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  port.TokenSource
	auth    *authSignal
}

func New(baseURL string, tokens port.TokenSource, opts ...Opt) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		tokens:  tokens,
		auth:    newAuthSignal(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnAuthRequired registers fn for 401 answers and returns its unsubscribe func.
func (c *Client) OnAuthRequired(fn func(AuthRequired)) func() {
	return c.auth.subscribe(fn)
}

// Request returns the raw JSON body, or nil for 204 and empty answers.
func (c *Client) Request(
	ctx context.Context, endpoint string, opts Options,
) (json.RawMessage, error) {
	const op = "Client.Request"

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	token, err := c.token(ctx, opts.Protected)
	if err != nil {
		return nil, fmt.Errorf("%s: %s %s: %w", op, method, endpoint, err)
	}

	var payload []byte
	if opts.Body != nil {
		payload, err = json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	req, err := c.newRequest(ctx, method, endpoint, opts.Query, payload, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	retry := func(ctx context.Context) (json.RawMessage, error) {
		return c.Request(ctx, endpoint, opts)
	}

	data, err := c.do(req, endpoint, retry)
	if err != nil {
		return nil, fmt.Errorf("%s: %s %s: %w", op, method, endpoint, err)
	}
	return data, nil
}

// Upload posts a single file as multipart form data under field.
func (c *Client) Upload(
	ctx context.Context, endpoint, field, filename string, r io.Reader,
) (json.RawMessage, error) {
	const op = "Client.Upload"

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.upload(ctx, endpoint, field, filename, content)
}

func (c *Client) upload(
	ctx context.Context, endpoint, field, filename string, content []byte,
) (json.RawMessage, error) {
	const op = "Client.Upload"

	token, err := c.token(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%s: POST %s: %w", op, endpoint, err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := fw.Write(content); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, nil, body.Bytes(), token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	retry := func(ctx context.Context) (json.RawMessage, error) {
		return c.upload(ctx, endpoint, field, filename, content)
	}

	data, err := c.do(req, endpoint, retry)
	if err != nil {
		return nil, fmt.Errorf("%s: POST %s: %w", op, endpoint, err)
	}
	return data, nil
}

func (c *Client) token(ctx context.Context, protected bool) (string, error) {
	if c.tokens == nil {
		if protected {
			return "", ErrNoAuthToken
		}
		return "", nil
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	if protected && token == "" {
		return "", ErrNoAuthToken
	}
	return token, nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method, endpoint string,
	query url.Values,
	payload []byte,
	token string,
) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint, query), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(
	req *http.Request,
	endpoint string,
	retry func(context.Context) (json.RawMessage, error),
) (json.RawMessage, error) {
	log := slog.With(
		"op", "Client.do",
		"method", req.Method,
		"endpoint", endpoint,
		"requestID", req.Header.Get(requestIDHeader),
	)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Warn("failed to close response body", "err", err)
		}
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	log.Debug("response", "status", res.StatusCode)

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		c.auth.emit(AuthRequired{Endpoint: endpoint, Retry: retry})
		return nil, ErrAuthExpired
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, newHTTPError(res.StatusCode, data)
	case res.StatusCode == http.StatusNoContent:
		return nil, nil
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: body is not JSON", domain.ErrInvalidResponse)
	}
	return data, nil
}

func (c *Client) url(endpoint string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) != 0 {
		u += "?" + query.Encode()
	}
	return u
}
