package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenSource struct {
	mu    sync.Mutex
	token string
}

func (s *tokenSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *tokenSource) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func TestClient_Request(t *testing.T) {
	t.Run("GetWithTokenAndQuery", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/artworks", r.URL.Path)
			assert.Equal(t, "paisaje", r.URL.Query().Get("category"))
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
			_, _ = io.WriteString(w, `{"artworks":[]}`)
		}))
		defer srv.Close()

		c := apiclient.New(srv.URL+"/api/", &tokenSource{token: "secret"})
		data, err := c.Request(t.Context(), "/artworks", apiclient.Options{
			Query: url.Values{"category": {"paisaje"}},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"artworks":[]}`, string(data))
	})

	t.Run("PublicCallWithoutToken", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `{}`)
		}))
		defer srv.Close()

		c := apiclient.New(srv.URL, &tokenSource{})
		_, err := c.Request(t.Context(), "artworks", apiclient.Options{})
		require.NoError(t, err)
	})

	t.Run("JSONBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@example.com", body["email"])
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"ok":true}`)
		}))
		defer srv.Close()

		c := apiclient.New(srv.URL, nil)
		data, err := c.Request(t.Context(), "/newsletter/subscribe", apiclient.Options{
			Method: http.MethodPost,
			Body:   map[string]string{"email": "ana@example.com"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(data))
	})

	t.Run("ProtectedWithoutTokenFailsFast", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer srv.Close()

		c := apiclient.New(srv.URL, &tokenSource{})
		_, err := c.Request(t.Context(), "/admin/notes", apiclient.Options{Protected: true})
		assert.ErrorIs(t, err, apiclient.ErrNoAuthToken)
		assert.Zero(t, hits.Load())

		_, err = apiclient.New(srv.URL, nil).Request(
			t.Context(), "/admin/notes", apiclient.Options{Protected: true},
		)
		assert.ErrorIs(t, err, apiclient.ErrNoAuthToken)
		assert.Zero(t, hits.Load())
	})

	t.Run("NoContent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := apiclient.New(srv.URL, &tokenSource{token: "t"})
		data, err := c.Request(t.Context(), "/artworks/1", apiclient.Options{
			Method: http.MethodDelete, Protected: true,
		})
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("ServerMessage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":"La obra ya fue vendida"}`)
		}))
		defer srv.Close()

		_, err := apiclient.New(srv.URL, nil).Request(t.Context(), "/artworks", apiclient.Options{})
		var herr *apiclient.HTTPError
		require.ErrorAs(t, err, &herr)
		assert.Equal(t, http.StatusConflict, herr.Status)
		assert.Equal(t, "La obra ya fue vendida", herr.Message)
		assert.Equal(t, http.StatusConflict, apiclient.StatusOf(err))
	})

	t.Run("GenericMessage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `<html>bad gateway</html>`)
		}))
		defer srv.Close()

		_, err := apiclient.New(srv.URL, nil).Request(t.Context(), "/artworks", apiclient.Options{})
		var herr *apiclient.HTTPError
		require.ErrorAs(t, err, &herr)
		assert.Equal(t, "request failed: Bad Gateway", herr.Message)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `not json`)
		}))
		defer srv.Close()

		_, err := apiclient.New(srv.URL, nil).Request(t.Context(), "/artworks", apiclient.Options{})
		assert.ErrorIs(t, err, domain.ErrInvalidResponse)
	})

	t.Run("NetworkFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := apiclient.New(addr, nil).Request(t.Context(), "/artworks", apiclient.Options{})
		assert.ErrorIs(t, err, apiclient.ErrNetwork)
	})
}

func TestClient_AuthRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"token expired"}`)
			return
		}
		_, _ = io.WriteString(w, `{"notes":[]}`)
	}))
	defer srv.Close()

	tokens := &tokenSource{token: "stale"}
	c := apiclient.New(srv.URL, tokens)

	var events []apiclient.AuthRequired
	unsubscribe := c.OnAuthRequired(func(ev apiclient.AuthRequired) {
		events = append(events, ev)
	})

	_, err := c.Request(t.Context(), "/admin/notes", apiclient.Options{Protected: true})
	require.ErrorIs(t, err, apiclient.ErrAuthExpired)
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))
	require.Len(t, events, 1)
	assert.Equal(t, "/admin/notes", events[0].Endpoint)

	tokens.set("fresh")
	data, err := events[0].Retry(t.Context())
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes":[]}`, string(data))

	unsubscribe()
	tokens.set("stale")
	_, err = c.Request(t.Context(), "/admin/notes", apiclient.Options{Protected: true})
	require.ErrorIs(t, err, apiclient.ErrAuthExpired)
	assert.Len(t, events, 1, "unsubscribed listener must not be called")
}

func TestClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "obra.jpg", hdr.Filename)
		assert.Equal(t, "JPEGDATA", string(content))

		_, _ = io.WriteString(w, `{"url":"https://cdn.example.com/obra.jpg"}`)
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, &tokenSource{token: "secret"})
	data, err := c.Upload(t.Context(), "/upload", "image", "obra.jpg", strings.NewReader("JPEGDATA"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://cdn.example.com/obra.jpg"}`, string(data))

	_, err = apiclient.New(srv.URL, &tokenSource{}).Upload(
		t.Context(), "/upload", "image", "obra.jpg", strings.NewReader("x"),
	)
	assert.ErrorIs(t, err, apiclient.ErrNoAuthToken)
}
