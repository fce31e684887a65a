package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/galeria/config"
)

func TestGenerate(t *testing.T) {
	var digitalHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/artworks", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"artworks":[{"_id":"a` + strconv.Itoa(page) +
			`","title":"Obra","price":10,"updatedAt":"2024-03-01T10:00:00Z"}],"page":` +
			strconv.Itoa(page) + `,"pages":2}`))
	})
	mux.HandleFunc("GET /api/digital-art", func(w http.ResponseWriter, _ *http.Request) {
		if digitalHits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"d1","title":"Print","sizes":[{"size":"A4","price":5}]}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)
	cfg.API.BaseURL = srv.URL + "/api"

	out := filepath.Join(t.TempDir(), "public", "sitemap.xml")
	_, err = generate(t.Context(), cfg, "https://galeria.test", out)
	require.Error(t, err, "503 is not a network failure and is not retried")

	n, err := generate(t.Context(), cfg, "https://galeria.test", out)
	require.NoError(t, err)
	assert.Equal(t, 5+2+1, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "<loc>https://galeria.test/galeria</loc>")
	assert.Contains(t, doc, "<loc>https://galeria.test/obra/a1</loc>")
	assert.Contains(t, doc, "<loc>https://galeria.test/obra/a2</loc>")
	assert.Contains(t, doc, "<lastmod>2024-03-01</lastmod>")
	assert.Contains(t, doc, "<loc>https://galeria.test/arte-digital/d1</loc>")
}
