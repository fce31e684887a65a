package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/galeria/internal/adapter/apiclient"
)

const artworksBody = `{"artworks":[
	{"_id":"1","title":"Paisaje del Sol","artist":"Ana","price":100,"currency":"ARS","category":"paisaje"},
	{"_id":"2","title":"Retrato","artist":"Luna","price":200,"currency":"ARS","category":"retrato","sold":true}
],"total":2}`

func backend(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/artworks", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(artworksBody))
	})
	mux.HandleFunc("GET /api/artworks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"` + r.PathValue("id") +
			`","title":"Paisaje del Sol","price":100,"currency":"ARS","available":true}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("GALERIA_API_BASE_URL", srv.URL+"/api")
	t.Setenv("GALERIA_STORAGE_DRIVER", "memory")
	t.Setenv("GALERIA_LOG_LEVEL", "error")
}

func runCmd(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCmd()
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: storefront")

	code, _, stderr = runCmd("paint")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "paint"`)
}

func TestRun_CatalogList(t *testing.T) {
	backend(t)

	code, stdout, _ := runCmd("catalog", "list", "--search", "sol")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Paisaje del Sol")
	assert.NotContains(t, stdout, "Retrato")
	assert.Contains(t, stdout, "1 of 2 artworks")
}

func TestRun_CatalogCategories(t *testing.T) {
	backend(t)

	code, stdout, _ := runCmd("catalog", "categories")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Todas las Obras")
	assert.Contains(t, stdout, "Paisaje")
	assert.Contains(t, stdout, "Retrato")
}

func TestRun_CartAdd(t *testing.T) {
	backend(t)

	code, stdout, _ := runCmd("cart", "add", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `added "Paisaje del Sol", 1 item(s) in cart`)
}

func TestRun_BadSubcommand(t *testing.T) {
	backend(t)

	code, _, stderr := runCmd("cart", "paint")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: storefront cart")
}

func TestRun_ValidationError(t *testing.T) {
	backend(t)

	code, _, stderr := runCmd("contact", "--name", "A", "--email", "nope", "--message", "hi")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid input:")
	assert.Contains(t, stderr, "email: must be a valid email address")
	assert.Contains(t, stderr, "message: must be at least 10 characters")
}

func TestRun_CheckoutEmptyCart(t *testing.T) {
	backend(t)

	code, _, stderr := runCmd("checkout", "--name", "Ana Pérez", "--email", "ana@example.com")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cart is empty")
}

func TestRun_Config(t *testing.T) {
	backend(t)

	code, stdout, _ := runCmd("config")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "  driver = memory\n")
	assert.Contains(t, stdout, "  seed_brokers = disabled\n")

	code, _, _ = runCmd("config", "extra")
	assert.Equal(t, 2, code)
}

func TestPrintErr_HTTPStatus(t *testing.T) {
	var buf bytes.Buffer
	printErr(&buf, fmt.Errorf("Artworks.GetArtwork: %w",
		&apiclient.HTTPError{Status: http.StatusNotFound, Message: "obra no encontrada"}))
	assert.Equal(t, "not found: Artworks.GetArtwork: status 404: obra no encontrada\n", buf.String())

	buf.Reset()
	printErr(&buf, &apiclient.HTTPError{Status: http.StatusForbidden, Message: "forbidden"})
	assert.Contains(t, buf.String(), "permission denied")
}
