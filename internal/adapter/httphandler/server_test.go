package httphandler_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/galeria/internal/adapter/httphandler"
)

func TestHTTPServer(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv, err := httphandler.NewHTTPServer("127.0.0.1:0", h)
	require.NoError(t, err)

	stopped, stop := context.WithCancel(t.Context())
	go srv.Run(stop)

	res, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, res.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	_, err = httphandler.NewHTTPServer(srv.Addr(), h)
	assert.Error(t, err, "address in use")

	srv.Close(t.Context())
	<-stopped.Done()
}
