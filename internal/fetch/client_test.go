package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient() *Client {
	return New(5*time.Second, 100, 100, zap.NewNop())
}

func TestGet(t *testing.T) {
	t.Run("returns the body on 200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("hello"))
		}))
		defer srv.Close()

		body, err := newTestClient().Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestClient().Get(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("unreachable host is an error", func(t *testing.T) {
		_, err := newTestClient().Get(context.Background(), "http://127.0.0.1:1")
		assert.Error(t, err)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestClient().Get(ctx, "http://example.invalid")
		assert.Error(t, err)
	})
}

func TestGetJSON(t *testing.T) {
	t.Run("decodes into the target", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"city":"Vienna"}`))
		}))
		defer srv.Close()

		var out struct {
			City string `json:"city"`
		}
		require.NoError(t, newTestClient().GetJSON(context.Background(), srv.URL, &out))
		assert.Equal(t, "Vienna", out.City)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		var out map[string]any
		err := newTestClient().GetJSON(context.Background(), srv.URL, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})
}
