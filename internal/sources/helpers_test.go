package sources

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/fetch"
)

// newTestClient returns a fetch client without rate limiting, suitable for
// pointing at an httptest upstream.
func newTestClient(t *testing.T) *fetch.Client {
	t.Helper()
	return fetch.New(5*time.Second, 1000, 1000, zap.NewNop())
}

// jsonUpstream serves a fixed body on every request and records the last
// request path+query.
func jsonUpstream(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var lastURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastURL = r.URL.String()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &lastURL
}
