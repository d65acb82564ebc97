package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
)

type ping struct{}

func (ping) RegisterPing(api huma.API) {
	huma.Get(api, "/ping", func(context.Context, *struct{}) (*struct{ Body string }, error) {
		return &struct{ Body string }{Body: "pong"}, nil
	})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNew(t *testing.T) {
	var seen []string
	h := New("test", "0.0.0",
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
		func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "up 1\n") },
		func(mux *http.ServeMux) {
			mux.HandleFunc("GET /page", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "page") })
		},
		OptUseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
			seen = append(seen, ctx.Operation().Path)
			next(ctx)
		}),
		OptGroup("/api", OptAutoRegister(ping{})),
	)

	assert.Equal(t, http.StatusOK, get(h, "/liveness").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/readiness").Code)
	assert.Equal(t, "up 1\n", get(h, "/metrics").Body.String())
	assert.Equal(t, "page", get(h, "/page").Body.String())

	rec := get(h, "/api/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
	assert.Equal(t, []string{"/api/ping"}, seen)

	assert.Equal(t, http.StatusOK, get(h, "/openapi.json").Code)
}
