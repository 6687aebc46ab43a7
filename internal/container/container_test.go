package container_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/ttl-shortener/internal/container"
	"github.com/serroba/ttl-shortener/internal/messaging"
	"github.com/serroba/ttl-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInjector(t *testing.T) *do.Injector {
	t.Helper()

	injector, err := container.New(testOptions())
	require.NoError(t, err)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func newRouter(t *testing.T, injector *do.Injector) *chi.Mux {
	t.Helper()

	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestNew(t *testing.T) {
	t.Run("rejects invalid options", func(t *testing.T) {
		opts := testOptions()
		opts.Store = "sqlite"

		_, err := container.New(opts)

		assert.Error(t, err)
	})

	t.Run("wires the memory backend end to end", func(t *testing.T) {
		router := newRouter(t, newInjector(t))

		created := serve(router, http.MethodPost, "/api/create", `{"originalUrl":"https://example.com/a"}`)
		require.Equal(t, http.StatusOK, created.Code, created.Body.String())

		var body struct {
			ShortCode string `json:"short_code"`
		}
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &body))

		redirect := serve(router, http.MethodGet, "/r/"+body.ShortCode, "")
		assert.Equal(t, http.StatusFound, redirect.Code)
		assert.Equal(t, "https://example.com/a", redirect.Header().Get("Location"))

		preview := serve(router, http.MethodGet, "/"+body.ShortCode, "")
		assert.Equal(t, http.StatusOK, preview.Code)
		assert.Contains(t, preview.Body.String(), "https://example.com/a")

		assert.Equal(t, http.StatusFound, serve(router, http.MethodGet, "/", "").Code)
	})

	t.Run("serves health and metrics", func(t *testing.T) {
		router := newRouter(t, newInjector(t))

		_ = serve(router, http.MethodGet, "/r/zzzzzz", "")

		health := serve(router, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, health.Code)
		assert.Contains(t, health.Body.String(), `"store":"healthy"`)

		metrics := serve(router, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, metrics.Code)
		assert.Contains(t, metrics.Body.String(), `shortener_resolve_total{outcome="not_found"} 1`)
		assert.Contains(t, metrics.Body.String(), `route="/r/{code}"`)
	})

	t.Run("repair worker restores reverse entries in process", func(t *testing.T) {
		injector := newInjector(t)

		_, err := container.StartRepairWorker(context.Background(), injector)
		require.NoError(t, err)

		store := do.MustInvoke[shortener.Store](injector)
		require.NoError(t, store.Set(context.Background(), shortener.ForwardKey("abc123"),
			"https://example.com/a", time.Hour))

		publish := do.MustInvoke[messaging.Publish[shortener.ReverseIndexRepair]](injector)
		require.NoError(t, publish(context.Background(), &shortener.ReverseIndexRepair{
			Code:        "abc123",
			OriginalURL: "https://example.com/a",
			ExpiresAt:   time.Now().Add(time.Hour),
		}))

		assert.Eventually(t, func() bool {
			code, err := store.Get(context.Background(), shortener.ReverseKey("https://example.com/a"))

			return err == nil && code == "abc123"
		}, 2*time.Second, 10*time.Millisecond)
	})
}
