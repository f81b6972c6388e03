package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-catalog/internal/catalog"
	"product-catalog/internal/config"
)

type fakeStore struct {
	pingErr error
}

func (s *fakeStore) ListProducts(context.Context, []string) ([]catalog.Product, error) {
	return []catalog.Product{{ID: 1, Name: "Lamp", Category: "home", Status: catalog.StatusActive}}, nil
}

func (s *fakeStore) GetProduct(_ context.Context, id int64) (*catalog.Product, error) {
	if id != 1 {
		return nil, catalog.ErrNotFound
	}
	return &catalog.Product{ID: 1, Name: "Lamp"}, nil
}

func (s *fakeStore) CreateProduct(context.Context, catalog.ProductInput) (*catalog.Product, error) {
	return nil, errors.New("read only")
}

func (s *fakeStore) UpdateProduct(context.Context, int64, catalog.UpdateProductRequest) (*catalog.Product, error) {
	return nil, errors.New("read only")
}

func (s *fakeStore) DeleteProduct(context.Context, int64) error {
	return errors.New("read only")
}

func (s *fakeStore) Ping(context.Context) error {
	return s.pingErr
}

func testRouter(store *fakeStore, offline *bool) http.Handler {
	cfg := config.Server{RateRPS: 1, RateBurst: 1}
	return newRouter(cfg, store, func() bool { return *offline })
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_APIPrefix(t *testing.T) {
	offline := false
	h := testRouter(&fakeStore{}, &offline)

	w := serve(h, http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Lamp"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(h, http.MethodGet, "/products")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_HealthAndReady(t *testing.T) {
	offline := false
	store := &fakeStore{}
	h := testRouter(store, &offline)

	w := serve(h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = serve(h, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	store.pingErr = errors.New("db down")
	w = serve(h, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_CORSCoversUnmatchedRoutes(t *testing.T) {
	offline := false
	h := testRouter(&fakeStore{}, &offline)

	w := serve(h, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(h, http.MethodPatch, "/api/products/1")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(h, http.MethodOptions, "/api/products")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_RateLimitOnlyUnderAPI(t *testing.T) {
	offline := false
	h := testRouter(&fakeStore{}, &offline)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health").Code)
	}

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/products").Code)
	w := serve(h, http.MethodGet, "/api/products")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/ready").Code)
}

func TestRouter_OfflineKeepsHealthEndpoints(t *testing.T) {
	offline := true
	h := testRouter(&fakeStore{}, &offline)

	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/api/products").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/ready").Code)

	offline = false
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/products").Code)
}
