package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-catalog/internal/catalog"
)

type recorded struct {
	method, path, contentType string
	body                      []byte
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.calls = append(rec.calls, recorded{r.Method, r.URL.Path, r.Header.Get("Content-Type"), body})
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestListProducts(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[
		{"id":1,"name":"iPhone 15 Pro","description":"phone","price":8999.0,"stock":50,
		 "category":"electronics","status":"active","created_at":"2024-01-15T10:00:00Z","updated_at":"2024-01-15T10:00:00Z"},
		{"id":4,"name":"Tea","description":"","price":388,"stock":0,"category":"food","status":"inactive",
		 "created_at":"2024-01-12T10:00:00Z","updated_at":"2024-01-12T10:00:00Z"}]`)

	c := New(srv.URL + "/api/")
	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(8999)))
	assert.Equal(t, catalog.StatusInactive, products[1].Status)

	calls := rec.all()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].method)
	assert.Equal(t, "/api/products", calls[0].path)
}

func TestListProducts_NullBodyBecomesEmpty(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `null`)

	products, err := New(srv.URL).ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCreateProduct_SendsFormAsJSON(t *testing.T) {
	srv, rec := newServer(t, http.StatusCreated, `{"id":9,"name":"Novel","price":12.5,"stock":3,"category":"books","status":"active"}`)

	in := catalog.NewProductInput()
	in.Name = "Novel"
	in.Price = decimal.RequireFromString("12.50")
	in.Stock = 3
	in.Category = "books"

	p, err := New(srv.URL).CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)

	calls := rec.all()
	require.Len(t, calls, 1)
	call := calls[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/products", call.path)
	assert.Equal(t, "application/json", call.contentType)
	assert.JSONEq(t, `{"name":"Novel","description":"","price":12.5,"stock":3,"category":"books","status":"active"}`, string(call.body))
}

func TestUpdateAndDeleteUseProductPath(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"id":7,"name":"x","price":1,"stock":1,"category":"home","status":"active"}`)
	c := New(srv.URL)

	_, err := c.UpdateProduct(context.Background(), 7, catalog.NewProductInput())
	require.NoError(t, err)
	require.NoError(t, c.DeleteProduct(context.Background(), 7))
	_, err = c.GetProduct(context.Background(), 7)
	require.NoError(t, err)

	calls := rec.all()
	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodPut, calls[0].method)
	assert.Equal(t, "/products/7", calls[0].path)
	assert.Equal(t, http.MethodDelete, calls[1].method)
	assert.Equal(t, "/products/7", calls[1].path)
	assert.Empty(t, calls[1].body)
	assert.Equal(t, http.MethodGet, calls[2].method)
}

func TestNon2xxIsStatusError(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, "product not found\n")

	err := New(srv.URL).DeleteProduct(context.Background(), 3)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "product not found", se.Body)
	assert.Equal(t, "/products/3", se.Path)
}

func TestTransportFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	_, err := New(url).ListProducts(context.Background())
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestDecodeFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"not":"an array"}`)

	_, err := New(srv.URL).ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestWithTimeout(t *testing.T) {
	c := New("http://example", WithTimeout(2*time.Second))
	assert.Equal(t, 2*time.Second, c.http.Timeout)

	c = New("http://example", WithTimeout(0))
	assert.Zero(t, c.http.Timeout)

	hc := &http.Client{}
	c = New("http://example", WithHTTPClient(hc))
	assert.Same(t, hc, c.http)
}

func TestPriceMarshalsAsNumber(t *testing.T) {
	raw, err := json.Marshal(catalog.Product{ID: 1, Price: decimal.RequireFromString("9.90")})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":9.9`)
}
