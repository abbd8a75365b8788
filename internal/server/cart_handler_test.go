package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/4PPL8/wahabstore/internal/cache"
	"github.com/4PPL8/wahabstore/internal/cart"
	"github.com/4PPL8/wahabstore/internal/catalog"
	"github.com/4PPL8/wahabstore/internal/domain"
	"github.com/4PPL8/wahabstore/internal/notify"
	"github.com/4PPL8/wahabstore/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	products map[string]*domain.Product
}

func (s *stubCatalog) List(context.Context, catalog.Filter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubCatalog) Get(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (s *stubCatalog) Categories(context.Context) ([]string, error) { return nil, nil }
func (s *stubCatalog) Brands(context.Context) ([]string, error)     { return nil, nil }
func (s *stubCatalog) Close() error                                 { return nil }
func (s *stubCatalog) RunMigrations(string) error                   { return nil }

type memCartRepo struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]*domain.Cart)}
}

func (m *memCartRepo) GetCart(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	c, ok := m.carts[sessionID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return c, nil
}

func (m *memCartRepo) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[c.SessionID] = c
	return nil
}

func (m *memCartRepo) DeleteCart(_ context.Context, sessionID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*domain.Cart, error) { return nil, cache.ErrCacheMiss }
func (nopCache) Set(context.Context, string, *domain.Cart) error   { return nil }
func (nopCache) Delete(context.Context, string) error              { return nil }

func newTestCartHandler() *CartHandler {
	repo := newMemCartRepo()
	svc := cart.NewService(repo, nopCache{}, notify.Nop{})
	cat := &stubCatalog{products: map[string]*domain.Product{
		"p-001": {ID: "p-001", Name: "Basmati Rice", Brand: "Guard", Category: "Rice & Grains", Price: 1850},
		"p-002": {ID: "p-002", Name: "Biryani Masala", Brand: "Shan", Category: "Spices", Price: 150},
	}}
	return NewCartHandler(svc, cat, 5*time.Second)
}

func withSession(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), "session_id", sessionID)
	return r.WithContext(ctx)
}

func TestAddItem_Success(t *testing.T) {
	handler := newTestCartHandler()

	body := bytes.NewBufferString(`{"product_id": "p-001", "quantity": 2}`)
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", body), "sess1")

	handler.AddItem(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Cart.Items, 1)
	assert.Equal(t, "p-001", response.Cart.Items[0].ProductID)
	assert.Equal(t, 2, response.TotalItems)
	assert.Equal(t, 3700.0, response.TotalPrice)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	handler := newTestCartHandler()

	body := bytes.NewBufferString(`{"product_id": "p-002"}`)
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", body), "sess1")

	handler.AddItem(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, 1, response.TotalItems)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	handler := newTestCartHandler()

	body := bytes.NewBufferString(`{"product_id": "p-999"}`)
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/", body), "sess1")

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	handler := newTestCartHandler()

	for _, body := range []string{
		`{"product_id": "p-001", "quantity": -2}`,
		`{"product_id": "p-001", "quantity": 100}`,
	} {
		recorder := httptest.NewRecorder()
		request := withSession(httptest.NewRequest("POST", "/", bytes.NewBufferString(body)), "sess1")

		handler.AddItem(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	}
}

func TestAddItem_MissingSession(t *testing.T) {
	handler := newTestCartHandler()

	body := bytes.NewBufferString(`{"product_id": "p-001"}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/", body)

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetCart_EmptyCart(t *testing.T) {
	handler := newTestCartHandler()

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/", nil), "fresh")

	handler.GetCart(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Empty(t, response.Cart.Items)
	assert.Zero(t, response.TotalItems)
	assert.Zero(t, response.TotalPrice)
}

func TestUpdateAndRemove_ViaRouter(t *testing.T) {
	handler := newTestCartHandler()

	r := chi.NewRouter()
	r.Post("/cart/items", handler.AddItem)
	r.Put("/cart/items/{product_id}", handler.UpdateQuantity)
	r.Delete("/cart/items/{product_id}", handler.RemoveItem)

	// Seed one line
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/cart/items",
		bytes.NewBufferString(`{"product_id": "p-001", "quantity": 1}`)), "sess1")
	r.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Update quantity
	recorder = httptest.NewRecorder()
	request = withSession(httptest.NewRequest("PUT", "/cart/items/p-001",
		bytes.NewBufferString(`{"quantity": 5}`)), "sess1")
	r.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, 5, response.TotalItems)

	// Remove the line
	recorder = httptest.NewRecorder()
	request = withSession(httptest.NewRequest("DELETE", "/cart/items/p-001", nil), "sess1")
	r.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Empty(t, response.Cart.Items)
}

func TestUpdateQuantity_ZeroRejectedAtBoundary(t *testing.T) {
	handler := newTestCartHandler()

	r := chi.NewRouter()
	r.Put("/cart/items/{product_id}", handler.UpdateQuantity)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("PUT", "/cart/items/p-001",
		bytes.NewBufferString(`{"quantity": 0}`)), "sess1")
	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
