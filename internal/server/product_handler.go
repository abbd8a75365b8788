package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/4PPL8/wahabstore/internal/catalog"
	"github.com/4PPL8/wahabstore/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog catalog.RepoInterface
	timeout time.Duration
}

func NewProductHandler(repo catalog.RepoInterface, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: repo,
		timeout: timeout,
	}
}

type ProductListResponse struct {
	Products []*domain.Product `json:"products"`
	Count    int               `json:"count"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	filter := catalog.Filter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, "invalid_price", "min_price must be a non-negative number")
			return
		}
		filter.MinPrice = v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, "invalid_price", "max_price must be a non-negative number")
			return
		}
		filter.MaxPrice = v
	}

	products, err := h.catalog.List(ctx, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, ProductListResponse{Products: products, Count: len(products)})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id is required")
		return
	}

	product, err := h.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	values, err := h.catalog.Categories(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load categories")
		return
	}

	respondJSON(w, http.StatusOK, map[string][]string{"categories": values})
}

func (h *ProductHandler) Brands(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	values, err := h.catalog.Brands(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load brands")
		return
	}

	respondJSON(w, http.StatusOK, map[string][]string{"brands": values})
}
