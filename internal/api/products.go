package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"retailshop/m/domain"
	"retailshop/m/internal/gst"
)

type productRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    float64         `json:"stock"`
	Unit     string          `json:"unit"`
	GSTRate  int             `json:"gst_rate"`
	MinStock float64         `json:"min_stock"`
	HSNCode  string          `json:"hsn_code"`
}

func (req productRequest) product(id string) (domain.Product, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, "name is required"
	}
	if req.Price.IsNegative() {
		return domain.Product{}, "price must not be negative"
	}
	if !gst.ValidRate(req.GSTRate) {
		return domain.Product{}, "gst_rate must be one of 0, 5, 12, 18, 28"
	}
	if req.MinStock < 0 {
		return domain.Product{}, "min_stock must not be negative"
	}

	return domain.Product{
		ID:       id,
		Name:     name,
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Stock:    req.Stock,
		Unit:     strings.TrimSpace(req.Unit),
		GSTRate:  req.GSTRate,
		MinStock: req.MinStock,
		HSNCode:  strings.TrimSpace(req.HSNCode),
	}, ""
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []domain.Product
		err      error
	)

	q := r.URL.Query()
	lowStock, _ := strconv.ParseBool(q.Get("lowstock"))

	switch {
	case lowStock:
		products, err = h.store.LowStockProducts(r.Context())
	case strings.TrimSpace(q.Get("query")) != "":
		products, err = h.store.SearchProducts(r.Context(), q.Get("query"))
	default:
		products, err = h.store.Products(r.Context())
	}
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, msg := req.product("")
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.CreateProduct(r.Context(), p)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, msg := req.product(chi.URLParam(r, "id"))
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.store.UpdateProduct(r.Context(), p)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
