package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MDSAM05/orderflow/internal/apperr"
	"github.com/MDSAM05/orderflow/internal/auth"
	"github.com/MDSAM05/orderflow/internal/inventory"
)

type ReservationService interface {
	Reserve(ctx context.Context, productID int64, quantity int) error
}

// ProductCache is the listing cache; inventory.ListCache implements it.
type ProductCache interface {
	Get(ctx context.Context, page, pageSize int) ([]inventory.Product, bool)
	Set(ctx context.Context, page, pageSize int, products []inventory.Product)
}

type ProductHandler struct {
	repo         inventory.Repository
	reservations ReservationService
	cache        ProductCache
}

func NewProductHandler(repo inventory.Repository, reservations ReservationService, cache ProductCache) *ProductHandler {
	return &ProductHandler{repo: repo, reservations: reservations, cache: cache}
}

func NewProductRouter(h *ProductHandler, verifier *auth.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", health)

	// Listing and lookup are public; mutations and reservation require a
	// verified principal.
	r.Get("/products", h.ListProducts)
	r.Get("/products/{productId}", h.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(verifier))
		r.Post("/products", h.AddProduct)
		r.Delete("/products/{productId}", h.DeleteProduct)
		r.Post("/inventory/reserve", h.ReserveInventory)
	})

	return r
}

type addProductRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json body", apperr.ErrInvalid))
		return
	}
	if req.Name == "" || req.Quantity < 0 {
		writeError(w, fmt.Errorf("%w: name is required and quantity must not be negative", apperr.ErrInvalid))
		return
	}

	p, err := h.repo.Create(r.Context(), req.Name, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"msg": "Product added", "data": p})
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := paging(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if products, ok := h.cache.Get(r.Context(), page, pageSize); ok {
		writeJSON(w, http.StatusOK, products)
		return
	}

	products, err := h.repo.List(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []inventory.Product{}
	}

	h.cache.Set(r.Context(), page, pageSize, products)
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.repo.Get(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.repo.Delete(r.Context(), productID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": fmt.Sprintf("Product %d deleted", productID)})
}

type reserveInventoryRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *ProductHandler) ReserveInventory(w http.ResponseWriter, r *http.Request) {
	var req reserveInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json body", apperr.ErrInvalid))
		return
	}
	if req.ProductID < 1 {
		writeError(w, fmt.Errorf("%w: productId must be positive", apperr.ErrInvalid))
		return
	}

	if err := h.reservations.Reserve(r.Context(), req.ProductID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reserved"})
}

func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid product id", apperr.ErrInvalid)
	}
	return id, nil
}

func paging(r *http.Request) (page, pageSize int, err error) {
	page, pageSize = 1, 10

	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("%w: page must be a positive integer", apperr.ErrInvalid)
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		pageSize, err = strconv.Atoi(v)
		if err != nil || pageSize < 1 || pageSize > 100 {
			return 0, 0, fmt.Errorf("%w: pageSize must be between 1 and 100", apperr.ErrInvalid)
		}
	}
	return page, pageSize, nil
}
