package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MDSAM05/orderflow/internal/apperr"
	"github.com/MDSAM05/orderflow/internal/auth"
	"github.com/MDSAM05/orderflow/internal/order"
)

type OrderPlacer interface {
	Place(ctx context.Context, username, authorization string, req order.PlaceRequest) (*order.Order, error)
}

type OrderHandler struct {
	svc  OrderPlacer
	repo order.Repository
}

func NewOrderHandler(svc OrderPlacer, repo order.Repository) *OrderHandler {
	return &OrderHandler{svc: svc, repo: repo}
}

func NewOrderRouter(h *OrderHandler, verifier *auth.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", health)

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(verifier))
		r.Post("/orders", h.PlaceOrder)
		r.Get("/orders", h.ListOrders)
		r.Delete("/orders/{orderId}", h.DeleteOrder)
	})

	return r
}

type placeOrderRequest struct {
	ProductName string `json:"productName"`
	ProductID   int64  `json:"productId"`
	Quantity    int    `json:"quantity"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperr.ErrUnauthenticated)
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json body", apperr.ErrInvalid))
		return
	}

	o, err := h.svc.Place(r.Context(), principal.Subject, auth.BearerFromContext(r.Context()), order.PlaceRequest{
		ProductName: req.ProductName,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"msg": "Order placed", "data": o})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperr.ErrUnauthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.ListByUser(ctx, principal.Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperr.ErrUnauthenticated)
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid order id", apperr.ErrInvalid))
		return
	}

	if err := h.repo.Delete(r.Context(), orderID, principal.Subject); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": fmt.Sprintf("Order %d deleted", orderID)})
}

func health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
