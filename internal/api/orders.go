package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/marketgreen/api/internal/auth"
	"github.com/marketgreen/api/internal/httputil"
	"github.com/marketgreen/api/internal/store"
)

// OrdersHandler serves order creation and listing for the authenticated
// caller, plus the status-update endpoint.
type OrdersHandler struct {
	orders store.OrdersInterface
}

// NewOrdersHandler creates the orders handler group.
func NewOrdersHandler(orders store.OrdersInterface) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// List returns the caller's orders, newest first.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.Unauthorized(w, "Authentication required")
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), auth.TokenFromContext(r.Context()), user.ID)
	if err != nil {
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, orders)
}

// Get returns one order, scoped to the caller. An order owned by someone
// else is indistinguishable from a missing one.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.Unauthorized(w, "Authentication required")
		return
	}
	id := mux.Vars(r)["id"]

	order, err := h.orders.GetByIDForUser(r.Context(), auth.TokenFromContext(r.Context()), id, user.ID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			httputil.NotFound(w, "Order not found")
			return
		}
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}

// Create places a new order for the caller. The owner and the "pending"
// status are set server-side regardless of what the body carries.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.Unauthorized(w, "Authentication required")
		return
	}

	var order store.Record
	if !httputil.DecodeJSON(w, r, &order) {
		return
	}

	created, err := h.orders.Create(r.Context(), auth.TokenFromContext(r.Context()), user.ID, order)
	if err != nil {
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus sets an order's status. Admin gating still pending, so any
// caller can move any order; router.go documents this.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req statusRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Status == "" {
		httputil.BadRequest(w, "Status is required")
		return
	}

	updated, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			httputil.NotFound(w, "Order not found")
			return
		}
		serr := mapProviderError(err)
		if serr.HTTPStatus < 500 {
			httputil.BadRequest(w, serr.Message)
			return
		}
		httputil.WriteServiceError(w, serr)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}
