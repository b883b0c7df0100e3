package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/marketgreen/api/internal/httputil"
	"github.com/marketgreen/api/internal/store"
)

// ProductsHandler serves the product catalog. Reads are public. The
// mutation endpoints currently run without any auth gate; see the routing
// table in router.go before changing that.
type ProductsHandler struct {
	products store.ProductsInterface
}

// NewProductsHandler creates the products handler group.
func NewProductsHandler(products store.ProductsInterface) *ProductsHandler {
	return &ProductsHandler{products: products}
}

// List returns all products, newest first.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

// Get returns one product by ID.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			httputil.NotFound(w, "Product not found")
			return
		}
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// Create inserts a new product. Admin gating still pending.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product store.Record
	if !httputil.DecodeJSON(w, r, &product) {
		return
	}

	created, err := h.products.Create(r.Context(), product)
	if err != nil {
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// Update applies caller-supplied fields to one product.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var updates store.Record
	if !httputil.DecodeJSON(w, r, &updates) {
		return
	}

	updated, err := h.products.Update(r.Context(), id, updates)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			httputil.NotFound(w, "Product not found")
			return
		}
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// Delete removes one product.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.products.Delete(r.Context(), id); err != nil {
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}
