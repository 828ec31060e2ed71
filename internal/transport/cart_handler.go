package transport

import (
	"errors"
	"net/http"
	"strconv"

	"craftstore/internal/middleware"
	"craftstore/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload.
type AddToCartRequest struct {
	ProductID int `json:"productId" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest represents the cart quantity update payload.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// CartCountResponse carries the navigation badge count.
type CartCountResponse struct {
	Count int `json:"count"`
}

// CartHandler handles HTTP requests for cart operations. The stock bound
// on add and update is enforced here, at the calling surface; checkout
// re-validates authoritatively before committing.
type CartHandler struct {
	cart    repository.CartRepository
	catalog repository.CatalogRepository
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart repository.CartRepository, catalog repository.CatalogRepository, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all cart routes.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Clear)
		r.Get("/count", h.Count)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productId}", h.UpdateQuantity)
		r.Delete("/items/{productId}", h.RemoveItem)
	})
}

// Get returns the cart ledger.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	items, err := h.cart.Get()
	if err != nil {
		h.logger.Error("Failed to read cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Count returns the total unit count for the navigation badge.
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.cart.Count()
	if err != nil {
		h.logger.Error("Failed to count cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CartCountResponse{Count: count})
}

// AddItem snapshots a product into the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.FindByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to find product", zap.Int("id", req.ProductID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	if !h.withinStock(w, req.ProductID, req.Quantity, product.Stock) {
		return
	}

	if err := h.cart.Add(*product, req.Quantity); err != nil {
		h.logger.Error("Failed to add to cart", zap.Int("id", req.ProductID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	items, err := h.cart.Get()
	if err != nil {
		h.logger.Error("Failed to read cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// UpdateQuantity sets a cart line's quantity. Quantities below one are
// rejected at this surface; removal is its own endpoint.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The new quantity is absolute, so it is checked against stock
	// directly. A product since removed from the catalog is left for
	// checkout to reject.
	if product, err := h.catalog.FindByID(productID); err == nil && req.Quantity > product.Stock {
		middleware.RespondWithError(w, http.StatusConflict, "not enough stock available")
		return
	}

	if err := h.cart.SetQuantity(productID, req.Quantity); err != nil {
		h.logger.Error("Failed to update quantity", zap.Int("id", productID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update quantity")
		return
	}

	items, err := h.cart.Get()
	if err != nil {
		h.logger.Error("Failed to read cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// RemoveItem deletes a cart line.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.cart.Remove(productID); err != nil {
		h.logger.Error("Failed to remove from cart", zap.Int("id", productID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove from cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(); err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) withinStock(w http.ResponseWriter, productID, quantity, stock int) bool {
	// Count what is already in the cart for this product so repeated
	// adds cannot run past the shelf.
	items, err := h.cart.Get()
	if err != nil {
		h.logger.Error("Failed to read cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read cart")
		return false
	}

	inCart := 0
	for _, item := range items {
		if item.ID == productID {
			inCart = item.Quantity
			break
		}
	}

	if quantity+inCart > stock {
		middleware.RespondWithError(w, http.StatusConflict, "not enough stock available")
		return false
	}
	return true
}
