package transport

import (
	"errors"
	"net/http"

	"craftstore/internal/domain"
	"craftstore/internal/middleware"
	"craftstore/internal/repository"
	"craftstore/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdateStatusRequest represents the status transition payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for checkout and order tracking.
type OrderHandler struct {
	checkout service.CheckoutService
	orders   repository.OrderRepository
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkout service.CheckoutService, orders repository.OrderRepository, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		logger:   logger,
	}
}

// RegisterRoutes registers checkout and order routes.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/checkout", h.Checkout)
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Post("/{id}/status", h.UpdateStatus)
	})
}

// Checkout places an order from the current cart.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var info service.CheckoutInfo
	if err := middleware.DecodeAndValidate(r, &info); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.checkout.PlaceOrder(info)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			middleware.RespondWithError(w, http.StatusConflict, "cart is empty")
		case errors.Is(err, domain.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusConflict, "not enough stock available")
		case errors.Is(err, domain.ErrProductGone):
			middleware.RespondWithError(w, http.StatusConflict, "cart contains a product that is no longer available")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// List returns all orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List()
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetByID returns one order or 404.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to find order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to find order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateStatus advances an order's lifecycle status. This backs both the
// warehouse dispatch action and the confirmation page status simulation.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	if err := h.orders.SetStatus(orderID, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			middleware.RespondWithError(w, http.StatusConflict, "order status can only move forward one step")
		default:
			h.logger.Error("Failed to update order status", zap.String("order_id", orderID), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	order, err := h.orders.FindByID(orderID)
	if err != nil {
		h.logger.Error("Failed to reload order", zap.String("order_id", orderID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to reload order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}
