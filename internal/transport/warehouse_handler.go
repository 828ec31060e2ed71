package transport

import (
	"errors"
	"net/http"

	"craftstore/internal/middleware"
	"craftstore/internal/repository"
	"craftstore/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RestockRequest represents the warehouse restock payload.
type RestockRequest struct {
	ProductID int `json:"productId" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

// WarehouseHandler handles HTTP requests for the warehouse dashboard.
type WarehouseHandler struct {
	warehouse service.WarehouseService
	logger    *zap.Logger
}

// NewWarehouseHandler creates a new WarehouseHandler.
func NewWarehouseHandler(warehouse service.WarehouseService, logger *zap.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		warehouse: warehouse,
		logger:    logger,
	}
}

// RegisterRoutes registers all warehouse routes.
func (h *WarehouseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/warehouse", func(r chi.Router) {
		r.Get("/stats", h.Stats)
		r.Get("/low-stock", h.LowStock)
		r.Get("/pending", h.PendingOrders)
		r.Post("/restock", h.Restock)
		r.Post("/reset", h.Reset)
	})
}

// Stats returns the dashboard summary cards.
func (h *WarehouseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.warehouse.Stats()
	if err != nil {
		h.logger.Error("Failed to compute warehouse stats", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// LowStock returns products at or below their reorder level.
func (h *WarehouseHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.warehouse.LowStock()
	if err != nil {
		h.logger.Error("Failed to list low stock products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list low stock products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponses(products))
}

// PendingOrders returns orders awaiting dispatch.
func (h *WarehouseHandler) PendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.warehouse.PendingOrders()
	if err != nil {
		h.logger.Error("Failed to list pending orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list pending orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Restock adds units to a product's stock.
func (h *WarehouseHandler) Restock(w http.ResponseWriter, r *http.Request) {
	var req RestockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.warehouse.Restock(req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to restock product", zap.Int("id", req.ProductID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to restock product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reset restores the seed catalog and empties the cart and order ledgers.
func (h *WarehouseHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.warehouse.Reset(); err != nil {
		h.logger.Error("Failed to reset store", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to reset store")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
