package transport

import (
	"errors"
	"net/http"
	"strconv"

	"craftstore/internal/domain"
	"craftstore/internal/middleware"
	"craftstore/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductResponse is a catalog entry plus its derived stock classification.
type ProductResponse struct {
	domain.Product
	StockStatus domain.StockStatus `json:"stockStatus"`
}

// ProductHandler handles HTTP requests for catalog browsing.
type ProductHandler struct {
	catalog repository.CatalogRepository
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog repository.CatalogRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})
}

// List returns the catalog, optionally filtered by ?category=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		products []domain.Product
		err      error
	)

	if category := r.URL.Query().Get("category"); category != "" {
		products, err = h.catalog.ListByCategory(category)
	} else {
		products, err = h.catalog.List()
	}
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponses(products))
}

// GetByID returns one product or 404.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalog.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to find product", zap.Int("id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to find product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{
		Product:     *product,
		StockStatus: product.StockStatus(),
	})
}

func toProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductResponse{Product: p, StockStatus: p.StockStatus()})
	}
	return out
}
