package server

import (
	"fmt"
	"net/http"
	"time"

	"craftstore/internal/config"
	"craftstore/internal/domain"
	custommiddleware "craftstore/internal/middleware"
	"craftstore/internal/repository"
	"craftstore/internal/service"
	"craftstore/internal/store"
	"craftstore/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *store.Store
}

func NewServer(cfg *config.Config, logger *zap.Logger, st *store.Store, seedCatalog []domain.Product) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(st)
	cartRepo := repository.NewCartRepository(st)
	orderRepo := repository.NewOrderRepository(st)

	// Initialize services
	checkoutService := service.NewCheckoutService(st, logger)
	warehouseService := service.NewWarehouseService(st, catalogRepo, orderRepo, seedCatalog, logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogRepo, logger)
	cartHandler := transport.NewCartHandler(cartRepo, catalogRepo, logger)
	orderHandler := transport.NewOrderHandler(checkoutService, orderRepo, logger)
	warehouseHandler := transport.NewWarehouseHandler(warehouseService, logger)

	// Register routes
	productHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	warehouseHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  st,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close the collection store
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
