package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalogapi"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	pflag.Parse()

	// Load configuration from environment
	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"catalog_api", cfg.Catalog.BaseURL,
		"log_level", cfg.LogLevel,
	)

	m := metrics.New()

	// Initialize catalog store; a failed first load is not fatal
	catalogClient := catalogapi.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.RequestTimeout)
	catalogStore := repository.NewCatalogStore(catalogClient, log, m)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Catalog.RequestTimeout)
	if err := catalogStore.Load(loadCtx); err != nil {
		log.Warn("starting with an empty catalog, use POST /api/products/reload to retry", "error", err)
	}
	cancelLoad()

	sessions := repository.NewInMemorySessionRepository(m)

	// Initialize services
	productService := service.NewProductService(catalogStore)
	cartService := service.NewCartService(sessions, catalogStore, m, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(catalogStore, log)
	productHandler := handlers.NewProductHandler(productService, log)
	cartHandler := handlers.NewCartHandler(cartService, log)
	adminHandler := handlers.NewAdminHandler(productService, cfg.Catalog.MaxUploadBytes, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log, m))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration; the session cookie only crosses origins for an explicit origin list
	if !cfg.CORS.AllowCredentials() {
		log.Warn("CORS allows any origin, cross-origin requests will not carry the session cookie")
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: cfg.CORS.AllowCredentials(),
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{productId}", productHandler.GetProduct)
		r.Post("/products/reload", productHandler.ReloadCatalog)

		r.Route("/catalog", func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session.CookieName))

			r.Get("/", cartHandler.GetView)
			r.Post("/filter", cartHandler.SetFilter)
			r.Post("/products/{productId}/increase", cartHandler.Increase)
			r.Post("/products/{productId}/decrease", cartHandler.Decrease)
			r.Post("/products/{productId}/reset", cartHandler.Reset)
			r.Post("/products/{productId}/add", cartHandler.AddToCart)
			r.Delete("/cart/{productId}", cartHandler.Remove)
		})

		r.Get("/admin/form", adminHandler.GetForm)
		r.Post("/admin/products", adminHandler.CreateProduct)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
