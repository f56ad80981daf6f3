package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/codec"
	"photo-gallery/internal/derivative"
	"photo-gallery/internal/handlers"
	"photo-gallery/internal/importer"
	"photo-gallery/internal/ingest"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/middleware"
	"photo-gallery/internal/startup"
	"photo-gallery/internal/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize the image codec. WebP encoding degrades gracefully
	// when libvips is unavailable.
	if err := codec.InitVips(); err != nil {
		logging.Warn("libvips unavailable, WebP derivatives disabled: %v", err)
	}
	defer codec.ShutdownVips()
	adapter := codec.New()

	// Initialize the artifact store
	store, err := storage.New(config.UploadsDir)
	if err != nil {
		startup.LogFatal("Failed to initialize storage: %v", err)
	}

	// Wire the pipeline
	cat := catalog.New(store, adapter)
	generator := derivative.New(adapter, store)
	orchestrator := ingest.New(adapter, store, generator, cat, config.WorkerLimit)
	imp := importer.New(orchestrator, store, config.WorkerLimit)

	// Initialize handlers
	h := handlers.New(orchestrator, imp, cat, config)

	// Setup router
	router := setupRouter(h, config)

	// Apply metrics middleware
	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(routeLabel)(handler)
	}

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	handler = middleware.Logger(loggingConfig)(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv)

	// Start server
	startup.LogServerStarted(config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/version", h.Version).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/photos", h.ListPhotos).Methods("GET")
	api.HandleFunc("/photos/{id}", h.GetPhoto).Methods("GET")
	api.HandleFunc("/photos/{id}", h.DeletePhoto).Methods("DELETE")
	api.HandleFunc("/upload", h.UploadPhotos).Methods("POST")
	api.HandleFunc("/upload-batch", h.ImportBatch).Methods("POST")

	// Metrics endpoint
	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Static artifact serving: originals and derivatives
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadsDir))))

	return r
}

// routeLabel maps a request path to a bounded metric label so photo
// ids and filenames do not explode cardinality.
func routeLabel(r *http.Request) string {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/photos/"):
		return "/api/photos/{id}"
	case strings.HasPrefix(path, "/uploads/"):
		return "/uploads/"
	default:
		return path
	}
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Received %v, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown error: %v", err)
	}
	logging.Info("Shutdown complete")
}
