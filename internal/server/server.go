// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cityscout/internal/config"
	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
	"cityscout/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	refreshSubject string,
	resolver location.Resolver,
	coordinator handlers.ResourceGetter,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Create handler dependencies
	locationHandler := handlers.NewLocationHandler(resolver)
	resourceHandler := handlers.NewResourceHandler(resolver, coordinator)

	// Routes: one per resource kind plus location resolution. The paths
	// are the original City Explorer client contract.
	router.Get("/location", locationHandler.GetLocation)
	router.Get("/weather", resourceHandler.Get(resource.Weather))
	router.Get("/yelp", resourceHandler.Get(resource.Restaurants))
	router.Get("/movies", resourceHandler.Get(resource.Movies))
	router.Get("/meetups", resourceHandler.Get(resource.Meetups))
	router.Get("/trails", resourceHandler.Get(resource.Trails))

	// Health check
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	router.Handle("/metrics", promhttp.Handler())

	// WebSocket stream of cache refresh events
	router.Get("/ws/refresh", handlers.RefreshWebSocketHandler(natsConn, refreshSubject))

	// Any unmatched path gets a fixed error
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Don't look behind the curtain"}`))
	})

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
