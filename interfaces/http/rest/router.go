// Package rest serves a local inspection API over the running graph: the
// current scene, simulated interaction, the last detail request, display
// settings, orbit state and Prometheus metrics.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"thoughtgraph/infrastructure/di"
	"thoughtgraph/interfaces/http/rest/handlers"
	"thoughtgraph/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container      *di.Container
	allowedOrigins []string
	logger         *zap.Logger
}

// NewRouter creates a router over a wired container
func NewRouter(container *di.Container, allowedOrigins []string) *Router {
	return &Router{
		container:      container,
		allowedOrigins: allowedOrigins,
		logger:         container.Logger.Named("http"),
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	c := rt.container
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	if c.Metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(c.Metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	graphHandler := handlers.NewGraphHandler(c.Graph, c.Adapter, c.Renderer, rt.logger)
	settingsHandler := handlers.NewSettingsHandler(c.Settings, rt.logger)
	orbitHandler := handlers.NewOrbitHandler(c.Orbit, rt.logger)
	detailHandler := handlers.NewDetailHandler(c.Details, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/scene", graphHandler.GetScene)
		r.Post("/graph/reload", graphHandler.Reload)
		r.Post("/sessions/{sessionID}/toggle", graphHandler.ToggleSession)
		r.Post("/nodes/{nodeID}/click", graphHandler.ClickNode)
		r.Post("/nodes/{nodeID}/hover", graphHandler.HoverNode)
		r.Delete("/hover", graphHandler.ClearHover)
		r.Post("/background/click", graphHandler.ClickBackground)
		r.Get("/detail", detailHandler.GetLastDetail)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.GetSettings)
			r.Patch("/", settingsHandler.PatchSettings)
			r.Delete("/", settingsHandler.ResetSettings)
		})

		r.Get("/orbit", orbitHandler.GetOrbit)
		r.Post("/orbit/pause", orbitHandler.TogglePause)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
