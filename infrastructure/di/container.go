// Package di assembles the application from its configuration.
package di

import (
	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	"thoughtgraph/application/services"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/messaging"
	"thoughtgraph/infrastructure/render"
	"thoughtgraph/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Clock         ports.Clock
	Logger        *zap.Logger
	Metrics       *observability.Collector
	Renderer      *render.Headless
	Bus           *messaging.EventBus
	Details       *messaging.DetailRecorder
	SettingsStore ports.SettingsStore
	NotesSource   ports.NotesSource
	Orbit         *services.OrbitController
	Adapter       *services.RenderAdapter
	Settings      *services.SettingsService
	Graph         *services.GraphService
}

// ApplyConfig pushes reloaded tunables into the running services. Store and
// source selection only take effect on restart.
func (c *Container) ApplyConfig(cfg *config.Config) {
	graph := ProvideGraphConfig(cfg)
	c.Graph.SetConfig(graph)
	if err := c.Adapter.SetConfig(graph); err != nil {
		c.Logger.Error("failed to redraw with new graph configuration", zap.Error(err))
	}
	c.Orbit.SetConfig(ProvideOrbitConfig(cfg))
	c.Config = cfg

	c.Logger.Info("applied configuration",
		zap.Int("maxRenderedSessions", graph.MaxRenderedSessions),
		zap.Int("maxTagPeers", graph.MaxTagPeers),
	)
}

// Watch applies every configuration change the watcher reports
func (c *Container) Watch(w *config.Watcher) {
	w.OnChange(c.ApplyConfig)
}
