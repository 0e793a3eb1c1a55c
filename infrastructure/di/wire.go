//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"thoughtgraph/application/ports"
	"thoughtgraph/application/services"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/messaging"
	"thoughtgraph/infrastructure/render"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideGraphConfig,
	ProvideOrbitConfig,
	ProvideRenderer,
	wire.Bind(new(ports.Renderer), new(*render.Headless)),
	wire.Bind(new(ports.Camera), new(*render.Headless)),
	ProvideEventBus,
	wire.Bind(new(ports.EventPublisher), new(*messaging.EventBus)),
	ProvideDetailRecorder,
	ProvideSettingsStore,
	ProvideNotesSource,
	ProvideOrbitController,
	wire.Bind(new(services.Interrupter), new(*services.OrbitController)),
	ProvideRenderAdapter,
	wire.Bind(new(services.GraphView), new(*services.RenderAdapter)),
	ProvideSettingsService,
	ProvideGraphService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config, clock ports.Clock) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
