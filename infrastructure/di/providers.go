package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"thoughtgraph/application/ports"
	"thoughtgraph/application/services"
	domainconfig "thoughtgraph/domain/config"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/settings"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/messaging"
	"thoughtgraph/infrastructure/notes"
	"thoughtgraph/infrastructure/persistence/badger"
	"thoughtgraph/infrastructure/persistence/memory"
	"thoughtgraph/infrastructure/persistence/redis"
	"thoughtgraph/infrastructure/render"
	"thoughtgraph/infrastructure/supabase"
	"thoughtgraph/pkg/observability"
)

// initialCamera places the camera above and in front of the scene
var initialCamera = valueobjects.Position{X: 0, Y: 25, Z: 100}

// ProvideLogger creates a logger from the logging section
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}

	var zcfg zap.Config
	if cfg.Environment == config.Production {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = cfg.Logging.Format

	return zcfg.Build()
}

// ProvideMetrics creates the Prometheus collector, or nil when disabled.
// Every collector method accepts a nil receiver.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.NewCollector(cfg.Metrics.Namespace)
}

// ProvideGraphConfig copies the graph tunables so services can be handed a new
// value without sharing the loaded configuration
func ProvideGraphConfig(cfg *config.Config) *domainconfig.GraphConfig {
	graph := cfg.Graph
	return &graph
}

// ProvideOrbitConfig copies the orbit tunables
func ProvideOrbitConfig(cfg *config.Config) *domainconfig.OrbitConfig {
	orbit := cfg.Orbit
	return &orbit
}

// ProvideRenderer creates the in-memory renderer
func ProvideRenderer() *render.Headless {
	return render.NewHeadless(initialCamera)
}

// ProvideEventBus creates the in-process event bus
func ProvideEventBus(logger *zap.Logger) *messaging.EventBus {
	return messaging.NewEventBus(logger)
}

// ProvideDetailRecorder subscribes the detail recorder to the bus
func ProvideDetailRecorder(bus *messaging.EventBus, logger *zap.Logger) (*messaging.DetailRecorder, error) {
	return messaging.NewDetailRecorder(bus, logger.Named("detail"))
}

// ProvideSettingsStore opens the configured settings backend. The cleanup
// closes it.
func ProvideSettingsStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SettingsStore, func(), error) {
	s := cfg.Settings
	switch s.Backend {
	case config.StoreBadger:
		store, err := badger.Open(s.BadgerDir, s.Key, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, closer(store.Close, "badger", logger), nil
	case config.StoreRedis:
		store, err := redis.NewSettingsStore(ctx, s.Redis, s.Key, cfg.Breaker, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, closer(store.Close, "redis", logger), nil
	default:
		return memory.NewSettingsStore(), func() {}, nil
	}
}

// ProvideNotesSource creates the configured notes source
func ProvideNotesSource(cfg *config.Config, logger *zap.Logger) (ports.NotesSource, error) {
	if cfg.Notes.Source == config.SourceSupabase {
		return supabase.NewNotesSource(cfg.Notes.Supabase, cfg.Breaker, logger)
	}
	return notes.NewFileSource(cfg.Notes.File), nil
}

// ProvideOrbitController creates the orbit controller around the camera
func ProvideOrbitController(
	camera ports.Camera,
	clock ports.Clock,
	cfg *domainconfig.OrbitConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.OrbitController {
	return services.NewOrbitController(camera, clock, cfg, logger.Named("orbit"), metrics)
}

// ProvideRenderAdapter connects the renderer to the graph state
func ProvideRenderAdapter(
	renderer ports.Renderer,
	clock ports.Clock,
	publisher ports.EventPublisher,
	orbit services.Interrupter,
	cfg *domainconfig.GraphConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) (*services.RenderAdapter, error) {
	return services.NewRenderAdapter(renderer, clock, publisher, orbit, cfg, logger.Named("render"), metrics)
}

// ProvideSettingsService creates the settings service and subscribes the
// adapter and orbit controller to changes
func ProvideSettingsService(
	store ports.SettingsStore,
	adapter *services.RenderAdapter,
	orbit *services.OrbitController,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.SettingsService {
	svc := services.NewSettingsService(store, logger.Named("settings"), metrics)
	svc.Subscribe(adapter.ApplySettings)
	svc.Subscribe(func(s settings.DisplaySettings) {
		orbit.SetSpeed(s.OrbitSpeed)
	})
	return svc
}

// ProvideGraphService creates the graph service feeding the adapter
func ProvideGraphService(
	source ports.NotesSource,
	view services.GraphView,
	publisher ports.EventPublisher,
	clock ports.Clock,
	cfg *domainconfig.GraphConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.GraphService {
	return services.NewGraphService(source, view, publisher, clock, cfg, logger.Named("graph"), metrics)
}

func closer(closeFn func() error, name string, logger *zap.Logger) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Warn("failed to close settings store", zap.String("backend", name), zap.Error(err))
		}
	}
}
