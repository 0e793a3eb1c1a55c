package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/events"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/pkg/observability"
)

// GraphView receives each new snapshot; RenderAdapter implements it
type GraphView interface {
	Load(snapshot *aggregates.Snapshot) error
	Refresh(snapshot *aggregates.Snapshot) error
}

// GraphService turns fetched notes into snapshots and hands them to the view
type GraphService struct {
	source    ports.NotesSource
	view      GraphView
	publisher ports.EventPublisher
	clock     ports.Clock
	logger    *zap.Logger
	metrics   *observability.Collector
	tracer    trace.Tracer

	mu      sync.RWMutex
	cfg     *config.GraphConfig
	current *aggregates.Snapshot
}

// NewGraphService creates a graph service. view and publisher may be nil.
func NewGraphService(
	source ports.NotesSource,
	view GraphView,
	publisher ports.EventPublisher,
	clock ports.Clock,
	cfg *config.GraphConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) *GraphService {
	if cfg == nil {
		cfg = config.DefaultGraphConfig()
	}
	return &GraphService{
		source:    source,
		view:      view,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		tracer:    observability.Tracer("graph_service"),
		cfg:       cfg,
		current:   aggregates.EmptySnapshot(),
	}
}

// Reload fetches all notes, rebuilds the graph and shows it with every
// session collapsed
func (s *GraphService) Reload(ctx context.Context) (*domainservices.BuildResult, error) {
	ctx, span := s.tracer.Start(ctx, "GraphService.Reload")
	defer span.End()

	data, err := s.source.FetchNotes(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch notes")
		return nil, fmt.Errorf("failed to fetch notes: %w", err)
	}
	span.SetAttributes(attribute.Int("notes.bytes", len(data)))

	notes, decodeSkipped, err := domainservices.DecodeNotes(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode notes")
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	s.reportSkipped(decodeSkipped)

	result, err := s.build(ctx, notes, decodeSkipped)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return nil, err
	}
	result.Skipped = append(decodeSkipped, result.Skipped...)

	if s.view != nil {
		if err := s.view.Load(result.Snapshot); err != nil {
			span.RecordError(err)
			return result, fmt.Errorf("failed to show graph: %w", err)
		}
	}
	return result, nil
}

// Rebuild builds from notes the caller already has, keeping the expansion
// of sessions that still exist
func (s *GraphService) Rebuild(ctx context.Context, notes []entities.Note) (*domainservices.BuildResult, error) {
	ctx, span := s.tracer.Start(ctx, "GraphService.Rebuild")
	defer span.End()

	result, err := s.build(ctx, notes, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return nil, err
	}

	if s.view != nil {
		if err := s.view.Refresh(result.Snapshot); err != nil {
			span.RecordError(err)
			return result, fmt.Errorf("failed to show graph: %w", err)
		}
	}
	return result, nil
}

// Snapshot returns the latest full snapshot
func (s *GraphService) Snapshot() *aggregates.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetConfig swaps the graph tunables used by the next build
func (s *GraphService) SetConfig(cfg *config.GraphConfig) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *GraphService) build(ctx context.Context, notes []entities.Note, earlier []domainservices.SkipReport) (*domainservices.BuildResult, error) {
	_, span := s.tracer.Start(ctx, "GraphService.build",
		trace.WithAttributes(attribute.Int("notes.count", len(notes))),
	)
	defer span.End()

	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	start := time.Now()
	result, err := domainservices.Build(notes, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid graph")
		s.logger.Error("graph build produced an invalid snapshot", zap.Error(err))
		return nil, err
	}
	duration := time.Since(start)

	s.reportSkipped(result.Skipped)

	stats := result.Snapshot.Stats()
	skipped := len(earlier) + len(result.Skipped)
	span.SetAttributes(observability.GraphAttributes(stats.Sessions, stats.Ideas, stats.ParentLinks, stats.TagLinks, skipped)...)
	s.metrics.RecordBuild(duration, stats.Sessions, stats.Ideas, stats.ParentLinks, stats.TagLinks)

	s.mu.Lock()
	s.current = result.Snapshot
	s.mu.Unlock()

	s.logger.Info("graph rebuilt",
		zap.Int("sessions", stats.Sessions),
		zap.Int("ideas", stats.Ideas),
		zap.Int("parentLinks", stats.ParentLinks),
		zap.Int("tagLinks", stats.TagLinks),
		zap.Int("skipped", skipped),
		zap.Duration("duration", duration),
	)

	if s.publisher != nil {
		event := events.NewGraphRebuilt(stats.Sessions, stats.Ideas, stats.ParentLinks, stats.TagLinks, skipped, s.clock.Now())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish graph rebuilt event", zap.Error(err))
		}
	}

	return result, nil
}

func (s *GraphService) reportSkipped(reports []domainservices.SkipReport) {
	for _, r := range reports {
		s.metrics.RecordSkipped(string(r.Reason))
		s.logger.Warn("skipped note input",
			zap.String("reason", string(r.Reason)),
			zap.Int("noteIndex", r.NoteIndex),
			zap.String("noteID", r.NoteID),
			zap.Int("messageIndex", r.MessageIndex),
			zap.Int("entryIndex", r.EntryIndex),
			zap.String("detail", r.Detail),
		)
	}
}
