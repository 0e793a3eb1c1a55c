package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/domain/settings"
	pkgerrors "thoughtgraph/pkg/errors"
	"thoughtgraph/pkg/observability"
)

// ErrGraphUnavailable is returned when there is no renderer to draw with
var ErrGraphUnavailable = pkgerrors.NewUnavailableError("graph renderer").WithCode("GRAPH_UNAVAILABLE")

// Interrupter is notified of clicks on empty background
type Interrupter interface {
	Interrupt()
}

// RenderAdapter owns the expansion state and keeps the renderer in sync with
// the visible part of the latest snapshot. Renderer callbacks may arrive on
// any goroutine.
type RenderAdapter struct {
	mu        sync.Mutex
	renderer  ports.Renderer
	clock     ports.Clock
	publisher ports.EventPublisher
	orbit     Interrupter
	cfg       *config.GraphConfig
	logger    *zap.Logger
	metrics   *observability.Collector

	source   *aggregates.Snapshot
	full     *aggregates.Snapshot
	visible  *aggregates.Snapshot
	expanded aggregates.ExpansionState
	palette  domainservices.Palette
	hovered  valueobjects.NodeID
	colors   map[valueobjects.NodeID]valueobjects.Color

	lastClickID valueobjects.NodeID
	lastClickAt time.Time
}

// NewRenderAdapter wires an adapter to a renderer. It fails with
// ErrGraphUnavailable when the renderer is missing or cannot draw.
// orbit may be nil.
func NewRenderAdapter(
	renderer ports.Renderer,
	clock ports.Clock,
	publisher ports.EventPublisher,
	orbit Interrupter,
	cfg *config.GraphConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) (*RenderAdapter, error) {
	if renderer == nil || !renderer.Available() {
		return nil, ErrGraphUnavailable
	}
	if cfg == nil {
		cfg = config.DefaultGraphConfig()
	}

	a := &RenderAdapter{
		renderer:  renderer,
		clock:     clock,
		publisher: publisher,
		orbit:     orbit,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		source:    aggregates.EmptySnapshot(),
		full:      aggregates.EmptySnapshot(),
		visible:   aggregates.EmptySnapshot(),
		palette:   domainservices.NewPalette(settings.Defaults()),
		colors:    make(map[valueobjects.NodeID]valueobjects.Color),
	}

	renderer.OnNodeClick(a.Click)
	renderer.OnBackgroundClick(a.ClickBackground)
	renderer.OnNodeHover(a.Hover)

	return a, nil
}

// Load replaces the snapshot and collapses every session
func (a *RenderAdapter) Load(snapshot *aggregates.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.setSource(snapshot)
	a.expanded = aggregates.ExpansionState{}
	a.lastClickID = ""
	return a.push()
}

// Refresh replaces the snapshot, keeping sessions that still exist expanded
func (a *RenderAdapter) Refresh(snapshot *aggregates.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.setSource(snapshot)
	a.retainExpanded()
	return a.push()
}

// Toggle expands or collapses a session and redraws
func (a *RenderAdapter) Toggle(id valueobjects.NodeID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.full.Session(id); !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("session %q", id))
	}
	a.expanded = a.expanded.Toggle(id)
	return a.push()
}

// Click handles a click on a node. A second click on the same session within
// the double-click window opens its detail; any other session click toggles
// it. Clicking an idea opens the idea's detail.
func (a *RenderAdapter) Click(id valueobjects.NodeID) {
	a.mu.Lock()
	node, ok := a.visible.Node(id)
	if !ok {
		a.mu.Unlock()
		a.logger.Debug("click on unknown node", zap.String("nodeID", id.String()))
		return
	}

	now := a.clock.Now()
	var event events.DomainEvent
	var kind string

	switch n := node.(type) {
	case entities.SessionNode:
		if a.lastClickID == id && now.Sub(a.lastClickAt) <= a.cfg.DoubleClickWindow {
			a.lastClickID = ""
			a.lastClickAt = time.Time{}
			event, kind = events.NewSessionDetailRequested(n, now), "session"
			break
		}
		a.lastClickID = id
		a.lastClickAt = now
		a.expanded = a.expanded.Toggle(id)
		if err := a.push(); err != nil {
			a.logger.Error("failed to redraw after toggle", zap.String("sessionID", id.String()), zap.Error(err))
		}
	case entities.IdeaNode:
		event, kind = events.NewIdeaDetailRequested(n, now), "idea"
	}
	a.mu.Unlock()

	if event == nil {
		return
	}
	a.metrics.RecordDetail(kind)
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(context.Background(), event); err != nil {
		a.logger.Warn("failed to publish detail request",
			zap.String("eventType", event.GetEventType()),
			zap.String("nodeID", id.String()),
			zap.Error(err),
		)
	}
}

// ClickBackground handles a click on empty space; it only affects the camera
func (a *RenderAdapter) ClickBackground() {
	if a.orbit != nil {
		a.orbit.Interrupt()
	}
}

// Hover highlights the hovered node; an empty id clears the highlight
func (a *RenderAdapter) Hover(id valueobjects.NodeID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id == a.hovered {
		return
	}
	a.hovered = id
	a.recolor()
}

// ApplySettings recolors the graph and pushes link and force parameters
func (a *RenderAdapter) ApplySettings(s settings.DisplaySettings) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.palette = domainservices.NewPalette(s)
	a.recolor()
	a.renderer.SetLinkWidth(s.LinkWidth)
	a.renderer.SetForces(s.ForceParams())
}

// SetConfig swaps the graph tunables and redraws with the new session cap
func (a *RenderAdapter) SetConfig(cfg *config.GraphConfig) error {
	if cfg == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg = cfg
	a.setSource(a.source)
	a.retainExpanded()
	return a.push()
}

// Expanded returns the expanded session ids in sorted order
func (a *RenderAdapter) Expanded() []valueobjects.NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.expanded.IDs()
}

// Visible returns the snapshot currently on screen
func (a *RenderAdapter) Visible() *aggregates.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}

// setSource stores a new snapshot and applies the session cap. Callers hold mu.
func (a *RenderAdapter) setSource(snapshot *aggregates.Snapshot) {
	if snapshot == nil {
		snapshot = aggregates.EmptySnapshot()
	}
	a.source = snapshot

	capped, dropped := domainservices.CapSessions(snapshot, a.cfg.MaxRenderedSessions)
	if dropped > 0 {
		a.logger.Info("capped rendered sessions",
			zap.Int("kept", a.cfg.MaxRenderedSessions),
			zap.Int("dropped", dropped),
		)
	}
	a.metrics.RecordCapped(dropped)
	a.full = capped
}

// retainExpanded drops expanded ids that are no longer sessions. Callers hold mu.
func (a *RenderAdapter) retainExpanded() {
	full := a.full
	a.expanded = a.expanded.Retain(func(id valueobjects.NodeID) bool {
		_, ok := full.Session(id)
		return ok
	})
}

// push re-filters and hands the visible graph to the renderer. Callers hold mu.
func (a *RenderAdapter) push() error {
	start := time.Now()
	a.visible = domainservices.Filter(a.full, a.expanded)
	a.metrics.RecordFilter(time.Since(start))

	graphNodes := a.visible.Nodes()
	nodes := make([]ports.RenderNode, 0, len(graphNodes))
	colors := make(map[valueobjects.NodeID]valueobjects.Color, len(graphNodes))
	for _, n := range graphNodes {
		color := a.palette.NodeColor(n, a.hovered)
		colors[n.NodeID()] = color
		nodes = append(nodes, ports.RenderNode{
			ID:    n.NodeID(),
			Label: n.NodeLabel(),
			Class: n.NodeClass(),
			Size:  n.NodeSize(),
			Color: color,
		})
	}

	graphLinks := a.visible.Links()
	links := make([]ports.RenderLink, 0, len(graphLinks))
	for _, l := range graphLinks {
		links = append(links, ports.RenderLink{ID: l.ID, Source: l.Source, Target: l.Target, Kind: l.Kind})
	}

	a.colors = colors
	if err := a.renderer.SetGraphData(nodes, links); err != nil {
		return fmt.Errorf("failed to push graph data: %w", err)
	}
	return nil
}

// recolor updates the nodes whose color changed. Callers hold mu.
func (a *RenderAdapter) recolor() {
	for _, n := range a.visible.Nodes() {
		id := n.NodeID()
		color := a.palette.NodeColor(n, a.hovered)
		if a.colors[id] == color {
			continue
		}
		a.colors[id] = color
		a.renderer.SetNodeColor(id, color)
	}
}
