package services

import (
	"context"
	"sync"
	"time"

	"thoughtgraph/application/ports"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"
	"thoughtgraph/domain/settings"
	"thoughtgraph/infrastructure/clock"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestClock() *clock.Manual {
	return clock.NewManual(epoch)
}

type fakeCamera struct {
	mu       sync.Mutex
	pos      valueobjects.Position
	distance float64
	sets     int
}

func newFakeCamera() *fakeCamera {
	return &fakeCamera{pos: valueobjects.Position{X: 0, Y: 25, Z: 100}, distance: 100}
}

func (c *fakeCamera) CameraPosition() valueobjects.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *fakeCamera) SetCameraPosition(p valueobjects.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = p
	c.sets++
}

func (c *fakeCamera) CameraDistance() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distance
}

type fakeRenderer struct {
	mu           sync.Mutex
	available    bool
	nodes        []ports.RenderNode
	links        []ports.RenderLink
	pushes       int
	colors       map[valueobjects.NodeID]valueobjects.Color
	colorCalls   int
	linkWidth    float64
	forces       settings.ForceParams
	onClick      func(valueobjects.NodeID)
	onHover      func(valueobjects.NodeID)
	onBackground func()
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{available: true, colors: map[valueobjects.NodeID]valueobjects.Color{}}
}

func (r *fakeRenderer) Available() bool { return r.available }

func (r *fakeRenderer) SetGraphData(nodes []ports.RenderNode, links []ports.RenderLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = nodes
	r.links = links
	r.pushes++
	for _, n := range nodes {
		r.colors[n.ID] = n.Color
	}
	return nil
}

func (r *fakeRenderer) SetNodeColor(id valueobjects.NodeID, color valueobjects.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.colors[id] = color
	r.colorCalls++
}

func (r *fakeRenderer) SetLinkWidth(width float64)            { r.linkWidth = width }
func (r *fakeRenderer) SetForces(params settings.ForceParams) { r.forces = params }

func (r *fakeRenderer) OnNodeClick(fn func(valueobjects.NodeID)) { r.onClick = fn }
func (r *fakeRenderer) OnBackgroundClick(fn func())              { r.onBackground = fn }
func (r *fakeRenderer) OnNodeHover(fn func(valueobjects.NodeID)) { r.onHover = fn }

func (r *fakeRenderer) nodeIDs() []valueobjects.NodeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]valueobjects.NodeID, 0, len(r.nodes))
	for _, n := range r.nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func (r *fakeRenderer) color(id valueobjects.NodeID) valueobjects.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.colors[id]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}
