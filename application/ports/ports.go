package ports

import (
	"context"
	"time"

	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"
	"thoughtgraph/domain/settings"
)

// RenderNode is a node as handed to the renderer
type RenderNode struct {
	ID    valueobjects.NodeID `json:"id"`
	Label string              `json:"label"`
	Class entities.NodeClass  `json:"class"`
	Size  float64             `json:"size"`
	Color valueobjects.Color  `json:"color"`
}

// RenderLink is a link as handed to the renderer
type RenderLink struct {
	ID     string              `json:"id"`
	Source valueobjects.NodeID `json:"source"`
	Target valueobjects.NodeID `json:"target"`
	Kind   entities.LinkKind   `json:"kind"`
}

// Renderer is the force-directed 3D graph view. Callbacks may be invoked on
// any goroutine.
type Renderer interface {
	// Available reports whether the rendering library is loaded
	Available() bool

	// SetGraphData replaces everything on screen
	SetGraphData(nodes []RenderNode, links []RenderLink) error

	SetNodeColor(id valueobjects.NodeID, color valueobjects.Color)
	SetLinkWidth(width float64)
	SetForces(params settings.ForceParams)

	OnNodeClick(fn func(id valueobjects.NodeID))
	OnBackgroundClick(fn func())
	// OnNodeHover reports the hovered node, or an empty id when the pointer leaves
	OnNodeHover(fn func(id valueobjects.NodeID))
}

// Camera exposes the renderer's camera to the orbit controller
type Camera interface {
	CameraPosition() valueobjects.Position
	SetCameraPosition(p valueobjects.Position)
	// CameraDistance is the current orbit radius; it changes when the user zooms
	CameraDistance() float64
}

// Timer is a pending callback scheduled on a Clock
type Timer interface {
	Stop() bool
}

// Clock abstracts time so animations and timeouts can be tested
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// SettingsStore persists the serialized display settings.
// Get returns a NOT_FOUND AppError when nothing has been stored yet.
type SettingsStore interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
}

// NotesSource fetches notes as a raw JSON array
type NotesSource interface {
	FetchNotes(ctx context.Context) ([]byte, error)
}

// EventPublisher delivers domain events to the host application
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
