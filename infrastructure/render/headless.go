// Package render provides a renderer that keeps the scene in memory. It backs
// the command line tools and lets user input be simulated.
package render

import (
	"fmt"
	"sort"
	"sync"

	"thoughtgraph/application/ports"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/settings"
)

// Scene is a copy of what the renderer currently shows
type Scene struct {
	Nodes     []ports.RenderNode    `json:"nodes"`
	Links     []ports.RenderLink    `json:"links"`
	LinkWidth float64               `json:"linkWidth"`
	Forces    settings.ForceParams  `json:"forces"`
	Camera    valueobjects.Position `json:"camera"`
}

// Headless implements ports.Renderer and ports.Camera without drawing
type Headless struct {
	mu        sync.Mutex
	nodes     []ports.RenderNode
	index     map[valueobjects.NodeID]int
	links     []ports.RenderLink
	linkWidth float64
	forces    settings.ForceParams
	camera    valueobjects.Position

	onClick      func(valueobjects.NodeID)
	onBackground func()
	onHover      func(valueobjects.NodeID)
}

// NewHeadless creates a renderer with the camera at the given position
func NewHeadless(camera valueobjects.Position) *Headless {
	return &Headless{
		index:  make(map[valueobjects.NodeID]int),
		camera: camera,
	}
}

func (h *Headless) Available() bool { return true }

// SetGraphData replaces the scene; links must reference known nodes
func (h *Headless) SetGraphData(nodes []ports.RenderNode, links []ports.RenderLink) error {
	index := make(map[valueobjects.NodeID]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; dup {
			return fmt.Errorf("duplicate node %s", n.ID)
		}
		index[n.ID] = i
	}
	for _, l := range links {
		_, okSource := index[l.Source]
		_, okTarget := index[l.Target]
		if !okSource || !okTarget {
			return fmt.Errorf("link %s references a node that is not on screen", l.ID)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.nodes = append([]ports.RenderNode(nil), nodes...)
	h.links = append([]ports.RenderLink(nil), links...)
	h.index = index
	return nil
}

func (h *Headless) SetNodeColor(id valueobjects.NodeID, color valueobjects.Color) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i, ok := h.index[id]; ok {
		h.nodes[i].Color = color
	}
}

func (h *Headless) SetLinkWidth(width float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.linkWidth = width
}

func (h *Headless) SetForces(params settings.ForceParams) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.forces = params
}

func (h *Headless) OnNodeClick(fn func(id valueobjects.NodeID)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClick = fn
}

func (h *Headless) OnBackgroundClick(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onBackground = fn
}

func (h *Headless) OnNodeHover(fn func(id valueobjects.NodeID)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onHover = fn
}

func (h *Headless) CameraPosition() valueobjects.Position {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.camera
}

func (h *Headless) SetCameraPosition(p valueobjects.Position) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.camera = p
}

func (h *Headless) CameraDistance() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.camera.HorizontalDistance()
}

// Click simulates a click on a node. It fails if the node is not on screen.
func (h *Headless) Click(id valueobjects.NodeID) error {
	h.mu.Lock()
	_, ok := h.index[id]
	fn := h.onClick
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("node %s is not on screen", id)
	}
	if fn != nil {
		fn(id)
	}
	return nil
}

// ClickBackground simulates a click on empty space
func (h *Headless) ClickBackground() {
	h.mu.Lock()
	fn := h.onBackground
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Hover simulates the pointer entering a node, or leaving with an empty id
func (h *Headless) Hover(id valueobjects.NodeID) {
	h.mu.Lock()
	fn := h.onHover
	h.mu.Unlock()
	if fn != nil {
		fn(id)
	}
}

// Scene returns a copy of the current scene with nodes sorted by id
func (h *Headless) Scene() Scene {
	h.mu.Lock()
	defer h.mu.Unlock()

	nodes := append([]ports.RenderNode(nil), h.nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return Scene{
		Nodes:     nodes,
		Links:     append([]ports.RenderLink(nil), h.links...),
		LinkWidth: h.linkWidth,
		Forces:    h.forces,
		Camera:    h.camera,
	}
}
