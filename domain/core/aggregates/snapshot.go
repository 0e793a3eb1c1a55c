package aggregates

import (
	"fmt"

	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
)

// Snapshot is an immutable graph: ordered nodes and links plus lookup indices.
// A snapshot always satisfies:
//   - node ids are unique
//   - every idea's parent session is present
//   - every link's endpoints are present
//   - tag links connect two nodes of the same class
type Snapshot struct {
	nodes         []entities.Node
	links         []entities.Link
	byID          map[valueobjects.NodeID]int
	ideasByParent map[valueobjects.NodeID][]int
}

// Stats summarizes a snapshot
type Stats struct {
	Sessions    int `json:"sessions"`
	Ideas       int `json:"ideas"`
	ParentLinks int `json:"parentLinks"`
	TagLinks    int `json:"tagLinks"`
}

// EmptySnapshot returns a snapshot with no nodes
func EmptySnapshot() *Snapshot {
	s, _ := NewSnapshot(nil, nil)
	return s
}

// NewSnapshot builds a snapshot and checks its invariants.
// The slices are copied; the caller may reuse them.
func NewSnapshot(nodes []entities.Node, links []entities.Link) (*Snapshot, error) {
	s := &Snapshot{
		nodes:         make([]entities.Node, len(nodes)),
		links:         make([]entities.Link, len(links)),
		byID:          make(map[valueobjects.NodeID]int, len(nodes)),
		ideasByParent: make(map[valueobjects.NodeID][]int),
	}
	copy(s.nodes, nodes)
	copy(s.links, links)

	for i, n := range s.nodes {
		if n == nil {
			return nil, fmt.Errorf("node %d is nil", i)
		}
		id := n.NodeID()
		if id.IsZero() {
			return nil, fmt.Errorf("node %d has an empty id", i)
		}
		if _, dup := s.byID[id]; dup {
			return nil, fmt.Errorf("duplicate node id %q", id)
		}
		s.byID[id] = i
	}

	for i, n := range s.nodes {
		idea, ok := n.(entities.IdeaNode)
		if !ok {
			continue
		}
		parent, ok := s.byID[idea.ParentSessionID]
		if !ok || s.nodes[parent].NodeClass() != entities.ClassSession {
			return nil, fmt.Errorf("idea %q references missing session %q", idea.ID, idea.ParentSessionID)
		}
		s.ideasByParent[idea.ParentSessionID] = append(s.ideasByParent[idea.ParentSessionID], i)
	}

	for _, l := range s.links {
		src, ok := s.byID[l.Source]
		if !ok {
			return nil, fmt.Errorf("link %q has unknown source %q", l.ID, l.Source)
		}
		dst, ok := s.byID[l.Target]
		if !ok {
			return nil, fmt.Errorf("link %q has unknown target %q", l.ID, l.Target)
		}
		if l.Kind == entities.LinkTag && s.nodes[src].NodeClass() != s.nodes[dst].NodeClass() {
			return nil, fmt.Errorf("tag link %q connects a %s to a %s", l.ID, s.nodes[src].NodeClass(), s.nodes[dst].NodeClass())
		}
	}

	return s, nil
}

// Nodes returns all nodes in build order
func (s *Snapshot) Nodes() []entities.Node {
	out := make([]entities.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Links returns all links in build order
func (s *Snapshot) Links() []entities.Link {
	out := make([]entities.Link, len(s.links))
	copy(out, s.links)
	return out
}

// NodeCount returns the number of nodes
func (s *Snapshot) NodeCount() int {
	return len(s.nodes)
}

// LinkCount returns the number of links
func (s *Snapshot) LinkCount() int {
	return len(s.links)
}

// Node looks up a node by id
func (s *Snapshot) Node(id valueobjects.NodeID) (entities.Node, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.nodes[i], true
}

// Has reports whether the snapshot contains the node
func (s *Snapshot) Has(id valueobjects.NodeID) bool {
	_, ok := s.byID[id]
	return ok
}

// Session looks up a session node by id
func (s *Snapshot) Session(id valueobjects.NodeID) (entities.SessionNode, bool) {
	n, ok := s.Node(id)
	if !ok {
		return entities.SessionNode{}, false
	}
	session, ok := n.(entities.SessionNode)
	return session, ok
}

// Sessions returns the session nodes in build order
func (s *Snapshot) Sessions() []entities.SessionNode {
	var out []entities.SessionNode
	for _, n := range s.nodes {
		if session, ok := n.(entities.SessionNode); ok {
			out = append(out, session)
		}
	}
	return out
}

// IdeasOf returns the ideas of a session in build order
func (s *Snapshot) IdeasOf(sessionID valueobjects.NodeID) []entities.IdeaNode {
	idx := s.ideasByParent[sessionID]
	out := make([]entities.IdeaNode, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.nodes[i].(entities.IdeaNode))
	}
	return out
}

// Stats counts nodes and links by kind
func (s *Snapshot) Stats() Stats {
	var st Stats
	for _, n := range s.nodes {
		switch n.(type) {
		case entities.SessionNode:
			st.Sessions++
		case entities.IdeaNode:
			st.Ideas++
		}
	}
	for _, l := range s.links {
		switch l.Kind {
		case entities.LinkParent:
			st.ParentLinks++
		case entities.LinkTag:
			st.TagLinks++
		}
	}
	return st
}

// Restrict returns a new snapshot holding only the listed nodes, in their
// original order. Ideas whose session is not kept are dropped, as are links
// with a dropped endpoint, so the result satisfies the snapshot invariants.
func (s *Snapshot) Restrict(keep map[valueobjects.NodeID]struct{}) *Snapshot {
	out := &Snapshot{
		nodes:         make([]entities.Node, 0, len(keep)),
		byID:          make(map[valueobjects.NodeID]int, len(keep)),
		ideasByParent: make(map[valueobjects.NodeID][]int),
	}

	for _, n := range s.nodes {
		if _, ok := keep[n.NodeID()]; !ok {
			continue
		}
		if idea, ok := n.(entities.IdeaNode); ok {
			if _, ok := keep[idea.ParentSessionID]; !ok {
				continue
			}
			out.ideasByParent[idea.ParentSessionID] = append(out.ideasByParent[idea.ParentSessionID], len(out.nodes))
		}
		out.byID[n.NodeID()] = len(out.nodes)
		out.nodes = append(out.nodes, n)
	}

	for _, l := range s.links {
		if out.Has(l.Source) && out.Has(l.Target) {
			out.links = append(out.links, l)
		}
	}

	return out
}
