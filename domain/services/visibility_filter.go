package services

import (
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/valueobjects"
)

// Filter returns the part of a snapshot that should be rendered: every
// session, the ideas of expanded sessions, and the links whose endpoints are
// both visible. Neither argument is modified.
func Filter(s *aggregates.Snapshot, expanded aggregates.ExpansionState) *aggregates.Snapshot {
	if s == nil {
		return aggregates.EmptySnapshot()
	}

	sessions := s.Sessions()
	keep := make(map[valueobjects.NodeID]struct{}, len(sessions))
	for _, session := range sessions {
		keep[session.ID] = struct{}{}
	}
	for _, id := range expanded.IDs() {
		for _, idea := range s.IdeasOf(id) {
			keep[idea.ID] = struct{}{}
		}
	}

	return s.Restrict(keep)
}
