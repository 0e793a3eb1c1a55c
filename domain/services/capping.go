package services

import (
	"sort"

	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
)

// CapSessions keeps the maxSessions largest sessions (ties keep build order)
// together with their ideas, and reports how many sessions were dropped.
// A non-positive maxSessions returns the snapshot unchanged.
func CapSessions(s *aggregates.Snapshot, maxSessions int) (*aggregates.Snapshot, int) {
	sessions := s.Sessions()
	if maxSessions <= 0 || len(sessions) <= maxSessions {
		return s, 0
	}

	ranked := make([]entities.SessionNode, len(sessions))
	copy(ranked, sessions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Size > ranked[j].Size
	})

	keep := make(map[valueobjects.NodeID]struct{}, s.NodeCount())
	for _, session := range ranked[:maxSessions] {
		keep[session.ID] = struct{}{}
		for _, idea := range s.IdeasOf(session.ID) {
			keep[idea.ID] = struct{}{}
		}
	}

	return s.Restrict(keep), len(sessions) - maxSessions
}
