package aggregates

import (
	"sort"

	"thoughtgraph/domain/core/valueobjects"
)

// ExpansionState is the set of sessions whose ideas are shown.
// It is a value: every change returns a new state and leaves the receiver untouched.
type ExpansionState struct {
	ids map[valueobjects.NodeID]struct{}
}

// NewExpansionState creates a state with the given sessions expanded
func NewExpansionState(ids ...valueobjects.NodeID) ExpansionState {
	m := make(map[valueobjects.NodeID]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return ExpansionState{ids: m}
}

// Contains reports whether a session is expanded
func (e ExpansionState) Contains(id valueobjects.NodeID) bool {
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of expanded sessions
func (e ExpansionState) Len() int {
	return len(e.ids)
}

// IDs returns the expanded sessions in sorted order
func (e ExpansionState) IDs() []valueobjects.NodeID {
	out := make([]valueobjects.NodeID, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Toggle flips the membership of a session
func (e ExpansionState) Toggle(id valueobjects.NodeID) ExpansionState {
	next := e.clone()
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// Retain keeps only the sessions for which keep returns true
func (e ExpansionState) Retain(keep func(valueobjects.NodeID) bool) ExpansionState {
	next := ExpansionState{ids: make(map[valueobjects.NodeID]struct{}, len(e.ids))}
	for id := range e.ids {
		if keep(id) {
			next.ids[id] = struct{}{}
		}
	}
	return next
}

func (e ExpansionState) clone() ExpansionState {
	next := ExpansionState{ids: make(map[valueobjects.NodeID]struct{}, len(e.ids)+1)}
	for id := range e.ids {
		next.ids[id] = struct{}{}
	}
	return next
}
