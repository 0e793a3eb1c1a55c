package entities

import "thoughtgraph/domain/core/valueobjects"

// LinkKind defines the type of relationship
type LinkKind string

const (
	// LinkParent connects a session to one of its ideas
	LinkParent LinkKind = "parent"
	// LinkTag connects two sessions, or two ideas, that share a tag
	LinkTag LinkKind = "tag"
)

// Link is an association between two nodes of a snapshot
type Link struct {
	ID     string              `json:"id"`
	Source valueobjects.NodeID `json:"source"`
	Target valueobjects.NodeID `json:"target"`
	Kind   LinkKind            `json:"kind"`
	Tag    string              `json:"tag,omitempty"`
}

// NewParentLink creates the link from a session to its idea
func NewParentLink(session, idea valueobjects.NodeID) Link {
	return Link{
		ID:     "parent-" + idea.String(),
		Source: session,
		Target: idea,
		Kind:   LinkParent,
	}
}

// NewTagLink creates a shared-tag link between two nodes of the same class
func NewTagLink(source, target valueobjects.NodeID, tag string) Link {
	return Link{
		ID:     "tag-" + source.String() + "-" + target.String(),
		Source: source,
		Target: target,
		Kind:   LinkTag,
		Tag:    tag,
	}
}
