package valueobjects

import (
	"fmt"
	"strconv"
)

// NodeID identifies a node within a graph snapshot.
// Session ids are the note ids; idea ids are derived so they survive rebuilds.
type NodeID string

// String returns the string representation
func (id NodeID) String() string {
	return string(id)
}

// IsZero checks if the NodeID is empty
func (id NodeID) IsZero() bool {
	return id == ""
}

// IdeaKind tags the content of an idea node
type IdeaKind string

const (
	IdeaText  IdeaKind = "text"
	IdeaImage IdeaKind = "image"
	IdeaVideo IdeaKind = "video"
	IdeaAudio IdeaKind = "audio"
	IdeaFile  IdeaKind = "file"
	IdeaURL   IdeaKind = "url"
)

// ParseIdeaKind maps an attachment type onto an idea kind
func ParseIdeaKind(s string) (IdeaKind, error) {
	switch k := IdeaKind(s); k {
	case IdeaText, IdeaImage, IdeaVideo, IdeaAudio, IdeaFile, IdeaURL:
		return k, nil
	default:
		return "", fmt.Errorf("unknown idea kind %q", s)
	}
}

// TextIdeaID derives the id of the text idea of a message
func TextIdeaID(sessionID NodeID, messageID string) NodeID {
	return NodeID("idea-" + string(IdeaText) + "-" + string(sessionID) + "-" + messageID)
}

// EntryIdeaID derives the id of the idea for the index-th attachment or link of a message
func EntryIdeaID(kind IdeaKind, sessionID NodeID, messageID string, index int) NodeID {
	return NodeID("idea-" + string(kind) + "-" + string(sessionID) + "-" + messageID + "-" + strconv.Itoa(index))
}

// FallbackMessageID names a message that arrived without an id
func FallbackMessageID(index int) string {
	return "msg-" + strconv.Itoa(index)
}
