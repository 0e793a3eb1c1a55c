package entities

import (
	"strings"
	"unicode/utf8"

	"thoughtgraph/domain/core/valueobjects"
)

// NodeClass distinguishes the two kinds of graph node
type NodeClass string

const (
	ClassSession NodeClass = "session"
	ClassIdea    NodeClass = "idea"
)

const maxLabelRunes = 48

// Node is either a SessionNode or an IdeaNode. The set is closed:
// switch on the concrete type instead of inspecting fields.
type Node interface {
	NodeID() valueobjects.NodeID
	NodeClass() NodeClass
	NodeSize() float64
	NodeLabel() string
	NodeTags() []string

	sealed()
}

// SessionNode represents one note
type SessionNode struct {
	ID           valueobjects.NodeID `json:"id"`
	Name         string              `json:"name"`
	Tags         []string            `json:"tags"`
	MessageCount int                 `json:"messageCount"`
	Size         float64             `json:"size"`
}

func (n SessionNode) NodeID() valueobjects.NodeID { return n.ID }
func (n SessionNode) NodeClass() NodeClass        { return ClassSession }
func (n SessionNode) NodeSize() float64           { return n.Size }
func (n SessionNode) NodeLabel() string           { return n.Name }
func (n SessionNode) NodeTags() []string          { return n.Tags }
func (SessionNode) sealed()                       {}

// IdeaNode represents one atomic content unit of a message
type IdeaNode struct {
	ID              valueobjects.NodeID   `json:"id"`
	Kind            valueobjects.IdeaKind `json:"kind"`
	ParentSessionID valueobjects.NodeID   `json:"parentSessionId"`
	MessageID       string                `json:"messageId"`
	Tags            []string              `json:"tags"`
	Size            float64               `json:"size"`
	Content         IdeaContent           `json:"content"`
}

func (n IdeaNode) NodeID() valueobjects.NodeID { return n.ID }
func (n IdeaNode) NodeClass() NodeClass        { return ClassIdea }
func (n IdeaNode) NodeSize() float64           { return n.Size }
func (n IdeaNode) NodeTags() []string          { return n.Tags }
func (IdeaNode) sealed()                       {}

// NodeLabel returns a short display label for the idea
func (n IdeaNode) NodeLabel() string {
	switch c := n.Content.(type) {
	case TextContent:
		return truncate(c.Body)
	case MediaContent:
		if c.Name != "" {
			return c.Name
		}
		return string(c.Kind)
	case LinkContent:
		if c.Title != "" {
			return c.Title
		}
		return c.URL
	default:
		return string(n.Kind)
	}
}

// IdeaContent is the payload of an idea, tagged by content kind
type IdeaContent interface {
	ideaContent()
}

// TextContent is the body of a message
type TextContent struct {
	Body string `json:"body"`
}

// MediaContent is an image, video, audio or file attachment
type MediaContent struct {
	Kind valueobjects.IdeaKind `json:"kind"`
	Name string                `json:"name,omitempty"`
	URL  string                `json:"url,omitempty"`
}

// LinkContent is an external link
type LinkContent struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

func (TextContent) ideaContent()  {}
func (MediaContent) ideaContent() {}
func (LinkContent) ideaContent()  {}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxLabelRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLabelRunes-1]) + "…"
}
