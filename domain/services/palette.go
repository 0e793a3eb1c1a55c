package services

import (
	"hash/fnv"

	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/settings"
)

// tagPalette is used for tags without an override; a tag always maps to the
// same entry.
var tagPalette = []valueobjects.Color{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#42d4f4", "#f032e6", "#bfef45",
	"#469990", "#9a6324", "#800000", "#808000",
}

// Palette assigns node colors from display settings
type Palette struct {
	session   valueobjects.Color
	message   valueobjects.Color
	highlight valueobjects.Color
	settings  settings.DisplaySettings
}

// NewPalette creates a palette; unusable colors fall back to the defaults
func NewPalette(s settings.DisplaySettings) Palette {
	def := settings.Defaults()
	return Palette{
		session:   colorOr(s.SessionColor, def.SessionColor),
		message:   colorOr(s.MessageColor, def.MessageColor),
		highlight: colorOr(s.HighlightColor, def.HighlightColor),
		settings:  s.Clone(),
	}
}

// TagColor returns the override for a tag, or its palette entry
func (p Palette) TagColor(tag string) valueobjects.Color {
	if c, ok := p.settings.TagColor(tag); ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(TagKey(tag)))
	return tagPalette[h.Sum32()%uint32(len(tagPalette))]
}

// NodeColor returns the color of a node; the hovered node is always highlighted
func (p Palette) NodeColor(n entities.Node, hovered valueobjects.NodeID) valueobjects.Color {
	if !hovered.IsZero() && n.NodeID() == hovered {
		return p.highlight
	}

	switch node := n.(type) {
	case entities.SessionNode:
		return p.session
	case entities.IdeaNode:
		if len(node.Tags) > 0 {
			return p.TagColor(node.Tags[0])
		}
		return p.message
	default:
		return p.message
	}
}

func colorOr(hex, fallback string) valueobjects.Color {
	if c, err := valueobjects.NewColor(hex); err == nil {
		return c
	}
	return valueobjects.MustColor(fallback)
}
