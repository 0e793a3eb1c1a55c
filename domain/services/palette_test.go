package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/settings"
)

func TestPaletteNodeColor(t *testing.T) {
	s := settings.Defaults()
	s.TagOverrides["work"] = "#00FF00"
	p := NewPalette(s)

	session := entities.SessionNode{ID: "a"}
	tagged := entities.IdeaNode{ID: "i1", ParentSessionID: "a", Tags: []string{"Work", "other"}}
	plain := entities.IdeaNode{ID: "i2", ParentSessionID: "a"}

	tests := []struct {
		name    string
		node    entities.Node
		hovered valueobjects.NodeID
		want    valueobjects.Color
	}{
		{"session", session, "", valueobjects.Color(s.SessionColor)},
		{"idea with overridden tag", tagged, "", "#00ff00"},
		{"idea without tags", plain, "", valueobjects.Color(s.MessageColor)},
		{"hovered session", session, "a", valueobjects.Color(s.HighlightColor)},
		{"hovered idea", plain, "i2", valueobjects.Color(s.HighlightColor)},
		{"other node hovered", plain, "a", valueobjects.Color(s.MessageColor)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.NodeColor(tt.node, tt.hovered))
		})
	}
}

func TestPaletteTagColorIsStable(t *testing.T) {
	p := NewPalette(settings.Defaults())

	c := p.TagColor("music")
	assert.Equal(t, c, p.TagColor(" MUSIC "))
	assert.Contains(t, tagPalette, c)
}

func TestPaletteFallsBackOnBadColors(t *testing.T) {
	s := settings.Defaults()
	s.SessionColor = "not a color"

	p := NewPalette(s)

	assert.Equal(t, valueobjects.Color(settings.Defaults().SessionColor), p.NodeColor(entities.SessionNode{ID: "a"}, ""))
}
