package valueobjects

import (
	"strings"

	pkgerrors "thoughtgraph/pkg/errors"
)

// Color is a CSS hex color, normalized to lower case #rrggbb
type Color string

// NewColor validates and normalizes a hex color (#rgb or #rrggbb)
func NewColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "#") {
		return "", pkgerrors.NewValidationError("color must start with '#'")
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return "", pkgerrors.NewValidationError("color must have 3 or 6 hex digits")
	}
	for _, r := range hex {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return "", pkgerrors.NewValidationError("color contains a non-hex digit")
		}
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return Color("#" + hex), nil
}

// MustColor is NewColor for compile-time constants
func MustColor(s string) Color {
	c, err := NewColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the hex representation
func (c Color) String() string {
	return string(c)
}
