package settings

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "thoughtgraph/pkg/errors"
)

const tagOverridePrefix = "tagOverrides."

// SetField assigns one field by its JSON name. Tag overrides are addressed as
// "tagOverrides.<tag>"; an empty value removes the override.
func (s *DisplaySettings) SetField(name, value string) error {
	value = strings.TrimSpace(value)

	if strings.HasPrefix(name, tagOverridePrefix) {
		tag := strings.TrimSpace(strings.TrimPrefix(name, tagOverridePrefix))
		if tag == "" {
			return pkgerrors.NewValidationError("tag override needs a tag name")
		}
		if s.TagOverrides == nil {
			s.TagOverrides = map[string]string{}
		}
		if value == "" {
			delete(s.TagOverrides, tag)
			return nil
		}
		s.TagOverrides[tag] = value
		return nil
	}

	switch name {
	case "sessionColor":
		s.SessionColor = value
	case "messageColor":
		s.MessageColor = value
	case "highlightColor":
		s.HighlightColor = value
	default:
		target, ok := s.numericField(name)
		if !ok {
			return pkgerrors.NewValidationError(fmt.Sprintf("unknown setting %q", name))
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return pkgerrors.NewValidationError(fmt.Sprintf("setting %q needs a number", name)).WithCause(err)
		}
		*target = v
	}
	return nil
}

// Field returns the value of a field as SetField would accept it
func (s DisplaySettings) Field(name string) (string, bool) {
	switch name {
	case "sessionColor":
		return s.SessionColor, true
	case "messageColor":
		return s.MessageColor, true
	case "highlightColor":
		return s.HighlightColor, true
	}
	target, ok := s.numericField(name)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(*target, 'g', -1, 64), true
}

// FieldNames lists the names accepted by SetField, tag overrides aside
func FieldNames() []string {
	return []string{
		"sessionColor", "messageColor", "highlightColor",
		"linkWidth", "forceCenter", "forceRepel", "forceLink", "forceDistance",
		"orbitSpeed",
	}
}

func (s *DisplaySettings) numericField(name string) (*float64, bool) {
	switch name {
	case "linkWidth":
		return &s.LinkWidth, true
	case "forceCenter":
		return &s.ForceCenter, true
	case "forceRepel":
		return &s.ForceRepel, true
	case "forceLink":
		return &s.ForceLink, true
	case "forceDistance":
		return &s.ForceDistance, true
	case "orbitSpeed":
		return &s.OrbitSpeed, true
	default:
		return nil, false
	}
}
