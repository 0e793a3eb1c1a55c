// Package settings holds the user-tunable display settings of the graph view
// and the rules for reading them back from storage.
package settings

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"thoughtgraph/domain/core/valueobjects"
	pkgerrors "thoughtgraph/pkg/errors"
)

// DisplaySettings is the persisted, JSON-serializable display configuration.
// Force values use a 0-100 scale that ForceParams maps onto renderer units.
type DisplaySettings struct {
	SessionColor   string            `json:"sessionColor" validate:"required,hexcolor"`
	MessageColor   string            `json:"messageColor" validate:"required,hexcolor"`
	HighlightColor string            `json:"highlightColor" validate:"required,hexcolor"`
	TagOverrides   map[string]string `json:"tagOverrides" validate:"omitempty,dive,keys,required,endkeys,hexcolor"`
	LinkWidth      float64           `json:"linkWidth" validate:"gte=0,lte=10"`
	ForceCenter    float64           `json:"forceCenter" validate:"gte=0,lte=100"`
	ForceRepel     float64           `json:"forceRepel" validate:"gte=0,lte=100"`
	ForceLink      float64           `json:"forceLink" validate:"gte=0,lte=100"`
	ForceDistance  float64           `json:"forceDistance" validate:"gte=0,lte=100"`
	OrbitSpeed     float64           `json:"orbitSpeed" validate:"gte=0,lte=360"`
}

// Defaults returns the built-in settings. Each call returns a fresh map.
func Defaults() DisplaySettings {
	return DisplaySettings{
		SessionColor:   "#4f8cff",
		MessageColor:   "#9aa5b1",
		HighlightColor: "#ffcc00",
		TagOverrides:   map[string]string{},
		LinkWidth:      1,
		ForceCenter:    50,
		ForceRepel:     50,
		ForceLink:      50,
		ForceDistance:  50,
		OrbitSpeed:     3,
	}
}

// Clone returns a deep copy
func (s DisplaySettings) Clone() DisplaySettings {
	out := s
	out.TagOverrides = make(map[string]string, len(s.TagOverrides))
	for k, v := range s.TagOverrides {
		out.TagOverrides[k] = v
	}
	return out
}

// TagColor returns the override color of a tag, matched case-insensitively
func (s DisplaySettings) TagColor(tag string) (valueobjects.Color, bool) {
	want := strings.ToLower(strings.TrimSpace(tag))
	if hex, ok := s.TagOverrides[want]; ok {
		if c, err := valueobjects.NewColor(hex); err == nil {
			return c, true
		}
	}
	for k, hex := range s.TagOverrides {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			if c, err := valueobjects.NewColor(hex); err == nil {
				return c, true
			}
		}
	}
	return "", false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field against its allowed range
func (s DisplaySettings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return pkgerrors.NewValidationError("invalid display settings").WithCause(err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return pkgerrors.NewValidationError("invalid display settings: " + strings.Join(fields, ", ")).
		WithDetails(map[string]interface{}{"fields": fields}).
		WithCause(err)
}

// Fallback describes a stored value that was replaced by its default
type Fallback struct {
	Field  string
	Reason string
}

// Decode reads stored settings, merging them over the defaults. It never
// fails: unreadable input yields the defaults, and every value that cannot be
// used is reset to its default and reported.
func Decode(data []byte) (DisplaySettings, []Fallback) {
	out := Defaults()
	if len(strings.TrimSpace(string(data))) == 0 {
		return out, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Defaults(), []Fallback{{Field: "*", Reason: "corrupt: " + err.Error()}}
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Fields are decoded one at a time so every mistyped one is reported,
	// not just the first.
	var fallbacks []Fallback
	for _, key := range keys {
		single, err := json.Marshal(map[string]json.RawMessage{key: fields[key]})
		if err != nil {
			continue
		}
		if err := json.Unmarshal(single, &out); err != nil {
			if reset, ok := resetters[key]; ok {
				reset(&out, Defaults())
			}
			fallbacks = append(fallbacks, Fallback{Field: key, Reason: "wrong type"})
		}
	}

	sanitized, more := Sanitize(out)
	return sanitized, append(fallbacks, more...)
}

// Sanitize resets each invalid field to its default
func Sanitize(s DisplaySettings) (DisplaySettings, []Fallback) {
	out := s.Clone()
	def := Defaults()
	var fallbacks []Fallback

	tags := make([]string, 0, len(out.TagOverrides))
	for tag := range out.TagOverrides {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			delete(out.TagOverrides, tag)
			fallbacks = append(fallbacks, Fallback{Field: "tagOverrides", Reason: "empty tag"})
			continue
		}
		if _, err := valueobjects.NewColor(out.TagOverrides[tag]); err != nil {
			delete(out.TagOverrides, tag)
			fallbacks = append(fallbacks, Fallback{Field: "tagOverrides[" + tag + "]", Reason: "invalid color"})
		}
	}

	err := validate.Struct(out)
	var verrs validator.ValidationErrors
	if err == nil || !errors.As(err, &verrs) {
		return out, fallbacks
	}

	for _, fe := range verrs {
		if reset, ok := resetters[fe.Field()]; ok {
			reset(&out, def)
			fallbacks = append(fallbacks, Fallback{Field: fe.Field(), Reason: "failed " + fe.Tag()})
		}
	}
	return out, fallbacks
}

var resetters = map[string]func(dst *DisplaySettings, def DisplaySettings){
	"sessionColor":   func(d *DisplaySettings, def DisplaySettings) { d.SessionColor = def.SessionColor },
	"messageColor":   func(d *DisplaySettings, def DisplaySettings) { d.MessageColor = def.MessageColor },
	"highlightColor": func(d *DisplaySettings, def DisplaySettings) { d.HighlightColor = def.HighlightColor },
	"tagOverrides":   func(d *DisplaySettings, def DisplaySettings) { d.TagOverrides = def.TagOverrides },
	"linkWidth":      func(d *DisplaySettings, def DisplaySettings) { d.LinkWidth = def.LinkWidth },
	"forceCenter":    func(d *DisplaySettings, def DisplaySettings) { d.ForceCenter = def.ForceCenter },
	"forceRepel":     func(d *DisplaySettings, def DisplaySettings) { d.ForceRepel = def.ForceRepel },
	"forceLink":      func(d *DisplaySettings, def DisplaySettings) { d.ForceLink = def.ForceLink },
	"forceDistance":  func(d *DisplaySettings, def DisplaySettings) { d.ForceDistance = def.ForceDistance },
	"orbitSpeed":     func(d *DisplaySettings, def DisplaySettings) { d.OrbitSpeed = def.OrbitSpeed },
}

// Encode serializes settings for storage
func Encode(s DisplaySettings) ([]byte, error) {
	return json.Marshal(s)
}
