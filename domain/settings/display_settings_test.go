package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thoughtgraph/domain/core/valueobjects"
	pkgerrors "thoughtgraph/pkg/errors"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := Defaults()
	s.SessionColor = "#112233"
	s.TagOverrides["work"] = "#ff0000"
	s.LinkWidth = 2.5
	s.ForceRepel = 80
	s.OrbitSpeed = 7

	data, err := Encode(s)
	require.NoError(t, err)

	got, fallbacks := Decode(data)
	assert.Empty(t, fallbacks)
	assert.Equal(t, s, got)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name          string
		data          string
		check         func(t *testing.T, s DisplaySettings)
		wantFallbacks []string
	}{
		{
			name: "empty input gives defaults",
			data: "",
			check: func(t *testing.T, s DisplaySettings) {
				assert.Equal(t, Defaults(), s)
			},
		},
		{
			name: "corrupt input gives defaults",
			data: `{"sessionColor": "#000000",`,
			check: func(t *testing.T, s DisplaySettings) {
				assert.Equal(t, Defaults(), s)
			},
			wantFallbacks: []string{"*"},
		},
		{
			name: "partial input merges over defaults",
			data: `{"messageColor": "#010203"}`,
			check: func(t *testing.T, s DisplaySettings) {
				assert.Equal(t, "#010203", s.MessageColor)
				assert.Equal(t, Defaults().SessionColor, s.SessionColor)
				assert.Equal(t, Defaults().ForceLink, s.ForceLink)
			},
		},
		{
			name: "mistyped field keeps its default",
			data: `{"linkWidth": "wide", "forceCenter": 10}`,
			check: func(t *testing.T, s DisplaySettings) {
				assert.Equal(t, Defaults().LinkWidth, s.LinkWidth)
				assert.Equal(t, 10.0, s.ForceCenter)
			},
			wantFallbacks: []string{"linkWidth"},
		},
		{
			name: "every mistyped field is reported",
			data: `{"linkWidth": "wide", "orbitSpeed": true, "sessionColor": 7, "tagOverrides": {"a": 1}, "forceLink": 30}`,
			check: func(t *testing.T, s DisplaySettings) {
				def := Defaults()
				assert.Equal(t, def.LinkWidth, s.LinkWidth)
				assert.Equal(t, def.OrbitSpeed, s.OrbitSpeed)
				assert.Equal(t, def.SessionColor, s.SessionColor)
				assert.Empty(t, s.TagOverrides)
				assert.Equal(t, 30.0, s.ForceLink)
			},
			wantFallbacks: []string{"linkWidth", "orbitSpeed", "sessionColor", "tagOverrides"},
		},
		{
			name: "non-object input gives defaults",
			data: `[1, 2]`,
			check: func(t *testing.T, s DisplaySettings) {
				assert.Equal(t, Defaults(), s)
			},
			wantFallbacks: []string{"*"},
		},
		{
			name: "out of range values are reset individually",
			data: `{"forceRepel": 250, "forceLink": 20, "sessionColor": "blue"}`,
			check: func(t *testing.T, s DisplaySettings) {
				assert.Equal(t, Defaults().ForceRepel, s.ForceRepel)
				assert.Equal(t, Defaults().SessionColor, s.SessionColor)
				assert.Equal(t, 20.0, s.ForceLink)
			},
			wantFallbacks: []string{"sessionColor", "forceRepel"},
		},
		{
			name: "bad tag override is dropped alone",
			data: `{"tagOverrides": {"ok": "#00ff00", "bad": "green"}}`,
			check: func(t *testing.T, s DisplaySettings) {
				assert.Equal(t, map[string]string{"ok": "#00ff00"}, s.TagOverrides)
			},
			wantFallbacks: []string{"tagOverrides[bad]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fallbacks := Decode([]byte(tt.data))
			tt.check(t, s)
			require.NoError(t, s.Validate())

			fields := make([]string, 0, len(fallbacks))
			for _, f := range fallbacks {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, tt.wantFallbacks, fields)
		})
	}
}

func TestValidate(t *testing.T) {
	s := Defaults()
	s.LinkWidth = -1
	s.HighlightColor = "#zzzzzz"

	err := s.Validate()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "linkWidth")
	assert.Contains(t, err.Error(), "highlightColor")
}

func TestTagColor(t *testing.T) {
	s := Defaults()
	s.TagOverrides["Work"] = "#ABCDEF"

	c, ok := s.TagColor("work")
	require.True(t, ok)
	assert.Equal(t, valueobjects.Color("#abcdef"), c)

	_, ok = s.TagColor("play")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	s := Defaults()
	c := s.Clone()
	c.TagOverrides["x"] = "#000000"
	assert.Empty(t, s.TagOverrides)
}

func TestForceParams(t *testing.T) {
	s := Defaults()
	s.ForceCenter = 100
	s.ForceRepel = 0
	s.ForceLink = 50
	s.ForceDistance = 0

	p := s.ForceParams()
	assert.InDelta(t, 1.0, p.CenterStrength, 1e-9)
	assert.InDelta(t, 0.0, p.ChargeStrength, 1e-9)
	assert.InDelta(t, 0.5, p.LinkStrength, 1e-9)
	assert.InDelta(t, 10.0, p.LinkDistance, 1e-9)

	s.ForceRepel = 100
	s.ForceDistance = 100
	p = s.ForceParams()
	assert.InDelta(t, -300.0, p.ChargeStrength, 1e-9)
	assert.InDelta(t, 300.0, p.LinkDistance, 1e-9)
}

func TestSetField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		check   func(t *testing.T, s DisplaySettings)
		wantErr bool
	}{
		{
			name:  "color",
			field: "sessionColor",
			value: " #abcdef ",
			check: func(t *testing.T, s DisplaySettings) { assert.Equal(t, "#abcdef", s.SessionColor) },
		},
		{
			name:  "number",
			field: "forceLink",
			value: "75",
			check: func(t *testing.T, s DisplaySettings) { assert.Equal(t, 75.0, s.ForceLink) },
		},
		{
			name:  "tag override",
			field: "tagOverrides.work",
			value: "#00ff00",
			check: func(t *testing.T, s DisplaySettings) { assert.Equal(t, "#00ff00", s.TagOverrides["work"]) },
		},
		{name: "not a number", field: "linkWidth", value: "wide", wantErr: true},
		{name: "unknown field", field: "fontSize", value: "12", wantErr: true},
		{name: "tag override without tag", field: "tagOverrides.", value: "#000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			err := s.SetField(tt.field, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestSetFieldRemovesTagOverride(t *testing.T) {
	s := Defaults()
	s.TagOverrides["work"] = "#000000"

	require.NoError(t, s.SetField("tagOverrides.work", ""))
	assert.Empty(t, s.TagOverrides)
}

func TestFieldReadsWhatSetFieldWrites(t *testing.T) {
	s := Defaults()
	for _, name := range FieldNames() {
		value, ok := s.Field(name)
		require.True(t, ok, name)

		copied := Defaults()
		require.NoError(t, copied.SetField(name, value), name)
		assert.Equal(t, s, copied, name)
	}

	_, ok := s.Field("fontSize")
	assert.False(t, ok)
}
