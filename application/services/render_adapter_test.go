package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/domain/settings"
	"thoughtgraph/infrastructure/clock"
	pkgerrors "thoughtgraph/pkg/errors"
)

type countingInterrupter struct{ calls int }

func (c *countingInterrupter) Interrupt() { c.calls++ }

type adapterFixture struct {
	adapter   *RenderAdapter
	renderer  *fakeRenderer
	publisher *recordingPublisher
	orbit     *countingInterrupter
	clock     *clock.Manual
}

func newAdapterFixture(t *testing.T, cfg *config.GraphConfig) *adapterFixture {
	t.Helper()
	f := &adapterFixture{
		renderer:  newFakeRenderer(),
		publisher: &recordingPublisher{},
		orbit:     &countingInterrupter{},
		clock:     newTestClock(),
	}
	adapter, err := NewRenderAdapter(f.renderer, f.clock, f.publisher, f.orbit, cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	f.adapter = adapter
	return f
}

func sampleSnapshot(t *testing.T) *aggregates.Snapshot {
	t.Helper()
	notes := []entities.Note{
		{ID: "a", Title: "A", Tags: []string{"x"}, Messages: []entities.Message{{ID: "m1", Content: "hello"}}},
		{ID: "b", Title: "B", Tags: []string{"x"}, Messages: []entities.Message{{ID: "m2", Content: "world"}, {ID: "m3", Content: "again"}}},
	}
	result, err := domainservices.Build(notes, nil)
	require.NoError(t, err)
	return result.Snapshot
}

func TestNewRenderAdapterUnavailable(t *testing.T) {
	_, err := NewRenderAdapter(nil, newTestClock(), nil, nil, nil, zap.NewNop(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGraphUnavailable))

	r := newFakeRenderer()
	r.available = false
	_, err = NewRenderAdapter(r, newTestClock(), nil, nil, nil, zap.NewNop(), nil)
	assert.True(t, pkgerrors.IsUnavailable(err))
	assert.Zero(t, r.pushes, "nothing is drawn on an unavailable renderer")
}

func TestLoadShowsCollapsedSessions(t *testing.T) {
	f := newAdapterFixture(t, nil)

	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))

	assert.Equal(t, []valueobjects.NodeID{"a", "b"}, f.renderer.nodeIDs())
	require.Len(t, f.renderer.links, 1)
	assert.Equal(t, entities.LinkTag, f.renderer.links[0].Kind)
	assert.Equal(t, valueobjects.Color(settings.Defaults().SessionColor), f.renderer.color("a"))
	assert.Equal(t, 6+1.5, f.renderer.nodes[0].Size)
}

func TestClickTogglesSession(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))

	f.renderer.onClick("a")

	ids := f.renderer.nodeIDs()
	assert.Contains(t, ids, valueobjects.NodeID("idea-text-a-m1"))
	assert.NotContains(t, ids, valueobjects.NodeID("idea-text-b-m2"))
	assert.Equal(t, []valueobjects.NodeID{"a"}, f.adapter.Expanded())

	f.clock.Advance(time.Second)
	f.renderer.onClick("a")

	assert.Empty(t, f.adapter.Expanded())
	assert.Equal(t, []valueobjects.NodeID{"a", "b"}, f.renderer.nodeIDs())
	assert.Empty(t, f.publisher.types())
}

func TestDoubleClickOpensSessionDetail(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))

	f.renderer.onClick("b")
	f.clock.Advance(200 * time.Millisecond)
	f.renderer.onClick("b")

	require.Equal(t, []string{events.TypeSessionDetailRequested}, f.publisher.types())
	detail := f.publisher.events[0].(events.SessionDetailRequested)
	assert.Equal(t, valueobjects.NodeID("b"), detail.SessionID)
	assert.Equal(t, 2, detail.Session.MessageCount)
	assert.Equal(t, []valueobjects.NodeID{"b"}, f.adapter.Expanded(), "only the first click toggles")

	// the tracker was reset, so a third quick click is a fresh first click
	f.clock.Advance(100 * time.Millisecond)
	f.renderer.onClick("b")
	assert.Len(t, f.publisher.types(), 1)
	assert.Empty(t, f.adapter.Expanded())
}

func TestClicksOnDifferentSessionsAreNotADoubleClick(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))

	f.renderer.onClick("a")
	f.clock.Advance(50 * time.Millisecond)
	f.renderer.onClick("b")

	assert.Empty(t, f.publisher.types())
	assert.Equal(t, []valueobjects.NodeID{"a", "b"}, f.adapter.Expanded())
}

func TestClickIdeaOpensIdeaDetail(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))
	require.NoError(t, f.adapter.Toggle("b"))

	f.renderer.onClick("idea-text-b-m3")

	require.Equal(t, []string{events.TypeIdeaDetailRequested}, f.publisher.types())
	detail := f.publisher.events[0].(events.IdeaDetailRequested)
	assert.Equal(t, valueobjects.NodeID("b"), detail.SessionID)
	assert.Equal(t, "m3", detail.MessageID)
	assert.Equal(t, entities.TextContent{Body: "again"}, detail.Idea.Content)
	assert.Equal(t, []valueobjects.NodeID{"b"}, f.adapter.Expanded())
}

func TestClickHiddenNodeIsIgnored(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))
	pushes := f.renderer.pushes

	f.renderer.onClick("idea-text-a-m1")
	f.renderer.onClick("nope")

	assert.Empty(t, f.publisher.types())
	assert.Equal(t, pushes, f.renderer.pushes)
}

func TestBackgroundClickInterruptsOrbitOnly(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))
	require.NoError(t, f.adapter.Toggle("a"))
	pushes := f.renderer.pushes

	f.renderer.onBackground()

	assert.Equal(t, 1, f.orbit.calls)
	assert.Equal(t, pushes, f.renderer.pushes)
	assert.Equal(t, []valueobjects.NodeID{"a"}, f.adapter.Expanded())
}

func TestHoverRecolorsWithoutRedraw(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))
	pushes := f.renderer.pushes
	highlight := valueobjects.Color(settings.Defaults().HighlightColor)
	session := valueobjects.Color(settings.Defaults().SessionColor)

	f.renderer.onHover("a")
	assert.Equal(t, highlight, f.renderer.color("a"))
	assert.Equal(t, session, f.renderer.color("b"))
	assert.Equal(t, 1, f.renderer.colorCalls)

	f.renderer.onHover("a")
	assert.Equal(t, 1, f.renderer.colorCalls, "same hover is a no-op")

	f.renderer.onHover("b")
	assert.Equal(t, session, f.renderer.color("a"))
	assert.Equal(t, highlight, f.renderer.color("b"))
	assert.Equal(t, 3, f.renderer.colorCalls)

	f.renderer.onHover("")
	assert.Equal(t, session, f.renderer.color("b"))
	assert.Equal(t, pushes, f.renderer.pushes)
}

func TestApplySettings(t *testing.T) {
	f := newAdapterFixture(t, nil)
	snapshot := sampleSnapshot(t)
	require.NoError(t, f.adapter.Load(snapshot))

	s := settings.Defaults()
	s.SessionColor = "#123456"
	s.LinkWidth = 3
	s.ForceRepel = 100
	f.adapter.ApplySettings(s)

	assert.Equal(t, valueobjects.Color("#123456"), f.renderer.color("a"))
	assert.Equal(t, 3.0, f.renderer.linkWidth)
	assert.Equal(t, s.ForceParams(), f.renderer.forces)
}

func TestRefreshKeepsExpansionAndLoadResetsIt(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))
	require.NoError(t, f.adapter.Toggle("a"))
	require.NoError(t, f.adapter.Toggle("b"))

	onlyA, err := domainservices.Build([]entities.Note{
		{ID: "a", Messages: []entities.Message{{ID: "m1", Content: "hello"}, {ID: "m9", Content: "new"}}},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, f.adapter.Refresh(onlyA.Snapshot))
	assert.Equal(t, []valueobjects.NodeID{"a"}, f.adapter.Expanded())
	assert.Contains(t, f.renderer.nodeIDs(), valueobjects.NodeID("idea-text-a-m9"))

	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))
	assert.Empty(t, f.adapter.Expanded())
}

func TestSessionCapIsAppliedBeforeRendering(t *testing.T) {
	cfg := config.DefaultGraphConfig()
	cfg.MaxRenderedSessions = 1
	f := newAdapterFixture(t, cfg)

	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))

	assert.Equal(t, []valueobjects.NodeID{"b"}, f.renderer.nodeIDs(), "b has more messages")
	assert.Empty(t, f.renderer.links)

	cfg2 := config.DefaultGraphConfig()
	require.NoError(t, f.adapter.SetConfig(cfg2))
	assert.Len(t, f.renderer.nodeIDs(), 2)
}

func TestToggleUnknownSession(t *testing.T) {
	f := newAdapterFixture(t, nil)
	require.NoError(t, f.adapter.Load(sampleSnapshot(t)))

	err := f.adapter.Toggle("idea-text-a-m1")
	assert.True(t, pkgerrors.IsNotFound(err))
}
