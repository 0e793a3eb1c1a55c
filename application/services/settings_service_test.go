package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"thoughtgraph/domain/settings"
	pkgerrors "thoughtgraph/pkg/errors"
	"thoughtgraph/pkg/observability"
)

type fakeSettingsStore struct {
	data   []byte
	getErr error
	putErr error
	puts   int
}

func (f *fakeSettingsStore) Get(context.Context) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.data == nil {
		return nil, pkgerrors.NewNotFoundError("settings")
	}
	return f.data, nil
}

func (f *fakeSettingsStore) Put(_ context.Context, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.data = append([]byte(nil), data...)
	f.puts++
	return nil
}

// slowSettingsStore widens the window between reading and persisting
type slowSettingsStore struct {
	mu   sync.Mutex
	data []byte
}

func (s *slowSettingsStore) Get(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, pkgerrors.NewNotFoundError("settings")
	}
	return append([]byte(nil), s.data...), nil
}

func (s *slowSettingsStore) Put(_ context.Context, data []byte) error {
	time.Sleep(time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

func TestSettingsLoad(t *testing.T) {
	tests := []struct {
		name      string
		store     *fakeSettingsStore
		want      func(t *testing.T, s settings.DisplaySettings)
		wantWarns int
	}{
		{
			name:  "nothing stored",
			store: &fakeSettingsStore{},
			want:  func(t *testing.T, s settings.DisplaySettings) { assert.Equal(t, settings.Defaults(), s) },
		},
		{
			name:      "corrupt",
			store:     &fakeSettingsStore{data: []byte("{{{")},
			want:      func(t *testing.T, s settings.DisplaySettings) { assert.Equal(t, settings.Defaults(), s) },
			wantWarns: 1,
		},
		{
			name:      "store failure",
			store:     &fakeSettingsStore{getErr: errors.New("disk on fire")},
			want:      func(t *testing.T, s settings.DisplaySettings) { assert.Equal(t, settings.Defaults(), s) },
			wantWarns: 1,
		},
		{
			name:  "partial",
			store: &fakeSettingsStore{data: []byte(`{"linkWidth": 4, "forceRepel": 900}`)},
			want: func(t *testing.T, s settings.DisplaySettings) {
				assert.Equal(t, 4.0, s.LinkWidth)
				assert.Equal(t, settings.Defaults().ForceRepel, s.ForceRepel)
			},
			wantWarns: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			svc := NewSettingsService(tt.store, zap.New(core), observability.NewCollector("test"))

			got := svc.Load(context.Background())

			tt.want(t, got)
			assert.Equal(t, got, svc.Current())
			assert.Equal(t, tt.wantWarns, logs.Len())
		})
	}
}

func TestSettingsLoadCountsFallbacks(t *testing.T) {
	metrics := observability.NewCollector("test")
	svc := NewSettingsService(&fakeSettingsStore{data: []byte("nope")}, zap.NewNop(), metrics)

	svc.Load(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SettingsFallbacks.WithLabelValues("corrupt")))
}

func TestSettingsLoadCountsEachMistypedField(t *testing.T) {
	metrics := observability.NewCollector("test")
	store := &fakeSettingsStore{data: []byte(`{"linkWidth": "wide", "forceRepel": "lots", "orbitSpeed": 6}`)}
	svc := NewSettingsService(store, zap.NewNop(), metrics)

	loaded := svc.Load(context.Background())

	assert.Equal(t, 6.0, loaded.OrbitSpeed)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.SettingsFallbacks.WithLabelValues("invalid")))
}

func TestSettingsUpdateRoundTrips(t *testing.T) {
	store := &fakeSettingsStore{}
	svc := NewSettingsService(store, zap.NewNop(), nil)

	var notified []settings.DisplaySettings
	svc.Subscribe(func(s settings.DisplaySettings) { notified = append(notified, s) })

	updated, err := svc.Update(context.Background(), func(s *settings.DisplaySettings) error {
		s.MessageColor = "#222222"
		s.TagOverrides["work"] = "#ff00ff"
		s.ForceDistance = 12
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.puts)
	require.Len(t, notified, 1)
	assert.Equal(t, updated, notified[0])

	reloaded := NewSettingsService(store, zap.NewNop(), nil).Load(context.Background())
	assert.Equal(t, updated, reloaded)
}

func TestSettingsUpdateRejectsInvalid(t *testing.T) {
	store := &fakeSettingsStore{}
	svc := NewSettingsService(store, zap.NewNop(), nil)

	_, err := svc.Update(context.Background(), func(s *settings.DisplaySettings) error {
		s.LinkWidth = 99
		return nil
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Zero(t, store.puts)
	assert.Equal(t, settings.Defaults(), svc.Current())
}

func TestSettingsUpdateStoreFailure(t *testing.T) {
	store := &fakeSettingsStore{putErr: errors.New("read-only")}
	svc := NewSettingsService(store, zap.NewNop(), nil)
	notified := 0
	svc.Subscribe(func(settings.DisplaySettings) { notified++ })

	_, err := svc.Update(context.Background(), func(s *settings.DisplaySettings) error {
		s.OrbitSpeed = 10
		return nil
	})

	require.Error(t, err)
	assert.Zero(t, notified)
	assert.Equal(t, settings.Defaults().OrbitSpeed, svc.Current().OrbitSpeed)
}

func TestSettingsCurrentIsACopy(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsStore{}, zap.NewNop(), nil)

	c := svc.Current()
	c.TagOverrides["x"] = "#000000"

	assert.Empty(t, svc.Current().TagOverrides)
}

func TestSettingsConcurrentUpdatesAreNotLost(t *testing.T) {
	const writers = 50
	store := &slowSettingsStore{}
	svc := NewSettingsService(store, zap.NewNop(), nil)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Update(context.Background(), func(s *settings.DisplaySettings) error {
				return s.SetField(fmt.Sprintf("tagOverrides.t%d", i), "#00ff00")
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, svc.Current().TagOverrides, writers)

	persisted := NewSettingsService(store, zap.NewNop(), nil).Load(context.Background())
	assert.Equal(t, svc.Current(), persisted)
}
