package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	"thoughtgraph/domain/settings"
	pkgerrors "thoughtgraph/pkg/errors"
	"thoughtgraph/pkg/observability"
)

// SettingsListener is called with the settings in effect after each change
type SettingsListener func(settings.DisplaySettings)

// SettingsService loads, updates and persists the display settings
type SettingsService struct {
	store   ports.SettingsStore
	logger  *zap.Logger
	metrics *observability.Collector

	// updateMu serializes load and update so each change starts from the last
	updateMu  sync.Mutex
	mu        sync.RWMutex
	current   settings.DisplaySettings
	listeners []SettingsListener
}

// NewSettingsService creates a settings service starting from the defaults
func NewSettingsService(store ports.SettingsStore, logger *zap.Logger, metrics *observability.Collector) *SettingsService {
	return &SettingsService{
		store:   store,
		logger:  logger,
		metrics: metrics,
		current: settings.Defaults(),
	}
}

// Subscribe registers a listener for settings changes
func (s *SettingsService) Subscribe(fn SettingsListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current returns a copy of the settings in effect
func (s *SettingsService) Current() settings.DisplaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Load reads the stored settings. It never fails: anything that cannot be
// read or used is logged and replaced by its default.
func (s *SettingsService) Load(ctx context.Context) settings.DisplaySettings {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	loaded := settings.Defaults()

	data, err := s.store.Get(ctx)
	switch {
	case err == nil:
		var fallbacks []settings.Fallback
		loaded, fallbacks = settings.Decode(data)
		for _, f := range fallbacks {
			reason := "invalid"
			if f.Field == "*" {
				reason = "corrupt"
			}
			s.metrics.RecordSettingsFallback(reason)
			s.logger.Warn("stored setting replaced by default",
				zap.String("field", f.Field),
				zap.String("reason", f.Reason),
			)
		}
	case pkgerrors.IsNotFound(err):
		s.logger.Debug("no stored settings, using defaults")
	default:
		s.metrics.RecordSettingsFallback("store_error")
		s.logger.Warn("failed to read stored settings, using defaults", zap.Error(err))
	}

	s.apply(loaded)
	return loaded.Clone()
}

// Update applies fn to a copy of the current settings, validates and persists
// the result, then notifies listeners. Invalid settings are rejected with a
// validation error and nothing changes. Updates run one at a time.
func (s *SettingsService) Update(ctx context.Context, fn func(*settings.DisplaySettings) error) (settings.DisplaySettings, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	next := s.Current()
	if err := fn(&next); err != nil {
		return s.Current(), err
	}
	if err := next.Validate(); err != nil {
		return s.Current(), err
	}
	if err := s.persist(ctx, next); err != nil {
		return s.Current(), err
	}

	s.apply(next)
	s.logger.Info("display settings updated")
	return next.Clone(), nil
}

// Reset stores and applies the defaults
func (s *SettingsService) Reset(ctx context.Context) (settings.DisplaySettings, error) {
	return s.Update(ctx, func(d *settings.DisplaySettings) error {
		*d = settings.Defaults()
		return nil
	})
}

func (s *SettingsService) persist(ctx context.Context, value settings.DisplaySettings) error {
	data, err := settings.Encode(value)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode settings").WithCause(err)
	}
	if err := s.store.Put(ctx, data); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

func (s *SettingsService) apply(value settings.DisplaySettings) {
	s.mu.Lock()
	s.current = value.Clone()
	listeners := make([]SettingsListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(value.Clone())
	}
}
