package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"thoughtgraph/infrastructure/config"
	pkgerrors "thoughtgraph/pkg/errors"
)

func testBreakerConfig() config.CircuitBreaker {
	return config.CircuitBreaker{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	}
}

func TestBreakerPassesResults(t *testing.T) {
	b := NewBreaker("test", testBreakerConfig(), zap.NewNop())

	data, err := b.Do(func() ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	b := NewBreaker("test", testBreakerConfig(), zap.NewNop())
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_, err := b.Do(func() ([]byte, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", b.State())

	called := false
	_, err := b.Do(func() ([]byte, error) {
		called = true
		return nil, nil
	})
	assert.False(t, called)
	assert.True(t, pkgerrors.IsUnavailable(err))
}

func TestBreakerIgnoresNotFound(t *testing.T) {
	b := NewBreaker("test", testBreakerConfig(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := b.Do(func() ([]byte, error) { return nil, pkgerrors.NewNotFoundError("key") })
		assert.True(t, pkgerrors.IsNotFound(err))
	}
	assert.Equal(t, "closed", b.State())
}
