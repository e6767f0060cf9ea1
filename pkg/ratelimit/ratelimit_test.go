package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/futuresbot/pkg/sdk/binance"
)

func TestTokenBucketDrains(t *testing.T) {
	tb := NewTokenBucket(2, 1)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
	assert.Equal(t, 0, tb.Remaining())
}

func TestTokenBucketWaitHonorsContext(t *testing.T) {
	tb := NewTokenBucket(1, 0)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)
}

func TestSlidingWindow(t *testing.T) {
	sw := NewSlidingWindow(2, 50*time.Millisecond)
	assert.True(t, sw.Allow())
	assert.True(t, sw.Allow())
	assert.False(t, sw.Allow())
	assert.Equal(t, 0, sw.Remaining())

	require.NoError(t, sw.Wait(context.Background()))
	assert.Equal(t, 1, sw.Remaining())
}

func TestSlidingWindowWaitCancelled(t *testing.T) {
	sw := NewSlidingWindow(1, time.Hour)
	require.True(t, sw.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sw.Wait(ctx), context.Canceled)
}

func TestManagerRoutesEndpointKeys(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 300, m.Remaining(binance.LimitKeyOrder))
	assert.Equal(t, 1200, m.Remaining(binance.LimitKeyAccount))
	assert.Equal(t, 2400, m.Remaining("fapi:unknown"))
	assert.Same(t, m.Limiter(KeyGeneral), m.Limiter("fapi:unknown"))

	one := NewSlidingWindow(1, time.Hour)
	m.Set(binance.LimitKeyOrder, one)
	require.NoError(t, m.Wait(context.Background(), binance.LimitKeyOrder))
	assert.False(t, m.Allow(binance.LimitKeyOrder))
	assert.Equal(t, 1200, m.Remaining(binance.LimitKeyAccount))
}

func TestManagerSatisfiesClientLimiter(t *testing.T) {
	var _ binance.Limiter = NewManager()
}
