package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindowLimiter(t *testing.T) {
	rl := NewFixedWindowLimiter(2, time.Hour)

	ok, _ := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.LessOrEqual(t, retry, time.Hour)
	assert.Greater(t, retry, 59*time.Minute)

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "other clients keep their own window")
}

func TestFixedWindowLimiterResets(t *testing.T) {
	rl := NewFixedWindowLimiter(1, 20*time.Millisecond)

	ok, _ := rl.Allow("client")
	require.True(t, ok)
	ok, _ = rl.Allow("client")
	require.False(t, ok)

	require.Eventually(t, func() bool {
		ok, _ := rl.Allow("client")
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestFixedWindowLimiterReportsTimeLeft(t *testing.T) {
	rl := NewFixedWindowLimiter(1, 200*time.Millisecond)

	ok, _ := rl.Allow("client")
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)

	ok, retry := rl.Allow("client")
	require.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, 100*time.Millisecond)
}
