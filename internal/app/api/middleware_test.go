package api

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(10, 20)
	rl.now = func() time.Time { return clock }
	rl.lastSweep = clock
	require.Equal(t, limiterIdleTTL, rl.idleTTL)

	for i := 0; i < 100; i++ {
		rl.limiter(fmt.Sprintf("10.0.0.%d", i))
	}
	require.Len(t, rl.clients, 100)

	clock = clock.Add(limiterIdleTTL / 2)
	active := rl.limiter("10.0.0.7")
	require.Len(t, rl.clients, 100)

	clock = clock.Add(limiterIdleTTL / 2)
	require.Same(t, active, rl.limiter("10.0.0.7"))
	require.Len(t, rl.clients, 1)
}

func TestRateLimiter_IdleTTLCoversRefill(t *testing.T) {
	rl := newRateLimiter(0.001, 1)
	require.InDelta(t, 1000, rl.idleTTL.Seconds(), 0.001)
}
