package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerWait(t *testing.T) {
	t.Run("waits at least the minimum delay", func(t *testing.T) {
		p := NewPacer(20*time.Millisecond, 40*time.Millisecond)

		start := time.Now()
		err := p.Wait(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("equal bounds are allowed", func(t *testing.T) {
		p := NewPacer(time.Millisecond, time.Millisecond)
		require.NoError(t, p.Wait(context.Background()))
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		p := NewPacer(time.Hour, time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
