package cron

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewStatsSchedules(t *testing.T) {
	t.Run("flush runs every ten minutes", func(t *testing.T) {
		sched, err := cron.ParseStandard(viewFlushSpec)
		require.NoError(t, err)

		at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
		next := sched.Next(at)
		assert.Equal(t, 10*time.Minute, next.Sub(at))
	})

	t.Run("window recalculation runs at midnight", func(t *testing.T) {
		sched, err := cron.ParseStandard(viewWindowSpec)
		require.NoError(t, err)

		at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
		next := sched.Next(at)
		assert.Equal(t, 0, next.Hour())
		assert.Equal(t, 0, next.Minute())
		assert.Equal(t, 16, next.Day())
	})
}
