package queue

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-rewards-backend/internal/config"
	"recycle-rewards-backend/internal/shared"
)

func TestEntriesUseConfiguredSchedules(t *testing.T) {
	s := &Scheduler{jobConfig: config.JobConfig{
		ReconcileCron:        "15 4 * * *",
		CleanupCron:          "0 1 * * 0",
		CleanupRetentionDays: 30,
	}}

	entries := s.entries()
	require.Len(t, entries, 2)

	byTask := map[string]periodicJob{}
	for _, e := range entries {
		_, err := cron.ParseStandard(e.cron)
		assert.NoError(t, err, e.name)
		byTask[e.task] = e
	}

	assert.Equal(t, "15 4 * * *", byTask[shared.TypeLedgerReconcile].cron)
	assert.Equal(t, shared.CleanupPayload{Days: 30}, byTask[shared.TypeCleanupOldNotifications].payload)
}
