package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func mustPlan(t *testing.T, owner int64, days []string, hour, minute int) []Trigger {
	t.Helper()
	triggers, err := Plan(owner, days, hour, minute)
	require.NoError(t, err)
	return triggers
}

func TestScheduler_ReplaceLeavesOnlyNewTriggers(t *testing.T) {
	s := NewScheduler(nil, nil, zaptest.NewLogger(t))

	require.NoError(t, s.Replace(5, mustPlan(t, 5, []string{"mon", "wed", "fri"}, 18, 0)))
	require.Len(t, s.Triggers(5), 6)

	require.NoError(t, s.Replace(5, mustPlan(t, 5, []string{"tue"}, 9, 0)))

	got := s.Triggers(5)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"training_5_tue", "weight_5_tue"}, triggerIDs(got))
	assert.Equal(t, 9, got[0].Hour)
	assert.Equal(t, 8, got[1].Hour)

	s.mu.Lock()
	entries := s.owners[5].cron.Entries()
	s.mu.Unlock()
	assert.Len(t, entries, 2, "old cron entries must not survive the replacement")
}

func TestScheduler_ReplaceIsolatesOwners(t *testing.T) {
	s := NewScheduler(nil, nil, zaptest.NewLogger(t))

	require.NoError(t, s.Replace(1, mustPlan(t, 1, []string{"mon"}, 10, 0)))
	require.NoError(t, s.Replace(2, mustPlan(t, 2, []string{"sat", "sun"}, 11, 0)))
	require.NoError(t, s.Replace(1, mustPlan(t, 1, []string{"tue"}, 12, 0)))

	assert.Len(t, s.Triggers(1), 2)
	assert.Len(t, s.Triggers(2), 4)
}

func TestScheduler_FailedReplaceKeepsPrevious(t *testing.T) {
	s := NewScheduler(nil, nil, zaptest.NewLogger(t))
	require.NoError(t, s.Replace(3, mustPlan(t, 3, []string{"mon"}, 18, 0)))

	bad := mustPlan(t, 3, []string{"tue", "thu"}, 9, 0)
	bad[3].Hour = 99 // cron отклонит это выражение

	err := s.Replace(3, bad)
	require.Error(t, err)
	assert.Equal(t, []string{"training_3_mon", "weight_3_mon"}, triggerIDs(s.Triggers(3)))

	foreign := mustPlan(t, 4, []string{"tue"}, 9, 0)
	require.Error(t, s.Replace(3, foreign))
	assert.Len(t, s.Triggers(3), 2)
}

func TestScheduler_Remove(t *testing.T) {
	s := NewScheduler(nil, nil, zaptest.NewLogger(t))
	require.NoError(t, s.Replace(9, mustPlan(t, 9, []string{"daily"}, 8, 0)))

	s.Remove(9)
	assert.Empty(t, s.Triggers(9))
	s.Remove(9)
}

func TestScheduler_FiresHandler(t *testing.T) {
	var fired []Trigger
	s := NewScheduler(nil, func(tr Trigger) { fired = append(fired, tr) }, zaptest.NewLogger(t))
	require.NoError(t, s.Replace(11, mustPlan(t, 11, []string{"fri"}, 20, 0)))

	s.mu.Lock()
	entries := s.owners[11].cron.Entries()
	s.mu.Unlock()
	require.Len(t, entries, 2)

	for _, e := range entries {
		e.Job.Run()
	}
	require.Len(t, fired, 2)
	assert.ElementsMatch(t, []Kind{KindTraining, KindWeight}, []Kind{fired[0].Kind, fired[1].Kind})
	assert.Equal(t, int64(11), fired[0].Owner)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(nil, nil, zaptest.NewLogger(t))
	require.NoError(t, s.Replace(1, mustPlan(t, 1, []string{"mon"}, 10, 0)))

	s.Start()
	s.Start()
	require.NoError(t, s.Replace(1, mustPlan(t, 1, []string{"wed"}, 10, 0)))
	require.NoError(t, s.Replace(2, mustPlan(t, 2, []string{"thu"}, 10, 0)))
	s.Stop()
	s.Stop()

	assert.Len(t, s.Triggers(1), 2)
	assert.Len(t, s.Triggers(2), 2)
}
