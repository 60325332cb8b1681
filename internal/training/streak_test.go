package training

import (
	"testing"
	"time"

	"fitmind/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestStreak_Complete(t *testing.T) {
	today := date(2026, 3, 10)

	tests := []struct {
		name    string
		state   Streak
		day     time.Time
		want    int
		wantErr error
	}{
		{"first workout", Streak{}, today, 1, nil},
		{"yesterday continues", Streak{Count: 4, LastWorkoutDate: datePtr(date(2026, 3, 9))}, today, 5, nil},
		{"gap resets", Streak{Count: 4, LastWorkoutDate: datePtr(date(2026, 3, 5))}, today, 1, nil},
		{"same day rejected", Streak{Count: 4, LastWorkoutDate: datePtr(today)}, today, 4, ErrAlreadyCompleted},
		{"future date holds", Streak{Count: 4, LastWorkoutDate: datePtr(date(2026, 3, 12))}, today, 4, nil},
		{"future date with zero streak", Streak{LastWorkoutDate: datePtr(date(2026, 3, 12))}, today, 1, nil},
		{"month boundary", Streak{Count: 2, LastWorkoutDate: datePtr(date(2026, 2, 28))}, date(2026, 3, 1), 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.state.Complete(tt.day)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.state, got, "rejected completion must not change state")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Count)
			require.NotNil(t, got.LastWorkoutDate)
			assert.True(t, SameDay(*got.LastWorkoutDate, tt.day))
		})
	}
}

func TestStreak_TwiceSameDay(t *testing.T) {
	day := date(2026, 3, 10)

	s, err := Streak{}.Complete(day)
	require.NoError(t, err)

	again, err := s.Complete(day)
	require.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Equal(t, 1, again.Count)
	assert.Equal(t, s.LastWorkoutDate, again.LastWorkoutDate)
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	d := date(2026, 3, 10)

	var s Streak
	var err error
	for i := 0; i < 3; i++ {
		s, err = s.Complete(d.AddDate(0, 0, i))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Count)

	s, err = s.Complete(d.AddDate(0, 0, 2+5))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)
}

func TestStreak_GapResets(t *testing.T) {
	d := date(2026, 3, 10)

	s, err := Streak{}.Complete(d)
	require.NoError(t, err)
	s, err = s.Complete(d.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)
}

func TestStreak_State(t *testing.T) {
	today := date(2026, 3, 10)

	assert.Equal(t, StateNoHistory, Streak{}.State(today))
	assert.Equal(t, StateDayPending, Streak{Count: 1, LastWorkoutDate: datePtr(today)}.State(today))
	assert.Equal(t, StateDayAdvanced, Streak{Count: 1, LastWorkoutDate: datePtr(today), DayAdvancedOn: datePtr(today)}.State(today))
	assert.Equal(t, StateDayAdvanced, Streak{Count: 1, LastWorkoutDate: datePtr(date(2026, 3, 9))}.State(today))
	// закрытие вчерашнего дня не мешает сегодняшней тренировке
	assert.Equal(t, StateDayPending, Streak{Count: 2, LastWorkoutDate: datePtr(today), DayAdvancedOn: datePtr(date(2026, 3, 9))}.State(today))
}

func TestStreak_Advance(t *testing.T) {
	today := date(2026, 3, 10)

	t.Run("requires workout", func(t *testing.T) {
		_, err := Streak{}.Advance(today)
		assert.ErrorIs(t, err, ErrDayNotCompleted)

		_, err = Streak{Count: 3, LastWorkoutDate: datePtr(date(2026, 3, 9))}.Advance(today)
		assert.ErrorIs(t, err, ErrDayNotCompleted)
	})

	t.Run("single increment per day", func(t *testing.T) {
		s, err := Streak{Count: 2, LastWorkoutDate: datePtr(date(2026, 3, 9))}.Complete(today)
		require.NoError(t, err)
		require.Equal(t, 3, s.Count)

		s, err = s.Advance(today)
		require.NoError(t, err)
		assert.Equal(t, 3, s.Count, "advancing the day must not touch the streak")
		assert.Equal(t, StateDayAdvanced, s.State(today))

		_, err = s.Advance(today)
		assert.ErrorIs(t, err, ErrDayAlreadyAdvanced)
	})
}

func TestStreak_ApplyRoundTrip(t *testing.T) {
	p := &models.UserProfile{WorkoutStreak: 5, LastWorkoutDate: datePtr(date(2026, 3, 9))}
	s, err := StreakOf(p).Complete(date(2026, 3, 10))
	require.NoError(t, err)
	s.Apply(p)

	assert.Equal(t, 6, p.WorkoutStreak)
	assert.True(t, SameDay(*p.LastWorkoutDate, date(2026, 3, 10)))
}

func TestDeriveStreak(t *testing.T) {
	logOn := func(days ...time.Time) []models.WorkoutLogEntry {
		var logs []models.WorkoutLogEntry
		for _, d := range days {
			logs = append(logs, models.WorkoutLogEntry{UserID: 1, CompletedAt: d.Add(18 * time.Hour), Day: d})
		}
		return logs
	}

	tests := []struct {
		name string
		logs []models.WorkoutLogEntry
		want int
	}{
		{"empty", nil, 0},
		{"single", logOn(date(2026, 3, 1)), 1},
		{"three consecutive", logOn(date(2026, 3, 1), date(2026, 3, 2), date(2026, 3, 3)), 3},
		{"gap resets", logOn(date(2026, 3, 1), date(2026, 3, 2), date(2026, 3, 7)), 1},
		{"unordered", logOn(date(2026, 3, 3), date(2026, 3, 1), date(2026, 3, 2)), 3},
		{"run after gap", logOn(date(2026, 2, 20), date(2026, 3, 1), date(2026, 3, 2)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStreak(tt.logs))
		})
	}
}

func TestDeriveStreak_MatchesStateMachine(t *testing.T) {
	days := []time.Time{
		date(2026, 1, 1), date(2026, 1, 2), date(2026, 1, 5),
		date(2026, 1, 6), date(2026, 1, 7), date(2026, 1, 8),
	}

	var s Streak
	var logs []models.WorkoutLogEntry
	for _, d := range days {
		var err error
		s, err = s.Complete(d)
		require.NoError(t, err)
		logs = append(logs, models.WorkoutLogEntry{UserID: 1, CompletedAt: d, Day: d})
		assert.Equal(t, s.Count, DeriveStreak(logs), "day %s", d.Format("2006-01-02"))
	}
}

func TestStreak_Sync(t *testing.T) {
	logs := []models.WorkoutLogEntry{
		{UserID: 1, Day: date(2026, 3, 9)},
		{UserID: 1, Day: date(2026, 3, 10)},
	}

	tests := []struct {
		name        string
		state       Streak
		logs        []models.WorkoutLogEntry
		wantCount   int
		wantLast    *time.Time
		wantChanged bool
	}{
		{"empty log", Streak{Count: 2, LastWorkoutDate: datePtr(date(2026, 3, 9))}, nil, 2, datePtr(date(2026, 3, 9)), false},
		{"profile behind log", Streak{Count: 1, LastWorkoutDate: datePtr(date(2026, 3, 9))}, logs, 2, datePtr(date(2026, 3, 10)), true},
		{"no profile history", Streak{}, logs, 2, datePtr(date(2026, 3, 10)), true},
		{"in sync", Streak{Count: 2, LastWorkoutDate: datePtr(date(2026, 3, 10))}, logs, 2, datePtr(date(2026, 3, 10)), false},
		{"profile ahead keeps state", Streak{Count: 5, LastWorkoutDate: datePtr(date(2026, 3, 12))}, logs, 5, datePtr(date(2026, 3, 12)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.state.Sync(tt.logs)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantCount, got.Count)
			require.NotNil(t, got.LastWorkoutDate)
			assert.True(t, SameDay(*tt.wantLast, *got.LastWorkoutDate), "last workout %s", got.LastWorkoutDate)
		})
	}
}
