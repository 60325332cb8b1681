package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triggerIDs(triggers []Trigger) []string {
	ids := make([]string, 0, len(triggers))
	for _, t := range triggers {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestPlan(t *testing.T) {
	triggers, err := Plan(42, []string{"mon", "wed", "fri"}, 18, 0)
	require.NoError(t, err)
	require.Len(t, triggers, 6)

	assert.Equal(t, []string{
		"training_42_mon", "weight_42_mon",
		"training_42_wed", "weight_42_wed",
		"training_42_fri", "weight_42_fri",
	}, triggerIDs(triggers))

	for _, tr := range triggers {
		assert.Equal(t, int64(42), tr.Owner)
		switch tr.Kind {
		case KindTraining:
			assert.Equal(t, 18, tr.Hour)
		case KindWeight:
			assert.Equal(t, 17, tr.Hour)
		}
		assert.Equal(t, 0, tr.Minute)
	}
	assert.Equal(t, "0 0 18 * * 1", triggers[0].Spec())
	assert.Equal(t, "0 0 17 * * 5", triggers[5].Spec())
}

func TestPlan_WeightHourFloor(t *testing.T) {
	triggers, err := Plan(1, []string{"sun"}, 0, 30)
	require.NoError(t, err)
	require.Len(t, triggers, 2)

	assert.Equal(t, 0, triggers[0].Hour)
	assert.Equal(t, 0, triggers[1].Hour, "weight reminder must not wrap to the previous day")
	assert.Equal(t, time.Sunday, triggers[1].Weekday)
	assert.Equal(t, "0 30 0 * * 0", triggers[1].Spec())
}

func TestPlan_Daily(t *testing.T) {
	triggers, err := Plan(7, []string{"daily"}, 9, 15)
	require.NoError(t, err)
	assert.Len(t, triggers, 14)

	triggers, err = Plan(7, []string{"mon", "daily", "MON"}, 9, 15)
	require.NoError(t, err)
	assert.Len(t, triggers, 14, "duplicates are collapsed")
}

func TestPlan_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		days    []string
		hour    int
		minute  int
		wantErr error
	}{
		{"unknown day", []string{"mon", "funday"}, 18, 0, ErrInvalidDay},
		{"empty days", nil, 18, 0, ErrInvalidDay},
		{"empty token", []string{""}, 18, 0, ErrInvalidDay},
		{"hour too big", []string{"mon"}, 24, 0, ErrInvalidTime},
		{"negative hour", []string{"mon"}, -1, 0, ErrInvalidTime},
		{"minute too big", []string{"mon"}, 10, 60, ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triggers, err := Plan(1, tt.days, tt.hour, tt.minute)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Nil(t, triggers)
		})
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		input   string
		want    Request
		wantErr error
	}{
		{"mon,wed,fri 18:00", Request{Days: []string{"mon", "wed", "fri"}, Hour: 18}, nil},
		{"Fri, Mon 07:05", Request{Days: []string{"mon", "fri"}, Hour: 7, Minute: 5}, nil},
		{"daily 06:30", Request{Days: AllDays, Hour: 6, Minute: 30}, nil},
		{"auto 19:00", Request{Hour: 19, Auto: true}, nil},
		{"mon,xyz 18:00", Request{}, ErrInvalidDay},
		{"mon 25:00", Request{}, ErrInvalidTime},
		{"mon 18:75", Request{}, ErrInvalidTime},
		{"mon 1800", Request{}, ErrInvalidFormat},
		{"mon", Request{}, ErrInvalidFormat},
		{"mon aa:bb", Request{}, ErrInvalidFormat},
		{"", Request{}, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRequest(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStored(t *testing.T) {
	days, hour, minute, err := ParseStored(FormatDays([]string{"tue", "thu"}), FormatTime(8, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"tue", "thu"}, days)
	assert.Equal(t, 8, hour)
	assert.Equal(t, 5, minute)

	_, _, _, err = ParseStored("auto", "08:00")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestTrigger_SpecSchedule(t *testing.T) {
	triggers, err := Plan(1, []string{"tue"}, 9, 0)
	require.NoError(t, err)

	sched, err := cron.Parse(triggers[0].Spec())
	require.NoError(t, err)

	// понедельник 9 марта 2026
	from := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	assert.True(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Equal(sched.Next(from)), "next = %s", sched.Next(from))

	weight, err := cron.Parse(triggers[1].Spec())
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC).Equal(weight.Next(from)), "next = %s", weight.Next(from))
}
