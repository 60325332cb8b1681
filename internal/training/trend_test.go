package training

import (
	"testing"
	"time"

	"fitmind/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeTrend_Kinds(t *testing.T) {
	tests := []struct {
		name    string
		goal    models.Goal
		initial float64
		current float64
		want    TrendKind
	}{
		{"loss excellent", models.GoalWeightLoss, 80, 78, TrendExcellent},
		{"loss good", models.GoalWeightLoss, 80, 79, TrendGood},
		{"loss stable", models.GoalWeightLoss, 80, 79.8, TrendStable},
		{"loss stable unchanged", models.GoalWeightLoss, 80, 80, TrendStable},
		{"loss regress", models.GoalWeightLoss, 80, 81, TrendRegress},
		{"gain excellent", models.GoalMuscleGain, 60, 62, TrendExcellent},
		{"gain good", models.GoalMuscleGain, 60, 61, TrendGood},
		{"gain stable", models.GoalMuscleGain, 60, 60, TrendStable},
		{"gain regress", models.GoalMuscleGain, 60, 59, TrendRegress},
		{"maintenance on track", models.GoalMaintenance, 70, 70.8, TrendOnTrack},
		{"maintenance minor drift", models.GoalMaintenance, 70, 68.5, TrendMinorDrift},
		{"maintenance major drift", models.GoalMaintenance, 70, 73, TrendMajorDrift},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := []models.WeightLogEntry{
				weightLog(tt.initial, testNow.Add(-48*time.Hour)),
				weightLog(tt.current, testNow),
			}
			got := AnalyzeTrend(tt.goal, logs, nil)
			assert.Equal(t, tt.want, got.Kind)
			assert.InDelta(t, tt.current-tt.initial, got.Diff, 1e-9)
			assert.NotEmpty(t, got.Analysis)
			assert.NotEmpty(t, got.Recommendation)
		})
	}
}

func TestAnalyzeTrend_NoData(t *testing.T) {
	got := AnalyzeTrend(models.GoalWeightLoss, nil, nil)
	assert.Equal(t, TrendNoData, got.Kind)
	assert.Equal(t, NoDataMessage, got.Narrative())
}

func TestAnalyzeTrend_Consistency(t *testing.T) {
	logs := []models.WeightLogEntry{weightLog(80, testNow)}
	workoutsOn := func(days ...int) []models.WorkoutLogEntry {
		var out []models.WorkoutLogEntry
		for _, d := range days {
			day := date(2026, 3, d)
			out = append(out, models.WorkoutLogEntry{UserID: 1, CompletedAt: day, Day: day})
		}
		return out
	}

	tests := []struct {
		name     string
		workouts []models.WorkoutLogEntry
		want     float64
		note     string
	}{
		{"every day", workoutsOn(1, 2, 3, 4, 5), 1, "очень регулярно"},
		{"every other day", workoutsOn(1, 3, 5), 0.6, "Хорошая регулярность"},
		{"rare", workoutsOn(1, 10), 0.2, "низкая"},
		{"single workout", workoutsOn(4), 0, "низкая"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeTrend(models.GoalWeightLoss, logs, tt.workouts)
			assert.InDelta(t, tt.want, got.Consistency, 1e-9)
			assert.Contains(t, got.ConsistencyNote, tt.note)
			assert.Contains(t, got.Narrative(), "Тренировок выполнено")
		})
	}
}

func TestTrend_NarrativeWithoutWorkouts(t *testing.T) {
	logs := []models.WeightLogEntry{weightLog(80, testNow.Add(-time.Hour)), weightLog(78, testNow)}
	got := AnalyzeTrend(models.GoalWeightLoss, logs, nil)
	assert.Equal(t, "Отличный прогресс! Вы похудели на 2.0 кг.", got.Narrative())
}
