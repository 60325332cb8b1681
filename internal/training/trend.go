package training

import (
	"fmt"
	"math"

	"fitmind/internal/models"
)

// TrendKind классификация динамики веса относительно цели
type TrendKind string

const (
	TrendNoData     TrendKind = "no_data"
	TrendExcellent  TrendKind = "excellent"
	TrendGood       TrendKind = "good"
	TrendStable     TrendKind = "stable"
	TrendRegress    TrendKind = "regress"
	TrendOnTrack    TrendKind = "on_track"
	TrendMinorDrift TrendKind = "minor_drift"
	TrendMajorDrift TrendKind = "major_drift"
)

// NoDataMessage ответ при пустой истории взвешиваний
const NoDataMessage = "Пока недостаточно данных для анализа. Продолжайте тренировки и обновляйте вес регулярно!"

// Trend результат анализа прогресса
type Trend struct {
	Kind            TrendKind
	Goal            models.Goal
	InitialWeight   float64
	CurrentWeight   float64
	Diff            float64
	Analysis        string
	Recommendation  string
	Workouts        int
	Consistency     float64
	ConsistencyNote string
}

// AnalyzeTrend классифицирует динамику веса (первая запись против последней)
// и регулярность тренировок
func AnalyzeTrend(goal models.Goal, weights []models.WeightLogEntry, workouts []models.WorkoutLogEntry) Trend {
	if len(weights) == 0 {
		return Trend{Kind: TrendNoData, Goal: goal, Analysis: NoDataMessage}
	}

	t := Trend{
		Goal:          goal,
		InitialWeight: weights[0].Weight,
		CurrentWeight: weights[len(weights)-1].Weight,
	}
	t.Diff = t.CurrentWeight - t.InitialWeight
	diff := t.Diff

	switch goal {
	case models.GoalWeightLoss:
		switch {
		case diff < -1.5:
			t.Kind = TrendExcellent
			t.Analysis = fmt.Sprintf("Отличный прогресс! Вы похудели на %.1f кг.", math.Abs(diff))
			t.Recommendation = "Продолжайте текущий режим. Можете немного увеличить кардио-нагрузку."
		case diff < -0.5:
			t.Kind = TrendGood
			t.Analysis = fmt.Sprintf("Хороший результат! Потеря веса: %.1f кг.", math.Abs(diff))
			t.Recommendation = "Увеличьте интенсивность тренировок на 10%."
		case diff <= 0:
			t.Kind = TrendStable
			t.Analysis = "Вес стабилизировался."
			t.Recommendation = "Пересмотрите питание и добавьте интервальные тренировки."
		default:
			t.Kind = TrendRegress
			t.Analysis = fmt.Sprintf("Вес увеличился на %.1f кг.", diff)
			t.Recommendation = "Срочно пересмотрите калорийность питания и увеличьте кардио."
		}

	case models.GoalMuscleGain:
		switch {
		case diff > 1.5:
			t.Kind = TrendExcellent
			t.Analysis = fmt.Sprintf("Отличный результат! Набор веса: %.1f кг.", diff)
			t.Recommendation = "Скорее всего, это мышечная масса. Продолжайте силовые тренировки."
		case diff > 0.5:
			t.Kind = TrendGood
			t.Analysis = fmt.Sprintf("Хороший прогресс! Набор: %.1f кг.", diff)
			t.Recommendation = "Увеличьте потребление белка до 2г на кг веса."
		case diff >= 0:
			t.Kind = TrendStable
			t.Analysis = "Вес стабилен."
			t.Recommendation = "Увеличьте калорийность на 200-300 ккал в день."
		default:
			t.Kind = TrendRegress
			t.Analysis = fmt.Sprintf("Потеря веса: %.1f кг.", math.Abs(diff))
			t.Recommendation = "Срочно увеличьте калорийность и потребление белка."
		}

	default:
		switch {
		case math.Abs(diff) <= 1:
			t.Kind = TrendOnTrack
			t.Analysis = "Отлично! Вы успешно поддерживаете форму."
			t.Recommendation = "Продолжайте текущий режим тренировок и питания."
		case math.Abs(diff) <= 2:
			t.Kind = TrendMinorDrift
			t.Analysis = fmt.Sprintf("Небольшое изменение веса: %.1f кг.", diff)
			t.Recommendation = "Скорректируйте питание на 100-200 ккал."
		default:
			t.Kind = TrendMajorDrift
			t.Analysis = fmt.Sprintf("Значительное изменение веса: %.1f кг.", diff)
			t.Recommendation = "Пересмотрите полностью свой режим тренировок и питания."
		}
	}

	t.Workouts = len(workouts)
	if len(workouts) > 1 {
		first, last := workouts[0].Day, workouts[0].Day
		for _, w := range workouts[1:] {
			if w.Day.Before(first) {
				first = w.Day
			}
			if w.Day.After(last) {
				last = w.Day
			}
		}
		activeDays := DaysBetween(first, last) + 1
		t.Consistency = float64(len(workouts)) / float64(max(activeDays, 1))
	}

	if t.Workouts > 0 {
		switch {
		case t.Consistency >= 0.8:
			t.ConsistencyNote = "Вы тренируетесь очень регулярно! Это отличная привычка."
		case t.Consistency >= 0.5:
			t.ConsistencyNote = "Хорошая регулярность тренировок. Можно улучшить."
		default:
			t.ConsistencyNote = "Регулярность тренировок низкая. Старайтесь заниматься чаще."
		}
	}

	return t
}

// Narrative текстовое описание прогресса для пользователя и для промптов
func (t Trend) Narrative() string {
	if t.Kind == TrendNoData {
		return t.Analysis
	}
	text := t.Analysis
	if t.Workouts > 0 {
		text += fmt.Sprintf("\n\nТренировок выполнено: %d. %s", t.Workouts, t.ConsistencyNote)
	}
	return text
}
