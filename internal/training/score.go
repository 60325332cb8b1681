package training

import (
	"math"
	"time"

	"fitmind/internal/models"
)

const (
	// MaxScore верхняя граница рейтинга
	MaxScore = 300
	// CompletionBonus бонус за каждую выполненную тренировку
	CompletionBonus = 10
)

// Score рассчитывает рейтинг по истории взвешиваний.
// Результат всегда в [0, MaxScore], пустая история даёт 0.
func Score(profile *models.UserProfile, logs []models.WeightLogEntry, now time.Time, loc *time.Location) int {
	score := 3 * len(logs)
	if len(logs) == 0 {
		return clampScore(score)
	}

	initial := profile.InitialWeight
	current := logs[len(logs)-1].Weight

	var kg float64
	switch profile.Goal {
	case models.GoalWeightLoss:
		kg = math.Max(0, initial-current)
	case models.GoalMuscleGain:
		kg = math.Max(0, current-initial)
	default:
		// для поддержания формы берётся число записей, а не килограммы
		kg = float64(min(12, len(logs)))
	}
	score += int(math.Min(100, math.Round(kg*8)))

	days := make(map[time.Time]struct{}, len(logs))
	earliest := logs[0].RecordedAt
	for _, entry := range logs {
		days[Day(entry.RecordedAt, loc)] = struct{}{}
		if entry.RecordedAt.Before(earliest) {
			earliest = entry.RecordedAt
		}
	}
	score += min(50, len(days)/3)

	elapsedDays := int(now.Sub(earliest).Hours() / 24)
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	months := elapsedDays / 30
	score += min(40, months*5)

	return clampScore(score)
}

// TotalScore складывает рейтинг по взвешиваниям с бонусом за тренировки
func TotalScore(profile *models.UserProfile, logs []models.WeightLogEntry, workouts int, now time.Time, loc *time.Location) int {
	return clampScore(Score(profile, logs, now, loc) + CompletionBonus*workouts)
}

func clampScore(score int) int {
	return min(MaxScore, max(0, score))
}
