package training

import (
	"sort"
	"time"

	"fitmind/internal/models"
)

// StreakState состояние дневного цикла тренировок
type StreakState string

const (
	StateNoHistory   StreakState = "no_history"
	StateDayPending  StreakState = "day_pending"  // тренировка сегодня отмечена, день не закрыт
	StateDayAdvanced StreakState = "day_advanced" // готов к следующей тренировке
)

// Streak снимок полей профиля, которыми управляет трекер серии
type Streak struct {
	Count           int
	LastWorkoutDate *time.Time
	DayAdvancedOn   *time.Time
}

// StreakOf извлекает снимок серии из профиля
func StreakOf(p *models.UserProfile) Streak {
	return Streak{
		Count:           p.WorkoutStreak,
		LastWorkoutDate: p.LastWorkoutDate,
		DayAdvancedOn:   p.DayAdvancedOn,
	}
}

// Apply записывает снимок обратно в профиль
func (s Streak) Apply(p *models.UserProfile) {
	p.WorkoutStreak = s.Count
	p.LastWorkoutDate = s.LastWorkoutDate
	p.DayAdvancedOn = s.DayAdvancedOn
}

// State возвращает состояние на календарную дату today
func (s Streak) State(today time.Time) StreakState {
	if s.LastWorkoutDate == nil {
		return StateNoHistory
	}
	if SameDay(*s.LastWorkoutDate, today) && (s.DayAdvancedOn == nil || !SameDay(*s.DayAdvancedOn, today)) {
		return StateDayPending
	}
	return StateDayAdvanced
}

// Complete отмечает тренировку за today.
// Вчерашняя тренировка продолжает серию, пропуск или первая тренировка начинают её заново.
// Дата последней тренировки из будущего считается аномалией: серия не уменьшается.
func (s Streak) Complete(today time.Time) (Streak, error) {
	next := s
	switch {
	case s.LastWorkoutDate == nil:
		next.Count = 1
	default:
		switch delta := DaysBetween(*s.LastWorkoutDate, today); {
		case delta == 0:
			return s, ErrAlreadyCompleted
		case delta == 1:
			next.Count = s.Count + 1
		case delta > 1:
			next.Count = 1
		default:
			next.Count = max(s.Count, 1)
		}
	}
	day := today
	next.LastWorkoutDate = &day
	return next, nil
}

// Advance закрывает текущий день. Серию не меняет: она растёт только в Complete.
func (s Streak) Advance(today time.Time) (Streak, error) {
	switch s.State(today) {
	case StateDayPending:
	case StateNoHistory:
		return s, ErrDayNotCompleted
	default:
		if s.DayAdvancedOn != nil && SameDay(*s.DayAdvancedOn, today) {
			return s, ErrDayAlreadyAdvanced
		}
		return s, ErrDayNotCompleted
	}
	next := s
	day := today
	next.DayAdvancedOn = &day
	return next, nil
}

// Sync подтягивает снимок к журналу тренировок, если в журнале есть день новее
// LastWorkoutDate. Второе значение сообщает, что снимок изменился.
func (s Streak) Sync(logs []models.WorkoutLogEntry) (Streak, bool) {
	if len(logs) == 0 {
		return s, false
	}
	last := logs[0].Day
	for _, entry := range logs[1:] {
		if DaysBetween(last, entry.Day) > 0 {
			last = entry.Day
		}
	}
	if s.LastWorkoutDate != nil && DaysBetween(*s.LastWorkoutDate, last) <= 0 {
		return s, false
	}
	next := s
	next.Count = DeriveStreak(logs)
	next.LastWorkoutDate = &last
	return next, true
}

// DeriveStreak восстанавливает счётчик серии по журналу тренировок:
// длина последней непрерывной цепочки дней
func DeriveStreak(logs []models.WorkoutLogEntry) int {
	if len(logs) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(logs))
	for _, entry := range logs {
		days = append(days, entry.Day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		delta := DaysBetween(days[i-1], days[i])
		if delta == 0 {
			continue
		}
		if delta != 1 {
			break
		}
		streak++
	}
	return streak
}
