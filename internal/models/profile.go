package models

import "time"

// Goal цель пользователя
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
)

// Title возвращает название цели для пользователя и промптов
func (g Goal) Title() string {
	switch g {
	case GoalWeightLoss:
		return "похудение"
	case GoalMuscleGain:
		return "набор мышечной массы"
	case GoalMaintenance:
		return "поддержание формы"
	default:
		return string(g)
	}
}

// Valid проверяет, что цель из известного набора
func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalMaintenance:
		return true
	}
	return false
}

// Level заявленный пользователем уровень подготовки
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Title возвращает название уровня
func (l Level) Title() string {
	switch l {
	case LevelBeginner:
		return "новичок"
	case LevelIntermediate:
		return "средний"
	case LevelAdvanced:
		return "продвинутый"
	default:
		return string(l)
	}
}

// Valid проверяет, что уровень из известного набора
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// CoachingMode определяет сложность генерируемого плана
type CoachingMode string

const (
	ModeLevel1 CoachingMode = "level1"
	ModeLevel2 CoachingMode = "level2"
	ModeLevel3 CoachingMode = "level3"
)

// UserProfile профиль пользователя
type UserProfile struct {
	UserID          int64
	Username        string
	FullName        string
	Height          int
	Weight          float64 // последний введённый вес
	InitialWeight   float64 // вес при регистрации, база для рейтинга
	Goal            Goal
	Level           Level
	CoachingMode    CoachingMode
	FitnessScore    int
	WorkoutStreak   int
	LastWorkoutDate *time.Time // календарная дата
	DayAdvancedOn   *time.Time // календарная дата перехода к следующему дню
	CurrentPlan     string
	LastExport      *time.Time
	RegisteredAt    time.Time
	LevelEnteredAt  time.Time
	ReminderDays    string // "mon,wed,fri" или "daily"
	ReminderTime    string // "18:00"
}

// HasReminders сообщает, настроены ли напоминания
func (p *UserProfile) HasReminders() bool {
	return p.ReminderDays != "" && p.ReminderTime != ""
}

// WeightLogEntry запись взвешивания
type WeightLogEntry struct {
	UserID     int64
	Weight     float64
	RecordedAt time.Time
}

// WorkoutLogEntry запись о выполненной тренировке
type WorkoutLogEntry struct {
	UserID      int64
	CompletedAt time.Time
	Day         time.Time
}
