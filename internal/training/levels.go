package training

import "fitmind/internal/models"

// LevelInfo уровень, определяемый по рейтингу
type LevelInfo struct {
	Label        string
	Mode         models.CoachingMode
	ReminderDays []string
}

// LevelForScore возвращает уровень по рейтингу: <100, 100-199, >=200
func LevelForScore(score int) LevelInfo {
	switch {
	case score < 100:
		return LevelInfo{
			Label:        "Новичок",
			Mode:         models.ModeLevel1,
			ReminderDays: []string{"mon", "wed", "fri"},
		}
	case score < 200:
		return LevelInfo{
			Label:        "Средний",
			Mode:         models.ModeLevel2,
			ReminderDays: []string{"mon", "tue", "thu", "sat"},
		}
	default:
		return LevelInfo{
			Label:        "Продвинутый",
			Mode:         models.ModeLevel3,
			ReminderDays: []string{"mon", "tue", "wed", "thu", "fri", "sat"},
		}
	}
}
