package training

import (
	"fmt"

	"fitmind/internal/models"
)

// ProgressPrompt запрос развёрнутого комментария по прогрессу
func ProgressPrompt(t Trend) string {
	return fmt.Sprintf(`Начальный вес: %.1f кг
Текущий вес: %.1f кг
Изменение: %.1f кг
Цель: %s
Анализ: %s
Рекомендация: %s

Дайте развернутый комментарий и конкретные рекомендации на следующие 7 дней.`,
		t.InitialWeight, t.CurrentWeight, t.Diff, t.Goal.Title(), t.Narrative(), t.Recommendation)
}

// MotivationTier ступень мотивации по длине серии
type MotivationTier struct {
	Label   string
	Message string
}

// MotivationFor возвращает ступень для серии
func MotivationFor(streak int) MotivationTier {
	switch {
	case streak >= 21:
		return MotivationTier{"Эксперт", "Вы выработали устойчивую привычку! Теперь фитнес - часть вашей жизни."}
	case streak >= 14:
		return MotivationTier{"Продвинутый", "Две недели подряд - это серьезное достижение! Тело начало адаптироваться."}
	case streak >= 7:
		return MotivationTier{"Регулярный", "Неделя регулярных тренировок - отличный результат! Вы на правильном пути."}
	case streak >= 3:
		return MotivationTier{"Начинающий", "Хорошее начало! Первые дни самые важные для формирования привычки."}
	default:
		return MotivationTier{"Новичок", "Каждое начало трудно, но вы сделали первый шаг! Продолжайте в том же духе."}
	}
}

// MotivationPrompt запрос короткого мотивационного сообщения
func MotivationPrompt(streak int, goal models.Goal, recent string) string {
	tier := MotivationFor(streak)
	prompt := fmt.Sprintf("Пользователь тренируется %d дней подряд. Уровень: %s. Цель: %s.\n\n", streak, tier.Label, goal.Title())
	if recent != "" {
		prompt += recent + "\n\n"
	}
	prompt += "Сгенерируйте короткое мотивационное сообщение (2-3 предложения) для поддержки пользователя.\n" +
		"Сообщение должно быть энергичным, но без эмодзи и восклицаний."
	return prompt
}

// ChatContext контекстная реплика для свободного диалога
func ChatContext(streak int, goal models.Goal) string {
	return fmt.Sprintf("Контекст: Пользователь тренируется %d дней, цель: %s.", streak, goal.Title())
}
