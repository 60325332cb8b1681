package bot

import (
	"fitmind/internal/reminder"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	trainingReminderText = "🏋️ Тренировка сегодня!\nНе забудьте выполнить вашу сессию. Удачи!\n\nПосле тренировки отметьте её командой /done."
	weightReminderText   = "⚖️ Пожалуйста, введите ваш вес за сегодня: /update"
)

// Notify отправляет сработавшее напоминание владельцу.
// Используется как обработчик планировщика.
func (b *Bot) Notify(t reminder.Trigger) {
	text := trainingReminderText
	if t.Kind == reminder.KindWeight {
		text = weightReminderText
	}

	log := b.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.Int64("user_id", t.Owner),
		zap.String("job_id", t.ID),
	)
	// личный чат совпадает с id пользователя
	if _, err := b.api.Send(tgbotapi.NewMessage(t.Owner, text)); err != nil {
		log.Warn("failed to send reminder", zap.Error(err))
		return
	}
	log.Debug("reminder sent")
}
