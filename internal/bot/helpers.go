package bot

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"fitmind/internal/coach"
	"fitmind/internal/excel"
	"fitmind/internal/reminder"
	"fitmind/internal/training"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Лимит Telegram 4096 символов, берём с запасом
const maxMessageRunes = 4000

const (
	msgInternalError   = "Произошла ошибка. Попробуйте позже."
	msgNotRegistered   = "Сначала пройдите регистрацию: /start"
	msgGenerationDown  = "Сервис генерации сейчас недоступен. Попробуйте позже."
	msgAlreadyDone     = "Сегодняшняя тренировка уже отмечена. Введите /nextday, чтобы получить план на следующий день."
	msgDayNotCompleted = "Сначала выполните и отметьте сегодняшнюю тренировку командой /done."
	msgDayAdvanced     = "План на следующий день уже сформирован. Возвращайтесь завтра!"
	msgInvalidDays     = "Некорректные дни. Используйте: mon,tue,wed,thu,fri,sat,sun или daily"
	msgInvalidTime     = "Некорректное время. Часы: 0-23, минуты: 0-59"
	msgInvalidFormat   = "Неверный формат. Попробуйте снова: mon,wed,fri 18:00"
)

// userMessage переводит ошибку сценария в текст для пользователя
func userMessage(err error) string {
	var vErr training.ValidationError
	var cooldown *excel.ExportCooldownError

	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &cooldown):
		return fmt.Sprintf("Отчёт можно выгружать раз в %d дней. Осталось дней: %d.", excel.ExportCooldownDays, cooldown.RemainingDays)
	case errors.Is(err, coach.ErrNotRegistered):
		return msgNotRegistered
	case errors.Is(err, training.ErrAlreadyCompleted):
		return msgAlreadyDone
	case errors.Is(err, training.ErrDayNotCompleted):
		return msgDayNotCompleted
	case errors.Is(err, training.ErrDayAlreadyAdvanced):
		return msgDayAdvanced
	case errors.Is(err, reminder.ErrInvalidDay):
		return msgInvalidDays
	case errors.Is(err, reminder.ErrInvalidTime):
		return msgInvalidTime
	case errors.Is(err, reminder.ErrInvalidFormat):
		return msgInvalidFormat
	case errors.Is(err, coach.ErrGenerationUnavailable):
		return msgGenerationDown
	default:
		return msgInternalError
	}
}

// isUserError ошибки ввода и состояния логируются как info, остальные как error
func isUserError(err error) bool {
	switch userMessage(err) {
	case msgInternalError, msgGenerationDown:
		return false
	}
	return true
}

// sendError логирует ошибку один раз и отвечает пользователю
func (b *Bot) sendError(r *request, op string, err error) {
	if isUserError(err) {
		r.log.Info(op+" rejected", zap.Error(err))
	} else {
		r.log.Error(op+" failed", zap.Error(err))
	}
	b.sendMessage(r, userMessage(err))
}

// sendMessage отправляет текст, длинные ответы режутся на части
func (b *Bot) sendMessage(r *request, text string) {
	for _, part := range splitText(text, maxMessageRunes) {
		if _, err := b.api.Send(tgbotapi.NewMessage(r.chatID, part)); err != nil {
			r.log.Warn("failed to send message", zap.Error(err))
			return
		}
	}
}

// sendWithMarkup отправляет сообщение с клавиатурой
func (b *Bot) sendWithMarkup(r *request, text string, markup any) {
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		r.log.Warn("failed to send message with keyboard", zap.Error(err))
	}
}

// typing показывает "печатает..." на время генерации
func (b *Bot) typing(r *request) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(r.chatID, tgbotapi.ChatTyping)); err != nil {
		r.log.Debug("failed to send chat action", zap.Error(err))
	}
}

// splitText делит текст на части не длиннее limit символов, по возможности по переводу строки
func splitText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// step шаг диалога
type step string

const (
	stepNone         step = ""
	stepFullName     step = "reg_full_name"
	stepHeight       step = "reg_height"
	stepWeight       step = "reg_weight"
	stepGoal         step = "reg_goal"
	stepLevel        step = "reg_level"
	stepUpdateWeight step = "update_weight"
	stepReminder     step = "reminder"
)

func (s step) registration() bool {
	return strings.HasPrefix(string(s), "reg_")
}

// conversation состояние диалога с чатом
type conversation struct {
	step step
	reg  coach.Registration
}

type conversations struct {
	sync.RWMutex
	states map[int64]conversation
}

func newConversations() *conversations {
	return &conversations{states: make(map[int64]conversation)}
}

func (c *conversations) get(chatID int64) conversation {
	c.RLock()
	defer c.RUnlock()
	return c.states[chatID]
}

func (c *conversations) set(chatID int64, conv conversation) {
	c.Lock()
	c.states[chatID] = conv
	c.Unlock()
}

func (c *conversations) clear(chatID int64) {
	c.Lock()
	delete(c.states, chatID)
	c.Unlock()
}
