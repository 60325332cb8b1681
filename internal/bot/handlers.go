package bot

import (
	"errors"
	"fmt"
	"strings"

	"fitmind/internal/coach"
	"fitmind/internal/reminder"
	"fitmind/internal/training"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	commandStart       = "start"
	commandUpdate      = "update"
	commandDone        = "done"
	commandNextDay     = "nextday"
	commandNewPlan     = "newplan"
	commandProgress    = "progress"
	commandMotivation  = "motivation"
	commandReport      = "report"
	commandSetReminder = "setreminder"
	commandHelp        = "help"
	commandCancel      = "cancel"
)

const helpText = "💡 Команды:\n" +
	"/start — регистрация\n" +
	"/update — обновить вес\n" +
	"/done — отметить сегодняшнюю тренировку\n" +
	"/nextday — план на следующий день\n" +
	"/newplan — новый план\n" +
	"/progress — анализ прогресса\n" +
	"/motivation — мотивация\n" +
	"/report — отчёт в Excel\n" +
	"/setreminder — установить напоминания\n" +
	"/cancel — отменить текущее действие\n" +
	"/help — справка\n\n" +
	"Любой другой вопрос можно просто написать в чат."

const reminderPrompt = "Введите дни тренировок через запятую (например: mon,wed,fri) и время в формате HH:MM.\n" +
	"Пример: mon,wed,fri 18:00\n" +
	"daily 07:30 — каждый день, auto 18:00 — дни по вашему уровню."

func (b *Bot) handleCommand(r *request, message *tgbotapi.Message) {
	args := strings.TrimSpace(message.CommandArguments())
	cmd := message.Command()

	// любая команда, кроме справки, прерывает незаконченный диалог
	if cmd != commandHelp {
		b.states.clear(r.chatID)
	}

	switch cmd {
	case commandStart:
		b.handleStart(r, message)
	case commandUpdate:
		if args != "" {
			b.updateWeight(r, args)
			return
		}
		b.states.set(r.chatID, conversation{step: stepUpdateWeight})
		b.sendMessage(r, "Введите ваш текущий вес (кг):")
	case commandDone:
		b.handleDone(r)
	case commandNextDay:
		b.handleNextDay(r)
	case commandNewPlan:
		b.handleNewPlan(r)
	case commandProgress:
		b.handleProgress(r)
	case commandMotivation:
		b.handleMotivation(r)
	case commandReport:
		b.handleReport(r)
	case commandSetReminder:
		if args != "" {
			b.setReminders(r, args)
			return
		}
		b.states.set(r.chatID, conversation{step: stepReminder})
		b.sendMessage(r, reminderPrompt)
	case commandHelp:
		b.sendMessage(r, helpText)
	case commandCancel:
		b.sendMessage(r, "Действие отменено.")
	default:
		b.sendMessage(r, "Пока я такого не умею =(\nСписок команд: /help")
	}
}

func (b *Bot) handleMessage(r *request, message *tgbotapi.Message) {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	conv := b.states.get(r.chatID)
	switch {
	case conv.step.registration():
		b.processRegistration(r, conv, text)
	case conv.step == stepUpdateWeight:
		b.updateWeight(r, text)
	case conv.step == stepReminder:
		b.setReminders(r, text)
	default:
		b.handleChat(r, text)
	}
}

func (b *Bot) handleStart(r *request, message *tgbotapi.Message) {
	p, err := b.coach.Profile(r.ctx, r.userID)
	switch {
	case errors.Is(err, coach.ErrNotRegistered):
		b.startRegistration(r, message)
	case err != nil:
		b.sendError(r, "start", err)
	default:
		b.sendMessage(r, fmt.Sprintf("Привет, %s! 👋\n"+
			"Вы уже зарегистрированы. Выберите действие:\n"+
			"/done — отметить тренировку\n"+
			"/update — обновить вес\n"+
			"/report — получить отчёт\n"+
			"/newplan — сгенерировать новый план\n"+
			"/setreminder — установить напоминания\n"+
			"/help — справка", p.FullName))
	}
}

func (b *Bot) updateWeight(r *request, text string) {
	weight, err := training.ParseWeight(text)
	if err != nil {
		b.sendMessage(r, userMessage(err))
		return
	}
	p, err := b.coach.UpdateWeight(r.ctx, r.userID, weight)
	if err != nil {
		b.states.clear(r.chatID)
		b.sendError(r, "update weight", err)
		return
	}
	b.states.clear(r.chatID)
	level := training.LevelForScore(p.FitnessScore)
	b.sendMessage(r, fmt.Sprintf("✅ Вес сохранён: %.1f кг.\nРейтинг: %d/%d (%s).", p.Weight, p.FitnessScore, training.MaxScore, level.Label))
}

func (b *Bot) handleDone(r *request) {
	p, err := b.coach.CompleteWorkout(r.ctx, r.userID)
	if err != nil {
		b.sendError(r, "complete workout", err)
		return
	}
	b.sendMessage(r, fmt.Sprintf("💪 Тренировка отмечена! Серия: %d дней подряд.\nРейтинг: %d/%d.\n\n"+
		"Когда будете готовы, введите /nextday, чтобы получить план на следующий день.",
		p.WorkoutStreak, p.FitnessScore, training.MaxScore))
}

func (b *Bot) handleNextDay(r *request) {
	b.typing(r)
	p, err := b.coach.AdvanceDay(r.ctx, r.userID)
	if err != nil {
		if p != nil && errors.Is(err, coach.ErrGenerationUnavailable) {
			r.log.Error("next day plan not generated", zap.Error(err))
			b.sendMessage(r, "День закрыт, но план сейчас сгенерировать не удалось. Попробуйте /newplan чуть позже.")
			return
		}
		b.sendError(r, "advance day", err)
		return
	}
	b.sendMessage(r, "📋 План на следующий день:\n\n"+p.CurrentPlan)
}

func (b *Bot) handleNewPlan(r *request) {
	b.typing(r)
	p, err := b.coach.NewPlan(r.ctx, r.userID)
	if err != nil {
		b.sendError(r, "new plan", err)
		return
	}
	b.sendMessage(r, "✅ Ваш новый план:\n\n"+p.CurrentPlan)
}

func (b *Bot) handleProgress(r *request) {
	b.typing(r)
	report, err := b.coach.Progress(r.ctx, r.userID)
	if err != nil && report == nil {
		b.sendError(r, "progress", err)
		return
	}
	if report.Trend.Kind == training.TrendNoData {
		b.sendMessage(r, report.Commentary)
		return
	}

	text := "📊 " + report.Trend.Narrative() + "\n\nРекомендация: " + report.Trend.Recommendation
	if err != nil {
		r.log.Error("progress commentary not generated", zap.Error(err))
	} else if report.Commentary != "" {
		text += "\n\n" + report.Commentary
	}
	b.sendMessage(r, text)
}

func (b *Bot) handleMotivation(r *request) {
	b.typing(r)
	text, err := b.coach.Motivation(r.ctx, r.userID)
	if err != nil {
		if text == "" {
			b.sendError(r, "motivation", err)
			return
		}
		r.log.Warn("motivation fallback", zap.Error(err))
	}
	b.sendMessage(r, "🔥 "+text)
}

func (b *Bot) handleReport(r *request) {
	report, err := b.coach.Export(r.ctx, r.userID)
	if err != nil {
		b.sendError(r, "export", err)
		return
	}
	doc := tgbotapi.NewDocument(r.chatID, tgbotapi.FileBytes{Name: report.FileName, Bytes: report.Data})
	doc.Caption = "📈 Ваш отчёт о прогрессе"
	if _, err := b.api.Send(doc); err != nil {
		r.log.Error("failed to send report", zap.Error(err))
		b.sendMessage(r, msgInternalError)
		return
	}
	if err := b.coach.MarkExported(r.ctx, r.userID); err != nil {
		// файл уже у пользователя, интервал просто не начнётся
		r.log.Error("failed to mark report exported", zap.Error(err))
		return
	}
	r.log.Info("report exported", zap.Int("bytes", len(report.Data)))
}

func (b *Bot) setReminders(r *request, text string) {
	setup, err := b.coach.SetReminders(r.ctx, r.userID, text)
	if err != nil {
		if errors.Is(err, coach.ErrNotRegistered) || errors.Is(err, coach.ErrStorageUnavailable) {
			b.states.clear(r.chatID)
		}
		// при ошибке ввода остаёмся в диалоге и ждём исправленную строку
		b.sendError(r, "set reminders", err)
		return
	}
	b.states.clear(r.chatID)
	b.sendMessage(r, fmt.Sprintf("✅ Напоминания установлены на: %s в %s",
		reminder.FormatDays(setup.Days), reminder.FormatTime(setup.Hour, setup.Minute)))
}

func (b *Bot) handleChat(r *request, text string) {
	b.typing(r)
	answer, err := b.coach.Chat(r.ctx, r.userID, text)
	if err != nil {
		b.sendError(r, "chat", err)
		return
	}
	b.sendMessage(r, answer)
}
