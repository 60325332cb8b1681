package bot

import (
	"errors"
	"strings"

	"fitmind/internal/coach"
	"fitmind/internal/models"
	"fitmind/internal/training"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	callbackGoal  = "goal:"
	callbackLevel = "level:"
)

func goalKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Похудение", callbackGoal+string(models.GoalWeightLoss)),
			tgbotapi.NewInlineKeyboardButtonData("Набор массы", callbackGoal+string(models.GoalMuscleGain)),
			tgbotapi.NewInlineKeyboardButtonData("Поддержание формы", callbackGoal+string(models.GoalMaintenance)),
		),
	)
}

func levelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Новичок", callbackLevel+string(models.LevelBeginner)),
			tgbotapi.NewInlineKeyboardButtonData("Средний", callbackLevel+string(models.LevelIntermediate)),
			tgbotapi.NewInlineKeyboardButtonData("Продвинутый", callbackLevel+string(models.LevelAdvanced)),
		),
	)
}

// startRegistration начинает анкету с ФИО
func (b *Bot) startRegistration(r *request, message *tgbotapi.Message) {
	firstName := message.From.FirstName
	if firstName == "" {
		firstName = "Друг"
	}
	b.states.set(r.chatID, conversation{
		step: stepFullName,
		reg:  coach.Registration{UserID: r.userID, Username: message.From.UserName},
	})
	b.sendMessage(r, "Привет, "+firstName+"! 👋\n\n"+
		"Добро пожаловать в FitMind, вашу персональную фитнес-систему!\n"+
		"Я ваш виртуальный фитнес-коуч.\n\n"+
		"Для начала регистрации введите Фамилию Имя Отчество.")
}

// processRegistration обрабатывает текстовые шаги анкеты
func (b *Bot) processRegistration(r *request, conv conversation, text string) {
	switch conv.step {
	case stepFullName:
		if !training.ValidateFullName(text) {
			b.sendMessage(r, "Введите полное ФИО через пробел.")
			return
		}
		conv.reg.FullName = training.NormalizeFullName(text)
		conv.step = stepHeight
		b.states.set(r.chatID, conv)
		b.sendMessage(r, "Укажите ваш рост (см):")

	case stepHeight:
		height, err := training.ParseHeight(text)
		if err != nil {
			b.sendMessage(r, userMessage(err))
			return
		}
		conv.reg.Height = height
		conv.step = stepWeight
		b.states.set(r.chatID, conv)
		b.sendMessage(r, "Теперь укажите ваш вес (кг):")

	case stepWeight:
		weight, err := training.ParseWeight(text)
		if err != nil {
			b.sendMessage(r, userMessage(err))
			return
		}
		conv.reg.Weight = weight
		conv.step = stepGoal
		b.states.set(r.chatID, conv)
		b.sendWithMarkup(r, "Выберите цель:", goalKeyboard())

	default:
		// цель и уровень выбираются кнопками
		b.sendMessage(r, "Пожалуйста, выберите вариант с помощью кнопок выше.")
	}
}

// handleCallback обрабатывает нажатия на inline-кнопки анкеты
func (b *Bot) handleCallback(r *request, callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		r.log.Debug("failed to answer callback", zap.Error(err))
	}

	conv := b.states.get(r.chatID)
	switch {
	case strings.HasPrefix(callback.Data, callbackGoal) && conv.step == stepGoal:
		goal := models.Goal(strings.TrimPrefix(callback.Data, callbackGoal))
		if !goal.Valid() {
			b.sendWithMarkup(r, "Выберите цель:", goalKeyboard())
			return
		}
		conv.reg.Goal = goal
		conv.step = stepLevel
		b.states.set(r.chatID, conv)
		b.sendWithMarkup(r, "Выберите уровень подготовки:", levelKeyboard())

	case strings.HasPrefix(callback.Data, callbackLevel) && conv.step == stepLevel:
		level := models.Level(strings.TrimPrefix(callback.Data, callbackLevel))
		if !level.Valid() {
			b.sendWithMarkup(r, "Выберите уровень подготовки:", levelKeyboard())
			return
		}
		conv.reg.Level = level
		b.completeRegistration(r, conv.reg)

	default:
		b.states.clear(r.chatID)
		b.sendMessage(r, "Произошла ошибка. Пожалуйста, введите /start и пройдите регистрацию заново.")
	}
}

func (b *Bot) completeRegistration(r *request, reg coach.Registration) {
	b.typing(r)
	p, err := b.coach.Register(r.ctx, reg)
	switch {
	case err == nil:
		b.states.clear(r.chatID)
		r.log.Info("registration completed", zap.String("goal", string(p.Goal)))
		b.sendMessage(r, "✅ Ваш персональный фитнес-план:\n\n"+p.CurrentPlan)

	case p != nil && errors.Is(err, coach.ErrGenerationUnavailable):
		b.states.clear(r.chatID)
		r.log.Error("registration saved without plan", zap.Error(err))
		b.sendMessage(r, "✅ Анкета сохранена, но план сейчас сгенерировать не удалось. Попробуйте /newplan чуть позже.")

	default:
		var vErr training.ValidationError
		if errors.As(err, &vErr) {
			// анкета собрана с ошибкой, начинаем заново
			b.states.clear(r.chatID)
			b.sendMessage(r, vErr.Message+" Введите /start, чтобы пройти регистрацию заново.")
			return
		}
		b.sendError(r, "register", err)
	}
}
