package bot

import (
	"context"
	"fmt"
	"sync"

	"fitmind/internal/coach"
	"fitmind/internal/excel"
	"fitmind/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender часть Telegram API, которой пользуется бот
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Coach сценарии фитнес-коуча
type Coach interface {
	Profile(ctx context.Context, userID int64) (*models.UserProfile, error)
	Register(ctx context.Context, r coach.Registration) (*models.UserProfile, error)
	UpdateWeight(ctx context.Context, userID int64, weight float64) (*models.UserProfile, error)
	CompleteWorkout(ctx context.Context, userID int64) (*models.UserProfile, error)
	AdvanceDay(ctx context.Context, userID int64) (*models.UserProfile, error)
	NewPlan(ctx context.Context, userID int64) (*models.UserProfile, error)
	Progress(ctx context.Context, userID int64) (*coach.ProgressReport, error)
	Motivation(ctx context.Context, userID int64) (string, error)
	Chat(ctx context.Context, userID int64, text string) (string, error)
	Export(ctx context.Context, userID int64) (*excel.Report, error)
	MarkExported(ctx context.Context, userID int64) error
	SetReminders(ctx context.Context, userID int64, text string) (*coach.ReminderSetup, error)
}

// Bot представляет Telegram бота
type Bot struct {
	api    Sender
	coach  Coach
	logger *zap.Logger
	locks  *chatLocks
	states *conversations
}

// New создаёт новый экземпляр бота
func New(api Sender, c Coach, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:    api,
		coach:  c,
		logger: logger,
		locks:  newChatLocks(),
		states: newConversations(),
	}
}

// Run обрабатывает обновления до отмены ctx или закрытия канала.
// События одного чата обрабатываются строго по очереди, разные чаты параллельно.
// Перед возвратом дожидается уже начатых обработчиков.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	// начатый обработчик доводим до конца даже при остановке
	handlerCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(handlerCtx, update)
			}()
		}
	}
}

// request контекст обработки одного обновления
type request struct {
	ctx    context.Context
	chatID int64
	userID int64
	log    *zap.Logger
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var chatID, userID int64
	switch {
	case update.Message != nil && update.Message.Chat != nil && update.Message.From != nil:
		chatID, userID = update.Message.Chat.ID, update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		userID = update.CallbackQuery.From.ID
		chatID = userID
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	default:
		return
	}

	unlock := b.locks.lock(chatID)
	defer unlock()

	r := &request{
		ctx:    ctx,
		chatID: chatID,
		userID: userID,
		log: b.logger.With(
			zap.String("request_id", uuid.NewString()),
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID),
		),
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("panic in update handler", zap.String("panic", fmt.Sprint(rec)), zap.Stack("stack"))
			b.sendMessage(r, msgInternalError)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(r, update.CallbackQuery)
	case update.Message.IsCommand():
		b.handleCommand(r, update.Message)
	default:
		b.handleMessage(r, update.Message)
	}
}

// chatLocks мьютекс на каждый чат. Запись удаляется, когда чат никто не ждёт.
type chatLocks struct {
	mu    sync.Mutex
	locks map[int64]*chatLock
}

type chatLock struct {
	mu   sync.Mutex
	refs int
}

func newChatLocks() *chatLocks {
	return &chatLocks{locks: make(map[int64]*chatLock)}
}

func (l *chatLocks) lock(chatID int64) func() {
	l.mu.Lock()
	cl, ok := l.locks[chatID]
	if !ok {
		cl = &chatLock{}
		l.locks[chatID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()
	return func() {
		cl.mu.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, chatID)
		}
		l.mu.Unlock()
	}
}

func (l *chatLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
