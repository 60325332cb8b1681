package coach

import (
	"context"
	"errors"
	"time"

	"fitmind/clients/ai"
	"fitmind/internal/excel"
	"fitmind/internal/models"
	"fitmind/internal/reminder"
	"fitmind/internal/repository"
	"fitmind/internal/training"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProfileStore хранилище профилей
type ProfileStore interface {
	Get(ctx context.Context, userID int64) (*models.UserProfile, error)
	Save(ctx context.Context, p *models.UserProfile) error
	ListWithReminders(ctx context.Context) ([]models.UserProfile, error)
}

// WeightLogStore журнал взвешиваний
type WeightLogStore interface {
	Add(ctx context.Context, entry models.WeightLogEntry) error
	List(ctx context.Context, userID int64) ([]models.WeightLogEntry, error)
}

// WorkoutLogStore журнал тренировок
type WorkoutLogStore interface {
	Add(ctx context.Context, entry models.WorkoutLogEntry) error
	List(ctx context.Context, userID int64) ([]models.WorkoutLogEntry, error)
}

// Generator сервис генерации текста
type Generator interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
}

// ReminderScheduler установка напоминаний
type ReminderScheduler interface {
	Replace(owner int64, triggers []reminder.Trigger) error
}

// Deps зависимости сервиса
type Deps struct {
	Profiles          ProfileStore
	Weights           WeightLogStore
	Workouts          WorkoutLogStore
	Generator         Generator
	Reminders         ReminderScheduler
	Location          *time.Location
	GenerationTimeout time.Duration
	Logger            *zap.Logger
	Now               func() time.Time
}

// Service сценарии фитнес-коуча поверх хранилища и генерации
type Service struct {
	profiles  ProfileStore
	weights   WeightLogStore
	workouts  WorkoutLogStore
	gen       Generator
	reminders ReminderScheduler
	loc       *time.Location
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// New создаёт сервис
func New(d Deps) *Service {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.GenerationTimeout <= 0 {
		d.GenerationTimeout = 60 * time.Second
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		profiles:  d.Profiles,
		weights:   d.Weights,
		workouts:  d.Workouts,
		gen:       d.Generator,
		reminders: d.Reminders,
		loc:       d.Location,
		timeout:   d.GenerationTimeout,
		logger:    d.Logger,
		now:       d.Now,
	}
}

// Registration данные анкеты
type Registration struct {
	UserID   int64
	Username string
	FullName string
	Height   int
	Weight   float64
	Goal     models.Goal
	Level    models.Level
}

func (r Registration) validate() error {
	switch {
	case !training.ValidateFullName(r.FullName):
		return training.ValidationError{Field: "full_name", Message: "Введите полное ФИО через пробел."}
	case r.Height <= 0:
		return training.ValidationError{Field: "height", Message: "Рост должен быть положительным числом."}
	case r.Weight <= 0:
		return training.ValidationError{Field: "weight", Message: "Вес должен быть положительным числом."}
	case !r.Goal.Valid():
		return training.ValidationError{Field: "goal", Message: "Выберите цель из списка."}
	case !r.Level.Valid():
		return training.ValidationError{Field: "level", Message: "Выберите уровень из списка."}
	}
	return nil
}

// Profile возвращает профиль пользователя
func (s *Service) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, storageError("profile", err)
	}
	return p, nil
}

// Register сохраняет анкету и генерирует первый план по режиму ведения.
// Повторная регистрация обновляет анкету, история и серия сохраняются.
// Если генерация не удалась, профиль всё равно сохранён и возвращается вместе с ошибкой.
func (s *Service) Register(ctx context.Context, r Registration) (*models.UserProfile, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	now := s.now()

	p, err := s.profiles.Get(ctx, r.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		p = &models.UserProfile{
			UserID:         r.UserID,
			RegisteredAt:   now,
			LevelEnteredAt: now,
			CoachingMode:   models.ModeLevel1,
		}
	case err != nil:
		return nil, storageError("register", err)
	}

	p.Username = r.Username
	p.FullName = training.NormalizeFullName(r.FullName)
	p.Height = r.Height
	p.Weight = r.Weight
	p.InitialWeight = r.Weight
	p.Goal = r.Goal
	p.Level = r.Level

	if err := s.recompute(ctx, p, now); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, storageError("register", err)
	}
	s.logger.Info("user registered",
		zap.Int64("user_id", p.UserID),
		zap.String("goal", string(p.Goal)),
		zap.String("coaching_mode", string(p.CoachingMode)))

	if err := s.storePlan(ctx, p, training.ForCoachingMode(p)); err != nil {
		return p, err
	}
	return p, nil
}

// UpdateWeight записывает взвешивание и пересчитывает рейтинг
func (s *Service) UpdateWeight(ctx context.Context, userID int64, weight float64) (*models.UserProfile, error) {
	if weight <= 0 {
		return nil, training.ValidationError{Field: "weight", Message: "Вес должен быть положительным числом."}
	}
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.weights.Add(ctx, models.WeightLogEntry{UserID: userID, Weight: weight, RecordedAt: now}); err != nil {
		return nil, storageError("update weight", err)
	}
	p.Weight = weight

	if err := s.recompute(ctx, p, now); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, storageError("update weight", err)
	}
	return p, nil
}

// CompleteWorkout отмечает сегодняшнюю тренировку.
// Повторная отметка в тот же день возвращает training.ErrAlreadyCompleted.
// Серия в профиле сверяется с журналом тренировок: журнал первичен.
func (s *Service) CompleteWorkout(ctx context.Context, userID int64) (*models.UserProfile, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	weights, workouts, err := s.loadLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.syncStreak(ctx, p, weights, workouts, now); err != nil {
		return nil, err
	}

	today := training.Day(now, s.loc)
	streak, err := training.StreakOf(p).Complete(today)
	if err != nil {
		return nil, err
	}

	entry := models.WorkoutLogEntry{UserID: userID, CompletedAt: now, Day: today}
	err = s.workouts.Add(ctx, entry)
	if errors.Is(err, repository.ErrDuplicate) {
		// строку успели записать в обход профиля, подтягиваем серию к журналу
		weights, workouts, err = s.loadLogs(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.syncStreak(ctx, p, weights, workouts, now); err != nil {
			return nil, err
		}
		return nil, training.ErrAlreadyCompleted
	}
	if err != nil {
		return nil, storageError("complete workout", err)
	}
	streak.Apply(p)

	s.applyScore(p, weights, append(workouts, entry), now)
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, storageError("complete workout", err)
	}
	s.logger.Info("workout completed",
		zap.Int64("user_id", userID),
		zap.Int("streak", p.WorkoutStreak),
		zap.Int("fitness_score", p.FitnessScore))
	return p, nil
}

// syncStreak восстанавливает серию по журналу, если профиль отстал от него
// (например, после сбоя сохранения профиля), и сохраняет исправленный профиль
func (s *Service) syncStreak(ctx context.Context, p *models.UserProfile, weights []models.WeightLogEntry, workouts []models.WorkoutLogEntry, now time.Time) error {
	streak, changed := training.StreakOf(p).Sync(workouts)
	if !changed {
		return nil
	}
	s.logger.Warn("streak restored from workout log",
		zap.Int64("user_id", p.UserID),
		zap.Int("stored", p.WorkoutStreak),
		zap.Int("derived", streak.Count))
	streak.Apply(p)

	s.applyScore(p, weights, workouts, now)
	if err := s.profiles.Save(ctx, p); err != nil {
		return storageError("sync streak", err)
	}
	return nil
}

// AdvanceDay закрывает день после отмеченной тренировки и готовит план на следующий.
// Серия при этом не меняется.
func (s *Service) AdvanceDay(ctx context.Context, userID int64) (*models.UserProfile, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	weights, workouts, err := s.loadLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.syncStreak(ctx, p, weights, workouts, now); err != nil {
		return nil, err
	}
	streak, err := training.StreakOf(p).Advance(training.Day(now, s.loc))
	if err != nil {
		return nil, err
	}
	streak.Apply(p)

	s.applyScore(p, weights, workouts, now)
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, storageError("advance day", err)
	}

	var narrative string
	if len(weights) > 0 {
		narrative = training.AnalyzeTrend(p.Goal, weights, workouts).Narrative()
	}
	if err := s.storePlan(ctx, p, training.NextDay(p, narrative)); err != nil {
		return p, err
	}
	return p, nil
}

// NewPlan генерирует новый план по текущему режиму ведения
func (s *Service) NewPlan(ctx context.Context, userID int64) (*models.UserProfile, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.storePlan(ctx, p, training.ForCoachingMode(p)); err != nil {
		return nil, err
	}
	return p, nil
}

// ProgressReport анализ прогресса и комментарий тренера
type ProgressReport struct {
	Trend      training.Trend
	Commentary string
}

// Progress анализирует динамику веса и регулярность.
// Без взвешиваний генерация не вызывается.
func (s *Service) Progress(ctx context.Context, userID int64) (*ProgressReport, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	weights, workouts, err := s.loadLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &ProgressReport{Trend: training.AnalyzeTrend(p.Goal, weights, workouts)}
	if report.Trend.Kind == training.TrendNoData {
		report.Commentary = training.NoDataMessage
		return report, nil
	}

	text, err := s.generate(ctx, ai.UserRequest(training.ProgressPrompt(report.Trend)))
	if err != nil {
		return report, err
	}
	report.Commentary = text
	return report, nil
}

// Motivation короткое мотивационное сообщение по серии.
// При недоступной генерации возвращается готовый текст ступени вместе с ошибкой.
func (s *Service) Motivation(ctx context.Context, userID int64) (string, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return "", err
	}
	weights, workouts, err := s.loadLogs(ctx, userID)
	if err != nil {
		return "", err
	}

	var recent string
	if len(weights) > 0 {
		recent = training.AnalyzeTrend(p.Goal, weights, workouts).Narrative()
	}
	text, err := s.generate(ctx, ai.UserRequest(training.MotivationPrompt(p.WorkoutStreak, p.Goal, recent)))
	if err != nil {
		return training.MotivationFor(p.WorkoutStreak).Message, err
	}
	return text, nil
}

// Chat свободный диалог без персоны тренера.
// Для зарегистрированных пользователей первой репликой идёт контекст.
func (s *Service) Chat(ctx context.Context, userID int64, text string) (string, error) {
	req := ai.Request{}

	p, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		req.Turns = append(req.Turns, ai.Turn{Role: ai.RoleUser, Text: training.ChatContext(p.WorkoutStreak, p.Goal)})
	case errors.Is(err, repository.ErrNotFound):
	default:
		return "", storageError("chat", err)
	}
	req.Turns = append(req.Turns, ai.Turn{Role: ai.RoleUser, Text: text})

	return s.generate(ctx, req)
}

// Export собирает отчёт, не чаще раза в 30 дней.
// Интервал начинается только после MarkExported.
func (s *Service) Export(ctx context.Context, userID int64) (*excel.Report, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := excel.CheckCooldown(p.LastExport, now); err != nil {
		return nil, err
	}

	weights, err := s.weights.List(ctx, userID)
	if err != nil {
		return nil, storageError("export", err)
	}
	report, err := excel.BuildReport(p, weights, s.loc)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// MarkExported запускает 30-дневный интервал. Вызывается после того,
// как отчёт доставлен пользователю.
func (s *Service) MarkExported(ctx context.Context, userID int64) error {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	now := s.now()
	p.LastExport = &now
	if err := s.profiles.Save(ctx, p); err != nil {
		return storageError("mark exported", err)
	}
	return nil
}

// recompute загружает журналы и пересчитывает рейтинг и режим ведения
func (s *Service) recompute(ctx context.Context, p *models.UserProfile, now time.Time) error {
	weights, workouts, err := s.loadLogs(ctx, p.UserID)
	if err != nil {
		return err
	}
	s.applyScore(p, weights, workouts, now)
	return nil
}

func (s *Service) applyScore(p *models.UserProfile, weights []models.WeightLogEntry, workouts []models.WorkoutLogEntry, now time.Time) {
	p.FitnessScore = training.TotalScore(p, weights, len(workouts), now, s.loc)

	level := training.LevelForScore(p.FitnessScore)
	if p.CoachingMode != level.Mode {
		s.logger.Info("coaching mode changed",
			zap.Int64("user_id", p.UserID),
			zap.String("from", string(p.CoachingMode)),
			zap.String("to", string(level.Mode)))
		p.CoachingMode = level.Mode
		p.LevelEnteredAt = now
	}
}

// loadLogs читает оба журнала параллельно
func (s *Service) loadLogs(ctx context.Context, userID int64) ([]models.WeightLogEntry, []models.WorkoutLogEntry, error) {
	var (
		weights  []models.WeightLogEntry
		workouts []models.WorkoutLogEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weights, err = s.weights.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		workouts, err = s.workouts.List(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, storageError("load logs", err)
	}
	return weights, workouts, nil
}

// storePlan генерирует план и сохраняет его как текущий
func (s *Service) storePlan(ctx context.Context, p *models.UserProfile, spec training.PromptSpec) error {
	plan, err := s.generate(ctx, ai.UserRequest(spec.Render()))
	if err != nil {
		return err
	}
	p.CurrentPlan = plan
	if err := s.profiles.Save(ctx, p); err != nil {
		return storageError("save plan", err)
	}
	return nil
}

func (s *Service) generate(ctx context.Context, req ai.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		return "", generationError(err)
	}
	return text, nil
}
