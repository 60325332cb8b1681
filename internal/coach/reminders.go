package coach

import (
	"context"
	"sync/atomic"

	"fitmind/internal/reminder"
	"fitmind/internal/training"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReminderSetup установленное расписание
type ReminderSetup struct {
	Days     []string
	Hour     int
	Minute   int
	Triggers []reminder.Trigger
}

// SetReminders разбирает команду вида "mon,wed,fri 18:00" и заменяет напоминания пользователя.
// "auto" подбирает дни по уровню. Некорректная команда или сбой хранилища ничего не меняют.
func (s *Service) SetReminders(ctx context.Context, userID int64, text string) (*ReminderSetup, error) {
	req, err := reminder.ParseRequest(text)
	if err != nil {
		return nil, err
	}
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	days := req.Days
	if req.Auto {
		days = training.LevelForScore(p.FitnessScore).ReminderDays
	}
	triggers, err := reminder.Plan(userID, days, req.Hour, req.Minute)
	if err != nil {
		return nil, err
	}

	// сначала сохраняем, затем ставим задачи: при сбое хранилища работает прежнее расписание
	prevDays, prevTime := p.ReminderDays, p.ReminderTime
	p.ReminderDays = reminder.FormatDays(days)
	p.ReminderTime = reminder.FormatTime(req.Hour, req.Minute)
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, storageError("set reminders", err)
	}
	if err := s.reminders.Replace(userID, triggers); err != nil {
		p.ReminderDays, p.ReminderTime = prevDays, prevTime
		if rbErr := s.profiles.Save(ctx, p); rbErr != nil {
			s.logger.Error("rollback reminders",
				zap.Int64("user_id", userID),
				zap.Error(rbErr))
		}
		return nil, err
	}

	return &ReminderSetup{Days: days, Hour: req.Hour, Minute: req.Minute, Triggers: triggers}, nil
}

// RestoreReminders переустанавливает сохранённые напоминания после запуска.
// Ошибка одного профиля не мешает остальным; возвращает число восстановленных.
func (s *Service) RestoreReminders(ctx context.Context) (int, error) {
	profiles, err := s.profiles.ListWithReminders(ctx)
	if err != nil {
		return 0, storageError("restore reminders", err)
	}

	var restored atomic.Int64
	var g errgroup.Group
	g.SetLimit(4)
	for _, p := range profiles {
		p := p
		g.Go(func() error {
			days, hour, minute, err := reminder.ParseStored(p.ReminderDays, p.ReminderTime)
			if err == nil {
				var triggers []reminder.Trigger
				if triggers, err = reminder.Plan(p.UserID, days, hour, minute); err == nil {
					err = s.reminders.Replace(p.UserID, triggers)
				}
			}
			if err != nil {
				s.logger.Warn("restore reminders",
					zap.Int64("user_id", p.UserID),
					zap.String("days", p.ReminderDays),
					zap.String("time", p.ReminderTime),
					zap.Error(err))
				return nil
			}
			restored.Add(1)
			return nil
		})
	}
	g.Wait()

	s.logger.Info("reminders restored", zap.Int64("restored", restored.Load()), zap.Int("total", len(profiles)))
	return int(restored.Load()), nil
}
