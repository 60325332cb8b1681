package reminder

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// Handler вызывается при срабатывании напоминания
type Handler func(Trigger)

type ownerSchedule struct {
	cron     *cron.Cron
	triggers []Trigger
}

// Scheduler держит отдельный cron на каждого пользователя.
// Замена расписания собирает новый cron целиком и только потом останавливает старый.
type Scheduler struct {
	mu      sync.Mutex
	loc     *time.Location
	handler Handler
	logger  *zap.Logger
	owners  map[int64]*ownerSchedule
	running bool
}

// NewScheduler создаёт планировщик в часовом поясе loc
func NewScheduler(loc *time.Location, handler Handler, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		loc:     loc,
		handler: handler,
		logger:  logger,
		owners:  make(map[int64]*ownerSchedule),
	}
}

// Replace заменяет все напоминания владельца на triggers.
// При ошибке прежнее расписание остаётся без изменений.
func (s *Scheduler) Replace(owner int64, triggers []Trigger) error {
	c := cron.NewWithLocation(s.loc)
	installed := make([]Trigger, 0, len(triggers))
	for _, t := range triggers {
		if t.Owner != owner {
			return fmt.Errorf("напоминание %s принадлежит пользователю %d, а не %d", t.ID, t.Owner, owner)
		}
		t := t
		if err := c.AddFunc(t.Spec(), func() { s.fire(t) }); err != nil {
			return fmt.Errorf("ошибка установки напоминания %s: %w", t.ID, err)
		}
		installed = append(installed, t)
	}
	sortTriggers(installed)

	s.mu.Lock()
	old := s.owners[owner]
	if len(installed) == 0 {
		delete(s.owners, owner)
	} else {
		s.owners[owner] = &ownerSchedule{cron: c, triggers: installed}
		if s.running {
			c.Start()
		}
	}
	s.mu.Unlock()

	if old != nil {
		old.cron.Stop()
	}

	s.logger.Info("reminders replaced",
		zap.Int64("user_id", owner),
		zap.Int("triggers", len(installed)))
	return nil
}

// Remove снимает все напоминания владельца
func (s *Scheduler) Remove(owner int64) {
	if err := s.Replace(owner, nil); err != nil {
		s.logger.Error("remove reminders", zap.Int64("user_id", owner), zap.Error(err))
	}
}

// Triggers возвращает установленные напоминания владельца
func (s *Scheduler) Triggers(owner int64) []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := s.owners[owner]
	if !ok {
		return nil
	}
	out := make([]Trigger, len(sched.triggers))
	copy(out, sched.triggers)
	return out
}

// Start запускает все установленные расписания
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	for _, sched := range s.owners {
		sched.cron.Start()
	}
	s.logger.Info("reminder scheduler started", zap.Int("owners", len(s.owners)))
}

// Stop останавливает все расписания, установленные напоминания сохраняются
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	for _, sched := range s.owners {
		sched.cron.Stop()
	}
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) fire(t Trigger) {
	s.logger.Debug("reminder fired",
		zap.String("id", t.ID),
		zap.Int64("user_id", t.Owner))
	if s.handler != nil {
		s.handler(t)
	}
}
