package reminder

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind вид напоминания
type Kind string

const (
	KindTraining Kind = "training"
	KindWeight   Kind = "weight"
)

// DailyToken заменяет перечисление всех семи дней
const DailyToken = "daily"

var (
	ErrInvalidDay    = errors.New("некорректные дни, используйте: mon,tue,wed,thu,fri,sat,sun или daily")
	ErrInvalidTime   = errors.New("некорректное время, часы: 0-23, минуты: 0-59")
	ErrInvalidFormat = errors.New("неверный формат, пример: mon,wed,fri 18:00")
)

var weekdays = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// AllDays дни недели в порядке отображения
var AllDays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// Trigger одно периодическое срабатывание: день недели и время
type Trigger struct {
	ID      string
	Kind    Kind
	Owner   int64
	Day     string
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// Spec cron-выражение с секундами: "сек мин час день месяц день_недели"
func (t Trigger) Spec() string {
	return fmt.Sprintf("0 %d %d * * %d", t.Minute, t.Hour, int(t.Weekday))
}

// ExpandDays проверяет токены дней и разворачивает daily.
// Результат без повторов и упорядочен с понедельника.
func ExpandDays(tokens []string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, ErrInvalidDay
	}

	seen := make(map[string]bool, len(AllDays))
	for _, raw := range tokens {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == DailyToken {
			for _, d := range AllDays {
				seen[d] = true
			}
			continue
		}
		if _, ok := weekdays[token]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDay, raw)
		}
		seen[token] = true
	}

	days := make([]string, 0, len(seen))
	for _, d := range AllDays {
		if seen[d] {
			days = append(days, d)
		}
	}
	return days, nil
}

// Plan строит набор срабатываний для владельца.
// Напоминание о тренировке ставится на hour:minute, о взвешивании на час раньше
// (не раньше 0 часов того же дня). Ничего не возвращается, если хотя бы один
// параметр некорректен.
func Plan(owner int64, days []string, hour, minute int) ([]Trigger, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, ErrInvalidTime
	}
	expanded, err := ExpandDays(days)
	if err != nil {
		return nil, err
	}

	weightHour := max(0, hour-1)
	triggers := make([]Trigger, 0, 2*len(expanded))
	for _, d := range expanded {
		triggers = append(triggers,
			Trigger{
				ID:      fmt.Sprintf("training_%d_%s", owner, d),
				Kind:    KindTraining,
				Owner:   owner,
				Day:     d,
				Weekday: weekdays[d],
				Hour:    hour,
				Minute:  minute,
			},
			Trigger{
				ID:      fmt.Sprintf("weight_%d_%s", owner, d),
				Kind:    KindWeight,
				Owner:   owner,
				Day:     d,
				Weekday: weekdays[d],
				Hour:    weightHour,
				Minute:  minute,
			},
		)
	}
	return triggers, nil
}

// Request разобранная команда напоминаний
type Request struct {
	Days   []string
	Hour   int
	Minute int
	Auto   bool // дни подбираются по уровню
}

// AutoToken просит подобрать дни по уровню пользователя
const AutoToken = "auto"

// ParseRequest разбирает строку вида "mon,wed,fri 18:00", "daily 07:30" или "auto 19:00"
func ParseRequest(text string) (Request, error) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) < 2 {
		return Request{}, ErrInvalidFormat
	}

	// дни могут быть записаны через запятую с пробелами
	timePart := fields[len(fields)-1]
	daysPart := strings.Join(fields[:len(fields)-1], "")

	hh, mm, ok := strings.Cut(timePart, ":")
	if !ok {
		return Request{}, ErrInvalidFormat
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return Request{}, ErrInvalidFormat
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return Request{}, ErrInvalidFormat
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Request{}, ErrInvalidTime
	}

	req := Request{Hour: hour, Minute: minute}
	if daysPart == AutoToken {
		req.Auto = true
		return req, nil
	}

	days, err := ExpandDays(strings.Split(daysPart, ","))
	if err != nil {
		return Request{}, err
	}
	req.Days = days
	return req, nil
}

// FormatDays склеивает дни для хранения в профиле
func FormatDays(days []string) string {
	return strings.Join(days, ",")
}

// FormatTime время в виде HH:MM
func FormatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ParseStored восстанавливает дни и время, сохранённые в профиле
func ParseStored(days, clock string) ([]string, int, int, error) {
	req, err := ParseRequest(days + " " + clock)
	if err != nil {
		return nil, 0, 0, err
	}
	if req.Auto {
		return nil, 0, 0, ErrInvalidDay
	}
	return req.Days, req.Hour, req.Minute, nil
}

func sortTriggers(triggers []Trigger) {
	sort.Slice(triggers, func(i, j int) bool {
		return triggers[i].ID < triggers[j].ID
	})
}
