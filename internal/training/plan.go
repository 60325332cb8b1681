package training

import (
	"fmt"
	"strings"

	"fitmind/internal/models"
)

const (
	// SessionMinutes длительность одной тренировки
	SessionMinutes = 60
	// MedicalDisclaimer добавляется в конец любого запроса на план
	MedicalDisclaimer = "Перед началом программы проконсультируйтесь с врачом, если есть хронические заболевания."
)

// PlanKind вид запрашиваемого плана
type PlanKind string

const (
	PlanDaily    PlanKind = "daily"
	PlanMonthly  PlanKind = "monthly"
	PlanAdvanced PlanKind = "advanced"
	PlanNextDay  PlanKind = "next_day"
)

// Range числовой диапазон "от-до"
type Range struct {
	Min int
	Max int
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// SessionStructure обязательный скелет тренировки
type SessionStructure struct {
	WarmupMinutes   Range
	MainMinutes     Range
	CooldownMinutes Range
	Exercises       Range
	MuscleGroups    []string
	Sets            int
	Reps            Range
	RestSeconds     Range
	HoldSeconds     Range // планка и кардио
}

// DefaultStructure часовая тренировка: разминка, 6-8 упражнений, заминка
func DefaultStructure() SessionStructure {
	return SessionStructure{
		WarmupMinutes:   Range{5, 10},
		MainMinutes:     Range{40, 45},
		CooldownMinutes: Range{5, 10},
		Exercises:       Range{6, 8},
		MuscleGroups:    []string{"грудь", "спину", "ноги", "пресс"},
		Sets:            3,
		Reps:            Range{10, 15},
		RestSeconds:     Range{60, 90},
		HoldSeconds:     Range{30, 60},
	}
}

// PromptSpec детерминированная часть запроса на генерацию плана
type PromptSpec struct {
	Kind           PlanKind
	Height         int
	Weight         float64
	Goal           models.Goal
	Level          models.Level
	Streak         int
	Focus          string
	Intensity      string
	Narrative      string
	SessionMinutes int
	Structure      SessionStructure
	ExtraCardio    bool
	Disclaimer     string
}

// WorkoutFocus акцент тренировки по цели
func WorkoutFocus(goal models.Goal) string {
	switch goal {
	case models.GoalWeightLoss:
		return "с упором на сжигание калорий и кардио-упражнения"
	case models.GoalMuscleGain:
		return "с акцентом на силовые упражнения и рост мышц"
	case models.GoalMaintenance:
		return "сбалансированная тренировка для тонуса и здоровья"
	default:
		return "универсальная тренировка"
	}
}

// IntensityDirective указание по интенсивности в зависимости от серии
func IntensityDirective(streak int) string {
	switch {
	case streak >= 7:
		return "Увеличь интенсивность на 10-15% по сравнению с предыдущими днями."
	case streak >= 3:
		return "Сохрани текущую интенсивность, можно немного увеличить веса."
	default:
		return "Сфокусируйся на правильной технике, не гонись за весами."
	}
}

func newSpec(kind PlanKind, p *models.UserProfile) PromptSpec {
	return PromptSpec{
		Kind:           kind,
		Height:         p.Height,
		Weight:         p.Weight,
		Goal:           p.Goal,
		Level:          p.Level,
		Streak:         p.WorkoutStreak,
		Focus:          WorkoutFocus(p.Goal),
		Intensity:      IntensityDirective(p.WorkoutStreak),
		SessionMinutes: SessionMinutes,
		Structure:      DefaultStructure(),
		ExtraCardio:    p.Goal == models.GoalWeightLoss,
		Disclaimer:     MedicalDisclaimer,
	}
}

// DailyWorkout запрос на одну часовую тренировку
func DailyWorkout(p *models.UserProfile) PromptSpec {
	return newSpec(PlanDaily, p)
}

// NextDay запрос на новую тренировку с учётом серии и прошлого прогресса
func NextDay(p *models.UserProfile, narrative string) PromptSpec {
	spec := newSpec(PlanNextDay, p)
	spec.Narrative = narrative
	return spec
}

// ForCoachingMode выбирает вид плана по режиму ведения
func ForCoachingMode(p *models.UserProfile) PromptSpec {
	switch p.CoachingMode {
	case models.ModeLevel3:
		return newSpec(PlanAdvanced, p)
	case models.ModeLevel2:
		return newSpec(PlanMonthly, p)
	default:
		return DailyWorkout(p)
	}
}

// Render собирает текст запроса. Дисклеймер всегда идёт последней строкой.
func (s PromptSpec) Render() string {
	var b strings.Builder
	st := s.Structure

	switch s.Kind {
	case PlanAdvanced:
		fmt.Fprintf(&b, "Пользователь: %d см, %.1f кг, цель: %s. Уровень: Продвинутый.\n\n", s.Height, s.Weight, s.Goal.Title())
		b.WriteString("Создай продвинутый фитнес-план. Включи:\n")
		b.WriteString("1. Тренировочный сплит на неделю\n")
		b.WriteString("2. Прогрессию нагрузок\n")
		b.WriteString("3. Периодизацию\n")
		b.WriteString("4. Рекомендации по восстановлению\n")
		b.WriteString("5. Детальное питание с БЖУ\n")
		fmt.Fprintf(&b, "\nКаждая тренировка сплита: %d минут, %s.\n", s.SessionMinutes, s.Focus)

	case PlanMonthly:
		fmt.Fprintf(&b, "Пользователь: %d см, %.1f кг, цель: %s. Уровень: Средний.\n\n", s.Height, s.Weight, s.Goal.Title())
		b.WriteString("Создай месячный план тренировок. Включи:\n")
		b.WriteString("1. 4 тренировки в неделю\n")
		b.WriteString("2. Прогрессию по неделям\n")
		b.WriteString("3. Упражнения с весами\n")
		b.WriteString("4. Базовые рекомендации по питанию\n")
		fmt.Fprintf(&b, "\nКаждая тренировка: %d минут, %s.\n", s.SessionMinutes, s.Focus)

	case PlanNextDay:
		fmt.Fprintf(&b, "Пользователь: %d см, %.1f кг, цель: %s. Уровень: %s.\n", s.Height, s.Weight, s.Goal.Title(), s.Level.Title())
		fmt.Fprintf(&b, "Серия тренировок: %d дней подряд.\n\n", s.Streak)
		b.WriteString(s.Intensity + "\n\n")
		if s.Narrative != "" {
			b.WriteString(s.Narrative + "\n\n")
		} else {
			b.WriteString("Пользователь только начинает свой путь.\n\n")
		}
		b.WriteString("Создай новую часовую тренировку на сегодня. Вариативность важна - не повторяй одни и те же упражнения каждый день.\n\n")
		b.WriteString("**Требования:**\n")
		b.WriteString("1. Новая тренировка с разными упражнениями или их вариациями\n")
		fmt.Fprintf(&b, "2. Учет серии тренировок: %d дней\n", s.Streak)
		fmt.Fprintf(&b, "3. Фокус на цели: %s (%s)\n", s.Goal.Title(), s.Focus)
		fmt.Fprintf(&b, "4. Полная продолжительность: %d минут\n\n", s.SessionMinutes)
		s.writeStructure(&b)

	default:
		fmt.Fprintf(&b, "Пользователь: %d см, %.1f кг, цель: %s. Уровень подготовки: %s.\n\n", s.Height, s.Weight, s.Goal.Title(), s.Level.Title())
		fmt.Fprintf(&b, "Создай ОДНУ часовую тренировку (%d минут) для пользователя. Тренировка должна быть %s.\n\n", s.SessionMinutes, s.Focus)
		b.WriteString(s.Intensity + "\n\n")
		s.writeStructure(&b)
		b.WriteString("**Формат ответа:**\n")
		b.WriteString("Название тренировки\n\n")
		b.WriteString("**Разминка:**\n- Упражнение 1\n- Упражнение 2\n\n")
		fmt.Fprintf(&b, "**Основная часть:**\n1. Упражнение (группа мышц) - %dx%s\n...\n\n", st.Sets, st.Reps)
		b.WriteString("**Заминка:**\n- Упражнение 1\n- Упражнение 2\n\n")
		b.WriteString("**Рекомендации по питанию на день:**\n- Белки: ...\n- Углеводы: ...\n- Жиры: ...\n- Калории: ...\n- Пример приемов пищи\n")
	}

	b.WriteString("\n" + s.Disclaimer)
	return b.String()
}

func (s PromptSpec) writeStructure(b *strings.Builder) {
	st := s.Structure
	b.WriteString("**Структура тренировки:**\n")
	fmt.Fprintf(b, "1. Разминка (%s минут) - динамическая растяжка, легкий кардио\n", st.WarmupMinutes)
	fmt.Fprintf(b, "2. Основная часть (%s минут) - %s упражнений\n", st.MainMinutes, st.Exercises)
	fmt.Fprintf(b, "3. Заминка (%s минут) - статическая растяжка, восстановление\n\n", st.CooldownMinutes)
	b.WriteString("**Требования к основной части:**\n")
	fmt.Fprintf(b, "- %s упражнений на разные группы мышц\n", st.Exercises)
	fmt.Fprintf(b, "- Каждое упражнение: %d подхода по %s повторений (или %s секунд для планки/кардио)\n", st.Sets, st.Reps, st.HoldSeconds)
	fmt.Fprintf(b, "- Отдых между подходами: %s секунд\n", st.RestSeconds)
	fmt.Fprintf(b, "- Включи упражнения на: %s\n", strings.Join(st.MuscleGroups, ", "))
	if s.ExtraCardio {
		b.WriteString("- Добавь 1-2 кардио-упражнения\n")
	}
	b.WriteString("\n")
}
