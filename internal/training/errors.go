package training

import "errors"

// ValidationError ошибка валидации введённых данных
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

var (
	// ErrAlreadyCompleted тренировка за сегодня уже отмечена
	ErrAlreadyCompleted = errors.New("тренировка за сегодня уже отмечена")
	// ErrDayNotCompleted переход к следующему дню без выполненной тренировки
	ErrDayNotCompleted = errors.New("сначала отметьте сегодняшнюю тренировку")
	// ErrDayAlreadyAdvanced следующий день уже подготовлен
	ErrDayAlreadyAdvanced = errors.New("план на следующий день уже сформирован")
)
