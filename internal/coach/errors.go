package coach

import (
	"errors"
	"fmt"

	"fitmind/internal/repository"
)

var (
	// ErrNotRegistered профиль не найден
	ErrNotRegistered = errors.New("пользователь не зарегистрирован")
	// ErrStorageUnavailable ошибка хранилища
	ErrStorageUnavailable = errors.New("хранилище недоступно")
	// ErrGenerationUnavailable сервис генерации не ответил
	ErrGenerationUnavailable = errors.New("сервис генерации недоступен")
)

func storageError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotRegistered
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func generationError(err error) error {
	return fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
}
