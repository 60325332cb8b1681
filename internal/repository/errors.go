package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("запись не найдена")
	// ErrDuplicate нарушено ограничение уникальности
	ErrDuplicate = errors.New("запись уже существует")
)

// unique_violation
const codeUniqueViolation = "23505"

// mapError переводит ошибки драйвера в ошибки пакета
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation {
		return ErrDuplicate
	}
	return err
}
