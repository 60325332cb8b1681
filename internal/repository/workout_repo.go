package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fitmind/internal/models"
)

// WorkoutRepository журнал выполненных тренировок (таблица workout_logs)
type WorkoutRepository struct {
	db *sql.DB
}

// NewWorkoutRepository создаёт репозиторий тренировок
func NewWorkoutRepository(db *sql.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// Add отмечает тренировку. Вторая запись за тот же день возвращает ErrDuplicate.
func (r *WorkoutRepository) Add(ctx context.Context, entry models.WorkoutLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workout_logs (telegram_id, completed_at, completed_on) VALUES ($1, $2, $3)`,
		entry.UserID, entry.CompletedAt, entry.Day.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("ошибка записи тренировки: %w", mapError(err))
	}
	return nil
}

// List возвращает тренировки пользователя по возрастанию даты
func (r *WorkoutRepository) List(ctx context.Context, userID int64) ([]models.WorkoutLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT telegram_id, completed_at, completed_on
		FROM workout_logs
		WHERE telegram_id = $1
		ORDER BY completed_on`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения тренировок: %w", err)
	}
	defer rows.Close()

	var logs []models.WorkoutLogEntry
	for rows.Next() {
		var e models.WorkoutLogEntry
		if err := rows.Scan(&e.UserID, &e.CompletedAt, &e.Day); err != nil {
			return nil, fmt.Errorf("ошибка чтения тренировки: %w", err)
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}
