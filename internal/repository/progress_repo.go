package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fitmind/internal/models"
)

// ProgressRepository журнал взвешиваний (таблица progress_logs)
type ProgressRepository struct {
	db *sql.DB
}

// NewProgressRepository создаёт репозиторий взвешиваний
func NewProgressRepository(db *sql.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Add добавляет запись взвешивания
func (r *ProgressRepository) Add(ctx context.Context, entry models.WeightLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progress_logs (telegram_id, weight, recorded_at) VALUES ($1, $2, $3)`,
		entry.UserID, entry.Weight, entry.RecordedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи веса: %w", mapError(err))
	}
	return nil
}

// List возвращает все взвешивания пользователя по возрастанию времени
func (r *ProgressRepository) List(ctx context.Context, userID int64) ([]models.WeightLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT telegram_id, weight, recorded_at
		FROM progress_logs
		WHERE telegram_id = $1
		ORDER BY recorded_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения истории веса: %w", err)
	}
	defer rows.Close()

	var logs []models.WeightLogEntry
	for rows.Next() {
		var e models.WeightLogEntry
		if err := rows.Scan(&e.UserID, &e.Weight, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения записи веса: %w", err)
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}
