package repository

import (
	"context"
	"database/sql"
)

// Repository содержит все репозитории
type Repository struct {
	db       *sql.DB
	Profile  *ProfileRepository
	Progress *ProgressRepository
	Workout  *WorkoutRepository
}

// New создаёт новый экземпляр Repository
func New(db *sql.DB) *Repository {
	return &Repository{
		db:       db,
		Profile:  NewProfileRepository(db),
		Progress: NewProgressRepository(db),
		Workout:  NewWorkoutRepository(db),
	}
}

// Ping проверяет соединение с БД
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
