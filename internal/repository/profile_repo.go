package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fitmind/internal/models"
)

const dateLayout = "2006-01-02"

// ProfileRepository работает с таблицей users
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository создаёт репозиторий профилей
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	telegram_id, COALESCE(username, ''), full_name, height, weight, initial_weight,
	goal, level, coaching_mode, fitness_score, workout_streak,
	last_workout_date, day_advanced_on, COALESCE(current_plan, ''),
	last_export, registered_at, level_entered_at,
	COALESCE(reminder_days, ''), COALESCE(reminder_time, '')`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	var lastWorkout, advanced, lastExport sql.NullTime
	err := row.Scan(
		&p.UserID, &p.Username, &p.FullName, &p.Height, &p.Weight, &p.InitialWeight,
		&p.Goal, &p.Level, &p.CoachingMode, &p.FitnessScore, &p.WorkoutStreak,
		&lastWorkout, &advanced, &p.CurrentPlan,
		&lastExport, &p.RegisteredAt, &p.LevelEnteredAt,
		&p.ReminderDays, &p.ReminderTime,
	)
	if err != nil {
		return nil, mapError(err)
	}
	p.LastWorkoutDate = nullTimePtr(lastWorkout)
	p.DayAdvancedOn = nullTimePtr(advanced)
	p.LastExport = nullTimePtr(lastExport)
	return p, nil
}

// Get возвращает профиль по Telegram ID
func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*models.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM users WHERE telegram_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения профиля %d: %w", userID, err)
	}
	return p, nil
}

// Save создаёт или полностью обновляет профиль
func (r *ProfileRepository) Save(ctx context.Context, p *models.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			telegram_id, username, full_name, height, weight, initial_weight,
			goal, level, coaching_mode, fitness_score, workout_streak,
			last_workout_date, day_advanced_on, current_plan,
			last_export, registered_at, level_entered_at,
			reminder_days, reminder_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = EXCLUDED.username,
			full_name = EXCLUDED.full_name,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			initial_weight = EXCLUDED.initial_weight,
			goal = EXCLUDED.goal,
			level = EXCLUDED.level,
			coaching_mode = EXCLUDED.coaching_mode,
			fitness_score = EXCLUDED.fitness_score,
			workout_streak = EXCLUDED.workout_streak,
			last_workout_date = EXCLUDED.last_workout_date,
			day_advanced_on = EXCLUDED.day_advanced_on,
			current_plan = EXCLUDED.current_plan,
			last_export = EXCLUDED.last_export,
			registered_at = EXCLUDED.registered_at,
			level_entered_at = EXCLUDED.level_entered_at,
			reminder_days = EXCLUDED.reminder_days,
			reminder_time = EXCLUDED.reminder_time`,
		p.UserID, nullString(p.Username), p.FullName, p.Height, p.Weight, p.InitialWeight,
		p.Goal, p.Level, p.CoachingMode, p.FitnessScore, p.WorkoutStreak,
		dateArg(p.LastWorkoutDate), dateArg(p.DayAdvancedOn), nullString(p.CurrentPlan),
		timeArg(p.LastExport), p.RegisteredAt, p.LevelEnteredAt,
		nullString(p.ReminderDays), nullString(p.ReminderTime),
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения профиля %d: %w", p.UserID, mapError(err))
	}
	return nil
}

// ListWithReminders возвращает профили с настроенными напоминаниями
func (r *ProfileRepository) ListWithReminders(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM users
		WHERE COALESCE(reminder_days, '') <> '' AND COALESCE(reminder_time, '') <> ''
		ORDER BY telegram_id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения профилей: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения профиля: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// dateArg передаёт календарную дату без часового пояса
func dateArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func timeArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
