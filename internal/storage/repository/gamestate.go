package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyhub-app/gamification-service/internal/models"
)

// GetGameState возвращает игровое состояние пользователя без списка
// достижений. Если состояние ещё не создавалось, возвращает (nil, nil).
func (s *Storage) GetGameState(ctx context.Context, userUID string) (*models.UserGameState, error) {
	const op = "storage.GetGameState"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, points, streak, last_login_date, streak_freeze_used,
				last_streak_freeze_date, weekly_goal, weekly_progress
			  FROM user_game_states WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.UserGameState
	err := row.Scan(&result.UserUID, &result.Points, &result.Streak, &result.LastLoginDate,
		&result.StreakFreezeUsed, &result.LastStreakFreezeDate, &result.WeeklyGoal,
		&result.WeeklyProgress)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.Level = models.LevelFromPoints(result.Points)
	return &result, nil
}

// SaveGameState вставляет или обновляет игровое состояние пользователя.
func (s *Storage) SaveGameState(ctx context.Context, state models.UserGameState) error {
	const op = "storage.SaveGameState"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_game_states (user_uid, points, streak, last_login_date,
				streak_freeze_used, last_streak_freeze_date, weekly_goal, weekly_progress)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (user_uid) DO UPDATE SET
				points = EXCLUDED.points,
				streak = EXCLUDED.streak,
				last_login_date = EXCLUDED.last_login_date,
				streak_freeze_used = EXCLUDED.streak_freeze_used,
				last_streak_freeze_date = EXCLUDED.last_streak_freeze_date,
				weekly_goal = EXCLUDED.weekly_goal,
				weekly_progress = EXCLUDED.weekly_progress`
	_, err := s.DB.ExecContext(ctx, query,
		state.UserUID, state.Points, state.Streak, state.LastLoginDate,
		state.StreakFreezeUsed, state.LastStreakFreezeDate, state.WeeklyGoal,
		state.WeeklyProgress)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUnlocks возвращает моменты разблокировки достижений пользователя
// по идентификатору достижения.
func (s *Storage) ListUnlocks(ctx context.Context, userUID string) (map[string]time.Time, error) {
	const op = "storage.ListUnlocks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT achievement_id, unlocked_at FROM user_achievements WHERE user_uid = $1`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	unlocks := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		unlocks[id] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return unlocks, nil
}

// SaveUnlock фиксирует разблокировку достижения. Повторная запись
// той же пары (user_uid, achievement_id) поглощается без изменений.
func (s *Storage) SaveUnlock(ctx context.Context, rec models.UnlockRecord) error {
	const op = "storage.SaveUnlock"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_achievements (user_uid, achievement_id, unlocked_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_uid, achievement_id) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query, rec.UserUID, rec.AchievementID, rec.UnlockedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetWeeklyProgressAll обнуляет недельный прогресс всех пользователей
// и возвращает количество затронутых строк. Вызывается планировщиком
// на границе недели.
func (s *Storage) ResetWeeklyProgressAll(ctx context.Context) (int, error) {
	const op = "storage.ResetWeeklyProgressAll"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `UPDATE user_game_states SET weekly_progress = 0
		WHERE weekly_progress > 0`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
