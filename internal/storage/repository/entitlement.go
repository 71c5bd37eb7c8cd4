package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyhub-app/gamification-service/internal/models"
)

// GetProfile возвращает запись профиля с премиум-статусом.
// Если профиль не найден, возвращает (nil, nil).
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, is_premium, premium_until FROM profiles WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.Profile
	err := row.Scan(&result.UserUID, &result.IsPremium, &result.PremiumUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// GetUserContact возвращает контактные данные пользователя для почтовых
// уведомлений. Если профиль не найден, возвращает (nil, nil).
func (s *Storage) GetUserContact(ctx context.Context, userUID string) (*models.UserContact, error) {
	const op = "storage.GetUserContact"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, COALESCE(username, ''), COALESCE(email, '') FROM profiles WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.UserContact
	err := row.Scan(&result.UserUID, &result.Username, &result.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ClearPremium снимает премиум-флаг профиля. Корректирующая запись
// для просроченного статуса: флаг поднят, а срок уже прошёл.
func (s *Storage) ClearPremium(ctx context.Context, userUID string) error {
	const op = "storage.ClearPremium"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles SET is_premium = FALSE, premium_until = NULL WHERE user_uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetPremium поднимает премиум-флаг профиля до указанной даты.
// Профиль создаётся, если его ещё нет.
func (s *Storage) SetPremium(ctx context.Context, userUID string, until time.Time) error {
	const op = "storage.SetPremium"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO profiles (user_uid, is_premium, premium_until)
			  VALUES ($1, TRUE, $2)
			  ON CONFLICT (user_uid) DO UPDATE SET
				is_premium = TRUE,
				premium_until = EXCLUDED.premium_until`
	if _, err := s.DB.ExecContext(ctx, query, userUID, until); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetFreeTrial возвращает запись пробного периода или (nil, nil).
func (s *Storage) GetFreeTrial(ctx context.Context, userUID string) (*models.FreeTrial, error) {
	const op = "storage.GetFreeTrial"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, started_at, ends_at FROM free_trials WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.FreeTrial
	err := row.Scan(&result.UserUID, &result.StartedAt, &result.EndsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// SaveFreeTrial вставляет или перезаписывает запись пробного периода.
// Повторный вызов сбрасывает окно на новые семь дней: так ведёт себя
// исходная система, и это зафиксированная зона доверия.
func (s *Storage) SaveFreeTrial(ctx context.Context, trial models.FreeTrial) error {
	const op = "storage.SaveFreeTrial"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO free_trials (user_uid, started_at, ends_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_uid) DO UPDATE SET
				started_at = EXCLUDED.started_at,
				ends_at = EXCLUDED.ends_at`
	if _, err := s.DB.ExecContext(ctx, query, trial.UserUID, trial.StartedAt, trial.EndsAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteFreeTrial удаляет запись пробного периода.
func (s *Storage) DeleteFreeTrial(ctx context.Context, userUID string) error {
	const op = "storage.DeleteFreeTrial"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM free_trials WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPremiumSubscription возвращает запись об оформленной подписке или (nil, nil).
func (s *Storage) GetPremiumSubscription(ctx context.Context, userUID string) (*models.PremiumSubscription, error) {
	const op = "storage.GetPremiumSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, plan_id, purchase_date, end_date
			  FROM premium_subscriptions WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.PremiumSubscription
	err := row.Scan(&result.UserUID, &result.PlanID, &result.PurchaseDate, &result.EndDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// SavePremiumSubscription вставляет или перезаписывает запись об оформленной подписке.
func (s *Storage) SavePremiumSubscription(ctx context.Context, sub models.PremiumSubscription) error {
	const op = "storage.SavePremiumSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO premium_subscriptions (user_uid, plan_id, purchase_date, end_date)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_uid) DO UPDATE SET
				plan_id = EXCLUDED.plan_id,
				purchase_date = EXCLUDED.purchase_date,
				end_date = EXCLUDED.end_date`
	if _, err := s.DB.ExecContext(ctx, query, sub.UserUID, sub.PlanID, sub.PurchaseDate, sub.EndDate); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindTrialsExpiringToday возвращает пробные периоды, истекающие в текущие
// сутки, вместе с контактами пользователя для уведомления.
func (s *Storage) FindTrialsExpiringToday(ctx context.Context) ([]*models.TrialExpiringEvent, error) {
	const op = "storage.FindTrialsExpiringToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.user_uid, COALESCE(p.username, ''), COALESCE(p.email, ''), t.ends_at
			  FROM free_trials t
			  LEFT JOIN profiles p ON p.user_uid = t.user_uid
			  WHERE t.ends_at::date = CURRENT_DATE`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.TrialExpiringEvent
	for rows.Next() {
		var ev models.TrialExpiringEvent
		if err := rows.Scan(&ev.UserUID, &ev.Username, &ev.Email, &ev.EndsAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
