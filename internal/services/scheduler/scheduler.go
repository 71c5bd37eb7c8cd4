// Package scheduler содержит фоновые задачи сервиса геймификации:
// еженедельный сброс прогресса по цели и ежедневный поиск истекающих
// пробных периодов с публикацией уведомлений.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/studyhub-app/gamification-service/internal/lib/dates"
	"github.com/studyhub-app/gamification-service/internal/lib/rabbitmq"
	"github.com/studyhub-app/gamification-service/internal/lib/sl"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Repository определяет методы хранилища, нужные фоновым задачам.
type Repository interface {
	// ResetWeeklyProgressAll обнуляет недельный прогресс всех пользователей.
	ResetWeeklyProgressAll(ctx context.Context) (int, error)
	// FindTrialsExpiringToday возвращает пробные периоды, истекающие сегодня.
	FindTrialsExpiringToday(ctx context.Context) ([]*models.TrialExpiringEvent, error)
}

// EventPublisher публикует события в обменник уведомлений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service запускает периодические задачи поверх хранилища.
type Service struct {
	repo   Repository
	events EventPublisher
	log    *slog.Logger

	lastResetWeek time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// RunWeeklyReset раз в час проверяет, не началась ли новая неделя,
// и при её смене обнуляет недельный прогресс всех пользователей.
// Неделя считается с понедельника. Блокируется до отмены контекста.
func (s *Service) RunWeeklyReset(ctx context.Context) {
	s.lastResetWeek = dates.StartOfWeek(time.Now())

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runWeeklyReset(ctx, time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) runWeeklyReset(ctx context.Context, now time.Time) {
	week := dates.StartOfWeek(now)
	if !week.After(s.lastResetWeek) {
		return
	}

	s.log.Info("starting weekly progress reset", slog.Time("week_start", week))
	count, err := s.repo.ResetWeeklyProgressAll(ctx)
	if err != nil {
		// при ошибке lastResetWeek не двигаем, следующий тик повторит сброс
		s.log.Error("failed to reset weekly progress", sl.Err(err))
		return
	}
	s.lastResetWeek = week
	s.log.Info("weekly progress reset completed", slog.Int("users", count))
}

// RunTrialExpiryScan раз в сутки ищет пробные периоды, истекающие сегодня,
// и публикует уведомления. Блокируется до отмены контекста.
func (s *Service) RunTrialExpiryScan(ctx context.Context) {
	s.runTrialExpiryScan(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runTrialExpiryScan(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) runTrialExpiryScan(ctx context.Context) {
	s.log.Info("starting scan for trials expiring today")
	events, err := s.repo.FindTrialsExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find expiring trials", sl.Err(err))
		return
	}
	if len(events) == 0 {
		s.log.Info("no expiring trials found")
		return
	}
	s.log.Info("found expiring trials", slog.Int("count", len(events)))
	for _, event := range events {
		if err := s.events.Publish(rabbitmq.RoutingKeyTrialExpiring, event); err != nil {
			s.log.Error("failed to publish trial expiry event", sl.Err(err))
		}
	}
}
