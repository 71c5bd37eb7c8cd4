// Package entitlement содержит бизнес-логику премиум-доступа: проверку
// статуса по записи профиля, пробные периоды, оформление подписки по
// тарифу из статического каталога и гейтинг возможностей.
//
// Срок действия премиума и пробного периода проверяется лениво, при
// каждом вызове CheckPremiumStatus: фоновых таймеров нет, поэтому
// чувствительные операции обязаны перепроверять статус, а не доверять
// однажды полученному флагу.
package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/studyhub-app/gamification-service/internal/lib/sl"
	"github.com/studyhub-app/gamification-service/internal/metrics"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Repository определяет методы для работы с записями премиум-доступа в хранилище.
type Repository interface {
	// GetProfile возвращает запись профиля или (nil, nil), если её нет.
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
	// ClearPremium снимает премиум-флаг профиля.
	ClearPremium(ctx context.Context, userUID string) error
	// SetPremium поднимает премиум-флаг профиля до указанной даты.
	SetPremium(ctx context.Context, userUID string, until time.Time) error
	// GetFreeTrial возвращает запись пробного периода или (nil, nil).
	GetFreeTrial(ctx context.Context, userUID string) (*models.FreeTrial, error)
	// SaveFreeTrial вставляет или перезаписывает запись пробного периода.
	SaveFreeTrial(ctx context.Context, trial models.FreeTrial) error
	// DeleteFreeTrial удаляет запись пробного периода.
	DeleteFreeTrial(ctx context.Context, userUID string) error
	// GetPremiumSubscription возвращает запись об оформленной подписке или (nil, nil).
	GetPremiumSubscription(ctx context.Context, userUID string) (*models.PremiumSubscription, error)
	// SavePremiumSubscription вставляет или перезаписывает запись об оформленной подписке.
	SavePremiumSubscription(ctx context.Context, sub models.PremiumSubscription) error
}

// Service реализует бизнес-логику премиум-доступа.
type Service struct {
	repo      Repository
	log       *slog.Logger
	plans     []models.Plan
	trialDays int
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger, trialDays int) *Service {
	if trialDays <= 0 {
		trialDays = 7
	}
	return &Service{
		repo:      repo,
		log:       log,
		plans:     DefaultPlans(),
		trialDays: trialDays,
	}
}

// Plans возвращает статический каталог тарифов.
func (s *Service) Plans() []models.Plan {
	return s.plans
}

// PlanByID ищет тариф в каталоге. Неизвестный идентификатор — (nil, false).
func (s *Service) PlanByID(planID string) (*models.Plan, bool) {
	for i := range s.plans {
		if s.plans[i].ID == planID {
			return &s.plans[i], true
		}
	}
	return nil, false
}

// CheckPremiumStatus определяет действующий статус доступа пользователя.
//
// Запись профиля — источник истины: действующий серверный премиум
// возвращается сразу. Просроченный поднятый флаг корректируется на месте
// (ленивое самовосстановление, фоновой задачи нет). Пробный период
// проверяется, только когда серверный премиум не действует; просроченная
// запись пробного периода удаляется.
//
// Ошибки хранилища не пробрасываются наружу: любой сбой трактуется как
// отсутствие записи, и статус деградирует к безопасному значению
// "нет премиума".
func (s *Service) CheckPremiumStatus(ctx context.Context, userUID string) models.EntitlementStatus {
	now := time.Now()
	var status models.EntitlementStatus

	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		s.log.Warn("profile lookup failed, falling back to trial record", sl.Err(err))
	}

	if err == nil && profile != nil && profile.IsPremium {
		if profile.PremiumUntil == nil || profile.PremiumUntil.After(now) {
			status.IsPremium = true
			status.SubscriptionEndDate = profile.PremiumUntil
			s.attachSubscription(ctx, userUID, &status)
			return status
		}

		// флаг поднят, но срок прошёл: корректирующая запись
		if clearErr := s.repo.ClearPremium(ctx, userUID); clearErr != nil {
			s.log.Error("failed to clear expired premium flag", sl.Err(clearErr))
		} else {
			s.log.Info("expired premium flag cleared", slog.String("user_uid", userUID))
		}
	}

	trial, err := s.repo.GetFreeTrial(ctx, userUID)
	if err != nil {
		s.log.Warn("trial lookup failed, treating as absent", sl.Err(err))
		return status
	}
	if trial == nil {
		return status
	}
	if !trial.EndsAt.After(now) {
		if delErr := s.repo.DeleteFreeTrial(ctx, userUID); delErr != nil {
			s.log.Warn("failed to delete expired trial record", sl.Err(delErr))
		}
		return status
	}

	endsAt := trial.EndsAt
	status.IsPremium = true
	status.IsFreeTrial = true
	status.FreeTrialEndsAt = &endsAt
	return status
}

// attachSubscription дополняет статус данными об оформленной подписке,
// если запись о ней есть. Сбой чтения не влияет на сам статус.
func (s *Service) attachSubscription(ctx context.Context, userUID string, status *models.EntitlementStatus) {
	sub, err := s.repo.GetPremiumSubscription(ctx, userUID)
	if err != nil {
		s.log.Warn("subscription lookup failed", sl.Err(err))
		return
	}
	if sub == nil {
		return
	}
	if plan, ok := s.PlanByID(sub.PlanID); ok {
		status.Subscription = plan
	}
	endDate := sub.EndDate
	status.SubscriptionEndDate = &endDate
}

// StartFreeTrial открывает пробный период на trialDays дней.
// Повторный вызов перезаписывает окно на свежие trialDays — так ведёт
// себя исходная система; злоупотребление ограничивается тем, что запись
// теперь живёт на стороне сервиса, а не в локальном хранилище клиента.
func (s *Service) StartFreeTrial(ctx context.Context, userUID string) (models.EntitlementStatus, error) {
	now := time.Now()
	trial := models.FreeTrial{
		UserUID:   userUID,
		StartedAt: now,
		EndsAt:    now.AddDate(0, 0, s.trialDays),
	}
	if err := s.repo.SaveFreeTrial(ctx, trial); err != nil {
		return models.EntitlementStatus{}, err
	}

	metrics.TrialsStarted.Inc()
	s.log.Info("free trial started",
		slog.String("user_uid", userUID),
		slog.Time("ends_at", trial.EndsAt))

	endsAt := trial.EndsAt
	return models.EntitlementStatus{
		IsPremium:       true,
		IsFreeTrial:     true,
		FreeTrialEndsAt: &endsAt,
	}, nil
}

// UpgradeToPremium оформляет подписку по тарифу из каталога.
// Неизвестный тариф — (false, nil) без изменений состояния.
//
// Проверка оплаты в этом сервисе не выполняется: вызов должен приходить
// из доверенного платёжного контура. Это зафиксированная граница доверия,
// а не упущение.
func (s *Service) UpgradeToPremium(ctx context.Context, userUID, planID string) (bool, error) {
	plan, ok := s.PlanByID(planID)
	if !ok {
		s.log.Info("unknown plan requested", slog.String("plan_id", planID))
		return false, nil
	}

	now := time.Now()
	var endDate time.Time
	switch plan.Interval {
	case models.IntervalYear:
		endDate = now.AddDate(1, 0, 0)
	default:
		endDate = now.AddDate(0, 1, 0)
	}

	sub := models.PremiumSubscription{
		UserUID:      userUID,
		PlanID:       plan.ID,
		PurchaseDate: now,
		EndDate:      endDate,
	}
	if err := s.repo.SavePremiumSubscription(ctx, sub); err != nil {
		return false, err
	}
	if err := s.repo.SetPremium(ctx, userUID, endDate); err != nil {
		return false, err
	}

	metrics.PremiumUpgrades.Inc()
	s.log.Info("premium upgrade completed",
		slog.String("user_uid", userUID),
		slog.String("plan_id", plan.ID),
		slog.Time("end_date", endDate))
	return true, nil
}

// HasFeatureAccess сообщает, доступна ли пользователю возможность.
// Бесплатный набор открыт всегда, остальное требует действующего
// премиума или пробного периода.
func (s *Service) HasFeatureAccess(ctx context.Context, userUID, featureID string) bool {
	if _, ok := FreeFeatures[featureID]; ok {
		return true
	}
	status := s.CheckPremiumStatus(ctx, userUID)
	return status.IsPremium || status.IsFreeTrial
}
