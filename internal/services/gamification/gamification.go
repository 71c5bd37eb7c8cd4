// Package gamification содержит бизнес-логику игрового состояния:
// загрузку и сохранение снимков, прогон переходов через автомат
// и рассылку событий уведомлений.
package gamification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	engine "github.com/studyhub-app/gamification-service/internal/gamification"
	"github.com/studyhub-app/gamification-service/internal/lib/rabbitmq"
	"github.com/studyhub-app/gamification-service/internal/lib/sl"
	"github.com/studyhub-app/gamification-service/internal/metrics"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Repository определяет методы для работы с игровым состоянием в хранилище.
type Repository interface {
	// GetGameState возвращает состояние пользователя или (nil, nil), если его нет.
	GetGameState(ctx context.Context, userUID string) (*models.UserGameState, error)
	// SaveGameState вставляет или обновляет состояние пользователя.
	SaveGameState(ctx context.Context, state models.UserGameState) error
	// ListUnlocks возвращает моменты разблокировки достижений по их идентификаторам.
	ListUnlocks(ctx context.Context, userUID string) (map[string]time.Time, error)
	// SaveUnlock фиксирует разблокировку достижения, повторы поглощаются.
	SaveUnlock(ctx context.Context, rec models.UnlockRecord) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует события уведомлений. Доставка at-most-once:
// неудачная публикация логируется и не считается ошибкой операции.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику игрового состояния.
type Service struct {
	repo       Repository
	cache      Cache
	events     EventPublisher
	engine     *engine.Engine
	log        *slog.Logger
	weeklyGoal int
}

// Summary агрегированный ответ о прогрессе пользователя.
type Summary struct {
	State             models.UserGameState `json:"state"`
	PointsToNextLevel int                  `json:"points_to_next_level"`
	NextLevelActions  []string             `json:"next_level_actions"`
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, events EventPublisher, eng *engine.Engine, log *slog.Logger, weeklyGoal int) *Service {
	if weeklyGoal <= 0 {
		weeklyGoal = models.DefaultWeeklyGoal
	}
	return &Service{
		repo:       repo,
		cache:      cache,
		events:     events,
		engine:     eng,
		log:        log,
		weeklyGoal: weeklyGoal,
	}
}

// AddPoints начисляет очки пользователю и публикует событие для тоста в UI.
func (s *Service) AddPoints(ctx context.Context, userUID string, req models.DummyPoints) (*models.UserGameState, error) {
	state, err := s.loadState(ctx, userUID)
	if err != nil {
		return nil, err
	}

	res := s.engine.AddPoints(state, req.Amount, req.Reason)
	if err := s.persist(ctx, res); err != nil {
		return nil, err
	}

	metrics.PointsAwarded.Add(float64(req.Amount))
	s.publishAll(res)
	s.log.Info("points added",
		slog.String("user_uid", userUID),
		slog.Int("amount", req.Amount),
		slog.Int("total", res.State.Points))
	return &res.State, nil
}

// UpdateStreak оценивает стрик на старте сессии. Повторный вызов в те же
// сутки — no-op.
func (s *Service) UpdateStreak(ctx context.Context, userUID string) (*models.UserGameState, error) {
	state, err := s.loadState(ctx, userUID)
	if err != nil {
		return nil, err
	}

	res := s.engine.UpdateStreak(state, time.Now())
	if err := s.persist(ctx, res); err != nil {
		return nil, err
	}

	s.publishAll(res)
	s.log.Info("streak updated",
		slog.String("user_uid", userUID),
		slog.Int("streak", res.State.Streak))
	return &res.State, nil
}

// UseStreakFreeze активирует заморозку стрика с месячным лимитом.
func (s *Service) UseStreakFreeze(ctx context.Context, userUID string) (bool, error) {
	state, err := s.loadState(ctx, userUID)
	if err != nil {
		return false, err
	}

	res, ok := s.engine.UseStreakFreeze(state, time.Now())
	if !ok {
		return false, nil
	}
	if err := s.persist(ctx, res); err != nil {
		return false, err
	}

	s.log.Info("streak freeze used", slog.String("user_uid", userUID))
	return true, nil
}

// UnlockAchievement разблокирует достижение. Неизвестный идентификатор
// и повторная разблокировка поглощаются как no-op.
func (s *Service) UnlockAchievement(ctx context.Context, userUID, achievementID string) (*models.UserGameState, error) {
	state, err := s.loadState(ctx, userUID)
	if err != nil {
		return nil, err
	}

	res := s.engine.UnlockAchievement(state, achievementID, time.Now())
	if len(res.Unlocked) == 0 {
		return &res.State, nil
	}
	if err := s.persist(ctx, res); err != nil {
		return nil, err
	}

	s.publishAll(res)
	s.log.Info("achievement unlocked",
		slog.String("user_uid", userUID),
		slog.String("achievement_id", achievementID))
	return &res.State, nil
}

// GetSummary возвращает агрегированный прогресс пользователя.
func (s *Service) GetSummary(ctx context.Context, userUID string) (*Summary, error) {
	state, err := s.loadState(ctx, userUID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		State:             state,
		PointsToNextLevel: engine.PointsToNextLevel(state.Points),
		NextLevelActions:  engine.NextLevelActions(state.Points),
	}, nil
}

// ListAchievements возвращает каталог достижений с состоянием разблокировки.
func (s *Service) ListAchievements(ctx context.Context, userUID string) ([]models.Achievement, error) {
	state, err := s.loadState(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return state.Achievements, nil
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("gamestate:%s", userUID)
}

// loadState восстанавливает состояние из кеша или хранилища.
// Повреждённый снимок в кеше не считается фатальным: запись
// инвалидируется и состояние перечитывается из БД. Отсутствующее
// состояние создаётся с нулевыми значениями.
func (s *Service) loadState(ctx context.Context, userUID string) (models.UserGameState, error) {
	var cached models.UserGameState
	found, err := s.cache.Get(cacheKey(userUID), &cached)
	if err != nil {
		s.log.Warn("corrupted or unreachable cache entry, falling back to storage",
			slog.String("user_uid", userUID), sl.Err(err))
		if invErr := s.cache.Invalidate(cacheKey(userUID)); invErr != nil {
			s.log.Warn("failed to invalidate cache entry", sl.Err(invErr))
		}
	}
	if err == nil && found {
		cached.Normalize()
		return cached, nil
	}

	stored, err := s.repo.GetGameState(ctx, userUID)
	if err != nil {
		return models.UserGameState{}, err
	}
	if stored == nil {
		state := engine.NewState(userUID)
		state.WeeklyGoal = s.weeklyGoal
		return state, nil
	}

	unlocks, err := s.repo.ListUnlocks(ctx, userUID)
	if err != nil {
		return models.UserGameState{}, err
	}

	state := *stored
	state.Achievements = engine.DefaultAchievements()
	for i, a := range state.Achievements {
		if at, ok := unlocks[a.ID]; ok {
			unlockedAt := at
			state.Achievements[i].Unlocked = true
			state.Achievements[i].UnlockedAt = &unlockedAt
		}
	}
	state.Normalize()
	return state, nil
}

// persist сохраняет состояние и новые разблокировки, обновляет кеш.
func (s *Service) persist(ctx context.Context, res engine.Result) error {
	if err := s.repo.SaveGameState(ctx, res.State); err != nil {
		return err
	}
	for _, a := range res.Unlocked {
		unlockedAt := time.Now()
		if a.UnlockedAt != nil {
			unlockedAt = *a.UnlockedAt
		}
		if err := s.repo.SaveUnlock(ctx, models.UnlockRecord{
			UserUID:       res.State.UserUID,
			AchievementID: a.ID,
			UnlockedAt:    unlockedAt,
		}); err != nil {
			return err
		}
		metrics.AchievementsUnlocked.Inc()
	}

	if err := s.cache.Set(cacheKey(res.State.UserUID), res.State, time.Hour); err != nil {
		s.log.Warn("failed to cache game state",
			slog.String("key", cacheKey(res.State.UserUID)), sl.Err(err))
	}
	return nil
}

// publishAll рассылает накопленные события перехода. Неудачная публикация
// логируется и не прерывает операцию: уведомления носят рекомендательный
// характер и доставляются не более одного раза.
func (s *Service) publishAll(res engine.Result) {
	for _, ev := range res.Events {
		if err := s.events.Publish(rabbitmq.RoutingKeyPoints, ev); err != nil {
			s.log.Warn("failed to publish points event", sl.Err(err))
		}
	}
	for _, a := range res.Unlocked {
		unlockedAt := time.Now()
		if a.UnlockedAt != nil {
			unlockedAt = *a.UnlockedAt
		}
		ev := models.AchievementEvent{
			UserUID:       res.State.UserUID,
			AchievementID: a.ID,
			Title:         a.Title,
			Points:        a.Points,
			UnlockedAt:    unlockedAt,
		}
		if err := s.events.Publish(rabbitmq.RoutingKeyAchievements, ev); err != nil {
			s.log.Warn("failed to publish achievement event", sl.Err(err))
		}
	}
}
