package gamification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	engine "github.com/studyhub-app/gamification-service/internal/gamification"
	"github.com/studyhub-app/gamification-service/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetGameState(ctx context.Context, userUID string) (*models.UserGameState, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserGameState), args.Error(1)
}

func (m *RepoMock) SaveGameState(ctx context.Context, state models.UserGameState) error {
	return m.Called(ctx, state).Error(0)
}

func (m *RepoMock) ListUnlocks(ctx context.Context, userUID string) (map[string]time.Time, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]time.Time), args.Error(1)
}

func (m *RepoMock) SaveUnlock(ctx context.Context, rec models.UnlockRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(r *RepoMock, c *CacheMock, p *PublisherMock) *Service {
	return New(r, c, p, engine.New(engine.Options{}), newNoopLogger(), 100)
}

func TestService_AddPoints(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock, p *PublisherMock)
		req        models.DummyPoints
		wantPoints int
		wantErr    bool
	}{
		{
			name: "success for a new user",
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				c.On("Get", "gamestate:user-1", mock.Anything).Return(false, nil).Once()
				r.On("GetGameState", mock.Anything, "user-1").Return(nil, nil).Once()
				r.On("SaveGameState", mock.Anything, mock.MatchedBy(func(s models.UserGameState) bool {
					return s.Points == 25 && s.Level == 1
				})).Return(nil).Once()
				c.On("Set", "gamestate:user-1", mock.Anything, time.Hour).Return(nil).Once()
				p.On("Publish", "points", mock.MatchedBy(func(ev models.PointsEvent) bool {
					return ev.Points == 25 && ev.Action == "Created a post"
				})).Return(nil).Once()
			},
			req:        models.DummyPoints{Amount: 25, Reason: "Created a post"},
			wantPoints: 25,
		},
		{
			name: "publish failure does not fail the operation",
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				c.On("Get", "gamestate:user-1", mock.Anything).Return(false, nil).Once()
				r.On("GetGameState", mock.Anything, "user-1").Return(nil, nil).Once()
				r.On("SaveGameState", mock.Anything, mock.Anything).Return(nil).Once()
				c.On("Set", "gamestate:user-1", mock.Anything, time.Hour).Return(nil).Once()
				p.On("Publish", "points", mock.Anything).Return(errors.New("broker down")).Once()
			},
			req:        models.DummyPoints{Amount: 10, Reason: "Joined a group"},
			wantPoints: 10,
		},
		{
			name: "storage failure is returned",
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				c.On("Get", "gamestate:user-1", mock.Anything).Return(false, nil).Once()
				r.On("GetGameState", mock.Anything, "user-1").Return(nil, errors.New("db error")).Once()
			},
			req:     models.DummyPoints{Amount: 10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			pub := new(PublisherMock)
			tt.setupMocks(repo, cache, pub)

			svc := newService(repo, cache, pub)
			state, err := svc.AddPoints(context.Background(), "user-1", tt.req)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPoints, state.Points)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestService_AddPoints_CorruptedCacheFallsBack(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)

	cache.On("Get", "gamestate:user-1", mock.Anything).Return(false, errors.New("invalid character")).Once()
	cache.On("Invalidate", "gamestate:user-1").Return(nil).Once()
	stored := &models.UserGameState{UserUID: "user-1", Points: 90, WeeklyGoal: 100}
	repo.On("GetGameState", mock.Anything, "user-1").Return(stored, nil).Once()
	repo.On("ListUnlocks", mock.Anything, "user-1").Return(map[string]time.Time{}, nil).Once()
	repo.On("SaveGameState", mock.Anything, mock.Anything).Return(nil).Once()
	cache.On("Set", "gamestate:user-1", mock.Anything, time.Hour).Return(nil).Once()
	pub.On("Publish", "points", mock.Anything).Return(nil).Once()

	svc := newService(repo, cache, pub)
	state, err := svc.AddPoints(context.Background(), "user-1", models.DummyPoints{Amount: 15, Reason: "grind"})
	require.NoError(t, err)

	// повреждённый кеш не пробрасывается: состояние взято из БД
	assert.Equal(t, 105, state.Points)
	assert.Equal(t, 2, state.Level)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_UnlockAchievement(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)

	cache.On("Get", "gamestate:user-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetGameState", mock.Anything, "user-1").Return(nil, nil).Once()
	repo.On("SaveGameState", mock.Anything, mock.MatchedBy(func(s models.UserGameState) bool {
		return s.Points == 10
	})).Return(nil).Once()
	repo.On("SaveUnlock", mock.Anything, mock.MatchedBy(func(rec models.UnlockRecord) bool {
		return rec.AchievementID == "first_post" && rec.UserUID == "user-1"
	})).Return(nil).Once()
	cache.On("Set", "gamestate:user-1", mock.Anything, time.Hour).Return(nil).Once()
	pub.On("Publish", "points", mock.Anything).Return(nil).Once()
	pub.On("Publish", "achievements", mock.MatchedBy(func(ev models.AchievementEvent) bool {
		return ev.AchievementID == "first_post" && ev.Points == 10
	})).Return(nil).Once()

	svc := newService(repo, cache, pub)
	state, err := svc.UnlockAchievement(context.Background(), "user-1", "first_post")
	require.NoError(t, err)
	assert.Equal(t, 10, state.Points)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_UnlockAchievement_UnknownIsNoop(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)

	cache.On("Get", "gamestate:user-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetGameState", mock.Anything, "user-1").Return(nil, nil).Once()

	svc := newService(repo, cache, pub)
	state, err := svc.UnlockAchievement(context.Background(), "user-1", "no_such")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Points)

	// ни сохранения, ни публикаций не было
	repo.AssertNotCalled(t, "SaveGameState", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_UnlockAchievement_AlreadyUnlocked(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)

	unlockedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	stored := &models.UserGameState{UserUID: "user-1", Points: 10, WeeklyGoal: 100}

	cache.On("Get", "gamestate:user-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetGameState", mock.Anything, "user-1").Return(stored, nil).Once()
	repo.On("ListUnlocks", mock.Anything, "user-1").
		Return(map[string]time.Time{"first_post": unlockedAt}, nil).Once()

	svc := newService(repo, cache, pub)
	state, err := svc.UnlockAchievement(context.Background(), "user-1", "first_post")
	require.NoError(t, err)

	// повторная разблокировка не начисляет очки
	assert.Equal(t, 10, state.Points)
	repo.AssertNotCalled(t, "SaveGameState", mock.Anything, mock.Anything)
}

func TestService_GetSummary(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)

	stored := &models.UserGameState{UserUID: "user-1", Points: 250, WeeklyGoal: 100, WeeklyProgress: 40}
	cache.On("Get", "gamestate:user-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetGameState", mock.Anything, "user-1").Return(stored, nil).Once()
	repo.On("ListUnlocks", mock.Anything, "user-1").Return(map[string]time.Time{}, nil).Once()

	svc := newService(repo, cache, pub)
	summary, err := svc.GetSummary(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.State.Level)
	assert.Equal(t, 50, summary.PointsToNextLevel)
	assert.NotEmpty(t, summary.NextLevelActions)
	assert.LessOrEqual(t, len(summary.NextLevelActions), 2)
}

func TestService_UseStreakFreeze_MonthlyGate(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)

	lastFreeze := time.Now()
	stored := &models.UserGameState{
		UserUID:              "user-1",
		WeeklyGoal:           100,
		StreakFreezeUsed:     true,
		LastStreakFreezeDate: &lastFreeze,
	}
	cache.On("Get", "gamestate:user-1", mock.Anything).Return(false, nil).Once()
	repo.On("GetGameState", mock.Anything, "user-1").Return(stored, nil).Once()
	repo.On("ListUnlocks", mock.Anything, "user-1").Return(map[string]time.Time{}, nil).Once()

	svc := newService(repo, cache, pub)
	ok, err := svc.UseStreakFreeze(context.Background(), "user-1")
	require.NoError(t, err)

	// заморозка уже использована в этом месяце
	assert.False(t, ok)
	repo.AssertNotCalled(t, "SaveGameState", mock.Anything, mock.Anything)
}
