package entitlement

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

	"github.com/studyhub-app/gamification-service/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *RepoMock) ClearPremium(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func (m *RepoMock) SetPremium(ctx context.Context, userUID string, until time.Time) error {
	return m.Called(ctx, userUID, until).Error(0)
}

func (m *RepoMock) GetFreeTrial(ctx context.Context, userUID string) (*models.FreeTrial, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreeTrial), args.Error(1)
}

func (m *RepoMock) SaveFreeTrial(ctx context.Context, trial models.FreeTrial) error {
	return m.Called(ctx, trial).Error(0)
}

func (m *RepoMock) DeleteFreeTrial(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func (m *RepoMock) GetPremiumSubscription(ctx context.Context, userUID string) (*models.PremiumSubscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PremiumSubscription), args.Error(1)
}

func (m *RepoMock) SavePremiumSubscription(ctx context.Context, sub models.PremiumSubscription) error {
	return m.Called(ctx, sub).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(r *RepoMock) *Service {
	return New(r, newNoopLogger(), 7)
}

func TestCheckPremiumStatus_ServerRecordWins(t *testing.T) {
	future := time.Now().Add(30 * 24 * time.Hour)

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantStatus models.EntitlementStatus
	}{
		{
			name: "active server premium",
			setupMocks: func(r *RepoMock) {
				r.On("GetProfile", mock.Anything, "user-1").
					Return(&models.Profile{UserUID: "user-1", IsPremium: true, PremiumUntil: &future}, nil).Once()
				r.On("GetPremiumSubscription", mock.Anything, "user-1").Return(nil, nil).Once()
			},
			wantStatus: models.EntitlementStatus{IsPremium: true, SubscriptionEndDate: &future},
		},
		{
			name: "premium without expiry is unlimited",
			setupMocks: func(r *RepoMock) {
				r.On("GetProfile", mock.Anything, "user-1").
					Return(&models.Profile{UserUID: "user-1", IsPremium: true}, nil).Once()
				r.On("GetPremiumSubscription", mock.Anything, "user-1").Return(nil, nil).Once()
			},
			wantStatus: models.EntitlementStatus{IsPremium: true},
		},
		{
			name: "profile without premium and no trial",
			setupMocks: func(r *RepoMock) {
				r.On("GetProfile", mock.Anything, "user-1").
					Return(&models.Profile{UserUID: "user-1"}, nil).Once()
				r.On("GetFreeTrial", mock.Anything, "user-1").Return(nil, nil).Once()
			},
			wantStatus: models.EntitlementStatus{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			status := newService(repo).CheckPremiumStatus(context.Background(), "user-1")
			assert.Equal(t, tt.wantStatus, status)
			repo.AssertExpectations(t)
		})
	}
}

func TestCheckPremiumStatus_ExpiredFlagIsCorrected(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	repo := new(RepoMock)
	repo.On("GetProfile", mock.Anything, "user-1").
		Return(&models.Profile{UserUID: "user-1", IsPremium: true, PremiumUntil: &past}, nil).Once()
	repo.On("ClearPremium", mock.Anything, "user-1").Return(nil).Once()
	repo.On("GetFreeTrial", mock.Anything, "user-1").Return(nil, nil).Once()

	status := newService(repo).CheckPremiumStatus(context.Background(), "user-1")

	// просроченный флаг даёт отказ и корректирующую запись
	assert.False(t, status.IsPremium)
	repo.AssertExpectations(t)
}

func TestCheckPremiumStatus_TrialFallback(t *testing.T) {
	repo := new(RepoMock)
	endsAt := time.Now().Add(3 * 24 * time.Hour)
	repo.On("GetProfile", mock.Anything, "user-1").Return(nil, errors.New("backend unreachable")).Once()
	repo.On("GetFreeTrial", mock.Anything, "user-1").
		Return(&models.FreeTrial{UserUID: "user-1", EndsAt: endsAt}, nil).Once()

	status := newService(repo).CheckPremiumStatus(context.Background(), "user-1")

	assert.True(t, status.IsPremium)
	assert.True(t, status.IsFreeTrial)
	require.NotNil(t, status.FreeTrialEndsAt)
	assert.True(t, status.FreeTrialEndsAt.Equal(endsAt))
}

func TestCheckPremiumStatus_ExpiredTrialIsRemoved(t *testing.T) {
	repo := new(RepoMock)
	endsAt := time.Now().Add(-time.Minute)
	repo.On("GetProfile", mock.Anything, "user-1").Return(nil, nil).Once()
	repo.On("GetFreeTrial", mock.Anything, "user-1").
		Return(&models.FreeTrial{UserUID: "user-1", EndsAt: endsAt}, nil).Once()
	repo.On("DeleteFreeTrial", mock.Anything, "user-1").Return(nil).Once()

	status := newService(repo).CheckPremiumStatus(context.Background(), "user-1")

	assert.False(t, status.IsPremium)
	assert.False(t, status.IsFreeTrial)
	repo.AssertExpectations(t)
}

func TestStartFreeTrial_ThenExpiry_RoundTrip(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)

	var savedTrial models.FreeTrial
	repo.On("SaveFreeTrial", mock.Anything, mock.MatchedBy(func(tr models.FreeTrial) bool {
		savedTrial = tr
		return tr.UserUID == "user-1"
	})).Return(nil).Once()

	status, err := svc.StartFreeTrial(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, status.IsPremium)
	assert.True(t, status.IsFreeTrial)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), savedTrial.EndsAt, time.Minute)

	// симулируем истечение окна: запись возвращается уже просроченной
	expired := savedTrial
	expired.EndsAt = time.Now().Add(-time.Second)
	repo.On("GetProfile", mock.Anything, "user-1").Return(nil, nil).Once()
	repo.On("GetFreeTrial", mock.Anything, "user-1").Return(&expired, nil).Once()
	repo.On("DeleteFreeTrial", mock.Anything, "user-1").Return(nil).Once()

	after := svc.CheckPremiumStatus(context.Background(), "user-1")
	assert.False(t, after.IsPremium)
	repo.AssertExpectations(t)
}

func TestUpgradeToPremium(t *testing.T) {
	tests := []struct {
		name       string
		planID     string
		setupMocks func(r *RepoMock)
		wantOK     bool
		wantErr    bool
	}{
		{
			name:   "monthly plan",
			planID: "premium_monthly",
			setupMocks: func(r *RepoMock) {
				r.On("SavePremiumSubscription", mock.Anything, mock.MatchedBy(func(sub models.PremiumSubscription) bool {
					return sub.PlanID == "premium_monthly" &&
						sub.EndDate.Sub(sub.PurchaseDate) < 32*24*time.Hour
				})).Return(nil).Once()
				r.On("SetPremium", mock.Anything, "user-1", mock.Anything).Return(nil).Once()
			},
			wantOK: true,
		},
		{
			name:   "yearly plan",
			planID: "premium_yearly",
			setupMocks: func(r *RepoMock) {
				r.On("SavePremiumSubscription", mock.Anything, mock.MatchedBy(func(sub models.PremiumSubscription) bool {
					return sub.PlanID == "premium_yearly" &&
						sub.EndDate.Sub(sub.PurchaseDate) > 360*24*time.Hour
				})).Return(nil).Once()
				r.On("SetPremium", mock.Anything, "user-1", mock.Anything).Return(nil).Once()
			},
			wantOK: true,
		},
		{
			name:       "unknown plan",
			planID:     "enterprise_lifetime",
			setupMocks: func(_ *RepoMock) {},
			wantOK:     false,
		},
		{
			name:   "storage failure",
			planID: "premium_monthly",
			setupMocks: func(r *RepoMock) {
				r.On("SavePremiumSubscription", mock.Anything, mock.Anything).
					Return(errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			ok, err := newService(repo).UpgradeToPremium(context.Background(), "user-1", tt.planID)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOK, ok)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestHasFeatureAccess(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)

	// бесплатные возможности не требуют обращения к хранилищу
	assert.True(t, svc.HasFeatureAccess(context.Background(), "user-1", "feed"))
	assert.True(t, svc.HasFeatureAccess(context.Background(), "user-1", "messaging"))
	repo.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)

	// премиум-возможность без прав
	repo.On("GetProfile", mock.Anything, "user-1").Return(&models.Profile{UserUID: "user-1"}, nil).Once()
	repo.On("GetFreeTrial", mock.Anything, "user-1").Return(nil, nil).Once()
	assert.False(t, svc.HasFeatureAccess(context.Background(), "user-1", "ai_study_tools"))

	// премиум-возможность с действующим пробным периодом
	endsAt := time.Now().Add(24 * time.Hour)
	repo.On("GetProfile", mock.Anything, "user-1").Return(&models.Profile{UserUID: "user-1"}, nil).Once()
	repo.On("GetFreeTrial", mock.Anything, "user-1").
		Return(&models.FreeTrial{UserUID: "user-1", EndsAt: endsAt}, nil).Once()
	assert.True(t, svc.HasFeatureAccess(context.Background(), "user-1", "ai_study_tools"))
}
