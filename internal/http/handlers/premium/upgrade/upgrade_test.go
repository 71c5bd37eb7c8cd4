package upgrade

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// MockService реализует интерфейс upgrade.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpgradeToPremium(ctx context.Context, userUID, planID string) (bool, error) {
	args := m.Called(ctx, userUID, planID)
	return args.Bool(0), args.Error(1)
}

func TestUpgradeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		requestBody    interface{}
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное оформление подписки",
			requestBody: models.DummyUpgrade{PlanID: "premium_monthly"},
			userUID:     "user-1",
			setupMock: func(m *MockService) {
				m.On("UpgradeToPremium", mock.Anything, "user-1", "premium_monthly").
					Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"upgraded":true`,
		},
		{
			name:        "неизвестный тариф",
			requestBody: models.DummyUpgrade{PlanID: "enterprise_lifetime"},
			userUID:     "user-1",
			setupMock: func(m *MockService) {
				m.On("UpgradeToPremium", mock.Anything, "user-1", "enterprise_lifetime").
					Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"unknown plan"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "ошибка валидации: пустой тариф",
			requestBody:    models.DummyUpgrade{},
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field PlanID is a required field`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: models.DummyUpgrade{PlanID: "premium_monthly"},
			userUID:     "user-1",
			setupMock: func(m *MockService) {
				m.On("UpgradeToPremium", mock.Anything, "user-1", "premium_monthly").
					Return(false, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not upgrade to premium"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)
			handler := New(logger, service)

			var body bytes.Buffer
			switch v := tt.requestBody.(type) {
			case string:
				body.WriteString(v)
			default:
				err := json.NewEncoder(&body).Encode(v)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/premium/upgrade", &body)
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.True(t, strings.Contains(rec.Body.String(), tt.expectedBody),
				"body %q does not contain %q", rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
