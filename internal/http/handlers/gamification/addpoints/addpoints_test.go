package addpoints

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

// MockService реализует интерфейс addpoints.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) AddPoints(ctx context.Context, userUID string, req models.DummyPoints) (*models.UserGameState, error) {
	args := m.Called(ctx, userUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserGameState), args.Error(1)
}

func TestAddPointsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	state := &models.UserGameState{
		UserUID:        "user-1",
		Points:         115,
		Level:          2,
		WeeklyGoal:     100,
		WeeklyProgress: 15,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное начисление очков",
			requestBody: models.DummyPoints{Amount: 15, Reason: "Создание поста"},
			userUID:     "user-1",
			setupMock: func(m *MockService) {
				m.On("AddPoints", mock.Anything, "user-1", models.DummyPoints{Amount: 15, Reason: "Создание поста"}).
					Return(state, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"points":115`,
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
			name:           "ошибка валидации: нулевое количество",
			requestBody:    models.DummyPoints{Amount: 0},
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Amount is a required field`,
		},
		{
			name:           "ошибка валидации: отрицательное количество",
			requestBody:    models.DummyPoints{Amount: -5},
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Amount must be greater than 0`,
		},
		{
			name:           "пользователь не авторизован",
			requestBody:    models.DummyPoints{Amount: 15},
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: models.DummyPoints{Amount: 15},
			userUID:     "user-1",
			setupMock: func(m *MockService) {
				m.On("AddPoints", mock.Anything, "user-1", mock.AnythingOfType("models.DummyPoints")).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not add points"`,
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

			req := httptest.NewRequest(http.MethodPost, "/gamification/points", &body)
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
