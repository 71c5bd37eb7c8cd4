// Package streak реализует HTTP-обработчик оценки стрика на старте сессии.
package streak

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/http/response"
	"github.com/studyhub-app/gamification-service/internal/lib/sl"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Handler обрабатывает запросы на оценку стрика.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики стрика
}

// Service описывает интерфейс бизнес-логики оценки стрика.
type Service interface {
	UpdateStreak(ctx context.Context, userUID string) (*models.UserGameState, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить стрик
// @Description Оценивает стрик текущего пользователя по дате последнего входа. Повторный вызов в те же сутки ничего не меняет.
// @Tags Gamification
// @Produce  json
// @Success 200 {object} map[string]any "Обновлённое игровое состояние"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении стрика"
// @Router /gamification/streak [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gamification.streak"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	state, err := h.service.UpdateStreak(r.Context(), userUID)
	if err != nil {
		log.Error("failed to update streak", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update streak"))
		return
	}

	log.Info("streak evaluated", slog.Int("streak", state.Streak))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"state": state,
	}))
}
