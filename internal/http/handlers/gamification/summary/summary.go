// Package summary реализует HTTP-обработчик агрегированного прогресса пользователя.
//
// Handler возвращает игровое состояние вместе с дистанцией до следующего
// уровня и подсказками действий.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/http/response"
	"github.com/studyhub-app/gamification-service/internal/lib/sl"
	gamification "github.com/studyhub-app/gamification-service/internal/services/gamification"
)

// Handler обрабатывает запросы на получение прогресса пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики прогресса
}

// Service описывает интерфейс бизнес-логики агрегированного прогресса.
type Service interface {
	GetSummary(ctx context.Context, userUID string) (*gamification.Summary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить прогресс пользователя
// @Description Возвращает игровое состояние, дистанцию до следующего уровня и подсказки действий.
// @Tags Gamification
// @Produce  json
// @Success 200 {object} map[string]any "Агрегированный прогресс"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении прогресса"
// @Router /gamification/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gamification.summary"
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

	res, err := h.service.GetSummary(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get summary"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"summary": res,
	}))
}
