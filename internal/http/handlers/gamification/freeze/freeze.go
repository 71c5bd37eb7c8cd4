// Package freeze реализует HTTP-обработчик активации заморозки стрика.
package freeze

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/http/response"
	"github.com/studyhub-app/gamification-service/internal/lib/sl"
)

// Handler обрабатывает запросы на активацию заморозки стрика.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики заморозки
}

// Service описывает интерфейс бизнес-логики заморозки стрика.
type Service interface {
	UseStreakFreeze(ctx context.Context, userUID string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Активировать заморозку стрика
// @Description Активирует заморозку стрика. Доступна не чаще одного раза в календарный месяц; повторная попытка возвращает applied=false.
// @Tags Gamification
// @Produce  json
// @Success 200 {object} map[string]any "Результат активации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при активации заморозки"
// @Router /gamification/streak/freeze [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gamification.freeze"
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

	applied, err := h.service.UseStreakFreeze(r.Context(), userUID)
	if err != nil {
		log.Error("failed to use streak freeze", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not use streak freeze"))
		return
	}

	log.Info("streak freeze requested", slog.Bool("applied", applied))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"applied": applied,
	}))
}
