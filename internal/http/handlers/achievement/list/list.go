// Package list реализует HTTP-обработчик получения каталога достижений
// с отметками о разблокировке для текущего пользователя.
package list

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

// Handler обрабатывает запросы на получение каталога достижений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики достижений
}

// Service описывает интерфейс бизнес-логики каталога достижений.
type Service interface {
	ListAchievements(ctx context.Context, userUID string) ([]models.Achievement, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение каталога достижений.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.achievement.list"
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

	achievements, err := h.service.ListAchievements(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list achievements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list achievements"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"achievements": achievements,
	}))
}
