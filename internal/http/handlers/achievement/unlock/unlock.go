// Package unlock реализует HTTP-обработчик разблокировки достижения по его
// идентификатору из URL. Повторная разблокировка и неизвестный идентификатор
// не считаются ошибками.
package unlock

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/http/response"
	"github.com/studyhub-app/gamification-service/internal/lib/sl"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Handler обрабатывает запросы на разблокировку достижения.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики достижений
}

// Service описывает интерфейс бизнес-логики разблокировки достижения.
type Service interface {
	UnlockAchievement(ctx context.Context, userUID, achievementID string) (*models.UserGameState, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Разблокировать достижение
// @Description Разблокирует достижение по идентификатору и начисляет его очки. Повторная разблокировка ничего не меняет.
// @Tags Achievements
// @Produce  json
// @Param id path string true "Идентификатор достижения"
// @Success 200 {object} map[string]any "Обновлённое игровое состояние"
// @Failure 400 {object} response.ErrorResponse "Пустой идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при разблокировке"
// @Router /gamification/achievements/{id}/unlock [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.achievement.unlock"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	achievementID := chi.URLParam(r, "id")
	if achievementID == "" {
		log.Error("achievement id is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("achievement id is required"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	state, err := h.service.UnlockAchievement(r.Context(), userUID, achievementID)
	if err != nil {
		log.Error("failed to unlock achievement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not unlock achievement"))
		return
	}

	log.Info("achievement unlock processed", slog.String("achievement_id", achievementID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"state": state,
	}))
}
