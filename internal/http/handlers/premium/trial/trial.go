// Package trial реализует HTTP-обработчик запуска бесплатного пробного периода.
package trial

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

// Handler обрабатывает запросы на запуск пробного периода.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики премиум-доступа
}

// Service описывает интерфейс бизнес-логики пробного периода.
type Service interface {
	StartFreeTrial(ctx context.Context, userUID string) (models.EntitlementStatus, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запустить пробный период
// @Description Открывает бесплатный пробный период премиум-доступа для текущего пользователя.
// @Tags Premium
// @Produce  json
// @Success 200 {object} map[string]any "Статус с открытым пробным периодом"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при запуске пробного периода"
// @Router /premium/trial [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.trial"
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

	status, err := h.service.StartFreeTrial(r.Context(), userUID)
	if err != nil {
		log.Error("failed to start free trial", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not start free trial"))
		return
	}

	log.Info("free trial started", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": status,
	}))
}
