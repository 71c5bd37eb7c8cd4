// Package status реализует HTTP-обработчик проверки премиум-статуса.
//
// Проверка никогда не возвращает ошибку: сбои хранилища деградируют
// к безопасному значению "нет премиума".
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/http/response"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Handler обрабатывает запросы на проверку премиум-статуса.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики премиум-доступа
}

// Service описывает интерфейс бизнес-логики проверки статуса.
type Service interface {
	CheckPremiumStatus(ctx context.Context, userUID string) models.EntitlementStatus
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить премиум-статус
// @Description Возвращает действующий статус премиум-доступа текущего пользователя.
// @Tags Premium
// @Produce  json
// @Success 200 {object} map[string]any "Статус премиум-доступа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /premium/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.status"
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

	status := h.service.CheckPremiumStatus(r.Context(), userUID)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": status,
	}))
}
