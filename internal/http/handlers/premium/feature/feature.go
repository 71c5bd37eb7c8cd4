// Package feature реализует HTTP-обработчик проверки доступа к возможности
// приложения. Бесплатный набор открыт всем, остальное требует премиума.
package feature

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/http/response"
)

// Handler обрабатывает запросы на проверку доступа к возможности.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики премиум-доступа
}

// Service описывает интерфейс бизнес-логики гейтинга возможностей.
type Service interface {
	HasFeatureAccess(ctx context.Context, userUID, featureID string) bool
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на проверку доступа к возможности.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.feature"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	featureID := chi.URLParam(r, "id")
	if featureID == "" {
		log.Error("feature id is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("feature id is required"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	allowed := h.service.HasFeatureAccess(r.Context(), userUID, featureID)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"feature_id": featureID,
		"allowed":    allowed,
	}))
}
