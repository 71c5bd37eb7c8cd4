// Package plans реализует HTTP-обработчик получения каталога тарифов.
// Каталог статический, авторизация не требуется.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/studyhub-app/gamification-service/internal/http/response"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Handler обрабатывает запросы на получение каталога тарифов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс каталога тарифов.
type Service interface {
	Plans() []models.Plan
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение каталога тарифов.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plans": h.service.Plans(),
	}))
}
