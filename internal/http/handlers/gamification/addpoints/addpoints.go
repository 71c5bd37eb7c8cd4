// Package addpoints реализует HTTP-обработчик начисления очков пользователю.
//
// Handler принимает JSON-запрос с количеством очков и причиной, валидирует его,
// извлекает идентификатор пользователя из контекста и возвращает обновлённое
// игровое состояние в JSON-формате.
package addpoints

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/http/response"
	"github.com/studyhub-app/gamification-service/internal/lib/sl"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Handler обрабатывает запросы на начисление очков.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики начисления очков
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики начисления очков.
type Service interface {
	AddPoints(ctx context.Context, userUID string, req models.DummyPoints) (*models.UserGameState, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Начислить очки
// @Description Начисляет очки текущему пользователю и возвращает обновлённое игровое состояние.
// @Tags Gamification
// @Accept  json
// @Produce  json
// @Param request body models.DummyPoints true "Количество очков и причина начисления"
// @Success 200 {object} map[string]any "Обновлённое игровое состояние"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при начислении очков"
// @Router /gamification/points [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.gamification.addpoints"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPoints
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	state, err := h.service.AddPoints(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to add points", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add points"))
		return
	}

	log.Info("points added", slog.Int("amount", req.Amount), slog.Int("total", state.Points))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"state": state,
	}))
}
