package gamification

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	achievementlist "github.com/studyhub-app/gamification-service/internal/http/handlers/achievement/list"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/achievement/unlock"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/gamification/addpoints"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/gamification/freeze"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/gamification/streak"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/gamification/summary"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/health"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/premium/feature"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/premium/plans"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/premium/status"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/premium/trial"
	"github.com/studyhub-app/gamification-service/internal/http/handlers/premium/upgrade"
	"github.com/studyhub-app/gamification-service/internal/http/middlewarectx"
	"github.com/studyhub-app/gamification-service/internal/lib/jwt"
	entitlementservice "github.com/studyhub-app/gamification-service/internal/services/entitlement"
	gamificationservice "github.com/studyhub-app/gamification-service/internal/services/gamification"
	"github.com/studyhub-app/gamification-service/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, gameService *gamificationservice.Service, entitlementService *entitlementservice.Service, db *repository.Storage, jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db).ServeHTTP)
		r.Get("/premium/plans", plans.New(logger, entitlementService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/gamification/points", addpoints.New(logger, gameService).ServeHTTP)
			r.Post("/gamification/streak", streak.New(logger, gameService).ServeHTTP)
			r.Post("/gamification/streak/freeze", freeze.New(logger, gameService).ServeHTTP)
			r.Get("/gamification/summary", summary.New(logger, gameService).ServeHTTP)
			r.Get("/gamification/achievements", achievementlist.New(logger, gameService).ServeHTTP)
			r.Post("/gamification/achievements/{id}/unlock", unlock.New(logger, gameService).ServeHTTP)

			r.Get("/premium/status", status.New(logger, entitlementService).ServeHTTP)
			r.Post("/premium/trial", trial.New(logger, entitlementService).ServeHTTP)
			r.Post("/premium/upgrade", upgrade.New(logger, entitlementService).ServeHTTP)
			r.Get("/premium/features/{id}", feature.New(logger, entitlementService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
