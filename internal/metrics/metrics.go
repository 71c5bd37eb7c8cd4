// Package metrics регистрирует счётчики Prometheus для бизнес-событий сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PointsAwarded суммарное количество начисленных очков.
	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamification_points_awarded_total",
		Help: "Total number of points awarded to users.",
	})

	// AchievementsUnlocked количество разблокированных достижений.
	AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamification_achievements_unlocked_total",
		Help: "Total number of achievements unlocked.",
	})

	// TrialsStarted количество запущенных пробных периодов.
	TrialsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premium_trials_started_total",
		Help: "Total number of free trials started.",
	})

	// PremiumUpgrades количество оформленных премиум-подписок.
	PremiumUpgrades = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premium_upgrades_total",
		Help: "Total number of premium upgrades.",
	})
)
