// Package models содержит доменные структуры геймификации и премиум-доступа,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// PointsPerLevel задаёт размер уровня в очках: уровень всегда выводится
// как floor(points/100)+1 и нигде не хранится отдельно от этого правила.
const PointsPerLevel = 100

// DefaultWeeklyGoal значение недельной цели по умолчанию для нового состояния.
const DefaultWeeklyGoal = 100

// UserGameState представляет игровое состояние пользователя: очки, уровень,
// стрик ежедневных входов, недельную цель и список достижений.
// Состояние создаётся с нулевыми значениями при первом обращении
// и живёт неограниченно долго.
type UserGameState struct {
	UserUID              string        `json:"user_uid"`                // Уникальный идентификатор пользователя
	Points               int           `json:"points"`                  // Накопленные очки за всё время
	Level                int           `json:"level"`                   // Уровень, выводимый из очков
	Streak               int           `json:"streak"`                  // Количество дней подряд со входом
	LastLoginDate        *time.Time    `json:"last_login_date"`         // Дата последней оценки стрика
	StreakFreezeUsed     bool          `json:"streak_freeze_used"`      // Использована ли заморозка стрика
	LastStreakFreezeDate *time.Time    `json:"last_streak_freeze_date"` // Дата последней заморозки
	WeeklyGoal           int           `json:"weekly_goal"`             // Недельная цель в очках
	WeeklyProgress       int           `json:"weekly_progress"`         // Прогресс недели, ограничен целью
	Achievements         []Achievement `json:"achievements"`            // Достижения с состоянием разблокировки
}

// DummyPoints используется для приёма запроса на начисление очков.
type DummyPoints struct {
	Amount int    `json:"amount" validate:"required,gt=0"` // Количество очков (>0)
	Reason string `json:"reason"`                          // Причина начисления, попадает в уведомление
}

// LevelFromPoints выводит уровень из количества очков.
func LevelFromPoints(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// Normalize приводит восстановленное состояние к допустимому виду.
// Снимок из кеша или БД мог быть повреждён либо записан старой версией
// сервиса, поэтому перед использованием значения зажимаются в допустимые
// диапазоны, а уровень пересчитывается из очков.
func (s *UserGameState) Normalize() {
	if s.Points < 0 {
		s.Points = 0
	}
	if s.Streak < 0 {
		s.Streak = 0
	}
	if s.WeeklyGoal <= 0 {
		s.WeeklyGoal = DefaultWeeklyGoal
	}
	if s.WeeklyProgress < 0 {
		s.WeeklyProgress = 0
	}
	if s.WeeklyProgress > s.WeeklyGoal {
		s.WeeklyProgress = s.WeeklyGoal
	}
	s.Level = LevelFromPoints(s.Points)
}
