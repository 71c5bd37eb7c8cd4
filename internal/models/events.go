package models

import "time"

// PointsEvent уведомление о начислении очков для всплывающего тоста в UI.
// Доставка не гарантируется: событие публикуется по принципу at-most-once,
// без повторов и без канала подтверждения.
type PointsEvent struct {
	UserUID string `json:"user_uid"`
	Points  int    `json:"points"`
	Action  string `json:"action"`
}

// AchievementEvent уведомление о разблокировке достижения.
type AchievementEvent struct {
	UserUID       string    `json:"user_uid"`
	AchievementID string    `json:"achievement_id"`
	Title         string    `json:"title"`
	Points        int       `json:"points"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// TrialExpiringEvent уведомление об истекающем сегодня пробном периоде.
type TrialExpiringEvent struct {
	UserUID  string    `json:"user_uid"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	EndsAt   time.Time `json:"ends_at"`
}
