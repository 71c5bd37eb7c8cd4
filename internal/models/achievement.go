package models

import "time"

// Achievement представляет достижение из фиксированного каталога
// вместе с состоянием разблокировки для конкретного пользователя.
// Идентичность определяется полем ID; переход Unlocked false -> true
// происходит ровно один раз, повторная разблокировка — no-op.
type Achievement struct {
	ID          string     `json:"id"`          // Уникальный ключ достижения
	Title       string     `json:"title"`       // Название
	Description string     `json:"description"` // Описание
	Icon        string     `json:"icon"`        // Иконка для отображения
	Points      int        `json:"points"`      // Очки, начисляемые за разблокировку
	Unlocked    bool       `json:"unlocked"`    // Разблокировано ли достижение
	UnlockedAt  *time.Time `json:"unlocked_at"` // Момент разблокировки
}

// UnlockRecord строка таблицы разблокировок достижений.
type UnlockRecord struct {
	UserUID       string
	AchievementID string
	UnlockedAt    time.Time
}
