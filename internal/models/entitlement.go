package models

import "time"

// Plan описывает тариф премиум-подписки из статического каталога.
type Plan struct {
	ID       string   `json:"id"`                // Уникальный ключ тарифа
	Name     string   `json:"name"`              // Название тарифа
	Price    int      `json:"price"`             // Цена в минимальных единицах валюты
	Interval string   `json:"interval"`          // Интервал оплаты: month или year
	Features []string `json:"features"`          // Список возможностей тарифа
	Popular  bool     `json:"popular,omitempty"` // Отмечается ли тариф как популярный
	Savings  string   `json:"savings,omitempty"` // Текст о выгоде годового тарифа
}

// Интервалы оплаты тарифов.
const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Profile представляет запись о премиум-статусе пользователя
// в основном хранилище. Это источник истины для прав доступа:
// локальные записи о пробном периоде используются только как запасной
// вариант, когда запись профиля недоступна.
type Profile struct {
	UserUID      string     // Уникальный идентификатор пользователя
	IsPremium    bool       // Флаг премиум-доступа
	PremiumUntil *time.Time // Дата истечения премиума, nil — бессрочно
}

// UserContact контактные данные пользователя для почтовых уведомлений.
type UserContact struct {
	UserUID  string
	Username string
	Email    string
}

// FreeTrial запись о пробном периоде.
type FreeTrial struct {
	UserUID   string    `json:"user_uid"`
	StartedAt time.Time `json:"started_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// PremiumSubscription запись об оформленной премиум-подписке.
type PremiumSubscription struct {
	UserUID      string    `json:"user_uid"`
	PlanID       string    `json:"plan_id"`
	PurchaseDate time.Time `json:"purchase_date"`
	EndDate      time.Time `json:"end_date"`
}

// EntitlementStatus итоговый статус доступа, отдаваемый клиенту.
// IsPremium — дизъюнкция серверного флага и активного пробного периода.
type EntitlementStatus struct {
	IsPremium           bool       `json:"is_premium"`
	IsFreeTrial         bool       `json:"is_free_trial"`
	FreeTrialEndsAt     *time.Time `json:"free_trial_ends_at,omitempty"`
	Subscription        *Plan      `json:"subscription,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date,omitempty"`
}

// DummyUpgrade используется для приёма запроса на оформление подписки.
type DummyUpgrade struct {
	PlanID string `json:"plan_id" validate:"required"` // Ключ тарифа из каталога
}
