// Package dates содержит календарные функции для расчёта стриков и
// месячных лимитов. Все сравнения выполняются по календарным суткам
// в часовом поясе переданного времени, а не по интервалам в 24 часа.
package dates

import "time"

// StartOfDay обнуляет время до начала календарных суток.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay сообщает, приходятся ли два момента на одни календарные сутки.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsYesterday сообщает, приходится ли prev на сутки, непосредственно
// предшествующие now.
func IsYesterday(prev, now time.Time) bool {
	return SameDay(prev, now.AddDate(0, 0, -1))
}

// SameMonth сообщает, приходятся ли два момента на один календарный месяц.
// Используется для месячного лимита заморозки стрика: лимит привязан
// к календарному месяцу, а не к скользящему окну в 30 дней.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// StartOfWeek возвращает начало календарной недели (понедельник 00:00)
// для переданного момента.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
