// Package gamification реализует конечный автомат игрового состояния:
// начисление очков, стрик ежедневных входов, заморозку стрика,
// недельную цель и разблокировку достижений.
//
// Все переходы — чистые функции над models.UserGameState: принимают
// состояние и явный момент времени, возвращают новое состояние и побочные
// события. Это позволяет детерминированно тестировать автомат без
// HTTP-обвязки и хранилища. Ошибок переходы не возвращают: неизвестные
// идентификаторы и повторные вызовы поглощаются как no-op.
package gamification

import (
	"fmt"
	"time"

	"github.com/studyhub-app/gamification-service/internal/lib/dates"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// Options настройки поведения автомата.
type Options struct {
	// StrictFreezeWindow меняет семантику заморозки стрика: заморозка
	// спасает пропуск, только если была активирована после последнего
	// входа, то есть действительно покрывает пропущенный период.
	// По умолчанию выключено: флаг заморозки спасает любой последующий
	// пропуск независимо от того, когда она была использована.
	StrictFreezeWindow bool
}

// Engine выполняет переходы игрового состояния над фиксированным
// каталогом достижений.
type Engine struct {
	opts Options
}

// New создает Engine с переданными настройками.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Result результат перехода: новое состояние и побочные события.
// События носят рекомендательный характер (уведомление в UI),
// их доставка не гарантируется.
type Result struct {
	State    models.UserGameState
	Events   []models.PointsEvent
	Unlocked []models.Achievement
}

// NewState возвращает начальное игровое состояние пользователя
// с нулевыми значениями и полным каталогом достижений.
func NewState(userUID string) models.UserGameState {
	return models.UserGameState{
		UserUID:      userUID,
		Points:       0,
		Level:        1,
		Streak:       0,
		WeeklyGoal:   models.DefaultWeeklyGoal,
		Achievements: DefaultAchievements(),
	}
}

// AddPoints начисляет очки, пересчитывает уровень и продвигает недельный
// прогресс, не давая ему превысить цель. Неположительное количество
// поглощается как no-op. Переход всегда успешен.
func (e *Engine) AddPoints(state models.UserGameState, amount int, reason string) Result {
	if amount <= 0 {
		return Result{State: state}
	}

	state.Points += amount
	state.Level = models.LevelFromPoints(state.Points)
	state.WeeklyProgress += amount
	if state.WeeklyProgress > state.WeeklyGoal {
		state.WeeklyProgress = state.WeeklyGoal
	}

	return Result{
		State: state,
		Events: []models.PointsEvent{{
			UserUID: state.UserUID,
			Points:  amount,
			Action:  reason,
		}},
	}
}

// UpdateStreak оценивает стрик на старте сессии. Повторный вызов в те же
// календарные сутки — no-op. Вход на следующий день продлевает стрик,
// пропуск с активной заморозкой сохраняет его, любой другой пропуск
// сбрасывает стрик до единицы. Дата последнего входа обновляется в любом
// случае. Достижение за семидневный стрик разблокируется здесь же.
func (e *Engine) UpdateStreak(state models.UserGameState, now time.Time) Result {
	if state.LastLoginDate != nil && dates.SameDay(*state.LastLoginDate, now) {
		return Result{State: state}
	}

	switch {
	case state.LastLoginDate != nil && dates.IsYesterday(*state.LastLoginDate, now):
		state.Streak++
	case e.freezeCoversLapse(state):
		// стрик сохраняется, заморозка "спасает" пропущенный день
	default:
		state.Streak = 1
	}

	login := now
	state.LastLoginDate = &login

	res := Result{State: state}
	if state.Streak == 7 {
		res = e.unlock(res, WeekStreakID, now)
	}
	return res
}

// freezeCoversLapse сообщает, спасает ли заморозка текущий пропуск.
func (e *Engine) freezeCoversLapse(state models.UserGameState) bool {
	if !state.StreakFreezeUsed {
		return false
	}
	if !e.opts.StrictFreezeWindow {
		return true
	}
	// строгий режим: заморозка должна быть активирована не раньше
	// последнего входа, иначе она не покрывает этот пропуск
	if state.LastStreakFreezeDate == nil || state.LastLoginDate == nil {
		return false
	}
	return !state.LastStreakFreezeDate.Before(dates.StartOfDay(*state.LastLoginDate))
}

// UseStreakFreeze активирует заморозку стрика. Лимит — одна заморозка
// на календарный месяц: повторная активация разрешена, только когда месяц
// текущего момента отличается от месяца последней заморозки.
// При отказе состояние не меняется.
func (e *Engine) UseStreakFreeze(state models.UserGameState, now time.Time) (Result, bool) {
	if state.StreakFreezeUsed && state.LastStreakFreezeDate != nil &&
		dates.SameMonth(*state.LastStreakFreezeDate, now) {
		return Result{State: state}, false
	}

	frozen := now
	state.StreakFreezeUsed = true
	state.LastStreakFreezeDate = &frozen
	return Result{State: state}, true
}

// UnlockAchievement разблокирует достижение по идентификатору.
// Неизвестный идентификатор и повторная разблокировка — no-op;
// очки достижения начисляются ровно один раз.
func (e *Engine) UnlockAchievement(state models.UserGameState, id string, now time.Time) Result {
	return e.unlock(Result{State: state}, id, now)
}

func (e *Engine) unlock(res Result, id string, now time.Time) Result {
	idx := -1
	for i, a := range res.State.Achievements {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || res.State.Achievements[idx].Unlocked {
		return res
	}

	achievements := make([]models.Achievement, len(res.State.Achievements))
	copy(achievements, res.State.Achievements)
	unlockedAt := now
	achievements[idx].Unlocked = true
	achievements[idx].UnlockedAt = &unlockedAt
	res.State.Achievements = achievements

	unlocked := achievements[idx]
	award := e.AddPoints(res.State, unlocked.Points, fmt.Sprintf("Achievement: %s", unlocked.Title))
	res.State = award.State
	res.Events = append(res.Events, award.Events...)
	res.Unlocked = append(res.Unlocked, unlocked)
	return res
}

// ResetWeeklyGoal обнуляет недельный прогресс. Вызывается планировщиком
// на границе недели.
func (e *Engine) ResetWeeklyGoal(state models.UserGameState) Result {
	state.WeeklyProgress = 0
	return Result{State: state}
}

// PointsToNextLevel возвращает, сколько очков осталось до следующего уровня.
func PointsToNextLevel(points int) int {
	if points < 0 {
		points = 0
	}
	return models.LevelFromPoints(points)*models.PointsPerLevel - points
}

// NextLevelActions возвращает до двух подсказок о том, как добрать очки
// до следующего уровня. Результат детерминирован для данного количества
// очков: сначала предлагаются действия, укладывающиеся в остаток,
// при их отсутствии — самое дешёвое действие.
func NextLevelActions(points int) []string {
	needed := PointsToNextLevel(points)

	var suggestions []string
	for _, a := range nextLevelActions {
		if a.points <= needed {
			suggestions = append(suggestions, a.label)
		}
		if len(suggestions) == 2 {
			return suggestions
		}
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, nextLevelActions[0].label)
	}
	return suggestions
}
