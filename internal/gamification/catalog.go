package gamification

import "github.com/studyhub-app/gamification-service/internal/models"

// WeekStreakID ключ достижения за семидневный стрик. Разблокируется
// автоматически внутри перехода стрика, а не по запросу клиента.
const WeekStreakID = "week_streak"

// DefaultAchievements возвращает фиксированный каталог достижений.
// Каталог задаётся при старте процесса; состояние разблокировки
// хранится отдельно для каждого пользователя.
func DefaultAchievements() []models.Achievement {
	return []models.Achievement{
		{
			ID:          "first_post",
			Title:       "First Post",
			Description: "Publish your first post in the feed",
			Icon:        "📝",
			Points:      10,
		},
		{
			ID:          WeekStreakID,
			Title:       "Week Warrior",
			Description: "Log in 7 days in a row",
			Icon:        "🔥",
			Points:      50,
		},
		{
			ID:          "study_starter",
			Title:       "Study Starter",
			Description: "Join your first study group",
			Icon:        "📚",
			Points:      20,
		},
		{
			ID:          "social_butterfly",
			Title:       "Social Butterfly",
			Description: "Make 10 connections",
			Icon:        "🦋",
			Points:      30,
		},
		{
			ID:          "meeting_regular",
			Title:       "Meeting Regular",
			Description: "Attend 5 video meetings",
			Icon:        "🎥",
			Points:      40,
		},
		{
			ID:          "helping_hand",
			Title:       "Helping Hand",
			Description: "Answer 10 questions from other students",
			Icon:        "🤝",
			Points:      25,
		},
	}
}

// nextLevelAction статическая подсказка о способе заработать очки.
type nextLevelAction struct {
	label  string
	points int
}

// nextLevelActions отсортированы по возрастанию стоимости.
var nextLevelActions = []nextLevelAction{
	{label: "Create a post (+10 points)", points: 10},
	{label: "Comment on a story (+15 points)", points: 15},
	{label: "Join a study group (+20 points)", points: 20},
	{label: "Attend a video meeting (+30 points)", points: 30},
}
