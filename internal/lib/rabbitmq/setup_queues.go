package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации в обменнике уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий геймификации.
const (
	RoutingKeyPoints        = "points"
	RoutingKeyAchievements  = "achievements"
	RoutingKeyTrialExpiring = "trial_expiring"
)

// Имена очередей уведомлений.
const (
	PointsQueue        = "notifications.points"
	AchievementsQueue  = "notifications.achievements"
	TrialExpiringQueue = "notifications.trial_expiring"
)

// GetNotificationQueues возвращает очереди уведомлений сервиса.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: PointsQueue, RoutingKey: RoutingKeyPoints},
		{QueueName: AchievementsQueue, RoutingKey: RoutingKeyAchievements},
		{QueueName: TrialExpiringQueue, RoutingKey: RoutingKeyTrialExpiring},
	}
}
