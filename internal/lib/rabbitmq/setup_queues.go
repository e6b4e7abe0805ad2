package rabbitmq

// QueueConfig — очередь и ключ маршрутизации, по которому она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди уведомлений о результатах оплаты.
func GetNotificationQueues(routingKey string) []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification." + routingKey, RoutingKey: routingKey},
	}
}
