package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotificationQueues(t *testing.T) {
	queues := GetNotificationQueues("checkout")

	require.Len(t, queues, 1)
	assert.Equal(t, "notification.checkout", queues[0].QueueName)
	assert.Equal(t, "checkout", queues[0].RoutingKey)
}
