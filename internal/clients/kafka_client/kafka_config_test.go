package kafka_client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/commentlens/config"
)

func TestConsumerConfigMap(t *testing.T) {
	cm := ConsumerConfigMap(config.KafkaConfig{Broker: "kafka:9092", GroupID: "lens"})

	broker, err := cm.Get("bootstrap.servers", "")
	require.NoError(t, err)
	assert.Equal(t, "kafka:9092", broker)

	group, err := cm.Get("group.id", "")
	require.NoError(t, err)
	assert.Equal(t, "lens", group)

	autoCommit, err := cm.Get("enable.auto.commit", true)
	require.NoError(t, err)
	assert.Equal(t, false, autoCommit)
}

func TestProducerConfigMap(t *testing.T) {
	cm := ProducerConfigMap(config.KafkaConfig{Broker: "kafka:9092", TransactionalID: "lens-tx"})

	txID, err := cm.Get("transactional.id", "")
	require.NoError(t, err)
	assert.Equal(t, "lens-tx", txID)

	acks, err := cm.Get("acks", "")
	require.NoError(t, err)
	assert.Equal(t, "all", acks)
}
