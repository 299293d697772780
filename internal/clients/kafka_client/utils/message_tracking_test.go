package utils

import (
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgAt(topic string, partition int32, offset int64) *kafka.Message {
	return &kafka.Message{TopicPartition: kafka.TopicPartition{
		Topic:     &topic,
		Partition: partition,
		Offset:    kafka.Offset(offset),
	}}
}

func TestMessageTracker_KeepsHighestOffsetPerPartition(t *testing.T) {
	tr := NewMessageTracker()
	tr.Track(msgAt("batches", 1, 10))
	tr.Track(msgAt("batches", 0, 4))
	tr.Track(msgAt("batches", 1, 12))
	tr.Track(msgAt("batches", 1, 11))
	tr.Track(nil)

	drained := tr.Drain()

	require.Len(t, drained, 2)
	assert.Equal(t, int32(0), drained[0].TopicPartition.Partition)
	assert.Equal(t, kafka.Offset(4), drained[0].TopicPartition.Offset)
	assert.Equal(t, kafka.Offset(12), drained[1].TopicPartition.Offset)
	assert.Zero(t, tr.Len())
}

func TestDecodeMessage(t *testing.T) {
	type payload struct {
		ID string `json:"id"`
	}

	got, err := DecodeMessage[payload](&kafka.Message{Value: []byte(`{"id":"b-1"}`)})
	require.NoError(t, err)
	assert.Equal(t, "b-1", got.ID)

	_, err = DecodeMessage[payload](&kafka.Message{Value: []byte(`{`)})
	assert.Error(t, err)

	_, err = DecodeMessage[payload](nil)
	assert.Error(t, err)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(kafka.NewError(kafka.ErrAllBrokersDown, "down", false)))
	assert.True(t, IsFatal(kafka.NewError(kafka.ErrFatal, "fenced", true)))
	assert.False(t, IsFatal(kafka.NewError(kafka.ErrTimedOut, "slow", false)))
	assert.False(t, IsFatal(nil))
}
