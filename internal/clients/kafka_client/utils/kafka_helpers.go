package utils

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

func SerializeToJSON(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("[KafkaUtils] Failed to serialize JSON",
			slog.String("error", err.Error()))
		return nil, err
	}
	return data, nil
}

// DecodeMessage unmarshals a message value into T.
func DecodeMessage[T any](msg *kafka.Message) (T, error) {
	var v T
	if msg == nil {
		return v, errors.New("[KafkaUtils] nil message")
	}
	if err := json.Unmarshal(msg.Value, &v); err != nil {
		slog.Warn("[KafkaUtils] Failed to deserialize JSON",
			slog.String("topic", TopicOf(msg)),
			slog.String("error", err.Error()))
		return v, err
	}
	return v, nil
}

func TopicOf(msg *kafka.Message) string {
	if msg == nil || msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}

// IsFatal reports errors after which the consumer loop should stop.
func IsFatal(err error) bool {
	var kafkaErr kafka.Error
	if !errors.As(err, &kafkaErr) {
		return false
	}
	return kafkaErr.IsFatal() || kafkaErr.Code() == kafka.ErrAllBrokersDown
}

func HandleConsumerError(err error) {
	if err == nil {
		return
	}
	slog.Error("[KafkaUtils] Kafka Consumer Error",
		slog.String("error", err.Error()))
}
