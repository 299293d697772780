package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/clients/kafka_client/utils"
)

// Record is one keyed message to publish.
type Record struct {
	Key   string
	Value any
}

// Producer publishes JSON records inside Kafka transactions.
type Producer struct {
	producer *kafka.Producer
	retries  int
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("transactional_id", cfg.TransactionalID))

	p, err := kafka.NewProducer(ProducerConfigMap(cfg))
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	if err := p.InitTransactions(context.Background()); err != nil {
		p.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	retries := cfg.PublishRetries
	if retries <= 0 {
		retries = 3
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p, retries: retries}, nil
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if p == nil || p.producer == nil {
		return
	}
	if remaining := p.producer.Flush(FLUSH_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// Publish sends a single record in its own transaction.
func (p *Producer) Publish(ctx context.Context, topic, key string, value any) error {
	return p.PublishBatch(ctx, topic, []Record{{Key: key, Value: value}})
}

// PublishBatch sends every record in one transaction. Either all records
// become visible to read_committed consumers or none do.
func (p *Producer) PublishBatch(ctx context.Context, topic string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := p.producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	for _, record := range records {
		value, err := utils.SerializeToJSON(record.Value)
		if err != nil {
			return p.abort(ctx, err)
		}

		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Key:            []byte(record.Key),
			Value:          value,
		}

		for i := 0; i < p.retries; i++ {
			err = p.producer.Produce(msg, nil)
			if err == nil {
				break
			}
			slog.Warn("[KafkaClient] Failed to produce message, retrying...",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()))
		}
		if err != nil {
			return p.abort(ctx, err)
		}
	}

	var commitErr error
	for i := 0; i < p.retries; i++ {
		commitErr = p.producer.CommitTransaction(ctx)
		if commitErr == nil {
			break
		}
		if kafkaErr, ok := commitErr.(kafka.Error); ok && kafkaErr.TxnRequiresAbort() {
			return p.abort(ctx, commitErr)
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", commitErr.Error()))
	}
	if commitErr != nil {
		return fmt.Errorf("[KafkaClient] failed to commit transaction after %d retries: %w", p.retries, commitErr)
	}

	slog.Info("[KafkaClient] Published records transactionally",
		slog.String("topic", topic),
		slog.Int("records", len(records)))
	return nil
}

func (p *Producer) abort(ctx context.Context, cause error) error {
	if abortErr := p.producer.AbortTransaction(ctx); abortErr != nil {
		return fmt.Errorf("[KafkaClient] failed to abort transaction after %v: %w", cause, abortErr)
	}
	return fmt.Errorf("[KafkaClient] transaction aborted: %w", cause)
}
