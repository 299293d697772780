package consumers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/commentlens/internal/analysis"
	"github.com/spacesedan/commentlens/internal/clients/kafka_client"
	kafkautils "github.com/spacesedan/commentlens/internal/clients/kafka_client/utils"
	"github.com/spacesedan/commentlens/internal/models"
	"github.com/spacesedan/commentlens/internal/utils"
	"github.com/spacesedan/commentlens/internal/validation"
)

const (
	shutdownFlushTimeout = 10 * time.Second
	unhealthyBackoff     = 5 * time.Second
)

// BatchAnalyzer is satisfied by analysis.ResultCache and analysis.Analyzer.
type BatchAnalyzer interface {
	Analyze(ctx context.Context, comments []string) (models.AnalysisResult, error)
}

type Publisher interface {
	PublishBatch(ctx context.Context, topic string, records []kafka_client.Record) error
}

type MessageSource interface {
	Next() (*kafka.Message, error)
}

type Committer interface {
	Commit(msg *kafka.Message) error
}

type CommentBatchConsumerConfig struct {
	ResultsTopic     string
	MaxCommentLength int
	FlushSize        int
	FlushInterval    time.Duration
}

// CommentBatchConsumer turns comment batches into AnalyzedBatch envelopes.
// Offsets are committed only after the envelopes covering them are
// published.
type CommentBatchConsumer struct {
	analyzer  BatchAnalyzer
	publisher Publisher
	cfg       CommentBatchConsumerConfig
	buffer    *utils.BatchBuffer[models.AnalyzedBatch]
	tracker   *kafkautils.MessageTracker

	unhealthyBackoff time.Duration
}

func NewCommentBatchConsumer(analyzer BatchAnalyzer, publisher Publisher, cfg CommentBatchConsumerConfig) *CommentBatchConsumer {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = utils.BATCH_TIMEOUT
	}
	return &CommentBatchConsumer{
		analyzer:         analyzer,
		publisher:        publisher,
		cfg:              cfg,
		buffer:           utils.NewBatchBuffer[models.AnalyzedBatch](cfg.FlushSize),
		tracker:          kafkautils.NewMessageTracker(),
		unhealthyBackoff: unhealthyBackoff,
	}
}

// Start matches the kafka_client consumer registry signature.
func (c *CommentBatchConsumer) Start(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(context.WithoutCancel(ctx), consumer)
	c.Run(ctx, iterator, committer, health...)
}

// Run reads until ctx is cancelled or the source fails fatally, then
// flushes whatever is buffered.
func (c *CommentBatchConsumer) Run(ctx context.Context, source MessageSource, committer Committer, health ...*atomic.Bool) {
	slog.Info("[CommentBatchConsumer] Listening for comment batches...",
		slog.String("results_topic", c.cfg.ResultsTopic))

	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[CommentBatchConsumer] Stopping consumer...")
			c.shutdownFlush(ctx, committer)
			return
		case <-ticker.C:
			c.flush(ctx, committer)
		default:
			if !allHealthy(health) {
				slog.Warn("[CommentBatchConsumer] Adapters unhealthy, pausing reads")
				select {
				case <-ctx.Done():
				case <-time.After(c.unhealthyBackoff):
				}
				continue
			}

			msg, err := source.Next()
			if err != nil {
				kafkautils.HandleConsumerError(err)
				if kafkautils.IsFatal(err) {
					c.shutdownFlush(ctx, committer)
					return
				}
				continue
			}
			if msg == nil {
				continue
			}

			if !c.handle(ctx, msg) {
				continue
			}
			if c.buffer.Full() {
				c.flush(ctx, committer)
			}
		}
	}
}

// handle analyzes one message and buffers its envelope. It reports false
// when the message was left untracked so it will be redelivered.
func (c *CommentBatchConsumer) handle(ctx context.Context, msg *kafka.Message) bool {
	envelope := c.process(ctx, msg)
	if ctx.Err() != nil {
		slog.Warn("[CommentBatchConsumer] Analysis interrupted, batch will be redelivered",
			slog.String("batch_id", envelope.BatchID))
		return false
	}

	c.buffer.Add(envelope)
	c.tracker.Track(msg)
	return true
}

func (c *CommentBatchConsumer) process(ctx context.Context, msg *kafka.Message) models.AnalyzedBatch {
	batch, err := kafkautils.DecodeMessage[models.CommentBatch](msg)
	if err != nil {
		return models.AnalyzedBatch{BatchID: batch.BatchID, Error: "malformed comment batch"}
	}

	envelope := models.AnalyzedBatch{BatchID: batch.BatchID}
	if err := validation.ValidateComments(batch.Comments, c.cfg.MaxCommentLength); err != nil {
		envelope.Error = err.Error()
		return envelope
	}

	start := time.Now()
	result, err := c.analyzer.Analyze(ctx, batch.Comments)
	if err != nil {
		slog.Error("[CommentBatchConsumer] Analysis failed",
			slog.String("batch_id", batch.BatchID),
			slog.String("error", err.Error()))
		if errors.Is(err, analysis.ErrModelInference) {
			envelope.Error = "model inference failed"
		} else {
			envelope.Error = err.Error()
		}
		return envelope
	}

	slog.Info("[CommentBatchConsumer] Batch analyzed",
		slog.String("batch_id", batch.BatchID),
		slog.Int("comments", len(batch.Comments)),
		slog.Duration("elapsed", time.Since(start)))
	envelope.Result = &result
	return envelope
}

// flush publishes buffered envelopes in one transaction, then commits the
// latest offset per partition. On publish failure everything is re-queued
// for the next flush.
func (c *CommentBatchConsumer) flush(ctx context.Context, committer Committer) {
	envelopes := c.buffer.GetAndClear()
	messages := c.tracker.Drain()
	if len(envelopes) == 0 && len(messages) == 0 {
		return
	}

	if len(envelopes) > 0 {
		records := make([]kafka_client.Record, len(envelopes))
		for i, envelope := range envelopes {
			records[i] = kafka_client.Record{Key: envelope.BatchID, Value: envelope}
		}

		if err := c.publisher.PublishBatch(ctx, c.cfg.ResultsTopic, records); err != nil {
			slog.Error("[CommentBatchConsumer] Failed to publish results, re-queueing",
				slog.Int("envelopes", len(envelopes)),
				slog.String("error", err.Error()))
			for _, envelope := range envelopes {
				c.buffer.Add(envelope)
			}
			for _, msg := range messages {
				c.tracker.Track(msg)
			}
			return
		}
	}

	for _, msg := range messages {
		if err := committer.Commit(msg); err != nil {
			slog.Warn("[CommentBatchConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

func (c *CommentBatchConsumer) shutdownFlush(ctx context.Context, committer Committer) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
	defer cancel()
	c.flush(flushCtx, committer)
}
