package utils

import (
	"sort"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type partitionKey struct {
	topic     string
	partition int32
}

// MessageTracker remembers the highest-offset message seen per partition
// since the last Drain. Committing those messages covers everything before
// them.
type MessageTracker struct {
	mu     sync.Mutex
	latest map[partitionKey]*kafka.Message
}

func NewMessageTracker() *MessageTracker {
	return &MessageTracker{latest: make(map[partitionKey]*kafka.Message)}
}

func (t *MessageTracker) Track(msg *kafka.Message) {
	if msg == nil {
		return
	}
	key := partitionKey{topic: TopicOf(msg), partition: msg.TopicPartition.Partition}

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.latest[key]; ok && prev.TopicPartition.Offset >= msg.TopicPartition.Offset {
		return
	}
	t.latest[key] = msg
}

// Drain returns the tracked messages ordered by topic and partition and
// forgets them.
func (t *MessageTracker) Drain() []*kafka.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*kafka.Message, 0, len(t.latest))
	for _, msg := range t.latest {
		out = append(out, msg)
	}
	t.latest = make(map[partitionKey]*kafka.Message)

	sort.Slice(out, func(i, j int) bool {
		ti, tj := TopicOf(out[i]), TopicOf(out[j])
		if ti != tj {
			return ti < tj
		}
		return out[i].TopicPartition.Partition < out[j].TopicPartition.Partition
	})
	return out
}

func (t *MessageTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.latest)
}
