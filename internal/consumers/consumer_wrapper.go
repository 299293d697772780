package consumers

import (
	"context"
	"sync/atomic"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/commentlens/internal/clients/kafka_client"
)

type HealthAwareConsumer func(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool)

// ConsumerWrapper binds health flags to a consumer so it fits the registry.
type ConsumerWrapper struct {
	fn     HealthAwareConsumer
	health []*atomic.Bool
}

func WrapConsumer(fn HealthAwareConsumer, health ...*atomic.Bool) ConsumerWrapper {
	return ConsumerWrapper{
		fn:     fn,
		health: health,
	}
}

func (cw ConsumerWrapper) WithHealthCheck(health *atomic.Bool) ConsumerWrapper {
	if health == nil {
		return cw
	}
	cw.health = append(append([]*atomic.Bool(nil), cw.health...), health)
	return cw
}

func (cw ConsumerWrapper) Handler() kafka_client.ConsumerFunc {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		cw.fn(ctx, consumer, cw.health...)
	}
}

// allHealthy treats nil flags as healthy.
func allHealthy(health []*atomic.Bool) bool {
	for _, h := range health {
		if h != nil && !h.Load() {
			return false
		}
	}
	return true
}
