package kafka

import (
	"FitTracker/internal/api/config"
	"FitTracker/internal/event"
	"FitTracker/internal/pkg/metrics"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// EventProducer 领域事件生产者，由源服务在本地事务提交后调用
//
// 发布失败只记录日志和指标并返回 false，不影响调用方已提交的业务数据。
type EventProducer struct {
	producer sarama.SyncProducer
	topics   map[event.Topic]string
}

// NewEventProducer 创建连接 broker 的同步生产者
func NewEventProducer(kafkaCfg config.KafkaConfig) (*EventProducer, error) {
	p, err := sarama.NewSyncProducer(kafkaCfg.Brokers, newProducerConfig(kafkaCfg))
	if err != nil {
		return nil, err
	}
	return NewEventProducerWith(p, kafkaCfg.Topics), nil
}

// NewEventProducerWith 使用已有的 SyncProducer
func NewEventProducerWith(p sarama.SyncProducer, topics config.TopicsConfig) *EventProducer {
	return &EventProducer{
		producer: p,
		topics: map[event.Topic]string{
			event.TopicUserRegistered:    topics.UserRegistered,
			event.TopicUserWeightUpdated: topics.UserWeightUpdated,
			event.TopicMealCreated:       topics.MealCreated,
			event.TopicWorkoutCompleted:  topics.WorkoutCompleted,
		},
	}
}

func (p *EventProducer) PublishUserRegistered(ctx context.Context, evt *event.UserRegistered) bool {
	return p.publish(ctx, evt)
}

func (p *EventProducer) PublishUserWeightUpdated(ctx context.Context, evt *event.UserWeightUpdated) bool {
	return p.publish(ctx, evt)
}

func (p *EventProducer) PublishMealCreated(ctx context.Context, evt *event.MealCreated) bool {
	return p.publish(ctx, evt)
}

func (p *EventProducer) PublishWorkoutCompleted(ctx context.Context, evt *event.WorkoutCompleted) bool {
	return p.publish(ctx, evt)
}

// Publish 按事件自身的 topic 发布
func (p *EventProducer) Publish(ctx context.Context, evt event.Event) bool {
	return p.publish(ctx, evt)
}

func (p *EventProducer) publish(ctx context.Context, evt event.Event) (ok bool) {
	var topic string
	defer func() {
		if r := recover(); r != nil {
			metrics.PublishFailures.WithLabelValues(topic).Inc()
			log.ErrorContext(ctx, "publish event panic", "topic", topic, "err", fmt.Errorf("%v", r))
			ok = false
		}
	}()
	topic = p.topics[evt.Topic()]

	meta := evt.Meta()
	if meta.EventID == "" {
		meta.EventID = uuid.New().String()
	}
	if meta.EventTimestamp.IsZero() {
		meta.EventTimestamp = time.Now().UTC()
	}

	if err := event.Validate(evt); err != nil {
		p.fail(ctx, topic, evt, err)
		return false
	}
	value, err := event.Encode(evt)
	if err != nil {
		p.fail(ctx, topic, evt, err)
		return false
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.PartitionKey(evt)),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		p.fail(ctx, topic, evt, err)
		return false
	}

	metrics.PublishedEvents.WithLabelValues(topic).Inc()
	log.DebugContext(ctx, "event published",
		"topic", topic,
		"event_id", meta.EventID,
		"partition", partition,
		"offset", offset,
	)
	return true
}

func (p *EventProducer) fail(ctx context.Context, topic string, evt event.Event, err error) {
	metrics.PublishFailures.WithLabelValues(topic).Inc()
	log.ErrorContext(ctx, "publish event failed",
		"topic", topic,
		"event_id", evt.Meta().EventID,
		"user_id", evt.Meta().UserID,
		"err", err,
	)
}

func (p *EventProducer) Close() error {
	return p.producer.Close()
}
