package kafka

import (
	"FitTracker/internal/api/config"
	"FitTracker/internal/event"
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/logger"
	"FitTracker/internal/pkg/metrics"
	"FitTracker/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// EventApplier 把一条领域事件写入日汇总
type EventApplier interface {
	Apply(ctx context.Context, evt event.Event) (service.ApplyResult, error)
}

// AnalyticsHandler 四个领域事件 topic 共用的消费组处理器
type AnalyticsHandler struct {
	applier EventApplier
	// 配置中的 topic 名 → 事件类型
	topics map[string]event.Topic
}

func NewAnalyticsHandler(applier EventApplier, topics config.TopicsConfig) *AnalyticsHandler {
	return &AnalyticsHandler{
		applier: applier,
		topics: map[string]event.Topic{
			topics.UserRegistered:    event.TopicUserRegistered,
			topics.UserWeightUpdated: event.TopicUserWeightUpdated,
			topics.MealCreated:       event.TopicMealCreated,
			topics.WorkoutCompleted:  event.TopicWorkoutCompleted,
		},
	}
}

func (h *AnalyticsHandler) Setup(session sarama.ConsumerGroupSession) error {
	log.Info("analytics consumer setup", "member_id", session.MemberID(), "generation", session.GenerationID())
	return nil
}

func (h *AnalyticsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("analytics consumer cleanup")
	return nil
}

func (h *AnalyticsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("analytics consume claim", "topic", claim.Topic(), "partition", claim.Partition(), "offset", claim.InitialOffset())
	if err := pullMessageBatch(session, claim, h.logic); err != nil {
		log.Error("analytics process batch error", "topic", claim.Topic(), "err", err)
		return err
	}
	log.Info("analytics consume claim end", "topic", claim.Topic(), "partition", claim.Partition())
	return nil
}

// logic 解码并应用一条事件；格式错误的消息计数后丢弃，返回 nil 让 offset 前进
func (h *AnalyticsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx = logger.WithTrace(ctx, "evt")

	topic, ok := h.topics[msg.Topic]
	if !ok {
		metrics.EventsDropped.WithLabelValues(msg.Topic, consts.DropReasonUnknownTopic).Inc()
		log.WarnContext(ctx, "drop message from unknown topic", "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}

	evt, err := event.Decode(topic, msg.Value)
	if err != nil {
		if errors.Is(err, event.ErrMalformedEvent) {
			metrics.EventsDropped.WithLabelValues(msg.Topic, consts.DropReasonMalformed).Inc()
			log.WarnContext(ctx, "drop malformed event",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"err", err,
			)
			return nil
		}
		return err
	}

	result, err := h.applier.Apply(ctx, evt)
	if err != nil {
		return err
	}

	switch result {
	case service.ResultDuplicate:
		metrics.EventsDuplicate.WithLabelValues(msg.Topic).Inc()
		log.InfoContext(ctx, "skip duplicate event", "event_id", evt.Meta().EventID, "topic", msg.Topic)
	default:
		metrics.EventsApplied.WithLabelValues(msg.Topic).Inc()
		log.DebugContext(ctx, "event applied",
			"event_id", evt.Meta().EventID,
			"user_id", evt.Meta().UserID,
			"date", evt.DomainDate().String(),
		)
	}
	return nil
}
