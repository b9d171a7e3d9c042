package kafka

import (
	"FitTracker/internal/pkg/metrics"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second

	minRetryInterval = 100 * time.Millisecond
	maxRetryInterval = 5 * time.Second
)

// LogicFunc 单条消息的业务逻辑，返回错误表示可重试的临时故障
type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并按 offset 顺序执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				if !processBatch(session, batch, logic) {
					return nil
				}
				// 清空缓冲区 & 重置定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if !processBatch(session, batch, logic) {
					return nil
				}
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			// 未处理的消息不标记，重平衡后会被重新投递
			return nil
		}
	}
}

// processBatch 逐条处理，成功一条标记一条，批末提交 offset
// 会话结束时返回 false，调用方不再拉取新批次
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) bool {
	defer session.Commit()

	for _, msg := range messages {
		if !processWithRetry(session, msg, logic) {
			return false
		}
		session.MarkMessage(msg, "")
		if session.Context().Err() != nil {
			return false
		}
	}
	return true
}

// processWithRetry 临时故障按 100ms → 5s 指数退避重试，不推进 offset
// 正在执行的一次调用使用脱离取消的 ctx，保证关闭时能把当前事件处理完
func processWithRetry(session sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage, logic LogicFunc) bool {
	ctx := context.WithoutCancel(session.Context())
	start := time.Now()
	defer func() {
		metrics.ApplyDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
	}()

	retryInterval := minRetryInterval
	for {
		err := logic(ctx, msg)
		if err == nil {
			return true
		}

		metrics.ApplyRetries.WithLabelValues(msg.Topic).Inc()
		log.Error("process message error",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"retry_in", retryInterval.String(),
			"err", err,
		)

		timer := time.NewTimer(retryInterval)
		select {
		case <-session.Context().Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		retryInterval *= 2
		if retryInterval > maxRetryInterval {
			retryInterval = maxRetryInterval
		}
	}
}
