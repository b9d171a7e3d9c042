package kafka

import (
	"FitTracker/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理分析服务的消费组
type ConsumerManager struct {
	analyticsConsumer sarama.ConsumerGroup
	analyticsHandler  sarama.ConsumerGroupHandler
	topics            []string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, applier EventApplier) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	analyticsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaAnalyticsConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		analyticsConsumer: analyticsConsumer,
		analyticsHandler:  NewAnalyticsHandler(applier, cfg.Kafka.Topics),
		topics:            cfg.Kafka.Topics.All(),
	}, nil
}

// Start 启动消费者，阻塞到 ctx 结束后关闭消费组
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.analyticsConsumer.Errors() {
			log.Error("analytics consumer group error", "err", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("Analytics consumer started", "topics", m.topics)
		for {
			// 每次重平衡后 Consume 返回，需要重新加入
			if err := m.analyticsConsumer.Consume(ctx, m.topics, m.analyticsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	// 等待当前事件处理完并提交后再关闭
	<-done

	if err := m.analyticsConsumer.Close(); err != nil {
		log.Error("Failed to close analytics consumer", "err", err)
		return err
	}
	return nil
}
