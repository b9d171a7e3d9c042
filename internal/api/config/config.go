package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	// FITTRACKER_KAFKA_BROKERS 之类的环境变量可覆盖文件配置
	viper.SetEnvPrefix("FITTRACKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("kafka.consumer.session_timeout", 10)
	viper.SetDefault("kafka.consumer.heartbeat_interval", 3)
	viper.SetDefault("kafka.consumer.rebalance_timeout", 60)
	viper.SetDefault("kafka.consumer.max_processing_time", 30)
	viper.SetDefault("kafka.consumer.initial_offset", "oldest")
	viper.SetDefault("kafka.topics.user_registered", "user.registered")
	viper.SetDefault("kafka.topics.user_weight_updated", "user.weight.updated")
	viper.SetDefault("kafka.topics.meal_created", "meal.created")
	viper.SetDefault("kafka.topics.workout_completed", "workout.completed")
	viper.SetDefault("kafka_analytics_consumer.group_id", "analytics-service")
	viper.SetDefault("source.timeout", 5)
	viper.SetDefault("source.breaker_failures", 5)
	viper.SetDefault("source.breaker_open_seconds", 30)
	viper.SetDefault("source.rate_limit", 50)
	viper.SetDefault("source.rate_burst", 10)
	viper.SetDefault("analytics.timezone", "UTC")
	viper.SetDefault("analytics.rollup_cron", "0 15 0 * * *")
	viper.SetDefault("analytics.dirty_cron", "0 */10 * * * *")
	viper.SetDefault("analytics.purge_cron", "0 30 3 * * *")
	viper.SetDefault("analytics.goal_cron", "0 45 0 * * *")
	viper.SetDefault("analytics.processed_event_retention_days", 14)
}

// Validate 启动时检查必须项，缺失即视为致命配置错误
func (c *Config) Validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return errors.New("config: kafka.brokers is empty")
	}
	if c.KafkaAnalyticsConsumer.GroupID == "" {
		return errors.New("config: kafka_analytics_consumer.group_id is empty")
	}
	for name, topic := range c.Kafka.Topics.byName() {
		if topic == "" {
			return fmt.Errorf("config: kafka.topics.%s is empty", name)
		}
	}
	if c.DB.DSN == "" {
		return errors.New("config: database.dsn is empty")
	}
	if c.Analytics.ProcessedEventRetentionDays <= 0 {
		return errors.New("config: analytics.processed_event_retention_days must be positive")
	}
	return nil
}
