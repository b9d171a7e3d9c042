package config

import "time"

// Config 配置主体
type Config struct {
	Server                 ServerConfig           `mapstructure:"server"`
	DB                     DBConfig               `mapstructure:"database"`
	Redis                  RedisConfig            `mapstructure:"redis"`
	Logstash               LogstashConfig         `mapstructure:"logstash"`
	Kafka                  KafkaConfig            `mapstructure:"kafka"`
	KafkaAnalyticsConsumer KafkaAnalyticsConsumer `mapstructure:"kafka_analytics_consumer"`
	Source                 SourceConfig           `mapstructure:"source"`
	Analytics              AnalyticsConfig        `mapstructure:"analytics"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远程日志，连接失败时只输出到 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
	Topics   TopicsConfig   `mapstructure:"topics"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int    `mapstructure:"session_timeout"`
	HeartbeatInterval int    `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int    `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int    `mapstructure:"max_processing_time"`
	InitialOffset     string `mapstructure:"initial_offset"` // oldest | newest
}

// TopicsConfig 四个领域事件的 topic 名称
type TopicsConfig struct {
	UserRegistered    string `mapstructure:"user_registered"`
	UserWeightUpdated string `mapstructure:"user_weight_updated"`
	MealCreated       string `mapstructure:"meal_created"`
	WorkoutCompleted  string `mapstructure:"workout_completed"`
}

func (t TopicsConfig) byName() map[string]string {
	return map[string]string{
		"user_registered":     t.UserRegistered,
		"user_weight_updated": t.UserWeightUpdated,
		"meal_created":        t.MealCreated,
		"workout_completed":   t.WorkoutCompleted,
	}
}

// All 返回全部订阅 topic
func (t TopicsConfig) All() []string {
	return []string{t.UserRegistered, t.UserWeightUpdated, t.MealCreated, t.WorkoutCompleted}
}

type KafkaAnalyticsConsumer struct {
	GroupID string `mapstructure:"group_id"`
}

// SourceConfig 源服务（饮食、训练）地址
type SourceConfig struct {
	NutritionBaseURL   string  `mapstructure:"nutrition_base_url"`
	WorkoutBaseURL     string  `mapstructure:"workout_base_url"`
	Timeout            int     `mapstructure:"timeout"`
	BreakerFailures    uint32  `mapstructure:"breaker_failures"`     // 连续失败多少次后熔断
	BreakerOpenSeconds int     `mapstructure:"breaker_open_seconds"` // 熔断持续时间
	RateLimit          float64 `mapstructure:"rate_limit"`           // 每秒请求数，0 表示不限
	RateBurst          int     `mapstructure:"rate_burst"`
}

type AnalyticsConfig struct {
	Timezone                    string `mapstructure:"timezone"`
	RollupCron                  string `mapstructure:"rollup_cron"`
	DirtyCron                   string `mapstructure:"dirty_cron"`
	PurgeCron                   string `mapstructure:"purge_cron"`
	GoalCron                    string `mapstructure:"goal_cron"`
	ProcessedEventRetentionDays int    `mapstructure:"processed_event_retention_days"`
}

// Location 解析分析时区，非法值回落到 UTC
func (a AnalyticsConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
