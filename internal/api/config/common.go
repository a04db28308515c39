package config

import "time"

// Config 配置主体
type Config struct {
	Server                       ServerConfig       `mapstructure:"server"`
	DB                           DBConfig           `mapstructure:"database"`
	Redis                        RedisConfig        `mapstructure:"redis"`
	Mongo                        MongoConfig        `mapstructure:"mongo"`
	MinIO                        MinIOConfig        `mapstructure:"minio"`
	Elastic                      ElasticConfig      `mapstructure:"elastic"`
	Logstash                     LogstashConfig     `mapstructure:"logstash"`
	JWT                          JWTConfig          `mapstructure:"jwt"`
	Kafka                        KafkaConfig        `mapstructure:"kafka"`
	KafkaUserConsumer            KafkaConsumerTopic `mapstructure:"kafka_user_consumer"`
	KafkaUserFollowConsumer      KafkaConsumerTopic `mapstructure:"kafka_user_follow_consumer"`
	KafkaArticleConsumer         KafkaConsumerTopic `mapstructure:"kafka_article_consumer"`
	KafkaArticleCategoryConsumer KafkaConsumerTopic `mapstructure:"kafka_article_category_consumer"`
	Engagement                   EngagementConfig   `mapstructure:"engagement"`
	Ranking                      RankingConfig      `mapstructure:"ranking"`
	Cron                         CronConfig         `mapstructure:"cron"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// AllowOrigins 为空时回显任意 Origin
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN           string `mapstructure:"dsn"`
	MaxIdle       int    `mapstructure:"max_idle"`
	MaxOpen       int    `mapstructure:"max_open"`
	MaxLifetime   int    `mapstructure:"max_lifetime"`
	AutoMigrate   bool   `mapstructure:"auto_migrate"`
	SlowThreshold int    `mapstructure:"slow_threshold_ms"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置，仅用于拼接头像/封面等公共访问地址
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	ArticleIndex string `mapstructure:"article_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
	Level   string `mapstructure:"level"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaConsumerTopic struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// EngagementConfig 浏览计数与阅读历史的时间窗口
type EngagementConfig struct {
	ViewCooldown    time.Duration `mapstructure:"view_cooldown"`
	ViewRetention   time.Duration `mapstructure:"view_retention"`
	BucketSize      time.Duration `mapstructure:"bucket_size"`
	HistoryCooldown time.Duration `mapstructure:"history_cooldown"`
	// DistributedLock 多实例部署时使用 Redis 锁串行化同一篇文章的计数
	DistributedLock bool `mapstructure:"distributed_lock"`
}

type RankingConfig struct {
	PoolBatchSize   int           `mapstructure:"pool_batch_size"`
	RelatedTarget   int           `mapstructure:"related_target"`
	SuggestionLimit int           `mapstructure:"suggestion_limit"`
	DefaultPageSize int           `mapstructure:"default_page_size"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
	ProfileCacheTTL time.Duration `mapstructure:"profile_cache_ttl"`
}

type CronConfig struct {
	FootprintDirty   string `mapstructure:"footprint_dirty"`
	FootprintRebuild string `mapstructure:"footprint_rebuild"`
}
