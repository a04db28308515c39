package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 ./configs/config.yaml 加载配置并填充到 Cfg
func LoadConfig() error {
	cfg, err := LoadConfigFrom("./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// LoadConfigFrom 从指定目录读取 config.yaml，环境变量 PARCHMENT_* 可覆盖同名配置
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("PARCHMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("engagement.view_cooldown", time.Minute)
	v.SetDefault("engagement.view_retention", time.Hour)
	v.SetDefault("engagement.bucket_size", time.Hour)
	v.SetDefault("engagement.history_cooldown", 24*time.Hour)

	v.SetDefault("ranking.pool_batch_size", 500)
	v.SetDefault("ranking.related_target", 6)
	v.SetDefault("ranking.suggestion_limit", 6)
	v.SetDefault("ranking.default_page_size", 10)
	v.SetDefault("ranking.max_page_size", 50)
	v.SetDefault("ranking.profile_cache_ttl", time.Hour)

	v.SetDefault("cron.footprint_dirty", "0 */1 * * * *")
	v.SetDefault("cron.footprint_rebuild", "@daily")

	v.SetDefault("elastic.indices.article_index", "articles")
	v.SetDefault("jwt.issuer", "Parchment")
	v.SetDefault("logstash.level", "info")
}

// Validate 检查时间窗口之间的约束
func (c *Config) Validate() error {
	e := c.Engagement
	if e.ViewCooldown <= 0 || e.ViewRetention <= 0 || e.BucketSize <= 0 || e.HistoryCooldown <= 0 {
		return errors.New("engagement windows must be positive")
	}
	if e.ViewRetention < e.ViewCooldown {
		return fmt.Errorf("engagement.view_retention (%s) shorter than view_cooldown (%s)", e.ViewRetention, e.ViewCooldown)
	}
	r := c.Ranking
	if r.PoolBatchSize <= 0 || r.RelatedTarget <= 0 || r.SuggestionLimit <= 0 {
		return errors.New("ranking limits must be positive")
	}
	if r.DefaultPageSize <= 0 || r.MaxPageSize < r.DefaultPageSize {
		return errors.New("ranking page size misconfigured")
	}
	return nil
}
