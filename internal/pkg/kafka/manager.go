package kafka

import (
	"Parchment/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	consumers []*consumer
}

// Handlers 各 topic 对应的处理器
type Handlers struct {
	Users             *UserHandler
	UserFollows       *UserFollowsHandler
	Articles          *ArticlesHandler
	ArticleCategories *ArticleCategoriesHandler
}

// NewConsumerManager 构造函数，Kafka 未启用时返回 nil
func NewConsumerManager(cfg *config.Config, handlers Handlers) (*ConsumerManager, error) {
	if !cfg.Kafka.Enable {
		return nil, nil
	}
	saramaCfg := newSaramaConfig(cfg.Kafka)

	consumers := []struct {
		name    string
		topic   config.KafkaConsumerTopic
		handler sarama.ConsumerGroupHandler
	}{
		{"user", cfg.KafkaUserConsumer, handlers.Users},
		{"user-follow", cfg.KafkaUserFollowConsumer, handlers.UserFollows},
		{"article", cfg.KafkaArticleConsumer, handlers.Articles},
		{"article-category", cfg.KafkaArticleCategoryConsumer, handlers.ArticleCategories},
	}

	m := &ConsumerManager{}
	for _, c := range consumers {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, c.topic.GroupID, saramaCfg)
		if err != nil {
			m.close()
			return nil, err
		}
		m.consumers = append(m.consumers, &consumer{
			name:    c.name,
			topic:   c.topic.Topic,
			group:   group,
			handler: c.handler,
		})
	}
	return m, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	for _, c := range m.consumers {
		go m.run(ctx, c)
		go m.drainErrors(ctx, c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	m.close()
	return nil
}

func (m *ConsumerManager) run(ctx context.Context, c *consumer) {
	log.Info("consumer started", "name", c.name, "topic", c.topic)
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
			log.Error("Error from consumer", "name", c.name, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// drainErrors Return.Errors 开启后必须消费错误通道
func (m *ConsumerManager) drainErrors(ctx context.Context, c *consumer) {
	for {
		select {
		case err, ok := <-c.group.Errors():
			if !ok {
				return
			}
			log.Error("consumer group error", "name", c.name, "err", err)
		case <-ctx.Done():
			return
		}
	}
}

func (m *ConsumerManager) close() {
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "name", c.name, "err", err)
		}
	}
}
