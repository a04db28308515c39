package kafka

import (
	"context"
	"errors"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	batchSize        = 32
	batchTimeout     = 1 * time.Second
	retryInterval    = 100 * time.Millisecond
	maxRetryInterval = 5 * time.Second
)

// ErrIgnoredMessage 与当前消费者无关的消息，直接提交位点
var ErrIgnoredMessage = errors.New("message ignored")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
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
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，失败的消息退避重试直到成功或会话结束
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			handleWithRetry(session.Context(), m, logic)
		}(msg)
	}

	wg.Wait()

	if len(messages) > 0 && session.Context().Err() == nil {
		lastMsg := messages[len(messages)-1]
		session.MarkMessage(lastMsg, "")
	}
}

func handleWithRetry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	interval := retryInterval
	for {
		err := logic(ctx, m)
		if err == nil || errors.Is(err, ErrIgnoredMessage) {
			return
		}

		log.ErrorContext(ctx, "process message error",
			"err", err, "topic", m.Topic, "partition", m.Partition, "offset", m.Offset)

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}

		interval *= 2
		if interval > maxRetryInterval {
			interval = maxRetryInterval
		}
	}
}

// ToCanalMessage 将kafka消息转换为canal消息结构体
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		log.Error("unmarshal canal message error", "err", err)
		return nil, ErrIgnoredMessage
	}

	if canalMsg.IsDDL || canalMsg.Table != tableName || len(canalMsg.Data) == 0 {
		return nil, ErrIgnoredMessage
	}

	return &canalMsg, nil
}
