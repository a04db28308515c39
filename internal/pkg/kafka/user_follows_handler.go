package kafka

import (
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// UserFollowsHandler 消费 user_follows 表变更，使关注者的关注列表缓存失效
type UserFollowsHandler struct {
	following CacheInvalidator
}

func NewUserFollowsHandler(following CacheInvalidator) *UserFollowsHandler {
	return &UserFollowsHandler{following: following}
}

func (s *UserFollowsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer setup")
	return nil
}

func (s *UserFollowsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer cleanup")
	return nil
}

func (s *UserFollowsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-follows consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user-follows process batch error", "err", err)
		return err
	}
	log.Info("topic-user-follows consume claim end")
	return nil
}

func (s *UserFollowsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "user_follows")
	if err != nil {
		return err
	}

	// 只做失效，下一次读取时整表回填
	affected := make(map[uint64]struct{})
	for i, row := range canalMsg.Data {
		if id := StrToUint64(row["follower_id"]); id != 0 {
			affected[id] = struct{}{}
		}
		// 更新可能改了 follower_id，旧的关注者也要失效
		if old := canalMsg.OldRow(i); old != nil {
			if id := StrToUint64(old["follower_id"]); id != 0 {
				affected[id] = struct{}{}
			}
		}
	}

	for id := range affected {
		if err = s.following.Invalidate(ctx, id); err != nil {
			return errors.Wrapf(err, "invalidate following cache of user %d", id)
		}
	}
	return nil
}
