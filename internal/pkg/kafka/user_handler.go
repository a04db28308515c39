package kafka

import (
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// ProfileStore 用户画像文档的生命周期
type ProfileStore interface {
	CreateProfile(ctx context.Context, userID uint64) error
	DeleteProfile(ctx context.Context, userID uint64) error
}

// CacheInvalidator 画像相关缓存的失效
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uint64) error
}

// UserHandler 消费 users 表变更：注册时建画像，注销时删画像
type UserHandler struct {
	profiles ProfileStore
	caches   []CacheInvalidator
}

func NewUserHandler(profiles ProfileStore, caches ...CacheInvalidator) *UserHandler {
	return &UserHandler{
		profiles: profiles,
		caches:   caches,
	}
}

func (s *UserHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user consumer setup")
	return nil
}

func (s *UserHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user consumer cleanup")
	return nil
}

func (s *UserHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user process batch error", "err", err)
		return err
	}
	log.Info("topic-user consume claim end")
	return nil
}

func (s *UserHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "users")
	if err != nil {
		return err
	}

	for i, row := range canalMsg.Data {
		userID := StrToUint64(row["id"])
		if userID == 0 {
			continue
		}

		switch {
		case canalMsg.Type == DELETE || StrToBool(row["is_delete"]):
			if err = s.remove(ctx, userID); err != nil {
				return err
			}
		case canalMsg.Type == INSERT:
			if err = s.profiles.CreateProfile(ctx, userID); err != nil {
				return errors.Wrapf(err, "create profile of user %d", userID)
			}
		case canalMsg.Type == UPDATE:
			// 从注销状态恢复
			if old := canalMsg.OldRow(i); old != nil && StrToBool(old["is_delete"]) {
				if err = s.profiles.CreateProfile(ctx, userID); err != nil {
					return errors.Wrapf(err, "restore profile of user %d", userID)
				}
			}
		}
	}
	return nil
}

func (s *UserHandler) remove(ctx context.Context, userID uint64) error {
	if err := s.profiles.DeleteProfile(ctx, userID); err != nil {
		return errors.Wrapf(err, "delete profile of user %d", userID)
	}
	for _, c := range s.caches {
		if err := c.Invalidate(ctx, userID); err != nil {
			log.WarnContext(ctx, "invalidate cache failed", "user_id", userID, "err", err)
		}
	}
	return nil
}
