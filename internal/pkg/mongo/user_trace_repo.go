package mongo

import (
	"Parchment/internal/pkg/affinity"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserTraceRepo 用户画像存储。所有修改都是单文档原子更新。
type UserTraceRepo interface {
	GetByUserID(ctx context.Context, userID uint64) (*affinity.Trace, error)
	CreateProfile(ctx context.Context, userID uint64) error
	UpdateProfile(ctx context.Context, userID uint64, m affinity.Mutation) (bool, error)
	DeleteProfile(ctx context.Context, userID uint64) error
}

type userTraceRepoImpl struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserTraceRepo(db *mongo.Database) UserTraceRepo {
	return &userTraceRepoImpl{
		col: db.Collection(UserTraceCollection),
		now: time.Now,
	}
}

// GetByUserID 不存在时返回 nil, nil
func (s *userTraceRepoImpl) GetByUserID(ctx context.Context, userID uint64) (*affinity.Trace, error) {
	var doc UserTraceModel
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.ToTrace(), nil
}

// CreateProfile 幂等创建空画像
func (s *userTraceRepoImpl) CreateProfile(ctx context.Context, userID uint64) error {
	now := s.now().UTC()
	_, err := s.col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": emptyDocument(now, "")},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func (s *userTraceRepoImpl) DeleteProfile(ctx context.Context, userID uint64) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}

// UpdateProfile 执行一次修改，返回画像是否发生变化
func (s *userTraceRepoImpl) UpdateProfile(ctx context.Context, userID uint64, m affinity.Mutation) (bool, error) {
	op, err := buildUpdate(userID, m, s.now().UTC())
	if err != nil {
		return false, err
	}
	if op == nil {
		return false, nil
	}

	res, err := s.col.UpdateOne(ctx, op.filter, op.update, options.Update().SetUpsert(op.upsert))
	if err != nil {
		// 并发 upsert 时唯一索引冲突，文档已由另一请求创建，重试一次即可
		if op.upsert && mongo.IsDuplicateKeyError(err) {
			res, err = s.col.UpdateOne(ctx, op.filter, op.update)
		}
		if err != nil {
			return false, err
		}
	}

	if res.MatchedCount == 0 && res.UpsertedCount == 0 && m.Kind == affinity.AppendHistory {
		// 可能是被冷却条件拦截，也可能是画像尚不存在
		exists, err := s.exists(ctx, userID)
		if err != nil || exists {
			return false, err
		}
		if err = s.CreateProfile(ctx, userID); err != nil {
			return false, err
		}
		if res, err = s.col.UpdateOne(ctx, op.filter, op.update); err != nil {
			return false, err
		}
	}

	return res.ModifiedCount > 0 || res.UpsertedCount > 0, nil
}

func (s *userTraceRepoImpl) exists(ctx context.Context, userID uint64) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"user_id": userID}, options.Count().SetLimit(1))
	return n > 0, err
}

type updateOp struct {
	filter bson.M
	update bson.M
	upsert bool
}

// buildUpdate 将 Mutation 翻译为 Mongo 更新；无需写入时返回 nil
func buildUpdate(userID uint64, m affinity.Mutation, now time.Time) (*updateOp, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	filter := bson.M{"user_id": userID}
	stamp := bson.M{"updated_at": now}

	switch m.Kind {
	case affinity.AddViewedCategories:
		return addToSet(filter, "views", m.IDs, now), nil
	case affinity.AddInterests:
		return addToSet(filter, "interests", m.IDs, now), nil
	case affinity.AddSavedList:
		return addToSet(filter, "saved_lists", m.IDs, now), nil
	case affinity.RemoveInterests:
		return pull(filter, "interests", m.IDs, now), nil
	case affinity.RemoveSavedList:
		return pull(filter, "saved_lists", m.IDs, now), nil
	case affinity.SetConfigured:
		stamp["configured"] = m.Configured
		return &updateOp{
			filter: filter,
			update: bson.M{"$set": stamp, "$setOnInsert": emptyDocument(now, "configured")},
			upsert: true,
		}, nil
	case affinity.SetHistory:
		stamp["history"] = toHistoryItems(m.History)
		return &updateOp{
			filter: filter,
			update: bson.M{"$set": stamp, "$setOnInsert": emptyDocument(now, "history")},
			upsert: true,
		}, nil
	case affinity.AppendHistory:
		since := m.Entry.ReadAt.UTC().Add(-m.Cooldown)
		guarded := bson.M{
			"user_id": userID,
			"history": bson.M{"$not": bson.M{"$elemMatch": bson.M{
				"article_id": m.Entry.ArticleID,
				"read_at":    bson.M{"$gte": since},
			}}},
		}
		return &updateOp{
			filter: guarded,
			update: bson.M{
				"$push": bson.M{"history": HistoryItem{ArticleID: m.Entry.ArticleID, ReadAt: m.Entry.ReadAt.UTC()}},
				"$set":  stamp,
			},
		}, nil
	}
	return nil, affinity.ErrInvalidMutation
}

func addToSet(filter bson.M, field string, ids []uint64, now time.Time) *updateOp {
	ids = affinity.Dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	return &updateOp{
		filter: filter,
		update: bson.M{
			"$addToSet":    bson.M{field: bson.M{"$each": ids}},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": emptyDocument(now, field),
		},
		upsert: true,
	}
}

func pull(filter bson.M, field string, ids []uint64, now time.Time) *updateOp {
	ids = affinity.Dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	return &updateOp{
		filter: filter,
		update: bson.M{
			"$pull": bson.M{field: bson.M{"$in": ids}},
			"$set":  bson.M{"updated_at": now},
		},
	}
}

// emptyDocument 新建画像时的初始字段，user_id 由 upsert 从过滤条件带入，skip 为本次更新已写入的字段
func emptyDocument(now time.Time, skip string) bson.M {
	doc := bson.M{
		"interests":   []uint64{},
		"views":       []uint64{},
		"history":     []HistoryItem{},
		"saved_lists": []uint64{},
		"configured":  false,
		"created_at":  now,
		"updated_at":  now,
	}
	delete(doc, skip)
	// updated_at 总是由 $set 写入
	if skip != "" {
		delete(doc, "updated_at")
	}
	return doc
}
