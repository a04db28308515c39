package mongo

import (
	"Parchment/internal/pkg/affinity"
	"Parchment/internal/pkg/engagement"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserTraceModel 用户阅读画像
type UserTraceModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     uint64             `bson:"user_id" json:"userId"`
	Interests  []uint64           `bson:"interests" json:"interests"`    // 主动关注的分类
	Views      []uint64           `bson:"views" json:"views"`            // 浏览过的文章分类
	History    []HistoryItem      `bson:"history" json:"history"`        // 阅读历史，仅追加
	SavedLists []uint64           `bson:"saved_lists" json:"savedLists"` // 收藏的列表
	Configured bool               `bson:"configured" json:"configured"`  // 是否完成兴趣引导
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

type HistoryItem struct {
	ArticleID uint64    `bson:"article_id" json:"articleId"`
	ReadAt    time.Time `bson:"read_at" json:"readAt"`
}

func (m *UserTraceModel) ToTrace() *affinity.Trace {
	history := make([]engagement.HistoryEntry, 0, len(m.History))
	for _, h := range m.History {
		history = append(history, engagement.HistoryEntry{ArticleID: h.ArticleID, ReadAt: h.ReadAt})
	}
	return &affinity.Trace{
		UserID:           m.UserID,
		Interests:        affinity.Dedupe(m.Interests),
		ViewedCategories: affinity.Dedupe(m.Views),
		SavedLists:       affinity.Dedupe(m.SavedLists),
		History:          history,
		Configured:       m.Configured,
	}
}

func toHistoryItems(entries []engagement.HistoryEntry) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{ArticleID: e.ArticleID, ReadAt: e.ReadAt.UTC()})
	}
	return items
}
