package affinity

import (
	"errors"
	"time"

	"Parchment/internal/pkg/engagement"
)

var ErrInvalidMutation = errors.New("invalid profile mutation")

// Trace 持久化画像的内存表示
type Trace struct {
	UserID           uint64
	Interests        []uint64
	ViewedCategories []uint64
	SavedLists       []uint64
	History          []engagement.HistoryEntry
	Configured       bool
}

type MutationKind int

const (
	AddViewedCategories MutationKind = iota + 1
	AppendHistory
	SetHistory
	AddInterests
	RemoveInterests
	AddSavedList
	RemoveSavedList
	SetConfigured
)

func (k MutationKind) String() string {
	switch k {
	case AddViewedCategories:
		return "add-viewed-categories"
	case AppendHistory:
		return "append-history"
	case SetHistory:
		return "set-history"
	case AddInterests:
		return "add-interests"
	case RemoveInterests:
		return "remove-interests"
	case AddSavedList:
		return "add-saved-list"
	case RemoveSavedList:
		return "remove-saved-list"
	case SetConfigured:
		return "set-configured"
	default:
		return "unknown"
	}
}

// Mutation 对画像的一次原子修改
type Mutation struct {
	Kind       MutationKind
	IDs        []uint64
	Entry      engagement.HistoryEntry
	History    []engagement.HistoryEntry
	Cooldown   time.Duration
	Configured bool
}

func ViewCategories(ids ...uint64) Mutation {
	return Mutation{Kind: AddViewedCategories, IDs: ids}
}

// RecordRead 仅当该文章最近一条记录已超过 cooldown 时追加
func RecordRead(articleID uint64, at time.Time, cooldown time.Duration) Mutation {
	return Mutation{
		Kind:     AppendHistory,
		Entry:    engagement.HistoryEntry{ArticleID: articleID, ReadAt: at},
		Cooldown: cooldown,
	}
}

func ReplaceHistory(history []engagement.HistoryEntry) Mutation {
	if history == nil {
		history = []engagement.HistoryEntry{}
	}
	return Mutation{Kind: SetHistory, History: history}
}

func ClearHistory() Mutation {
	return ReplaceHistory(nil)
}

func FollowInterests(ids ...uint64) Mutation {
	return Mutation{Kind: AddInterests, IDs: ids}
}

func DropInterests(ids ...uint64) Mutation {
	return Mutation{Kind: RemoveInterests, IDs: ids}
}

func SaveList(listID uint64) Mutation {
	return Mutation{Kind: AddSavedList, IDs: []uint64{listID}}
}

func UnsaveList(listID uint64) Mutation {
	return Mutation{Kind: RemoveSavedList, IDs: []uint64{listID}}
}

func MarkConfigured(configured bool) Mutation {
	return Mutation{Kind: SetConfigured, Configured: configured}
}

func (m Mutation) Validate() error {
	switch m.Kind {
	case AddViewedCategories, AddInterests, RemoveInterests:
		return nil
	case AddSavedList, RemoveSavedList:
		if len(m.IDs) != 1 || m.IDs[0] == 0 {
			return ErrInvalidMutation
		}
		return nil
	case AppendHistory:
		if m.Entry.ArticleID == 0 || m.Entry.ReadAt.IsZero() {
			return ErrInvalidMutation
		}
		return nil
	case SetHistory, SetConfigured:
		return nil
	default:
		return ErrInvalidMutation
	}
}

// Apply 在内存中执行修改，集合字段始终保持去重。返回画像是否发生变化。
func (t *Trace) Apply(m Mutation) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}
	switch m.Kind {
	case AddViewedCategories:
		return addTo(&t.ViewedCategories, m.IDs), nil
	case AddInterests:
		return addTo(&t.Interests, m.IDs), nil
	case RemoveInterests:
		return removeFrom(&t.Interests, m.IDs), nil
	case AddSavedList:
		return addTo(&t.SavedLists, m.IDs), nil
	case RemoveSavedList:
		return removeFrom(&t.SavedLists, m.IDs), nil
	case AppendHistory:
		if !engagement.ShouldAppendHistory(t.History, m.Entry.ArticleID, m.Entry.ReadAt, m.Cooldown) {
			return false, nil
		}
		t.History = append(t.History, m.Entry)
		return true, nil
	case SetHistory:
		t.History = append([]engagement.HistoryEntry{}, m.History...)
		return true, nil
	case SetConfigured:
		changed := t.Configured != m.Configured
		t.Configured = m.Configured
		return changed, nil
	}
	return false, ErrInvalidMutation
}

func addTo(dst *[]uint64, ids []uint64) bool {
	s := NewSet(*dst...)
	if s.Add(ids...) == 0 {
		return false
	}
	*dst = s.IDs()
	return true
}

func removeFrom(dst *[]uint64, ids []uint64) bool {
	s := NewSet(*dst...)
	if s.Remove(ids...) == 0 {
		return false
	}
	*dst = s.IDs()
	return true
}

// Clone 深拷贝
func (t *Trace) Clone() *Trace {
	if t == nil {
		return nil
	}
	return &Trace{
		UserID:           t.UserID,
		Interests:        append([]uint64{}, t.Interests...),
		ViewedCategories: append([]uint64{}, t.ViewedCategories...),
		SavedLists:       append([]uint64{}, t.SavedLists...),
		History:          append([]engagement.HistoryEntry{}, t.History...),
		Configured:       t.Configured,
	}
}

// HistoryArticleIDs 历史中出现过的文章 ID，最近阅读的在前，去重
func (t *Trace) HistoryArticleIDs() []uint64 {
	ordered := SortedHistory(t.History)
	s := NewSet()
	for _, h := range ordered {
		s.Add(h.ArticleID)
	}
	return s.IDs()
}
