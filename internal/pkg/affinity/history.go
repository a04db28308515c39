package affinity

import (
	"sort"

	"Parchment/internal/pkg/engagement"
)

// SortedHistory 按阅读时间倒序返回副本，同一时间按文章 ID 升序
func SortedHistory(history []engagement.HistoryEntry) []engagement.HistoryEntry {
	out := append([]engagement.HistoryEntry{}, history...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ReadAt.Equal(out[j].ReadAt) {
			return out[i].ReadAt.After(out[j].ReadAt)
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	return out
}
