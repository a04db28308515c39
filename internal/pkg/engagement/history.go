package engagement

import "time"

// DefaultHistoryCooldown 同一篇文章两条阅读记录之间的最小间隔
const DefaultHistoryCooldown = 24 * time.Hour

type HistoryEntry struct {
	ArticleID uint64
	ReadAt    time.Time
}

// LastRead 扫描全部历史，返回该文章最近一次阅读时间。历史不保证有序。
func LastRead(history []HistoryEntry, articleID uint64) (time.Time, bool) {
	var (
		last  time.Time
		found bool
	)
	for _, h := range history {
		if h.ArticleID != articleID {
			continue
		}
		if !found || h.ReadAt.After(last) {
			last = h.ReadAt
			found = true
		}
	}
	return last, found
}

// ShouldAppendHistory 没有该文章的记录，或最近一条已超过冷却时间时返回 true
func ShouldAppendHistory(history []HistoryEntry, articleID uint64, now time.Time, cooldown time.Duration) bool {
	last, ok := LastRead(history, articleID)
	if !ok {
		return true
	}
	return now.Sub(last) > cooldown
}
