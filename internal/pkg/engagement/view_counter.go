// Package engagement holds the pure state machines behind view counting and
// reading-history deduplication. Persistence lives in the repositories.
package engagement

import (
	"time"
)

// ViewPolicy 浏览计数的时间窗口
type ViewPolicy struct {
	// Cooldown 同一会话两次被计数的浏览之间的最小间隔
	Cooldown time.Duration
	// Retention 会话时间戳与时间桶的保留窗口
	Retention time.Duration
	// BucketSize 时间桶粒度
	BucketSize time.Duration
}

func DefaultViewPolicy() ViewPolicy {
	return ViewPolicy{
		Cooldown:   time.Minute,
		Retention:  time.Hour,
		BucketSize: time.Hour,
	}
}

type ViewState int

const (
	NeverViewed ViewState = iota
	CoolingDown
	Eligible
)

func (s ViewState) String() string {
	switch s {
	case NeverViewed:
		return "never-viewed"
	case CoolingDown:
		return "cooling-down"
	case Eligible:
		return "eligible"
	default:
		return "unknown"
	}
}

// ViewCounter 单篇文章的浏览计数状态
type ViewCounter struct {
	Total    int64
	Sessions map[string]time.Time
	Buckets  map[string]int64
}

func NewViewCounter() *ViewCounter {
	return &ViewCounter{
		Sessions: make(map[string]time.Time),
		Buckets:  make(map[string]int64),
	}
}

// State 返回 session 在 now 时刻相对于该文章的状态
func (c *ViewCounter) State(session string, now time.Time, p ViewPolicy) ViewState {
	last, ok := c.Sessions[session]
	if !ok {
		return NeverViewed
	}
	if now.Sub(last) > p.Cooldown {
		return Eligible
	}
	return CoolingDown
}

// Track 记录一次浏览，返回是否被计数。冷却期内的浏览不修改任何状态。
func (c *ViewCounter) Track(session string, now time.Time, p ViewPolicy) bool {
	if c.Sessions == nil {
		c.Sessions = make(map[string]time.Time)
	}
	if c.Buckets == nil {
		c.Buckets = make(map[string]int64)
	}
	if c.State(session, now, p) == CoolingDown {
		return false
	}

	c.Total++
	c.Buckets[BucketKey(now, p.BucketSize)]++
	c.Sessions[session] = now
	c.Purge(now, p)
	return true
}

// Purge 清理早于保留窗口的时间桶和会话
func (c *ViewCounter) Purge(now time.Time, p ViewPolicy) {
	expiration := now.Add(-p.Retention)
	for key := range c.Buckets {
		start, err := BucketStart(key)
		if err != nil || start.Before(expiration) {
			delete(c.Buckets, key)
		}
	}
	for session, last := range c.Sessions {
		if last.Before(expiration) {
			delete(c.Sessions, session)
		}
	}
}

// RecentViews 保留窗口内的浏览数
func (c *ViewCounter) RecentViews() int64 {
	var sum int64
	for _, n := range c.Buckets {
		sum += n
	}
	return sum
}

// BucketKey 按 size 截断后的 UTC 时间，例如 2026-10-17T14:00:00Z
func BucketKey(t time.Time, size time.Duration) string {
	if size <= 0 {
		size = time.Hour
	}
	return t.UTC().Truncate(size).Format(time.RFC3339)
}

func BucketStart(key string) (time.Time, error) {
	return time.Parse(time.RFC3339, key)
}
