// Package ranking scores candidates against an affinity set and orders them
// deterministically. It never touches a store: pools are supplied by Fetchers.
package ranking

import (
	"context"
	"sort"
	"time"

	"Parchment/internal/pkg/affinity"
)

// Candidate 待排序的条目，文章/分类/作者统一成此结构
type Candidate struct {
	ID         uint64
	Categories []uint64
	Popularity int64
	CreatedAt  time.Time
}

// Secondary 分数相同时的排序键
type Secondary int

const (
	// ByPopularity 浏览量降序
	ByPopularity Secondary = iota
	// ByRecency 创建时间降序
	ByRecency
	// ByCreation 创建时间升序
	ByCreation
	// ByIdentifier 只按 ID 升序
	ByIdentifier
)

// Mode 打分方式
type Mode int

const (
	// Overlap 分类交集大小
	Overlap Mode = iota
	// Containment 命中集合记 1 分
	Containment
	// ContainmentInverted 未命中集合记 1 分
	ContainmentInverted
)

type Policy struct {
	Mode      Mode
	Secondary Secondary
}

type Scored struct {
	Candidate
	Score int
}

func Score(c Candidate, set *affinity.Set, mode Mode) int {
	overlap := set.Overlap(c.Categories)
	switch mode {
	case Containment:
		if overlap > 0 {
			return 1
		}
		return 0
	case ContainmentInverted:
		if overlap > 0 {
			return 0
		}
		return 1
	default:
		return overlap
	}
}

// Rank 打分并排序：分数降序，再按 Secondary，最后按 ID 升序。重复 ID 只保留第一次出现。
func Rank(pool []Candidate, set *affinity.Set, p Policy) []Scored {
	seen := make(map[uint64]struct{}, len(pool))
	scored := make([]Scored, 0, len(pool))
	for _, c := range pool {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		scored = append(scored, Scored{Candidate: c, Score: Score(c, set, p.Mode)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return less(scored[i], scored[j], p.Secondary)
	})
	return scored
}

func less(a, b Scored, sec Secondary) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	switch sec {
	case ByPopularity:
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
	case ByRecency:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case ByCreation:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

// Paginate limit <= 0 表示不限制
func Paginate(scored []Scored, offset, limit int) []Scored {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(scored) {
		return []Scored{}
	}
	end := len(scored)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return scored[offset:end]
}

// IDs 提取结果中的 ID
func IDs(scored []Scored) []uint64 {
	ids := make([]uint64, 0, len(scored))
	for _, s := range scored {
		ids = append(ids, s.ID)
	}
	return ids
}

// Fetcher 从存储中取候选池
type Fetcher func(ctx context.Context) ([]Candidate, error)

type Request struct {
	Set    *affinity.Set
	Policy Policy
	Offset int
	Limit  int
	// RequireMatch 丢弃分数为 0 的候选
	RequireMatch bool
}

type Result struct {
	Items    []Scored
	Total    int
	Fallback bool
}

// Select 从 primary 取池打分排序；打分结果为空时从 relaxed 取池，仅按 Secondary 排序
func Select(ctx context.Context, req Request, primary, relaxed Fetcher) (*Result, error) {
	var pool []Candidate
	if primary != nil {
		var err error
		if pool, err = primary(ctx); err != nil {
			return nil, err
		}
	}

	scored := Rank(pool, req.Set, req.Policy)
	if req.RequireMatch {
		scored = matched(scored)
	}
	if len(scored) > 0 || relaxed == nil {
		return &Result{Items: Paginate(scored, req.Offset, req.Limit), Total: len(scored)}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pool, err := relaxed(ctx)
	if err != nil {
		return nil, err
	}
	scored = Rank(pool, nil, Policy{Mode: Overlap, Secondary: req.Policy.Secondary})
	return &Result{Items: Paginate(scored, req.Offset, req.Limit), Total: len(scored), Fallback: true}, nil
}

func matched(scored []Scored) []Scored {
	out := scored[:0:0]
	for _, s := range scored {
		if s.Score > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Backfill 结果不足 target 时，从 fetch 取池按 Secondary 补齐，跳过 exclude 和已选中的条目
func Backfill(ctx context.Context, selected []Scored, target int, exclude []uint64, sec Secondary, fetch Fetcher) ([]Scored, error) {
	if len(selected) >= target {
		return selected[:target], nil
	}
	if fetch == nil {
		return selected, nil
	}
	pool, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	skip := affinity.NewSet(exclude...)
	skip.Add(IDs(selected)...)

	out := append([]Scored{}, selected...)
	for _, s := range Rank(pool, nil, Policy{Mode: Overlap, Secondary: sec}) {
		if len(out) >= target {
			break
		}
		if skip.Contains(s.ID) {
			continue
		}
		skip.Add(s.ID)
		out = append(out, s)
	}
	return out, nil
}
