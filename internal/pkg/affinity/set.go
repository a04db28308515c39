// Package affinity models a reader's category affinity: explicit interests,
// categories of viewed articles and categories reached through reading
// history, folded into one de-duplicated candidate set.
package affinity

// Set 保持插入顺序的去重 ID 集合，零值可用
type Set struct {
	ids   []uint64
	index map[uint64]struct{}
}

func NewSet(ids ...uint64) *Set {
	s := &Set{}
	s.Add(ids...)
	return s
}

// Add 加入 ids，返回实际新增的数量
func (s *Set) Add(ids ...uint64) int {
	if s.index == nil {
		s.index = make(map[uint64]struct{}, len(ids))
	}
	added := 0
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
		added++
	}
	return added
}

// Remove 移除 ids，返回实际移除的数量
func (s *Set) Remove(ids ...uint64) int {
	if s == nil || len(s.index) == 0 {
		return 0
	}
	drop := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			drop[id] = struct{}{}
			delete(s.index, id)
		}
	}
	if len(drop) == 0 {
		return 0
	}
	kept := s.ids[:0]
	for _, id := range s.ids {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	s.ids = kept
	return len(drop)
}

func (s *Set) Contains(id uint64) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs 返回插入顺序的副本
func (s *Set) IDs() []uint64 {
	if s == nil {
		return []uint64{}
	}
	out := make([]uint64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Overlap 统计 ids 中落在集合内的不同元素个数
func (s *Set) Overlap(ids []uint64) int {
	if s.Len() == 0 || len(ids) == 0 {
		return 0
	}
	seen := make(map[uint64]struct{}, len(ids))
	n := 0
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if s.Contains(id) {
			n++
		}
	}
	return n
}

// Union 按参数顺序合并多个 ID 列表
func Union(lists ...[]uint64) *Set {
	s := &Set{}
	for _, l := range lists {
		s.Add(l...)
	}
	return s
}

// Dedupe 去重并保持顺序
func Dedupe(ids []uint64) []uint64 {
	return Union(ids).IDs()
}
