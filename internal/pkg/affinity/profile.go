package affinity

// Profile 由 Trace 派生的只读画像
type Profile struct {
	ActorID           uint64
	Interests         []uint64
	ViewedCategories  []uint64
	HistoryCategories []uint64
	CandidateSet      *Set
}

// Anonymous 未登录用户的空画像
func Anonymous() *Profile {
	return &Profile{
		Interests:         []uint64{},
		ViewedCategories:  []uint64{},
		HistoryCategories: []uint64{},
		CandidateSet:      NewSet(),
	}
}

// Build 候选集合 = interests ∪ viewed ∪ historyCategories
func Build(actorID uint64, interests, viewed, historyCategories []uint64) *Profile {
	p := &Profile{
		ActorID:           actorID,
		Interests:         Dedupe(interests),
		ViewedCategories:  Dedupe(viewed),
		HistoryCategories: Dedupe(historyCategories),
	}
	p.CandidateSet = Union(p.Interests, p.ViewedCategories, p.HistoryCategories)
	return p
}

func (p *Profile) IsAnonymous() bool {
	return p == nil || p.ActorID == 0
}

// Candidates 候选分类集合，nil 画像返回空集合
func (p *Profile) Candidates() *Set {
	if p == nil || p.CandidateSet == nil {
		return NewSet()
	}
	return p.CandidateSet
}
