package ranking

import (
	"context"
	"errors"
	"testing"
	"time"

	"Parchment/internal/pkg/affinity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func pool() []Candidate {
	return []Candidate{
		{ID: 5, Categories: []uint64{1}, Popularity: 10, CreatedAt: base.Add(5 * time.Hour)},
		{ID: 3, Categories: []uint64{1, 2}, Popularity: 1, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 4, Categories: []uint64{3}, Popularity: 50, CreatedAt: base.Add(4 * time.Hour)},
		{ID: 2, Categories: []uint64{1}, Popularity: 10, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 1, Categories: []uint64{2, 9}, Popularity: 7, CreatedAt: base.Add(1 * time.Hour)},
	}
}

func fixed(c []Candidate) Fetcher {
	return func(context.Context) ([]Candidate, error) { return c, nil }
}

func TestRank_ScoreThenSecondaryThenID(t *testing.T) {
	set := affinity.NewSet(1, 2)

	t.Run("popularity", func(t *testing.T) {
		got := Rank(pool(), set, Policy{Secondary: ByPopularity})
		assert.Equal(t, []uint64{3, 2, 5, 1, 4}, IDs(got))
		assert.Equal(t, []int{2, 1, 1, 1, 0}, scores(got))
	})

	t.Run("recency", func(t *testing.T) {
		got := Rank(pool(), set, Policy{Secondary: ByRecency})
		assert.Equal(t, []uint64{3, 5, 2, 1, 4}, IDs(got))
	})

	t.Run("creation order", func(t *testing.T) {
		got := Rank(pool(), set, Policy{Secondary: ByCreation})
		assert.Equal(t, []uint64{3, 1, 2, 5, 4}, IDs(got))
	})
}

func TestRank_Deterministic(t *testing.T) {
	set := affinity.NewSet(1)
	want := Rank(pool(), set, Policy{Secondary: ByPopularity})

	shuffled := pool()
	shuffled[0], shuffled[4] = shuffled[4], shuffled[0]
	shuffled[1], shuffled[3] = shuffled[3], shuffled[1]
	for i := 0; i < 5; i++ {
		got := Rank(shuffled, set, Policy{Secondary: ByPopularity})
		assert.Equal(t, want, got)
	}
}

func TestRank_DuplicateIDsKeepFirst(t *testing.T) {
	got := Rank([]Candidate{{ID: 1, Popularity: 1}, {ID: 1, Popularity: 100}}, nil, Policy{})
	require.Len(t, got, 1)
	assert.EqualValues(t, 1, got[0].Popularity)
}

func TestScore_Containment(t *testing.T) {
	set := affinity.NewSet(2)
	in := Candidate{ID: 2, Categories: []uint64{2}}
	out := Candidate{ID: 3, Categories: []uint64{3}}

	assert.Equal(t, 1, Score(in, set, Containment))
	assert.Equal(t, 0, Score(out, set, Containment))
	assert.Equal(t, 0, Score(in, set, ContainmentInverted))
	assert.Equal(t, 1, Score(out, set, ContainmentInverted))
}

func TestSelect(t *testing.T) {
	ctx := context.Background()

	t.Run("uses primary when it scores", func(t *testing.T) {
		res, err := Select(ctx, Request{Set: affinity.NewSet(3), Policy: Policy{Secondary: ByPopularity}, Limit: 1},
			fixed(pool()), func(context.Context) ([]Candidate, error) {
				t.Fatal("relaxed must not be queried")
				return nil, nil
			})
		require.NoError(t, err)
		assert.False(t, res.Fallback)
		assert.Equal(t, []uint64{4}, IDs(res.Items))
	})

	t.Run("empty primary falls back to secondary order", func(t *testing.T) {
		res, err := Select(ctx, Request{Set: affinity.NewSet(), Policy: Policy{Secondary: ByPopularity}, Limit: 1},
			fixed(nil), fixed(pool()))
		require.NoError(t, err)
		assert.True(t, res.Fallback)
		require.Len(t, res.Items, 1)
		assert.EqualValues(t, 4, res.Items[0].ID)
	})

	t.Run("require match drops zero scores", func(t *testing.T) {
		res, err := Select(ctx, Request{Set: affinity.NewSet(9), RequireMatch: true}, fixed(pool()), nil)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, IDs(res.Items))
		assert.Equal(t, 1, res.Total)
	})

	t.Run("pagination uses total", func(t *testing.T) {
		res, err := Select(ctx, Request{Set: affinity.NewSet(1), Offset: 2, Limit: 2}, fixed(pool()), nil)
		require.NoError(t, err)
		assert.Equal(t, 5, res.Total)
		assert.Len(t, res.Items, 2)
	})

	t.Run("fetch errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Select(ctx, Request{}, func(context.Context) ([]Candidate, error) { return nil, boom }, nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestBackfill(t *testing.T) {
	ctx := context.Background()
	all := pool()

	t.Run("fills up to target without duplicates or excluded", func(t *testing.T) {
		selected := Rank([]Candidate{all[0]}, nil, Policy{})
		got, err := Backfill(ctx, selected, 4, []uint64{4}, ByPopularity, fixed(all))
		require.NoError(t, err)
		assert.Equal(t, []uint64{5, 2, 1, 3}, IDs(got))
	})

	t.Run("returns all when pool is small", func(t *testing.T) {
		got, err := Backfill(ctx, nil, 6, nil, ByPopularity, fixed(all[:2]))
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("truncates when already above target", func(t *testing.T) {
		selected := Rank(all, nil, Policy{})
		got, err := Backfill(ctx, selected, 3, nil, ByPopularity, nil)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestHasMore(t *testing.T) {
	assert.True(t, HasMore(1, 11, 10))
	assert.False(t, HasMore(2, 11, 10))
	assert.False(t, HasMore(1, 10, 10))
	assert.False(t, HasMore(1, 0, 10))
	assert.Equal(t, 20, Offset(3, 10))
	assert.Equal(t, 0, Offset(0, 10))
}

func scores(s []Scored) []int {
	out := make([]int, 0, len(s))
	for _, x := range s {
		out = append(out, x.Score)
	}
	return out
}
