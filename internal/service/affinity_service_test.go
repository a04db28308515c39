package service

import (
	"Parchment/internal/pkg/consts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateSet_Cache(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	follow(t, w, 4, 2)

	set, err := w.affinity.CandidateSet(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, set.IDs())
	assert.True(t, w.mr.Exists(consts.UserAffinityKey+"4"))

	// 命中缓存时不读画像存储
	w.traces.err = errStoreDown
	set, err = w.affinity.CandidateSet(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, set.IDs())
}

func TestCandidateSet_InvalidateDuringBuild(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	follow(t, w, 4, 2)

	// 回源读完旧画像后，兴趣被修改并触发失效
	w.traces.onGet = func(userID uint64) {
		w.traces.onGet = nil
		follow(t, w, userID, 1)
	}
	set, err := w.affinity.CandidateSet(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, set.IDs())
	assert.False(t, w.mr.Exists(consts.UserAffinityKey+"4"), "stale set must not be cached")

	set, err = w.affinity.CandidateSet(ctx, 4)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 2}, set.IDs())
}
