package service

import (
	"Parchment/internal/model"
	"Parchment/internal/pkg/consts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhoToFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("no profile falls back to creation order", func(t *testing.T) {
		w := newWorld(t)
		got, err := w.followS.WhoToFollow(ctx, 4)
		require.NoError(t, err)
		// 用户 3 已关注
		assert.Equal(t, []uint64{1, 2}, authorIDs(got))
		assert.True(t, w.mr.Exists(consts.UserFollowingKey+"4"))
	})

	t.Run("only matching authors when any match", func(t *testing.T) {
		w := newWorld(t)
		follow(t, w, 4, 2, 3)
		got, err := w.followS.WhoToFollow(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []uint64{2}, authorIDs(got))
	})

	t.Run("ties ordered by author creation", func(t *testing.T) {
		w := newWorld(t)
		follow(t, w, 1, 2)
		got, err := w.followS.WhoToFollow(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint64{2, 3}, authorIDs(got))
	})

	t.Run("scores every author beyond one batch", func(t *testing.T) {
		w := newWorld(t)
		cfg := rankingCfg
		cfg.PoolBatchSize = 1
		w.wire(cfg, w.followingCache)
		follow(t, w, 4, 2)
		got, err := w.followS.WhoToFollow(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []uint64{2}, authorIDs(got))
	})

	t.Run("deleted author is not suggested", func(t *testing.T) {
		w := newWorld(t)
		require.NoError(t, w.db.Model(&model.User{}).Where("id = ?", 1).Update("is_delete", true).Error)
		got, err := w.followS.WhoToFollow(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []uint64{2}, authorIDs(got))
	})

	t.Run("anonymous", func(t *testing.T) {
		w := newWorld(t)
		_, err := w.followS.WhoToFollow(ctx, 0)
		assert.ErrorIs(t, err, UnauthorizedError)
	})
}

func TestWhoToFollow_NewFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("without cache reads follows live", func(t *testing.T) {
		w := newWorld(t)
		w.wire(rankingCfg, nil)
		got, err := w.followS.WhoToFollow(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2}, authorIDs(got))

		require.NoError(t, w.db.Create(&model.UserFollow{FollowerID: 4, FollowingID: 2, CreatedAt: t0}).Error)
		got, err = w.followS.WhoToFollow(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, authorIDs(got))
		assert.False(t, w.mr.Exists(consts.UserFollowingKey+"4"))
	})

	t.Run("change feed invalidation refreshes cache", func(t *testing.T) {
		w := newWorld(t)
		got, err := w.followS.WhoToFollow(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2}, authorIDs(got))

		require.NoError(t, w.db.Create(&model.UserFollow{FollowerID: 4, FollowingID: 2, CreatedAt: t0}).Error)
		require.NoError(t, w.followingCache.Invalidate(ctx, 4))
		got, err = w.followS.WhoToFollow(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, authorIDs(got))

		ids, ok, _, err := w.followingCache.GetFollowingIDs(ctx, 4)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.ElementsMatch(t, []uint64{2, 3}, ids)
	})
}

func TestGetFollowingUsers(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	page, err := w.followS.GetFollowingUsers(ctx, 4, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "cy", page.Data[0].Author.Username)
	assert.Equal(t, consts.DefaultAvatarURL, page.Data[0].Author.Avatar)
	assert.False(t, page.HasMore)

	page, err = w.followS.GetFollowingUsers(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}
