package service

import (
	"Parchment/internal/api/dto"
	"Parchment/internal/pkg/affinity"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateInterests(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	follow(t, w, 4, 2, 2, 1)
	assert.Equal(t, []uint64{2, 1}, w.traces.get(4).Interests)

	follow(t, w, 4, 1)
	assert.Equal(t, []uint64{2, 1}, w.traces.get(4).Interests)

	err := w.traceS.UpdateInterests(ctx, 4, &dto.UpdateInterestsDTO{CategoryIDs: []uint64{2}, Action: dto.ActionRemove})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, w.traces.get(4).Interests)

	err = w.traceS.UpdateInterests(ctx, 4, &dto.UpdateInterestsDTO{CategoryIDs: []uint64{3, 99}, Action: dto.ActionAdd})
	assert.ErrorIs(t, err, ErrCategoryInvalid)
	assert.Equal(t, []uint64{1}, w.traces.get(4).Interests)

	err = w.traceS.UpdateInterests(ctx, 0, &dto.UpdateInterestsDTO{CategoryIDs: []uint64{1}, Action: dto.ActionAdd})
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	profile, err := w.traceS.GetProfile(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), profile.UserID)
	assert.Empty(t, profile.Interests)
	assert.Empty(t, profile.SavedLists)
	assert.False(t, profile.Configured)

	follow(t, w, 4, 3)
	w.view(t, 4, "s1", "a2")
	_, err = w.traceS.ToggleSavedList(ctx, 4, 1, "")
	require.NoError(t, err)
	require.NoError(t, w.traceS.SetConfigured(ctx, 4, true))

	profile, err = w.traceS.GetProfile(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, categoryIDs(profile.Interests))
	assert.Equal(t, []uint64{1, 2}, categoryIDs(profile.ViewedCategories))
	require.Len(t, profile.SavedLists, 1)
	assert.Equal(t, "public", profile.SavedLists[0].Title)
	assert.True(t, profile.Configured)

	_, err = w.traceS.GetProfile(ctx, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = w.traceS.GetProfile(ctx, 0)
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestToggleSavedList(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	saved, err := w.traceS.ToggleSavedList(ctx, 4, 1, "")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = w.traceS.ToggleSavedList(ctx, 4, 1, "")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, w.traces.get(4).SavedLists)

	saved, err = w.traceS.ToggleSavedList(ctx, 4, 1, dto.ActionAdd)
	require.NoError(t, err)
	assert.True(t, saved)
	saved, err = w.traceS.ToggleSavedList(ctx, 4, 1, dto.ActionAdd)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, []uint64{1}, w.traces.get(4).SavedLists)

	_, err = w.traceS.ToggleSavedList(ctx, 4, 2, "")
	assert.ErrorIs(t, err, ErrListForbidden)

	saved, err = w.traceS.ToggleSavedList(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.True(t, saved, "owners can save their private lists")

	_, err = w.traceS.ToggleSavedList(ctx, 4, 99, "")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	for _, slug := range []string{"a1", "a2", "a3"} {
		w.view(t, 4, "s1", slug)
		w.advance(time.Minute)
	}
	// 已删除文章的记录不展示
	_, err := w.traces.UpdateProfile(ctx, 4, affinity.RecordRead(6, w.clock, 24*time.Hour))
	require.NoError(t, err)

	page, err := w.traceS.GetHistory(ctx, 4, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, uint64(3), page.Data[0].Article.ID)
	assert.Equal(t, uint64(2), page.Data[1].Article.ID)
	assert.True(t, page.Data[0].ReadAt.After(page.Data[1].ReadAt))
	assert.True(t, page.HasMore)

	page, err = w.traceS.GetHistory(ctx, 4, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, uint64(1), page.Data[0].Article.ID)
	assert.False(t, page.HasMore)

	require.NoError(t, w.traceS.ClearHistory(ctx, 4))
	page, err = w.traceS.GetHistory(ctx, 4, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)

	// 清空历史不影响浏览过的分类
	assert.Equal(t, []uint64{1, 2, 3}, w.traces.get(4).ViewedCategories)
}
