package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 新读者读了两篇文章后，推荐、分类与关注建议都随之变化
func TestReaderJourney(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	top, err := w.articleS.GetTopArticle(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), top.ID)

	_, appended := w.view(t, 4, "s1", "a2")
	assert.True(t, appended)
	w.advance(time.Minute)
	_, appended = w.view(t, 4, "s1", "a4")
	assert.True(t, appended)

	top, err = w.articleS.GetTopArticle(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), top.ID)
	assert.Equal(t, int64(6), top.Views)

	cats, err := w.categoryS.GetCategories(ctx, 4, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3, 4}, categoryIDs(cats))
	cats, err = w.categoryS.GetCategories(ctx, 4, -1, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 4, 1, 2}, categoryIDs(cats))

	authors, err := w.followS.WhoToFollow(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, authorIDs(authors))

	history, err := w.traceS.GetHistory(ctx, 4, 1, 10)
	require.NoError(t, err)
	require.Len(t, history.Data, 2)
	assert.Equal(t, uint64(4), history.Data[0].Article.ID)
	assert.Equal(t, uint64(2), history.Data[1].Article.ID)
}
