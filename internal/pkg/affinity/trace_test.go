package affinity

import (
	"testing"
	"time"

	"Parchment/internal/pkg/engagement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func hasDuplicates(ids []uint64) bool {
	seen := map[uint64]bool{}
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

func TestTrace_SetFieldsStayUnique(t *testing.T) {
	tr := &Trace{UserID: 1}
	mutations := []Mutation{
		ViewCategories(1, 2, 2),
		ViewCategories(2, 3),
		FollowInterests(5, 5, 6),
		FollowInterests(6),
		SaveList(10),
		SaveList(10),
		DropInterests(5),
		FollowInterests(5),
		ViewCategories(1),
	}
	for _, m := range mutations {
		_, err := tr.Apply(m)
		require.NoError(t, err)
		assert.False(t, hasDuplicates(tr.ViewedCategories), "after %s", m.Kind)
		assert.False(t, hasDuplicates(tr.Interests), "after %s", m.Kind)
		assert.False(t, hasDuplicates(tr.SavedLists), "after %s", m.Kind)
	}
	assert.Equal(t, []uint64{1, 2, 3}, tr.ViewedCategories)
	assert.Equal(t, []uint64{6, 5}, tr.Interests)
	assert.Equal(t, []uint64{10}, tr.SavedLists)
}

func TestTrace_Apply(t *testing.T) {
	t.Run("add reports no change for existing members", func(t *testing.T) {
		tr := &Trace{Interests: []uint64{1}}
		changed, err := tr.Apply(FollowInterests(1))
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("history append respects cooldown", func(t *testing.T) {
		tr := &Trace{}
		cd := engagement.DefaultHistoryCooldown

		ok, err := tr.Apply(RecordRead(7, now, cd))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, _ = tr.Apply(RecordRead(7, now.Add(time.Hour), cd))
		assert.False(t, ok)

		ok, _ = tr.Apply(RecordRead(7, now.Add(25*time.Hour), cd))
		assert.True(t, ok)
		assert.Len(t, tr.History, 2)
	})

	t.Run("clear history", func(t *testing.T) {
		tr := &Trace{History: []engagement.HistoryEntry{{ArticleID: 1, ReadAt: now}}}
		_, err := tr.Apply(ClearHistory())
		require.NoError(t, err)
		assert.Empty(t, tr.History)
		assert.NotNil(t, tr.History)
	})

	t.Run("configured flag", func(t *testing.T) {
		tr := &Trace{}
		changed, _ := tr.Apply(MarkConfigured(true))
		assert.True(t, changed)
		changed, _ = tr.Apply(MarkConfigured(true))
		assert.False(t, changed)
	})

	t.Run("invalid mutations", func(t *testing.T) {
		tr := &Trace{}
		_, err := tr.Apply(Mutation{})
		assert.ErrorIs(t, err, ErrInvalidMutation)
		_, err = tr.Apply(SaveList(0))
		assert.ErrorIs(t, err, ErrInvalidMutation)
		_, err = tr.Apply(RecordRead(0, now, time.Hour))
		assert.ErrorIs(t, err, ErrInvalidMutation)
	})
}

func TestBuild(t *testing.T) {
	p := Build(1, []uint64{4, 4}, []uint64{1, 2}, []uint64{2, 5})
	assert.Equal(t, []uint64{4}, p.Interests)
	assert.Equal(t, []uint64{4, 1, 2, 5}, p.Candidates().IDs())
	assert.False(t, p.IsAnonymous())

	anon := Anonymous()
	assert.True(t, anon.IsAnonymous())
	assert.Equal(t, 0, anon.Candidates().Len())

	var nilProfile *Profile
	assert.Equal(t, 0, nilProfile.Candidates().Len())
}

func TestHistoryArticleIDs(t *testing.T) {
	tr := &Trace{History: []engagement.HistoryEntry{
		{ArticleID: 1, ReadAt: now},
		{ArticleID: 2, ReadAt: now.Add(2 * time.Hour)},
		{ArticleID: 1, ReadAt: now.Add(30 * time.Hour)},
	}}
	assert.Equal(t, []uint64{1, 2}, tr.HistoryArticleIDs())
}
