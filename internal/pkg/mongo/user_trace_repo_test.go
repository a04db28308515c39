package mongo

import (
	"testing"
	"time"

	"Parchment/internal/pkg/affinity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var now = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

func TestBuildUpdate_AddToSetUpserts(t *testing.T) {
	op, err := buildUpdate(1, affinity.ViewCategories(3, 3, 4), now)
	require.NoError(t, err)
	require.NotNil(t, op)

	assert.True(t, op.upsert)
	assert.Equal(t, bson.M{"user_id": uint64(1)}, op.filter)
	assert.Equal(t, bson.M{"views": bson.M{"$each": []uint64{3, 4}}}, op.update["$addToSet"])

	onInsert := op.update["$setOnInsert"].(bson.M)
	assert.NotContains(t, onInsert, "views", "field written by $addToSet must not be in $setOnInsert")
	assert.NotContains(t, onInsert, "updated_at")
	assert.NotContains(t, onInsert, "user_id")
	assert.Contains(t, onInsert, "history")
}

func TestBuildUpdate_EmptyIDsIsNoop(t *testing.T) {
	op, err := buildUpdate(1, affinity.FollowInterests(), now)
	require.NoError(t, err)
	assert.Nil(t, op)
}

func TestBuildUpdate_Pull(t *testing.T) {
	op, err := buildUpdate(1, affinity.UnsaveList(9), now)
	require.NoError(t, err)
	assert.False(t, op.upsert)
	assert.Equal(t, bson.M{"saved_lists": bson.M{"$in": []uint64{9}}}, op.update["$pull"])
}

func TestBuildUpdate_AppendHistoryIsGuarded(t *testing.T) {
	op, err := buildUpdate(1, affinity.RecordRead(42, now, 24*time.Hour), now)
	require.NoError(t, err)
	assert.False(t, op.upsert)

	guard := op.filter["history"].(bson.M)["$not"].(bson.M)["$elemMatch"].(bson.M)
	assert.Equal(t, uint64(42), guard["article_id"])
	assert.Equal(t, bson.M{"$gte": now.Add(-24 * time.Hour)}, guard["read_at"])
	assert.Equal(t, bson.M{"history": HistoryItem{ArticleID: 42, ReadAt: now}}, op.update["$push"])
}

func TestBuildUpdate_SetHistoryAndConfigured(t *testing.T) {
	op, err := buildUpdate(1, affinity.ClearHistory(), now)
	require.NoError(t, err)
	set := op.update["$set"].(bson.M)
	assert.Equal(t, []HistoryItem{}, set["history"])
	assert.NotContains(t, op.update["$setOnInsert"].(bson.M), "history")

	op, err = buildUpdate(1, affinity.MarkConfigured(true), now)
	require.NoError(t, err)
	assert.Equal(t, true, op.update["$set"].(bson.M)["configured"])
}

func TestBuildUpdate_Invalid(t *testing.T) {
	_, err := buildUpdate(1, affinity.Mutation{}, now)
	assert.ErrorIs(t, err, affinity.ErrInvalidMutation)
}

func TestUserTraceModel_ToTrace(t *testing.T) {
	doc := &UserTraceModel{
		UserID:    1,
		Interests: []uint64{1, 1, 2},
		History:   []HistoryItem{{ArticleID: 5, ReadAt: now}},
	}
	tr := doc.ToTrace()
	assert.Equal(t, []uint64{1, 2}, tr.Interests)
	assert.Empty(t, tr.ViewedCategories)
	require.Len(t, tr.History, 1)
	assert.EqualValues(t, 5, tr.History[0].ArticleID)
}
