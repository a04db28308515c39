package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategories(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	follow(t, w, 4, 3)

	tests := []struct {
		name      string
		actor     uint64
		userBased int
		limit     int
		want      []uint64
	}{
		{"natural order", 4, 0, 0, []uint64{1, 2, 3, 4}},
		{"natural order limited", 4, 0, 2, []uint64{1, 2}},
		{"matched first", 4, 1, 0, []uint64{3, 1, 2, 4}},
		{"unmatched first", 4, -1, 0, []uint64{1, 2, 4, 3}},
		{"unmatched first limited", 4, -1, 3, []uint64{1, 2, 4}},
		{"anonymous has no matches", 0, 1, 0, []uint64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.categoryS.GetCategories(ctx, tt.actor, tt.userBased, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, categoryIDs(got))
		})
	}

	_, err := w.categoryS.GetCategories(ctx, 4, 2, 0)
	assert.ErrorIs(t, err, ErrParamInvalid)
	_, err = w.categoryS.GetCategories(ctx, 4, 0, -1)
	assert.ErrorIs(t, err, ErrParamInvalid)
}
