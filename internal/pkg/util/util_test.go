package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrToUint64(t *testing.T) {
	assert.Equal(t, uint64(12), StrToUint64("12"))
	assert.Equal(t, uint64(12), StrToUint64(" 12 "))
	assert.Equal(t, uint64(3), StrToUint64(float64(3)))
	assert.Equal(t, uint64(0), StrToUint64("-1"))
	assert.Equal(t, uint64(0), StrToUint64(nil))
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("3, 1,2")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 2}, ids)

	ids, err = ParseIDList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseIDList("1,x")
	assert.Error(t, err)
}

type sample struct {
	Name string `validate:"required"`
}

func TestValidateDTO(t *testing.T) {
	assert.NoError(t, ValidateDTO(&sample{Name: "a"}))
	err := ValidateDTO(&sample{})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Name", fe.Field)
	assert.Equal(t, "required", fe.Tag)
}
