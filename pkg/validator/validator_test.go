package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Quantity int   `validate:"gt=0"`
	Price    int64 `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(line{Quantity: 1}))

	errs := ValidateStruct(line{Quantity: 0, Price: -1})
	require.Len(t, errs, 2)
	assert.Equal(t, "Quantity", errs[0].Field)
	assert.Equal(t, "gt", errs[0].Tag)
	assert.Equal(t, "0", errs[0].Value)
	assert.Equal(t, "Price", errs[1].Field)
}

func TestFirst(t *testing.T) {
	assert.NoError(t, First(line{Quantity: 2}))
	err := First(line{Quantity: -2})
	require.Error(t, err)
	assert.Equal(t, "field 'line.Quantity' failed on tag 'gt'", err.Error())
}
