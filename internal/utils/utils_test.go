package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "summer-fest-2026", Slugify("Summer Fest 2026"))
	assert.Equal(t, "one", Slugify("One"))
	assert.Equal(t, "spaced-out", Slugify("  Spaced   Out  "))
	assert.Equal(t, "", Slugify(""))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestGenerateOrderID(t *testing.T) {
	id := GenerateOrderID()
	assert.True(t, strings.HasPrefix(id, "ord_"))
	assert.NotEqual(t, id, GenerateOrderID())
}

func TestGenerateVoucherID(t *testing.T) {
	id := GenerateVoucherID()
	assert.True(t, strings.HasPrefix(id, "vch_"))
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, GenerateVoucherID())
}
