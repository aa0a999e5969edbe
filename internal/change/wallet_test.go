package change

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_SortsMergesAndTotals(t *testing.T) {
	t.Parallel()

	w, err := Normalize([]Denomination{d(50, 2), d(5, 3), d(0, 9), d(20, 0), d(50, 1), d(1, 4)})
	require.NoError(t, err)

	assert.Equal(t, []Denomination{d(1, 4), d(5, 3), d(50, 3)}, w.Denominations())
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, int64(4+15+150), w.TotalCash())
	assert.Equal(t, int64(10), w.TotalItems())
	assert.Equal(t, int64(3), w.Quantity(50))
	assert.Zero(t, w.Quantity(20))
}

func TestNormalize_Empty(t *testing.T) {
	t.Parallel()

	w, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, w.Denominations())
	assert.Zero(t, w.TotalCash())
	assert.Zero(t, w.TotalItems())
}

func TestNormalize_RejectsNegativeEntries(t *testing.T) {
	t.Parallel()

	_, err := Normalize([]Denomination{d(1, 1), d(-1, 1)})
	require.ErrorIs(t, err, ErrInvalidDenomination)
	assert.Contains(t, err.Error(), "negative value")

	_, err = Normalize([]Denomination{d(1, 1), d(2, -3)})
	require.ErrorIs(t, err, ErrInvalidDenomination)
	assert.Contains(t, err.Error(), "negative quantity")

	_, err = Normalize([]Denomination{d(-5, 0)})
	require.ErrorIs(t, err, ErrInvalidDenomination, "zero quantity does not hide a negative value")

	_, err = Normalize([]Denomination{d(0, -5)})
	require.ErrorIs(t, err, ErrInvalidDenomination, "zero value does not hide a negative quantity")
}

func TestNormalize_Saturates(t *testing.T) {
	t.Parallel()

	w, err := Normalize([]Denomination{d(math.MaxInt64, 2), d(7, math.MaxInt64), d(7, math.MaxInt64)})
	require.NoError(t, err)

	assert.Equal(t, int64(math.MaxInt64), w.TotalCash())
	assert.Equal(t, int64(maxItems), w.TotalItems())
	assert.Equal(t, int64(math.MaxInt64), w.Quantity(7))
}

func TestNormalize_DoesNotAliasWallet(t *testing.T) {
	t.Parallel()

	w, err := Normalize([]Denomination{d(2, 1)})
	require.NoError(t, err)

	entries := w.Denominations()
	entries[0].Quantity = 99
	assert.Equal(t, int64(1), w.Quantity(2))
}
