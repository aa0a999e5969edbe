package change

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Wallet is a normalized set of denominations: strictly ascending by value,
// no duplicates, no zero entries. Totals are computed once at construction.
type Wallet struct {
	entries    []Denomination
	totalCash  int64
	totalItems int64
}

const (
	maxCash = math.MaxInt64
	// maxItems keeps TotalItems()+1 representable.
	maxItems = math.MaxInt64 - 1
)

// Normalize validates the raw denominations and merges them into a Wallet.
// Entries with a zero value or zero quantity are dropped. The input slice is
// not modified.
func Normalize(denominations []Denomination) (Wallet, error) {
	var w Wallet
	w.entries = make([]Denomination, 0, len(denominations))

	for _, d := range denominations {
		// Signs are checked before the zero filter, so (-5, 0) is rejected too.
		if d.Value < 0 {
			return Wallet{}, fmt.Errorf("%w: negative value %d", ErrInvalidDenomination, d.Value)
		}
		if d.Quantity < 0 {
			return Wallet{}, fmt.Errorf("%w: negative quantity %d for value %d", ErrInvalidDenomination, d.Quantity, d.Value)
		}
		if d.Value == 0 || d.Quantity == 0 {
			continue
		}

		idx, found := slices.BinarySearchFunc(w.entries, d.Value, func(e Denomination, v int64) int {
			return cmp.Compare(e.Value, v)
		})
		if found {
			w.entries[idx].Quantity = saturatingAdd(w.entries[idx].Quantity, d.Quantity, math.MaxInt64)
		} else {
			w.entries = slices.Insert(w.entries, idx, d)
		}

		w.totalCash = saturatingAdd(w.totalCash, saturatingMul(d.Value, d.Quantity), maxCash)
		w.totalItems = saturatingAdd(w.totalItems, d.Quantity, maxItems)
	}

	return w, nil
}

// Denominations returns a copy of the wallet entries in ascending value order.
func (w Wallet) Denominations() []Denomination {
	return slices.Clone(w.entries)
}

// Len returns the number of distinct denominations.
func (w Wallet) Len() int {
	return len(w.entries)
}

// TotalCash is the sum of value*quantity over the wallet, saturated at math.MaxInt64.
func (w Wallet) TotalCash() int64 {
	return w.totalCash
}

// TotalItems is the sum of quantities over the wallet.
func (w Wallet) TotalItems() int64 {
	return w.totalItems
}

// Quantity returns how many items of the given value the wallet holds.
func (w Wallet) Quantity(value int64) int64 {
	for _, e := range w.entries {
		if e.Value == value {
			return e.Quantity
		}
	}
	return 0
}

func saturatingAdd(a, b, limit int64) int64 {
	if a > limit-b {
		return limit
	}
	return a + b
}

// saturatingMul expects non-negative operands.
func saturatingMul(a, b int64) int64 {
	if a != 0 && b > math.MaxInt64/a {
		return math.MaxInt64
	}
	return a * b
}
