package change

// MinItems returns the fewest items needed to make amount when every value is
// available in unlimited quantity, or -1 when the amount cannot be made.
func MinItems(values []int, amount int) int {
	solution, err := New().MakeChange(int64(amount), UnlimitedDenominations(values, amount))
	if err != nil {
		return -1
	}
	return int(Count(solution))
}

// UnlimitedDenominations gives every value the largest quantity a solution
// for amount could spend. Non-positive values keep quantity 1 so that
// Normalize still rejects negative ones.
func UnlimitedDenominations(values []int, amount int) []Denomination {
	denominations := make([]Denomination, 0, len(values))
	for _, v := range values {
		quantity := int64(1)
		if v > 0 {
			quantity = int64(amount / v)
		}
		denominations = append(denominations, Denomination{Value: int64(v), Quantity: quantity})
	}
	return denominations
}
