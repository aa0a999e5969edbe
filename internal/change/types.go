package change

import "fmt"

// Denomination is one kind of coin or note together with how many of it are
// available (or, in a solution, how many are handed out).
type Denomination struct {
	Value    int64 `json:"value" yaml:"value"`
	Quantity int64 `json:"quantity" yaml:"quantity"`
}

func (d Denomination) String() string {
	return fmt.Sprintf("%d x%d", d.Value, d.Quantity)
}

// Solver describes the behaviour required from a change calculator.
type Solver interface {
	MakeChange(target int64, denominations []Denomination) ([]Denomination, error)
}

// Count returns the total number of items in a solution.
func Count(solution []Denomination) int64 {
	var total int64
	for _, d := range solution {
		total += d.Quantity
	}
	return total
}

// Sum returns the amount a solution adds up to.
func Sum(solution []Denomination) int64 {
	var total int64
	for _, d := range solution {
		total += d.Value * d.Quantity
	}
	return total
}
