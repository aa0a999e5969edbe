package change

import "errors"

var (
	// ErrInvalidDenomination is returned when a denomination has a negative value or quantity.
	ErrInvalidDenomination = errors.New("invalid denomination")
	// ErrNegativeTarget is returned when the requested amount is negative.
	ErrNegativeTarget = errors.New("amount must be a non-negative integer")
	// ErrInsufficientFunds is returned when the denominations on hand add up to less than the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInfeasible is returned when enough cash is on hand but no exact combination exists.
	ErrInfeasible = errors.New("cannot give the amount exactly with the available denominations")
	// ErrSearchBudgetExceeded is returned when a budgeted search stops before proving an answer minimal.
	ErrSearchBudgetExceeded = errors.New("search budget exceeded")
)
