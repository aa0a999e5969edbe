package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/change-calculator/internal/change"
)

var (
	// ErrInvalidTill indicates the provided denominations cannot form a till.
	ErrInvalidTill = errors.New("invalid till")
	// ErrInsufficientStock indicates the till no longer holds the items being dispensed.
	ErrInsufficientStock = errors.New("till does not hold enough items to dispense")
)

var defaultTill = []change.Denomination{
	{Value: 1, Quantity: 50},
	{Value: 2, Quantity: 50},
	{Value: 5, Quantity: 40},
	{Value: 10, Quantity: 40},
	{Value: 20, Quantity: 20},
	{Value: 50, Quantity: 10},
	{Value: 100, Quantity: 5},
}

// Storage provides access to the till the service gives change from.
type Storage interface {
	GetTill() (change.Wallet, error)
	SetTill(denominations []change.Denomination) error
	Dispense(solution []change.Denomination) (change.Wallet, error)
}

// MemoryStorage keeps the till in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu   sync.RWMutex
	till change.Wallet
}

// NewMemoryStorage initialises storage with the default till.
func NewMemoryStorage() *MemoryStorage {
	till, _ := change.Normalize(defaultTill)
	return &MemoryStorage{till: till}
}

// DefaultTill returns a copy of the default till contents.
func DefaultTill() []change.Denomination {
	out := make([]change.Denomination, len(defaultTill))
	copy(out, defaultTill)
	return out
}

// GetTill returns the current till. Wallets are immutable, so no copy is needed.
func (s *MemoryStorage) GetTill() (change.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.till, nil
}

// SetTill validates, normalises, and stores the provided denominations.
func (s *MemoryStorage) SetTill(denominations []change.Denomination) error {
	till, err := change.Normalize(denominations)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTill, err)
	}

	s.mu.Lock()
	s.till = till
	s.mu.Unlock()

	return nil
}

// Dispense removes the items of solution from the till atomically and
// returns the till that remains. The till is left untouched when any
// denomination is short.
func (s *MemoryStorage) Dispense(solution []change.Denomination) (change.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.till.Denominations()
	for _, spent := range solution {
		idx := indexOf(remaining, spent.Value)
		if idx < 0 || spent.Quantity < 0 || remaining[idx].Quantity < spent.Quantity {
			return change.Wallet{}, fmt.Errorf("%w: %s", ErrInsufficientStock, spent)
		}
		remaining[idx].Quantity -= spent.Quantity
	}

	till, err := change.Normalize(remaining)
	if err != nil {
		return change.Wallet{}, err
	}
	s.till = till
	return till, nil
}

func indexOf(denominations []change.Denomination, value int64) int {
	for i, d := range denominations {
		if d.Value == value {
			return i
		}
	}
	return -1
}
