package change

type branchAndBound struct {
	nodeBudget int64
}

// Option configures the Solver returned by New.
type Option func(*branchAndBound)

// WithNodeBudget caps how many candidate quantities one MakeChange call may
// examine. A search that hits the cap returns ErrSearchBudgetExceeded instead
// of a possibly non-minimal answer. Zero or a negative budget means unlimited.
func WithNodeBudget(nodes int64) Option {
	return func(c *branchAndBound) {
		c.nodeBudget = max(nodes, 0)
	}
}

// New creates a Solver based on branch-and-bound search. Without options the
// search always runs to exhaustion.
func New(opts ...Option) Solver {
	c := &branchAndBound{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *branchAndBound) MakeChange(target int64, denominations []Denomination) ([]Denomination, error) {
	wallet, err := Normalize(denominations)
	if err != nil {
		return nil, err
	}
	if target == 0 {
		return []Denomination{}, nil
	}
	if target < 0 {
		return nil, ErrNegativeTarget
	}
	if wallet.TotalCash() < target {
		return nil, ErrInsufficientFunds
	}

	s := newSearch(wallet, c.nodeBudget)
	s.run(target, 0, 0)

	return s.result()
}

// search holds the mutable state of one MakeChange call.
type search struct {
	wallet   []Denomination
	spend    []int64
	best     []int64
	bestN    int64
	sentinel int64

	// suffixCash[i] is the cash held in wallet[i:].
	suffixCash []int64
	maxValue   int64

	budget   int64
	nodes    int64
	exceeded bool
}

func newSearch(w Wallet, budget int64) *search {
	n := len(w.entries)
	s := &search{
		wallet:     w.entries,
		spend:      make([]int64, n),
		best:       make([]int64, n),
		bestN:      w.TotalItems() + 1,
		sentinel:   w.TotalItems() + 1,
		suffixCash: make([]int64, n+1),
		budget:     budget,
	}
	for i := n - 1; i >= 0; i-- {
		e := w.entries[i]
		s.suffixCash[i] = saturatingAdd(s.suffixCash[i+1], saturatingMul(e.Value, e.Quantity), maxCash)
	}
	if n > 0 {
		s.maxValue = w.entries[n-1].Value
	}
	return s
}

// run explores every spend quantity of wallet[idx:] for the remaining amount
// and reports whether a solution was reached in this subtree. running is the
// number of items already spent on wallet[:idx].
func (s *search) run(remaining int64, idx int, running int64) bool {
	if remaining == 0 {
		if running <= s.bestN {
			s.bestN = running
			copy(s.best, s.spend)
		}
		return true
	}
	if idx >= len(s.wallet) {
		return false
	}

	d := s.wallet[idx]
	maxK := min(remaining/d.Value, d.Quantity)
	saved := s.spend[idx]

	found := false
	for k := maxK; k >= 0; k-- {
		if s.budget > 0 {
			s.nodes++
			if s.nodes > s.budget {
				s.exceeded = true
				break
			}
		}

		rest := remaining - k*d.Value
		// Smaller k only leaves more to cover with wallet[idx+1:].
		if rest > s.suffixCash[idx+1] {
			break
		}

		prefix := running + k
		// rest needs at least ceil(rest/maxValue) more items. The bound never
		// grows as k decreases, so jump to the first k that can still beat
		// the incumbent instead of stepping through the ones that cannot.
		if prefix+ceilDiv(rest, s.maxValue) >= s.bestN {
			next, ok := s.nextCandidate(remaining, d.Value, running)
			if !ok {
				break
			}
			k = min(k, next+1)
			continue
		}

		s.spend[idx] = k
		if s.run(rest, idx+1, prefix) {
			found = true
		}
		if s.exceeded {
			break
		}
	}
	s.spend[idx] = saved

	return found
}

// result converts the incumbent into the public solution shape.
func (s *search) result() ([]Denomination, error) {
	if s.exceeded {
		return nil, ErrSearchBudgetExceeded
	}
	if s.bestN == s.sentinel {
		return nil, ErrInfeasible
	}

	solution := make([]Denomination, 0, len(s.wallet))
	for idx, qty := range s.best {
		if qty == 0 {
			continue
		}
		solution = append(solution, Denomination{Value: s.wallet[idx].Value, Quantity: qty})
	}
	return solution, nil
}

// nextCandidate returns the largest k with
// running + k + ceil((remaining - k*value)/maxValue) < bestN.
// It reports false when no k qualifies.
func (s *search) nextCandidate(remaining, value, running int64) (int64, bool) {
	limit := s.bestN - running - 1
	if limit < 0 {
		return 0, false
	}
	m := s.maxValue
	span := saturatingMul(m, limit)
	if span < remaining {
		return 0, false
	}
	if value == m {
		return limit, true
	}
	return (span - remaining) / (m - value), true
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
