// Package change computes exact change with the fewest items from a bounded
// set of denominations. Inputs are normalized into a sorted, duplicate-free
// Wallet, cheap feasibility checks reject hopeless amounts, and a
// branch-and-bound search finds a minimal combination.
package change
