// Package coinselect picks the coin objects that fund a spend.
package coinselect

import (
	"errors"
	"fmt"
	"sort"

	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// Coin selection errors.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrZeroTarget          = errors.New("selection target must be positive")
)

// InsufficientBalanceError reports how far short a coin set fell.
type InsufficientBalanceError struct {
	Available uint64
	Required  uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: have %d, need %d", ErrInsufficientBalance, e.Available, e.Required)
}

// Is makes errors.Is(err, ErrInsufficientBalance) hold.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// Result holds the outcome of coin selection.
type Result struct {
	Picked []types.Coin // Selected coins, largest first. Picked[0] is the primary.
	Total  uint64       // Sum of picked balances.
	Change uint64       // Total - target.
}

// Primary returns the coin the others are merged into.
func (r *Result) Primary() types.Coin {
	return r.Picked[0]
}

// Rest returns the picked coins after the primary.
func (r *Result) Rest() []types.Coin {
	return r.Picked[1:]
}

// Sorted returns a copy of coins ordered by balance descending, ties broken
// by object id ascending.
func Sorted(coins []types.Coin) []types.Coin {
	out := make([]types.Coin, len(coins))
	copy(out, coins)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].ID.Compare(out[j].ID) < 0
	})
	return out
}

// Select accumulates coins largest-first until their sum reaches target.
// It stops at the first coin that meets the threshold and leaves the rest
// untouched. Zero-balance coins are never picked.
func Select(coins []types.Coin, target uint64) (*Result, error) {
	if target == 0 {
		return nil, ErrZeroTarget
	}

	var (
		picked []types.Coin
		total  uint64
	)
	for _, c := range Sorted(coins) {
		if c.Balance == 0 {
			break
		}
		picked = append(picked, c)
		if c.Balance >= target-total {
			total += c.Balance
			return &Result{Picked: picked, Total: total, Change: total - target}, nil
		}
		total += c.Balance
	}

	// Below target, so the running sum cannot have overflowed.
	return nil, &InsufficientBalanceError{Available: total, Required: target}
}

// All returns every coin, largest first, for sweeping a whole balance.
// It fails with InsufficientBalanceError{0, 1} on an empty set.
func All(coins []types.Coin) (*Result, error) {
	if len(coins) == 0 {
		return nil, &InsufficientBalanceError{Available: 0, Required: 1}
	}
	total, err := types.SumBalances(coins)
	if err != nil {
		return nil, err
	}
	return &Result{Picked: Sorted(coins), Total: total}, nil
}
