// Package gas secures the fee-paying coin of a plan and computes its budget.
package gas

import (
	"errors"
	"fmt"

	"github.com/liquidlink-lab/swirl-engine/internal/coinselect"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// Defaults in base units of the base token.
const (
	DefaultMinReserve uint64 = 1_000_000
	DefaultMaxBudget  uint64 = 50_000_000_000
)

// Gas errors.
var (
	ErrNoGasCoin           = errors.New("no base-token coin to pay gas")
	ErrGasReserveViolation = errors.New("gas reserve violation")
)

// ReserveViolationError reports a gas coin left below the minimum reserve.
type ReserveViolationError struct {
	Remainder uint64
	Required  uint64
}

func (e *ReserveViolationError) Error() string {
	return fmt.Sprintf("%s: remainder %d below required %d", ErrGasReserveViolation, e.Remainder, e.Required)
}

// Is makes errors.Is(err, ErrGasReserveViolation) hold.
func (e *ReserveViolationError) Is(target error) bool {
	return target == ErrGasReserveViolation
}

// Plan describes how fees are paid.
type Plan struct {
	// Payer is the sole gas payment object.
	Payer types.Coin
	// Merge lists base coins folded into the gas coin before any split.
	Merge []types.Coin
	// Budget is the explicit gas budget. Zero leaves it to the signer.
	Budget uint64
	// Remainder is what stays in the gas coin after the spend, before fees.
	Remainder uint64
	// Spends reports whether the plan spends base-token value out of the gas coin.
	Spends bool
}

// Payment returns the gas payment object set.
func (p *Plan) Payment() []types.ObjectRef {
	return []types.ObjectRef{p.Payer.Ref()}
}

// Provisioner enforces the gas reserve and budget bounds.
type Provisioner struct {
	MinReserve uint64
	MaxBudget  uint64
}

// NewProvisioner creates a provisioner. Zero arguments take the defaults.
func NewProvisioner(minReserve, maxBudget uint64) *Provisioner {
	if minReserve == 0 {
		minReserve = DefaultMinReserve
	}
	if maxBudget == 0 {
		maxBudget = DefaultMaxBudget
	}
	return &Provisioner{MinReserve: minReserve, MaxBudget: maxBudget}
}

// ForFees picks the largest base coin as the only gas object, for plans
// whose spend is in another token. No budget is set.
func (p *Provisioner) ForFees(baseCoins []types.Coin) (*Plan, error) {
	sorted := coinselect.Sorted(baseCoins)
	if len(sorted) == 0 || sorted[0].Balance == 0 {
		return nil, ErrNoGasCoin
	}
	return &Plan{Payer: sorted[0], Remainder: sorted[0].Balance}, nil
}

// ForSpend reconciles a base-token selection with the gas coin: the primary
// pays gas, the rest merge into it and amount is split out. The remainder
// and the resulting budget must both reach MinReserve.
func (p *Provisioner) ForSpend(sel *coinselect.Result, amount uint64) (*Plan, error) {
	if sel == nil || len(sel.Picked) == 0 {
		return nil, ErrNoGasCoin
	}
	if sel.Total < amount {
		return nil, &coinselect.InsufficientBalanceError{Available: sel.Total, Required: amount}
	}

	remainder := sel.Total - amount
	if remainder < p.MinReserve {
		return nil, &ReserveViolationError{Remainder: remainder, Required: p.MinReserve}
	}

	payer := sel.Primary()
	budget := min(remainder, p.MaxBudget, payer.Balance)
	if budget < p.MinReserve {
		return nil, &ReserveViolationError{Remainder: budget, Required: p.MinReserve}
	}

	return &Plan{
		Payer:     payer,
		Merge:     sel.Rest(),
		Budget:    budget,
		Remainder: remainder,
		Spends:    true,
	}, nil
}

// ForSweep merges every base coin into the gas coin so the whole object can
// be transferred. Fees come out of the transferred balance, so the total
// must still cover MinReserve.
func (p *Provisioner) ForSweep(baseCoins []types.Coin) (*Plan, error) {
	sel, err := coinselect.All(baseCoins)
	if err != nil {
		if errors.Is(err, coinselect.ErrInsufficientBalance) {
			return nil, ErrNoGasCoin
		}
		return nil, err
	}
	if sel.Total < p.MinReserve {
		return nil, &ReserveViolationError{Remainder: sel.Total, Required: p.MinReserve}
	}
	return &Plan{
		Payer:     sel.Primary(),
		Merge:     sel.Rest(),
		Remainder: sel.Total,
		Spends:    true,
	}, nil
}
