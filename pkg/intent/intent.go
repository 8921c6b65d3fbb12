// Package intent defines the high-level user intents the engine turns into
// transaction plans.
package intent

import (
	"errors"
	"fmt"

	"github.com/liquidlink-lab/swirl-engine/pkg/types"
	"github.com/liquidlink-lab/swirl-engine/pkg/units"
)

// ErrBelowMinimumAmount is returned when a staking amount is under the
// protocol minimum.
var ErrBelowMinimumAmount = errors.New("amount below protocol minimum")

// BelowMinimumError carries the rejected amount and the minimum.
type BelowMinimumError struct {
	Amount  uint64
	Minimum uint64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("%v: amount %d, minimum %d", ErrBelowMinimumAmount, e.Amount, e.Minimum)
}

// Is makes errors.Is(err, ErrBelowMinimumAmount) match.
func (e *BelowMinimumError) Is(target error) bool {
	return target == ErrBelowMinimumAmount
}

// Kind tags an intent.
type Kind string

const (
	KindPayExact     Kind = "pay_exact"
	KindPayAll       Kind = "pay_all"
	KindStakeSplit   Kind = "stake"
	KindUnstakeSplit Kind = "unstake"
)

// Action returns the user-facing label for the kind.
func (k Kind) Action() string {
	switch k {
	case KindStakeSplit:
		return "Stake"
	case KindUnstakeSplit:
		return "Unstake"
	default:
		return "Transfer"
	}
}

// Intent is one of PayExact, PayAll, StakeSplit or UnstakeSplit.
type Intent interface {
	Kind() Kind
	// Validate checks the fields that do not depend on configuration.
	Validate() error
	isIntent()
}

// PayExact sends Amount base units of Token to Recipient.
type PayExact struct {
	Token     types.TokenType
	Recipient types.Address
	Amount    uint64
}

// PayAll sends the whole balance of Token to Recipient.
type PayAll struct {
	Token     types.TokenType
	Recipient types.Address
}

// StakeSplit splits Amount off the base token and stakes it.
type StakeSplit struct {
	Amount uint64
}

// UnstakeSplit splits Amount off the staking certificate and redeems it.
type UnstakeSplit struct {
	Amount uint64
}

func (PayExact) Kind() Kind     { return KindPayExact }
func (PayAll) Kind() Kind       { return KindPayAll }
func (StakeSplit) Kind() Kind   { return KindStakeSplit }
func (UnstakeSplit) Kind() Kind { return KindUnstakeSplit }

func (PayExact) isIntent()     {}
func (PayAll) isIntent()       {}
func (StakeSplit) isIntent()   {}
func (UnstakeSplit) isIntent() {}

// Validate implements Intent.
func (p PayExact) Validate() error {
	if p.Token == "" {
		return fmt.Errorf("pay exact: empty token type")
	}
	if p.Recipient.IsZero() {
		return fmt.Errorf("pay exact: %w: zero recipient", types.ErrInvalidAddress)
	}
	if p.Amount == 0 {
		return fmt.Errorf("pay exact: %w: amount must be greater than 0", units.ErrInvalidAmount)
	}
	return nil
}

// Validate implements Intent.
func (p PayAll) Validate() error {
	if p.Token == "" {
		return fmt.Errorf("pay all: empty token type")
	}
	if p.Recipient.IsZero() {
		return fmt.Errorf("pay all: %w: zero recipient", types.ErrInvalidAddress)
	}
	return nil
}

// Validate implements Intent.
func (s StakeSplit) Validate() error {
	if s.Amount == 0 {
		return fmt.Errorf("stake: %w: amount must be greater than 0", units.ErrInvalidAmount)
	}
	return nil
}

// Validate implements Intent.
func (u UnstakeSplit) Validate() error {
	if u.Amount == 0 {
		return fmt.Errorf("unstake: %w: amount must be greater than 0", units.ErrInvalidAmount)
	}
	return nil
}

// CheckMinimum enforces the staking minimum for StakeSplit and UnstakeSplit.
// Other intents pass unchanged.
func CheckMinimum(in Intent, minimum uint64) error {
	var amount uint64
	switch v := in.(type) {
	case StakeSplit:
		amount = v.Amount
	case UnstakeSplit:
		amount = v.Amount
	default:
		return nil
	}
	if amount < minimum {
		return &BelowMinimumError{Amount: amount, Minimum: minimum}
	}
	return nil
}
