// Package assembler turns a selection and a gas plan into a transaction plan.
package assembler

import (
	"errors"
	"fmt"

	"github.com/liquidlink-lab/swirl-engine/internal/coinselect"
	"github.com/liquidlink-lab/swirl-engine/internal/gas"
	"github.com/liquidlink-lab/swirl-engine/pkg/intent"
	"github.com/liquidlink-lab/swirl-engine/pkg/plan"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// Staking call function names.
const (
	FuncStake   = "stake"
	FuncUnstake = "unstake"
)

// ErrMismatchedGasPlan is returned when a gas plan does not fit the intent,
// for example a fee-only plan handed to a base-token spend.
var ErrMismatchedGasPlan = errors.New("gas plan does not match intent")

// Staking identifies the liquid staking pool.
type Staking struct {
	Package     types.ObjectID
	Module      string
	Pool        types.ObjectID
	Metadata    types.ObjectID
	SystemState types.ObjectID
}

// StakeTarget returns the stake entry point.
func (s Staking) StakeTarget() plan.Target {
	return plan.Target{Package: s.Package, Module: s.Module, Function: FuncStake}
}

// UnstakeTarget returns the unstake entry point.
func (s Staking) UnstakeTarget() plan.Target {
	return plan.Target{Package: s.Package, Module: s.Module, Function: FuncUnstake}
}

// Assembler composes plans for one base token and staking pool.
type Assembler struct {
	base    types.TokenType
	staking Staking
}

// New creates an assembler.
func New(base types.TokenType, staking Staking) *Assembler {
	return &Assembler{base: base, staking: staking}
}

// SpendsBase reports whether in moves base-token value.
func (a *Assembler) SpendsBase(in intent.Intent) bool {
	switch v := in.(type) {
	case intent.PayExact:
		return v.Token.Equal(a.base)
	case intent.PayAll:
		return v.Token.Equal(a.base)
	case intent.StakeSplit:
		return true
	default:
		return false
	}
}

// Assemble builds the plan for in. For base-token spends sel may be nil
// since the gas plan carries the coins. Every plan pays gas with exactly
// the objects in gp.Payment().
func (a *Assembler) Assemble(sender types.Address, in intent.Intent, sel *coinselect.Result, gp *gas.Plan) (*plan.Plan, error) {
	if gp == nil {
		return nil, fmt.Errorf("assemble %s: %w", in.Kind(), gas.ErrNoGasCoin)
	}
	spendsBase := a.SpendsBase(in)
	if spendsBase != gp.Spends {
		return nil, fmt.Errorf("assemble %s: %w", in.Kind(), ErrMismatchedGasPlan)
	}
	if !spendsBase && (sel == nil || len(sel.Picked) == 0) {
		return nil, fmt.Errorf("assemble %s: %w", in.Kind(), &coinselect.InsufficientBalanceError{Required: 1})
	}

	b := plan.NewBuilder(sender).SetGasPayment(gp.Payment()...)
	if spendsBase {
		b.SetGasBudget(gp.Budget)
		b.MergeCoins(plan.GasCoin(), owned(gp.Merge)...)
	}

	switch v := in.(type) {
	case intent.PayExact:
		out := b.SplitCoin(a.source(b, spendsBase, sel), v.Amount)
		b.TransferObjects(v.Recipient, out)

	case intent.PayAll:
		// The whole object moves, so fees for a base sweep come out of
		// the transferred balance.
		b.TransferObjects(v.Recipient, a.source(b, spendsBase, sel))

	case intent.StakeSplit:
		out := b.SplitCoin(plan.GasCoin(), v.Amount)
		b.MoveCall(a.staking.StakeTarget(),
			plan.Shared(a.staking.Pool),
			plan.Shared(a.staking.Metadata),
			plan.Shared(a.staking.SystemState),
			out,
		)

	case intent.UnstakeSplit:
		out := b.SplitCoin(a.source(b, false, sel), v.Amount)
		b.MoveCall(a.staking.UnstakeTarget(),
			plan.Shared(a.staking.Pool),
			plan.Shared(a.staking.SystemState),
			plan.Shared(a.staking.Metadata),
			out,
		)

	default:
		return nil, fmt.Errorf("assemble: unsupported intent %T", in)
	}

	p, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", in.Kind(), err)
	}
	return p, nil
}

// source returns the coin a spend draws from. Base spends use the gas coin,
// already merged. Other tokens fold the selection into its primary first.
func (a *Assembler) source(b *plan.Builder, spendsBase bool, sel *coinselect.Result) plan.Argument {
	if spendsBase {
		return plan.GasCoin()
	}
	primary := plan.Owned(sel.Primary().Ref())
	b.MergeCoins(primary, owned(sel.Rest())...)
	return primary
}

func owned(coins []types.Coin) []plan.Argument {
	args := make([]plan.Argument, len(coins))
	for i, c := range coins {
		args[i] = plan.Owned(c.Ref())
	}
	return args
}
