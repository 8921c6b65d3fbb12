package plan

import (
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// Builder constructs plans incrementally.
type Builder struct {
	p *Plan
}

// NewBuilder creates a builder for a plan sent by sender.
func NewBuilder(sender types.Address) *Builder {
	return &Builder{
		p: &Plan{Sender: sender},
	}
}

// SetGasPayment sets the explicit gas payment coins.
func (b *Builder) SetGasPayment(refs ...types.ObjectRef) *Builder {
	b.p.GasPayment = append([]types.ObjectRef(nil), refs...)
	return b
}

// SetGasBudget sets the explicit gas budget.
func (b *Builder) SetGasBudget(budget uint64) *Builder {
	b.p.GasBudget = budget
	return b
}

// MergeCoins merges sources into dst. A call without sources is a no-op.
func (b *Builder) MergeCoins(dst Argument, sources ...Argument) *Builder {
	if len(sources) == 0 {
		return b
	}
	b.p.Commands = append(b.p.Commands, Command{
		MergeCoins: &MergeCoins{Destination: dst, Sources: sources},
	})
	return b
}

// SplitCoin splits amount out of coin and returns the new coin.
func (b *Builder) SplitCoin(coin Argument, amount uint64) Argument {
	b.p.Commands = append(b.p.Commands, Command{
		SplitCoins: &SplitCoins{Coin: coin, Amounts: []uint64{amount}},
	})
	return Result(len(b.p.Commands) - 1)
}

// TransferObjects sends objs to recipient.
func (b *Builder) TransferObjects(recipient types.Address, objs ...Argument) *Builder {
	b.p.Commands = append(b.p.Commands, Command{
		TransferObjects: &TransferObjects{Objects: objs, Recipient: recipient},
	})
	return b
}

// MoveCall appends a call to target and returns its result.
func (b *Builder) MoveCall(target Target, args ...Argument) Argument {
	b.p.Commands = append(b.p.Commands, Command{
		MoveCall: &MoveCall{Target: target, Arguments: args},
	})
	return Result(len(b.p.Commands) - 1)
}

// Build validates and returns the plan.
func (b *Builder) Build() (*Plan, error) {
	if err := b.p.Validate(); err != nil {
		return nil, err
	}
	return b.p, nil
}
