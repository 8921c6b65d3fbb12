// Package engine turns intents into transaction plans.
//
// Build reads the owner's coins, selects inputs, secures the gas coin and
// assembles the plan. It holds no state between calls and never submits
// anything; the resulting plan is a proposal the ledger may still reject
// if a referenced coin has since been consumed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/liquidlink-lab/swirl-engine/internal/assembler"
	"github.com/liquidlink-lab/swirl-engine/internal/coinselect"
	"github.com/liquidlink-lab/swirl-engine/internal/gas"
	klog "github.com/liquidlink-lab/swirl-engine/internal/log"
	"github.com/liquidlink-lab/swirl-engine/pkg/intent"
	"github.com/liquidlink-lab/swirl-engine/pkg/plan"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// Lister lists an owner's coins of one type. catalog.Reader satisfies it.
type Lister interface {
	ListCoins(ctx context.Context, owner types.Address, coinType types.TokenType) ([]types.Coin, error)
}

// Params holds everything Build depends on besides the coin catalog.
type Params struct {
	BaseToken  types.TokenType
	CertToken  types.TokenType
	MinReserve uint64
	MaxBudget  uint64
	// MinStake is the smallest stake or unstake amount, in base units.
	MinStake uint64
	Staking  assembler.Staking
}

// Validate checks that the parameters describe a usable engine.
func (p Params) Validate() error {
	switch {
	case p.BaseToken == "":
		return errors.New("engine: base token not set")
	case p.CertToken == "":
		return errors.New("engine: cert token not set")
	case p.BaseToken.Equal(p.CertToken):
		return errors.New("engine: cert token equals base token")
	case p.MinReserve == 0:
		return errors.New("engine: min reserve must be positive")
	case p.MaxBudget < p.MinReserve:
		return errors.New("engine: max budget below min reserve")
	case p.MinStake == 0:
		return errors.New("engine: min stake must be positive")
	case p.Staking.Package.IsZero() || p.Staking.Module == "":
		return errors.New("engine: staking package not set")
	case p.Staking.Pool.IsZero() || p.Staking.Metadata.IsZero() || p.Staking.SystemState.IsZero():
		return errors.New("engine: staking objects not set")
	}
	return nil
}

// Engine builds plans.
type Engine struct {
	coins  Lister
	params Params
	gas    *gas.Provisioner
	asm    *assembler.Assembler
	logger zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine reading coins from coins.
func New(coins Lister, params Params, opts ...Option) (*Engine, error) {
	if coins == nil {
		return nil, errors.New("engine: nil coin lister")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		coins:  coins,
		params: params,
		gas:    &gas.Provisioner{MinReserve: params.MinReserve, MaxBudget: params.MaxBudget},
		asm:    assembler.New(params.BaseToken, params.Staking),
		logger: klog.Engine,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the engine parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Build returns the plan that carries out in for owner. Errors from every
// stage are returned wrapped but unchanged, so errors.Is and errors.As see
// the underlying sentinel or typed error.
func (e *Engine) Build(ctx context.Context, owner types.Address, in intent.Intent) (*plan.Plan, error) {
	if in == nil {
		return nil, errors.New("build: nil intent")
	}
	defer klog.Benchmark("engine.build")()
	if owner.IsZero() {
		return nil, fmt.Errorf("build: %w: zero owner", types.ErrInvalidAddress)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := intent.CheckMinimum(in, e.params.MinStake); err != nil {
		return nil, err
	}

	var (
		sel *coinselect.Result
		gp  *gas.Plan
		err error
	)
	switch v := in.(type) {
	case intent.PayExact:
		if e.asm.SpendsBase(v) {
			sel, gp, err = e.spendBase(ctx, owner, v.Amount)
		} else {
			sel, gp, err = e.spendToken(ctx, owner, v.Token, v.Amount)
		}
	case intent.PayAll:
		if e.asm.SpendsBase(v) {
			gp, err = e.sweepBase(ctx, owner)
		} else {
			sel, gp, err = e.sweepToken(ctx, owner, v.Token)
		}
	case intent.StakeSplit:
		sel, gp, err = e.spendBase(ctx, owner, v.Amount)
	case intent.UnstakeSplit:
		sel, gp, err = e.spendToken(ctx, owner, e.params.CertToken, v.Amount)
	default:
		return nil, fmt.Errorf("build: unsupported intent %T", in)
	}
	if err != nil {
		return nil, err
	}

	p, err := e.asm.Assemble(owner, in, sel, gp)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("intent", string(in.Kind())).
		Str("owner", owner.Short()).
		Str("gas_payer", gp.Payer.ID.Short()).
		Uint64("budget", p.GasBudget).
		Uint64("remainder", gp.Remainder).
		Int("commands", len(p.Commands)).
		Msg("Plan built")
	return p, nil
}

func (e *Engine) list(ctx context.Context, owner types.Address, coinType types.TokenType) ([]types.Coin, error) {
	coins, err := e.coins.ListCoins(ctx, owner, coinType)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", coinType, err)
	}
	return coins, nil
}

// spendBase selects base coins for amount and secures the gas coin from the
// same set. If the greedy pick leaves too little behind and more coins are
// available, it selects again for amount plus the reserve.
func (e *Engine) spendBase(ctx context.Context, owner types.Address, amount uint64) (*coinselect.Result, *gas.Plan, error) {
	coins, err := e.list(ctx, owner, e.params.BaseToken)
	if err != nil {
		return nil, nil, err
	}
	sel, err := coinselect.Select(coins, amount)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Debug().Int("candidates", len(coins)).Int("picked", len(sel.Picked)).Uint64("total", sel.Total).Msg("Selected base coins")

	gp, err := e.gas.ForSpend(sel, amount)
	if err == nil || !errors.Is(err, gas.ErrGasReserveViolation) {
		return sel, gp, err
	}
	if amount > math.MaxUint64-e.gas.MinReserve {
		return nil, nil, err
	}
	topped, selErr := coinselect.Select(coins, amount+e.gas.MinReserve)
	if selErr != nil || len(topped.Picked) == len(sel.Picked) {
		return nil, nil, err
	}
	e.logger.Debug().Int("picked", len(topped.Picked)).Msg("Reselected base coins to cover reserve")
	gp, err = e.gas.ForSpend(topped, amount)
	if err != nil {
		return nil, nil, err
	}
	return topped, gp, nil
}

// spendToken selects coins of a non-base token and a separate gas payer.
func (e *Engine) spendToken(ctx context.Context, owner types.Address, token types.TokenType, amount uint64) (*coinselect.Result, *gas.Plan, error) {
	coins, err := e.list(ctx, owner, token)
	if err != nil {
		return nil, nil, err
	}
	sel, err := coinselect.Select(coins, amount)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Debug().Str("type", string(token)).Int("candidates", len(coins)).Int("picked", len(sel.Picked)).Msg("Selected token coins")

	gp, err := e.feePayer(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	return sel, gp, nil
}

func (e *Engine) sweepBase(ctx context.Context, owner types.Address) (*gas.Plan, error) {
	coins, err := e.list(ctx, owner, e.params.BaseToken)
	if err != nil {
		return nil, err
	}
	return e.gas.ForSweep(coins)
}

func (e *Engine) sweepToken(ctx context.Context, owner types.Address, token types.TokenType) (*coinselect.Result, *gas.Plan, error) {
	coins, err := e.list(ctx, owner, token)
	if err != nil {
		return nil, nil, err
	}
	sel, err := coinselect.All(coins)
	if err != nil {
		return nil, nil, err
	}
	gp, err := e.feePayer(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	return sel, gp, nil
}

func (e *Engine) feePayer(ctx context.Context, owner types.Address) (*gas.Plan, error) {
	base, err := e.list(ctx, owner, e.params.BaseToken)
	if err != nil {
		return nil, err
	}
	return e.gas.ForFees(base)
}
