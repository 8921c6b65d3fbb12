// Package executor runs built plans: Execute hands them to the signer and
// DryRun simulates them on a full node. The two paths share no state.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/liquidlink-lab/swirl-engine/internal/journal"
	klog "github.com/liquidlink-lab/swirl-engine/internal/log"
	"github.com/liquidlink-lab/swirl-engine/internal/rpcclient"
	"github.com/liquidlink-lab/swirl-engine/internal/signer"
	"github.com/liquidlink-lab/swirl-engine/pkg/intent"
	"github.com/liquidlink-lab/swirl-engine/pkg/plan"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// ErrDryRunFailed is returned when the simulated execution aborts.
var ErrDryRunFailed = errors.New("dry run failed")

// Builder produces plans. engine.Engine satisfies it.
type Builder interface {
	Build(ctx context.Context, owner types.Address, in intent.Intent) (*plan.Plan, error)
}

// Ledger is the read-only node capability. rpcclient.Client satisfies it.
type Ledger interface {
	GetReferenceGasPrice(ctx context.Context) (uint64, error)
	DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*rpcclient.DryRunResult, error)
}

// Signer signs and submits plans. signer.Bridge satisfies it.
type Signer interface {
	SignAndExecute(ctx context.Context, req signer.Request) (*signer.Result, error)
}

// Recorder persists executed transactions. journal.Journal satisfies it.
type Recorder interface {
	Record(e journal.Entry) error
}

// Receipt describes an executed transaction.
type Receipt struct {
	Digest      string
	Action      string // Transfer, Stake or Unstake.
	ExplorerURL string
	Fingerprint types.Hash
	Plan        *plan.Plan
}

// GasCost is a dry-run fee estimate in base units.
type GasCost struct {
	Computation uint64
	Storage     uint64
	Rebate      uint64
	// Net is Computation + Storage - Rebate and may be negative.
	Net int64
}

// Estimate is the outcome of a dry run.
type Estimate struct {
	Plan *plan.Plan
	Gas  GasCost
}

// Executor runs plans against one chain.
type Executor struct {
	builder  Builder
	ledger   Ledger
	signer   Signer
	chain    string
	journal  Recorder
	explorer func(digest string) string
	logger   zerolog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithJournal records every executed transaction in r.
func WithJournal(r Recorder) Option {
	return func(e *Executor) {
		e.journal = r
	}
}

// WithExplorer sets the function that turns a digest into an explorer link.
func WithExplorer(fn func(digest string) string) Option {
	return func(e *Executor) {
		e.explorer = fn
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// New creates an executor for chain, e.g. "iota:testnet". The signer may be
// nil for an executor used only for dry runs.
func New(b Builder, l Ledger, s Signer, chain string, opts ...Option) *Executor {
	e := &Executor{
		builder: b,
		ledger:  l,
		signer:  s,
		chain:   chain,
		logger:  klog.Engine,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// prepare builds the plan for in and attaches the reference gas price.
func (e *Executor) prepare(ctx context.Context, owner types.Address, in intent.Intent) (*plan.Plan, error) {
	p, err := e.builder.Build(ctx, owner, in)
	if err != nil {
		return nil, err
	}
	price, err := e.ledger.GetReferenceGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference gas price: %w", err)
	}
	p.GasPrice = price
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Execute builds the plan for in and submits it through the signer. The
// receipt carries exactly one digest; any failure returns no receipt.
func (e *Executor) Execute(ctx context.Context, owner types.Address, in intent.Intent) (*Receipt, error) {
	if e.signer == nil {
		return nil, fmt.Errorf("%w: no signer configured", signer.ErrSignerFailure)
	}
	p, err := e.prepare(ctx, owner, in)
	if err != nil {
		return nil, err
	}
	fp, err := p.Fingerprint()
	if err != nil {
		return nil, err
	}

	res, err := e.signer.SignAndExecute(ctx, signer.Request{Plan: p, Chain: e.chain})
	if err != nil {
		return nil, err
	}

	r := &Receipt{
		Digest:      res.Digest,
		Action:      in.Kind().Action(),
		Fingerprint: fp,
		Plan:        p,
	}
	if e.explorer != nil {
		r.ExplorerURL = e.explorer(res.Digest)
	}

	if e.journal != nil {
		err := e.journal.Record(journal.Entry{
			Digest:      res.Digest,
			Action:      r.Action,
			Intent:      string(in.Kind()),
			Chain:       e.chain,
			Sender:      owner,
			Fingerprint: fp,
			GasBudget:   p.GasBudget,
			GasPrice:    p.GasPrice,
		})
		// The transaction is already on chain; a journal failure must not
		// hide the receipt.
		if err != nil {
			e.logger.Error().Err(err).Str("digest", res.Digest).Msg("Failed to record transaction")
		}
	}

	e.logger.Info().
		Str("action", r.Action).
		Str("digest", r.Digest).
		Str("fingerprint", fp.String()).
		Msg("Transaction submitted")
	return r, nil
}

// DryRun builds the plan for in and simulates it. It never contacts the
// signer and never writes the journal.
func (e *Executor) DryRun(ctx context.Context, owner types.Address, in intent.Intent) (*Estimate, error) {
	p, err := e.prepare(ctx, owner, in)
	if err != nil {
		return nil, err
	}
	tx, err := p.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	res, err := e.ledger.DryRunTransactionBlock(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("dry run: %w", err)
	}
	if res.Status != "" && res.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrDryRunFailed, res.Error)
	}

	cost := GasCost{
		Computation: res.GasUsed.ComputationCost,
		Storage:     res.GasUsed.StorageCost,
		Rebate:      res.GasUsed.StorageRebate,
	}
	cost.Net = netCost(cost.Computation, cost.Storage, cost.Rebate)

	e.logger.Debug().
		Str("intent", string(in.Kind())).
		Uint64("computation", cost.Computation).
		Uint64("storage", cost.Storage).
		Uint64("rebate", cost.Rebate).
		Int64("net", cost.Net).
		Msg("Dry run")
	return &Estimate{Plan: p, Gas: cost}, nil
}

func netCost(computation, storage, rebate uint64) int64 {
	spent := computation + storage
	if spent >= rebate {
		return int64(spent - rebate)
	}
	return -int64(rebate - spent)
}
