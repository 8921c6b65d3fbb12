// Package signer forwards unsigned plans to an external signer.
//
// The signer owns keys and signing; this package never sees signing
// material. Every failure it reports wraps ErrSignerFailure.
package signer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	klog "github.com/liquidlink-lab/swirl-engine/internal/log"
	"github.com/liquidlink-lab/swirl-engine/internal/rpcclient"
	"github.com/liquidlink-lab/swirl-engine/pkg/plan"
)

// MethodSignAndExecute is the bridge method that signs and submits a plan.
const MethodSignAndExecute = "signAndExecuteTransaction"

// ErrSignerFailure is returned for any failure reported by or reaching the signer.
var ErrSignerFailure = errors.New("signer failure")

// Request is what the signer receives.
type Request struct {
	Plan  *plan.Plan
	Chain string // e.g. "iota:testnet"
}

// Result is a successful execution.
type Result struct {
	Digest string
}

// Caller is the JSON-RPC capability the bridge needs. rpcclient.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, method string, params, result interface{}) error
}

// Bridge talks to a signer over JSON-RPC.
type Bridge struct {
	rpc    Caller
	logger zerolog.Logger
}

// NewBridge creates a bridge over rpc.
func NewBridge(rpc Caller) *Bridge {
	return &Bridge{rpc: rpc, logger: klog.Signer}
}

// NewHTTPBridge creates a bridge to a signer listening at endpoint.
func NewHTTPBridge(endpoint string, opts ...rpcclient.Option) *Bridge {
	return NewBridge(rpcclient.New(endpoint, opts...))
}

type signParams struct {
	Transaction json.RawMessage `json:"transaction"`
	Chain       string          `json:"chain"`
}

type signResult struct {
	Digest  string `json:"digest"`
	Effects *struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"status"`
	} `json:"effects,omitempty"`
}

// SignAndExecute asks the signer to sign and submit req.Plan. It returns
// exactly one outcome: a result with a digest, or an error wrapping
// ErrSignerFailure.
func (b *Bridge) SignAndExecute(ctx context.Context, req Request) (*Result, error) {
	if req.Plan == nil {
		return nil, fmt.Errorf("%w: nil plan", ErrSignerFailure)
	}
	if req.Chain == "" {
		return nil, fmt.Errorf("%w: chain not set", ErrSignerFailure)
	}
	tx, err := req.Plan.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: encode plan: %v", ErrSignerFailure, err)
	}

	var res signResult
	if err := b.rpc.Call(ctx, MethodSignAndExecute, signParams{Transaction: tx, Chain: req.Chain}, &res); err != nil {
		b.logger.Warn().Err(err).Str("chain", req.Chain).Msg("Signer rejected transaction")
		return nil, fmt.Errorf("%w: %v", ErrSignerFailure, err)
	}
	if res.Effects != nil && res.Effects.Status.Status == "failure" {
		return nil, fmt.Errorf("%w: execution failed: %s", ErrSignerFailure, res.Effects.Status.Error)
	}
	if res.Digest == "" {
		return nil, fmt.Errorf("%w: empty digest", ErrSignerFailure)
	}

	b.logger.Info().Str("digest", res.Digest).Str("chain", req.Chain).Msg("Transaction executed")
	return &Result{Digest: res.Digest}, nil
}
