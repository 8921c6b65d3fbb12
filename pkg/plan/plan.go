// Package plan defines the typed transaction plan the engine produces.
//
// A Plan is an ordered list of commands (merge, split, transfer, move call)
// plus an explicit gas payment set. It is the unsigned, inspectable form of
// a programmable transaction block; signing and byte-level encoding belong
// to the external signer.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/liquidlink-lab/swirl-engine/pkg/types"
	"github.com/zeebo/blake3"
)

// Plan validation errors.
var (
	ErrNoGasPayment   = errors.New("plan has no explicit gas payment")
	ErrNoSender       = errors.New("plan has no sender")
	ErrInvalidCommand = errors.New("invalid plan command")
	ErrGasCoinAsInput = errors.New("gas payment coin used as a regular input")
)

// fingerprintDomain separates plan fingerprints from other BLAKE3 uses.
const fingerprintDomain = "swirl-engine/plan/v1"

// ArgKind tags an Argument.
type ArgKind string

const (
	ArgGasCoin ArgKind = "gas"    // The (merged) gas payment coin.
	ArgOwned   ArgKind = "owned"  // An owned object pinned by reference.
	ArgShared  ArgKind = "shared" // A shared object addressed by id.
	ArgResult  ArgKind = "result" // The output of an earlier command.
)

// Argument is an input to a command.
type Argument struct {
	Kind   ArgKind          `json:"kind"`
	Object *types.ObjectRef `json:"object,omitempty"`
	ID     *types.ObjectID  `json:"id,omitempty"`
	Index  uint16           `json:"index,omitempty"`
}

// GasCoin refers to the transaction's gas coin.
func GasCoin() Argument {
	return Argument{Kind: ArgGasCoin}
}

// Owned refers to an owned object by its reference.
func Owned(ref types.ObjectRef) Argument {
	return Argument{Kind: ArgOwned, Object: &ref}
}

// Shared refers to a shared object by id.
func Shared(id types.ObjectID) Argument {
	return Argument{Kind: ArgShared, ID: &id}
}

// Result refers to the output of the command at index i.
func Result(i int) Argument {
	return Argument{Kind: ArgResult, Index: uint16(i)}
}

// MergeCoins merges Sources into Destination.
type MergeCoins struct {
	Destination Argument   `json:"destination"`
	Sources     []Argument `json:"sources"`
}

// SplitCoins carves Amounts out of Coin into new coins.
type SplitCoins struct {
	Coin    Argument `json:"coin"`
	Amounts []uint64 `json:"amounts"`
}

// TransferObjects sends Objects to Recipient.
type TransferObjects struct {
	Objects   []Argument    `json:"objects"`
	Recipient types.Address `json:"recipient"`
}

// Target names a Move function.
type Target struct {
	Package  types.ObjectID `json:"package"`
	Module   string         `json:"module"`
	Function string         `json:"function"`
}

// String returns "package::module::function".
func (t Target) String() string {
	return fmt.Sprintf("%s::%s::%s", t.Package.Short(), t.Module, t.Function)
}

// MoveCall invokes a contract function.
type MoveCall struct {
	Target    Target     `json:"target"`
	Arguments []Argument `json:"arguments"`
}

// Command is exactly one of the four operations.
type Command struct {
	MergeCoins      *MergeCoins      `json:"MergeCoins,omitempty"`
	SplitCoins      *SplitCoins      `json:"SplitCoins,omitempty"`
	TransferObjects *TransferObjects `json:"TransferObjects,omitempty"`
	MoveCall        *MoveCall        `json:"MoveCall,omitempty"`
}

// Kind returns the name of the populated variant, or "" if none or several are set.
func (c Command) Kind() string {
	kind, n := "", 0
	if c.MergeCoins != nil {
		kind, n = "MergeCoins", n+1
	}
	if c.SplitCoins != nil {
		kind, n = "SplitCoins", n+1
	}
	if c.TransferObjects != nil {
		kind, n = "TransferObjects", n+1
	}
	if c.MoveCall != nil {
		kind, n = "MoveCall", n+1
	}
	if n != 1 {
		return ""
	}
	return kind
}

// Plan is a complete, unsigned transaction proposal.
type Plan struct {
	Sender     types.Address     `json:"sender"`
	Commands   []Command         `json:"commands"`
	GasPayment []types.ObjectRef `json:"gasPayment"`
	// GasBudget is zero when the signer is left to estimate the budget.
	GasBudget uint64 `json:"gasBudget,omitempty"`
	GasPrice  uint64 `json:"gasPrice,omitempty"`
}

// Validate checks structural invariants: a sender, a non-empty explicit gas
// payment set, well-formed commands, backward-only result references and no
// gas payment coin reused as a regular input.
func (p *Plan) Validate() error {
	if p.Sender.IsZero() {
		return ErrNoSender
	}
	if len(p.GasPayment) == 0 {
		return ErrNoGasPayment
	}
	gasIDs := make(map[types.ObjectID]struct{}, len(p.GasPayment))
	for _, ref := range p.GasPayment {
		gasIDs[ref.ID] = struct{}{}
	}

	checkArg := func(i int, a Argument) error {
		switch a.Kind {
		case ArgGasCoin:
		case ArgOwned:
			if a.Object == nil {
				return fmt.Errorf("%w: command %d: owned argument without reference", ErrInvalidCommand, i)
			}
			if _, ok := gasIDs[a.Object.ID]; ok {
				return fmt.Errorf("%w: command %d: %s", ErrGasCoinAsInput, i, a.Object.ID.Short())
			}
		case ArgShared:
			if a.ID == nil {
				return fmt.Errorf("%w: command %d: shared argument without id", ErrInvalidCommand, i)
			}
		case ArgResult:
			if int(a.Index) >= i {
				return fmt.Errorf("%w: command %d references result %d", ErrInvalidCommand, i, a.Index)
			}
		default:
			return fmt.Errorf("%w: command %d: unknown argument kind %q", ErrInvalidCommand, i, a.Kind)
		}
		return nil
	}

	for i, c := range p.Commands {
		switch c.Kind() {
		case "MergeCoins":
			if len(c.MergeCoins.Sources) == 0 {
				return fmt.Errorf("%w: command %d: merge without sources", ErrInvalidCommand, i)
			}
			if err := checkArg(i, c.MergeCoins.Destination); err != nil {
				return err
			}
			for _, a := range c.MergeCoins.Sources {
				if err := checkArg(i, a); err != nil {
					return err
				}
			}
		case "SplitCoins":
			if len(c.SplitCoins.Amounts) == 0 {
				return fmt.Errorf("%w: command %d: split without amounts", ErrInvalidCommand, i)
			}
			for _, amt := range c.SplitCoins.Amounts {
				if amt == 0 {
					return fmt.Errorf("%w: command %d: zero split amount", ErrInvalidCommand, i)
				}
			}
			if err := checkArg(i, c.SplitCoins.Coin); err != nil {
				return err
			}
		case "TransferObjects":
			if len(c.TransferObjects.Objects) == 0 {
				return fmt.Errorf("%w: command %d: transfer without objects", ErrInvalidCommand, i)
			}
			if c.TransferObjects.Recipient.IsZero() {
				return fmt.Errorf("%w: command %d: transfer to zero address", ErrInvalidCommand, i)
			}
			for _, a := range c.TransferObjects.Objects {
				if err := checkArg(i, a); err != nil {
					return err
				}
			}
		case "MoveCall":
			for _, a := range c.MoveCall.Arguments {
				if err := checkArg(i, a); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: command %d must set exactly one operation", ErrInvalidCommand, i)
		}
	}
	return nil
}

// Encode returns the canonical JSON form of the plan.
func (p *Plan) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a plan produced by Encode.
func Decode(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &p, nil
}

// Fingerprint returns the BLAKE3 hash of the canonical encoding. Two plans
// with the same fingerprint are structurally identical.
func (p *Plan) Fingerprint() (types.Hash, error) {
	data, err := p.Encode()
	if err != nil {
		return types.Hash{}, fmt.Errorf("encode plan: %w", err)
	}
	h := blake3.New()
	h.Write([]byte(fingerprintDomain))
	h.Write(data)
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}
