package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/liquidlink-lab/swirl-engine/internal/journal"
	"github.com/liquidlink-lab/swirl-engine/internal/rpcclient"
	"github.com/liquidlink-lab/swirl-engine/internal/signer"
	"github.com/liquidlink-lab/swirl-engine/internal/storage"
	"github.com/liquidlink-lab/swirl-engine/pkg/intent"
	"github.com/liquidlink-lab/swirl-engine/pkg/plan"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

var (
	owner     = types.MustParseAddress("0xa11ce")
	recipient = types.MustParseAddress("0xb0b")
)

type fakeBuilder struct{ err error }

func (f *fakeBuilder) Build(_ context.Context, sender types.Address, in intent.Intent) (*plan.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := plan.NewBuilder(sender).
		SetGasPayment(types.ObjectRef{ID: types.MustParseAddress("0x1"), Version: 1}).
		SetGasBudget(2_000_000)
	out := b.SplitCoin(plan.GasCoin(), 10)
	b.TransferObjects(recipient, out)
	return b.Build()
}

type fakeLedger struct {
	price   uint64
	result  *rpcclient.DryRunResult
	dryRuns int
	sent    []byte
}

func (f *fakeLedger) GetReferenceGasPrice(context.Context) (uint64, error) {
	return f.price, nil
}

func (f *fakeLedger) DryRunTransactionBlock(_ context.Context, tx []byte) (*rpcclient.DryRunResult, error) {
	f.dryRuns++
	f.sent = tx
	return f.result, nil
}

type fakeSigner struct {
	digest string
	err    error
	reqs   []signer.Request
}

func (f *fakeSigner) SignAndExecute(_ context.Context, req signer.Request) (*signer.Result, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &signer.Result{Digest: f.digest}, nil
}

type failingRecorder struct{}

func (failingRecorder) Record(journal.Entry) error { return errors.New("disk full") }

func TestExecute(t *testing.T) {
	s := &fakeSigner{digest: "DIG"}
	j := journal.New(storage.NewMemory())
	ex := New(&fakeBuilder{}, &fakeLedger{price: 1000}, s, "iota:testnet",
		WithJournal(j),
		WithExplorer(func(d string) string { return "https://iotascan.com/testnet/tx/" + d }),
	)

	r, err := ex.Execute(context.Background(), owner, intent.StakeSplit{Amount: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if r.Digest != "DIG" || r.Action != "Stake" {
		t.Fatalf("unexpected receipt: %+v", r)
	}
	if r.ExplorerURL != "https://iotascan.com/testnet/tx/DIG" {
		t.Fatalf("explorer = %q", r.ExplorerURL)
	}
	if len(s.reqs) != 1 || s.reqs[0].Chain != "iota:testnet" || s.reqs[0].Plan.GasPrice != 1000 {
		t.Fatalf("signer should get one request with gas price: %+v", s.reqs)
	}

	e, err := j.Get("DIG")
	if err != nil {
		t.Fatalf("journal Get: %v", err)
	}
	if e.Fingerprint != r.Fingerprint || e.Intent != "stake" || e.GasPrice != 1000 {
		t.Fatalf("unexpected journal entry: %+v", e)
	}
}

func TestExecute_SignerFailure(t *testing.T) {
	s := &fakeSigner{err: signer.ErrSignerFailure}
	j := journal.New(storage.NewMemory())
	ex := New(&fakeBuilder{}, &fakeLedger{price: 1000}, s, "iota:testnet", WithJournal(j))

	r, err := ex.Execute(context.Background(), owner, intent.StakeSplit{Amount: 1})
	if !errors.Is(err, signer.ErrSignerFailure) || r != nil {
		t.Fatalf("expected signer failure and no receipt, got %v %+v", err, r)
	}
	if list, _ := j.List(0); len(list) != 0 {
		t.Fatal("failed execution must not be journaled")
	}
}

func TestExecute_BuildErrorSkipsSigner(t *testing.T) {
	s := &fakeSigner{digest: "DIG"}
	buildErr := errors.New("insufficient")
	ex := New(&fakeBuilder{err: buildErr}, &fakeLedger{}, s, "iota:testnet")

	if _, err := ex.Execute(context.Background(), owner, intent.StakeSplit{Amount: 1}); !errors.Is(err, buildErr) {
		t.Fatalf("expected build error, got %v", err)
	}
	if len(s.reqs) != 0 {
		t.Fatal("signer must not be called when build fails")
	}
}

func TestExecute_JournalFailureKeepsReceipt(t *testing.T) {
	ex := New(&fakeBuilder{}, &fakeLedger{price: 1}, &fakeSigner{digest: "DIG"}, "iota:testnet",
		WithJournal(failingRecorder{}))
	r, err := ex.Execute(context.Background(), owner, intent.PayAll{Token: "0x2::iota::IOTA", Recipient: recipient})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if r.Digest != "DIG" || r.Action != "Transfer" {
		t.Fatalf("unexpected receipt: %+v", r)
	}
}

func TestExecute_NoSigner(t *testing.T) {
	ex := New(&fakeBuilder{}, &fakeLedger{}, nil, "iota:testnet")
	if _, err := ex.Execute(context.Background(), owner, intent.StakeSplit{Amount: 1}); !errors.Is(err, signer.ErrSignerFailure) {
		t.Fatalf("expected ErrSignerFailure, got %v", err)
	}
}

func TestDryRun(t *testing.T) {
	l := &fakeLedger{price: 1000, result: &rpcclient.DryRunResult{
		Status: "success",
		GasUsed: rpcclient.GasUsed{
			ComputationCost: 1_000_000,
			StorageCost:     2_000_000,
			StorageRebate:   500_000,
		},
	}}
	s := &fakeSigner{digest: "DIG"}
	j := journal.New(storage.NewMemory())
	ex := New(&fakeBuilder{}, l, s, "iota:testnet", WithJournal(j))

	est, err := ex.DryRun(context.Background(), owner, intent.UnstakeSplit{Amount: 1})
	if err != nil {
		t.Fatalf("DryRun: %v", err)
	}
	want := GasCost{Computation: 1_000_000, Storage: 2_000_000, Rebate: 500_000, Net: 2_500_000}
	if est.Gas != want {
		t.Fatalf("gas = %+v, want %+v", est.Gas, want)
	}
	if len(s.reqs) != 0 {
		t.Fatal("dry run must not contact the signer")
	}
	if list, _ := j.List(0); len(list) != 0 {
		t.Fatal("dry run must not write the journal")
	}
	sent, err := plan.Decode(l.sent)
	if err != nil || sent.GasPrice != 1000 {
		t.Fatalf("dry run should send the priced plan: %v %+v", err, sent)
	}
}

func TestDryRun_Failure(t *testing.T) {
	l := &fakeLedger{price: 1, result: &rpcclient.DryRunResult{Status: "failure", Error: "InsufficientCoinBalance"}}
	ex := New(&fakeBuilder{}, l, nil, "iota:testnet")
	if _, err := ex.DryRun(context.Background(), owner, intent.StakeSplit{Amount: 1}); !errors.Is(err, ErrDryRunFailed) {
		t.Fatalf("expected ErrDryRunFailed, got %v", err)
	}
}

func TestNetCost(t *testing.T) {
	if got := netCost(1, 2, 10); got != -7 {
		t.Fatalf("netCost = %d, want -7", got)
	}
	if got := netCost(5, 5, 3); got != 7 {
		t.Fatalf("netCost = %d, want 7", got)
	}
}
