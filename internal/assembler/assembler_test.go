package assembler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/liquidlink-lab/swirl-engine/internal/coinselect"
	"github.com/liquidlink-lab/swirl-engine/internal/gas"
	"github.com/liquidlink-lab/swirl-engine/pkg/intent"
	"github.com/liquidlink-lab/swirl-engine/pkg/plan"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

const (
	baseType = types.TokenType("0x2::iota::IOTA")
	certType = types.TokenType("0x3467::cert::CERT")
)

var (
	sender    = types.MustParseAddress("0xa11ce")
	recipient = types.MustParseAddress("0xb0b")
	staking   = Staking{
		Package:     types.MustParseAddress("0xd282"),
		Module:      "native_pool",
		Pool:        types.MustParseAddress("0x02d6"),
		Metadata:    types.MustParseAddress("0x8c25"),
		SystemState: types.MustParseAddress("0x5"),
	}
)

func makeCoins(typ types.TokenType, idBase int, balances ...uint64) []types.Coin {
	coins := make([]types.Coin, len(balances))
	for i, b := range balances {
		coins[i] = types.Coin{
			ObjectRef: types.ObjectRef{ID: types.MustParseAddress(fmt.Sprintf("0x%x", idBase+i)), Version: 1},
			Type:      typ,
			Balance:   b,
		}
	}
	return coins
}

func kinds(p *plan.Plan) []string {
	out := make([]string, len(p.Commands))
	for i, c := range p.Commands {
		out[i] = c.Kind()
	}
	return out
}

func wantKinds(t *testing.T, p *plan.Plan, want ...string) {
	t.Helper()
	got := kinds(p)
	if len(got) != len(want) {
		t.Fatalf("commands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("commands = %v, want %v", got, want)
		}
	}
}

func TestAssemble_PayExactBase(t *testing.T) {
	a := New(baseType, staking)
	sel, _ := coinselect.Select(makeCoins(baseType, 1, 5, 3, 2), 6)
	gp, err := gas.NewProvisioner(2, 100).ForSpend(sel, 6)
	if err != nil {
		t.Fatalf("ForSpend: %v", err)
	}

	p, err := a.Assemble(sender, intent.PayExact{Token: baseType, Recipient: recipient, Amount: 6}, sel, gp)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	wantKinds(t, p, "MergeCoins", "SplitCoins", "TransferObjects")

	merge := p.Commands[0].MergeCoins
	if merge.Destination.Kind != plan.ArgGasCoin || len(merge.Sources) != 1 || merge.Sources[0].Object.ID != sel.Picked[1].ID {
		t.Fatalf("merge should fold coin 3 into the gas coin: %+v", merge)
	}
	split := p.Commands[1].SplitCoins
	if split.Coin.Kind != plan.ArgGasCoin || split.Amounts[0] != 6 {
		t.Fatalf("unexpected split: %+v", split)
	}
	tr := p.Commands[2].TransferObjects
	if tr.Recipient != recipient || tr.Objects[0].Kind != plan.ArgResult || tr.Objects[0].Index != 1 {
		t.Fatalf("unexpected transfer: %+v", tr)
	}
	if len(p.GasPayment) != 1 || p.GasPayment[0].ID != sel.Primary().ID {
		t.Fatalf("gas payment should be the primary coin: %+v", p.GasPayment)
	}
	if p.GasBudget != 2 {
		t.Fatalf("budget = %d, want 2", p.GasBudget)
	}
}

func TestAssemble_PayExactToken(t *testing.T) {
	a := New(baseType, staking)
	tokens := makeCoins(certType, 0x10, 40, 70, 10)
	sel, _ := coinselect.Select(tokens, 100)
	gp, _ := gas.NewProvisioner(1, 100).ForFees(makeCoins(baseType, 1, 9))

	p, err := a.Assemble(sender, intent.PayExact{Token: certType, Recipient: recipient, Amount: 100}, sel, gp)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	wantKinds(t, p, "MergeCoins", "SplitCoins", "TransferObjects")

	merge := p.Commands[0].MergeCoins
	if merge.Destination.Kind != plan.ArgOwned || merge.Destination.Object.ID != sel.Primary().ID {
		t.Fatalf("merge destination should be the token primary: %+v", merge.Destination)
	}
	if p.Commands[1].SplitCoins.Coin.Object.ID != sel.Primary().ID {
		t.Fatal("split should draw from the token primary")
	}
	if p.GasBudget != 0 {
		t.Fatalf("fee-only plan should not set a budget, got %d", p.GasBudget)
	}
	if p.GasPayment[0].ID == sel.Primary().ID {
		t.Fatal("gas payer must not be the transferred token")
	}
}

func TestAssemble_PayExactTokenSingleCoin(t *testing.T) {
	a := New(baseType, staking)
	sel, _ := coinselect.Select(makeCoins(certType, 0x10, 50), 20)
	gp, _ := gas.NewProvisioner(1, 100).ForFees(makeCoins(baseType, 1, 9))

	p, err := a.Assemble(sender, intent.PayExact{Token: certType, Recipient: recipient, Amount: 20}, sel, gp)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	wantKinds(t, p, "SplitCoins", "TransferObjects")
}

func TestAssemble_PayAllBase(t *testing.T) {
	a := New(baseType, staking)
	gp, err := gas.NewProvisioner(1, 100).ForSweep(makeCoins(baseType, 1, 4, 8, 6))
	if err != nil {
		t.Fatalf("ForSweep: %v", err)
	}

	p, err := a.Assemble(sender, intent.PayAll{Token: baseType, Recipient: recipient}, nil, gp)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	wantKinds(t, p, "MergeCoins", "TransferObjects")
	tr := p.Commands[1].TransferObjects
	if len(tr.Objects) != 1 || tr.Objects[0].Kind != plan.ArgGasCoin {
		t.Fatalf("sweep should transfer the gas coin itself: %+v", tr)
	}
	if len(p.Commands[0].MergeCoins.Sources) != 2 {
		t.Fatal("sweep should merge every other base coin")
	}
}

func TestAssemble_PayAllToken(t *testing.T) {
	a := New(baseType, staking)
	sel, _ := coinselect.All(makeCoins(certType, 0x10, 1, 2, 3))
	gp, _ := gas.NewProvisioner(1, 100).ForFees(makeCoins(baseType, 1, 9))

	p, err := a.Assemble(sender, intent.PayAll{Token: certType, Recipient: recipient}, sel, gp)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	wantKinds(t, p, "MergeCoins", "TransferObjects")
	tr := p.Commands[1].TransferObjects
	if tr.Objects[0].Kind != plan.ArgOwned || tr.Objects[0].Object.ID != sel.Primary().ID {
		t.Fatalf("should transfer the merged primary: %+v", tr)
	}
}

func TestAssemble_Stake(t *testing.T) {
	a := New(baseType, staking)
	sel, _ := coinselect.Select(makeCoins(baseType, 1, 3_000_000_000, 1_000_000_000), 2_000_000_000)
	gp, err := gas.NewProvisioner(1_000_000, 50_000_000_000).ForSpend(sel, 2_000_000_000)
	if err != nil {
		t.Fatalf("ForSpend: %v", err)
	}

	p, err := a.Assemble(sender, intent.StakeSplit{Amount: 2_000_000_000}, sel, gp)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	wantKinds(t, p, "SplitCoins", "MoveCall")
	call := p.Commands[1].MoveCall
	if call.Target.String() != "0xd282::native_pool::stake" {
		t.Fatalf("target = %s", call.Target)
	}
	wantOrder := []types.ObjectID{staking.Pool, staking.Metadata, staking.SystemState}
	for i, id := range wantOrder {
		if call.Arguments[i].Kind != plan.ArgShared || *call.Arguments[i].ID != id {
			t.Fatalf("argument %d = %+v, want shared %s", i, call.Arguments[i], id.Short())
		}
	}
	if last := call.Arguments[3]; last.Kind != plan.ArgResult || last.Index != 0 {
		t.Fatalf("last argument should be the split coin: %+v", last)
	}
	if p.GasBudget != 1_000_000_000 {
		t.Fatalf("budget = %d, want remainder 1e9", p.GasBudget)
	}
}

func TestAssemble_Unstake(t *testing.T) {
	a := New(baseType, staking)
	sel, _ := coinselect.Select(makeCoins(certType, 0x10, 1_500_000_000, 700_000_000), 2_000_000_000)
	gp, _ := gas.NewProvisioner(1, 100).ForFees(makeCoins(baseType, 1, 9))

	p, err := a.Assemble(sender, intent.UnstakeSplit{Amount: 2_000_000_000}, sel, gp)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	wantKinds(t, p, "MergeCoins", "SplitCoins", "MoveCall")
	call := p.Commands[2].MoveCall
	if call.Target.Function != FuncUnstake {
		t.Fatalf("function = %s", call.Target.Function)
	}
	wantOrder := []types.ObjectID{staking.Pool, staking.SystemState, staking.Metadata}
	for i, id := range wantOrder {
		if *call.Arguments[i].ID != id {
			t.Fatalf("argument %d = %s, want %s", i, call.Arguments[i].ID.Short(), id.Short())
		}
	}
}

func TestAssemble_Mismatch(t *testing.T) {
	a := New(baseType, staking)
	fees, _ := gas.NewProvisioner(1, 100).ForFees(makeCoins(baseType, 1, 9))

	_, err := a.Assemble(sender, intent.PayExact{Token: baseType, Recipient: recipient, Amount: 1}, nil, fees)
	if !errors.Is(err, ErrMismatchedGasPlan) {
		t.Fatalf("expected ErrMismatchedGasPlan, got %v", err)
	}

	_, err = a.Assemble(sender, intent.UnstakeSplit{Amount: 1}, nil, fees)
	if !errors.Is(err, coinselect.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	_, err = a.Assemble(sender, intent.StakeSplit{Amount: 1}, nil, nil)
	if !errors.Is(err, gas.ErrNoGasCoin) {
		t.Fatalf("expected ErrNoGasCoin, got %v", err)
	}
}

func TestSpendsBase_NormalizedToken(t *testing.T) {
	a := New(baseType, staking)
	long := types.TokenType("0x0000000000000000000000000000000000000000000000000000000000000002::iota::IOTA")
	if !a.SpendsBase(intent.PayExact{Token: long, Recipient: recipient, Amount: 1}) {
		t.Fatal("long-form base token should be recognized")
	}
	if a.SpendsBase(intent.UnstakeSplit{Amount: 1}) {
		t.Fatal("unstake spends the certificate, not the base token")
	}
}
