package plan

import (
	"errors"
	"testing"

	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

var (
	sender    = types.MustParseAddress("0xa11ce")
	recipient = types.MustParseAddress("0xb0b")
)

func ref(id string, version uint64) types.ObjectRef {
	var raw [types.DigestSize]byte
	raw[0] = byte(version)
	return types.ObjectRef{ID: types.MustParseAddress(id), Version: version, Digest: types.DigestFromBytes(raw)}
}

func TestBuilder_MergeSplitTransfer(t *testing.T) {
	gas := ref("0x10", 1)
	b := NewBuilder(sender).SetGasPayment(gas).SetGasBudget(1000)
	b.MergeCoins(GasCoin(), Owned(ref("0x11", 1)), Owned(ref("0x12", 1)))
	out := b.SplitCoin(GasCoin(), 600)
	b.TransferObjects(recipient, out)

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(p.Commands) != 3 {
		t.Fatalf("commands = %d, want 3", len(p.Commands))
	}
	kinds := []string{"MergeCoins", "SplitCoins", "TransferObjects"}
	for i, k := range kinds {
		if got := p.Commands[i].Kind(); got != k {
			t.Errorf("command %d kind = %q, want %q", i, got, k)
		}
	}
	if out.Kind != ArgResult || out.Index != 1 {
		t.Errorf("split result = %+v, want result #1", out)
	}
	if p.GasBudget != 1000 {
		t.Errorf("budget = %d, want 1000", p.GasBudget)
	}
}

func TestBuilder_MergeWithoutSourcesIsNoop(t *testing.T) {
	b := NewBuilder(sender).SetGasPayment(ref("0x10", 1))
	b.MergeCoins(GasCoin())
	b.TransferObjects(recipient, GasCoin())
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(p.Commands) != 1 {
		t.Errorf("commands = %d, want 1", len(p.Commands))
	}
}

func TestValidate_Errors(t *testing.T) {
	gas := ref("0x10", 1)
	tests := []struct {
		name string
		p    Plan
		want error
	}{
		{"no sender", Plan{GasPayment: []types.ObjectRef{gas}}, ErrNoSender},
		{"no gas payment", Plan{Sender: sender}, ErrNoGasPayment},
		{
			"empty command",
			Plan{Sender: sender, GasPayment: []types.ObjectRef{gas}, Commands: []Command{{}}},
			ErrInvalidCommand,
		},
		{
			"two variants",
			Plan{Sender: sender, GasPayment: []types.ObjectRef{gas}, Commands: []Command{{
				SplitCoins:      &SplitCoins{Coin: GasCoin(), Amounts: []uint64{1}},
				TransferObjects: &TransferObjects{Objects: []Argument{GasCoin()}, Recipient: recipient},
			}}},
			ErrInvalidCommand,
		},
		{
			"forward result reference",
			Plan{Sender: sender, GasPayment: []types.ObjectRef{gas}, Commands: []Command{{
				TransferObjects: &TransferObjects{Objects: []Argument{Result(0)}, Recipient: recipient},
			}}},
			ErrInvalidCommand,
		},
		{
			"zero split",
			Plan{Sender: sender, GasPayment: []types.ObjectRef{gas}, Commands: []Command{{
				SplitCoins: &SplitCoins{Coin: GasCoin(), Amounts: []uint64{0}},
			}}},
			ErrInvalidCommand,
		},
		{
			"gas coin reused as input",
			Plan{Sender: sender, GasPayment: []types.ObjectRef{gas}, Commands: []Command{{
				TransferObjects: &TransferObjects{Objects: []Argument{Owned(gas)}, Recipient: recipient},
			}}},
			ErrGasCoinAsInput,
		},
		{
			"transfer to zero address",
			Plan{Sender: sender, GasPayment: []types.ObjectRef{gas}, Commands: []Command{{
				TransferObjects: &TransferObjects{Objects: []Argument{GasCoin()}},
			}}},
			ErrInvalidCommand,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	build := func(amount uint64) *Plan {
		b := NewBuilder(sender).SetGasPayment(ref("0x10", 3))
		out := b.SplitCoin(GasCoin(), amount)
		b.TransferObjects(recipient, out)
		p, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return p
	}
	a, err := build(5).Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	b, _ := build(5).Fingerprint()
	c, _ := build(6).Fingerprint()
	if a != b {
		t.Error("identical plans should share a fingerprint")
	}
	if a == c {
		t.Error("different plans should not share a fingerprint")
	}
}

func TestEncodeDecode(t *testing.T) {
	b := NewBuilder(sender).SetGasPayment(ref("0x10", 3))
	target := Target{Package: types.MustParseAddress("0x3"), Module: "pool", Function: "stake"}
	coin := b.SplitCoin(GasCoin(), 42)
	b.MoveCall(target, Shared(types.MustParseAddress("0x5")), coin)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("decoded plan invalid: %v", err)
	}
	fa, _ := p.Fingerprint()
	fb, _ := got.Fingerprint()
	if fa != fb {
		t.Error("decoded plan fingerprint differs")
	}
	if got.Commands[1].MoveCall.Target.String() != "0x3::pool::stake" {
		t.Errorf("target = %s", got.Commands[1].MoveCall.Target)
	}
}
