package units

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"
)

func TestToDecimalString(t *testing.T) {
	tests := []struct {
		n        int64
		decimals int
		want     string
	}{
		{1500000000, 9, "1.5"},
		{1, 9, "0.000000001"},
		{0, 9, "0"},
		{2000, 3, "2"},
		{2001, 3, "2.001"},
		{123, 0, "123"},
		{1000000000, 9, "1"},
		{10, 1, "1"},
	}
	for _, tt := range tests {
		got := ToDecimalString(big.NewInt(tt.n), tt.decimals)
		if got != tt.want {
			t.Errorf("ToDecimalString(%d, %d) = %q, want %q", tt.n, tt.decimals, got, tt.want)
		}
	}
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		in       string
		decimals int
		want     string
	}{
		{"1.5", 9, "1500000000"},
		{"0.000000001", 9, "1"},
		{"1", 0, "1"},
		{"  2.25 ", 2, "225"},
		{".5", 1, "5"},
		{"+3", 2, "300"},
		// Rounds half away from zero beyond the token's precision.
		{"0.0000000015", 9, "2"},
		{"0.0000000014", 9, "1"},
		{"18446744073709551616", 0, "18446744073709551616"},
	}
	for _, tt := range tests {
		got, err := ToBaseUnits(tt.in, tt.decimals)
		if err != nil {
			t.Fatalf("ToBaseUnits(%q, %d): %v", tt.in, tt.decimals, err)
		}
		if got.String() != tt.want {
			t.Errorf("ToBaseUnits(%q, %d) = %s, want %s", tt.in, tt.decimals, got, tt.want)
		}
	}
}

func TestToBaseUnits_Invalid(t *testing.T) {
	for _, in := range []string{"", "-1", "-0.5", "abc", "1.2.3", "1e9", "NaN", "1,000", "."} {
		if _, err := ToBaseUnits(in, 9); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ToBaseUnits(%q) err = %v, want ErrInvalidAmount", in, err)
		}
	}
	if _, err := ToBaseUnits("1", -1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative decimals err = %v, want ErrInvalidAmount", err)
	}
}

func TestToBaseUnitsUint64_Overflow(t *testing.T) {
	if _, err := ToBaseUnitsUint64("18446744073709551616", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("overflow err = %v, want ErrInvalidAmount", err)
	}
	n, err := ToBaseUnitsUint64("18446744073.709551615", 9)
	if err != nil {
		t.Fatalf("max u64: %v", err)
	}
	if n != ^uint64(0) {
		t.Errorf("got %d, want max uint64", n)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	for i := 0; i < 2000; i++ {
		n := new(big.Int).Rand(rng, limit)
		if i%10 == 0 {
			n.SetInt64(int64(i))
		}
		for d := 0; d <= 18; d++ {
			s := ToDecimalString(n, d)
			back, err := ToBaseUnits(s, d)
			if err != nil {
				t.Fatalf("ToBaseUnits(%q, %d): %v", s, d, err)
			}
			if back.Cmp(n) != 0 {
				t.Fatalf("round trip n=%s d=%d: got %s via %q", n, d, back, s)
			}
		}
	}
}

func TestFormatUint64(t *testing.T) {
	if got := FormatUint64(1_000_000, 9); got != "0.001" {
		t.Errorf("FormatUint64 = %q, want 0.001", got)
	}
}
