package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_StringAndShort(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero-value Hash should be zero")
	}
	if h.String() != strings.Repeat("0", 64) {
		t.Errorf("zero hash String() = %s", h)
	}

	h[0], h[3], h[31] = 0xab, 0x01, 0xcd
	if h.IsZero() {
		t.Error("non-zero Hash reported zero")
	}
	if s := h.String(); !strings.HasPrefix(s, "ab") || !strings.HasSuffix(s, "cd") {
		t.Errorf("String() = %s", s)
	}
	if got := h.Short(); got != "ab000001" {
		t.Errorf("Short() = %s, want ab000001", got)
	}
}

func TestParseHash(t *testing.T) {
	valid := "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: valid, want: valid},
		{name: "0x prefix", input: "0x" + valid, want: valid},
		{name: "too short", input: "abcd", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 66), wantErr: true},
		{name: "bad digit", input: strings.Repeat("g", 64), wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHash(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHash(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHash(%q): %v", tt.input, err)
			}
			if h.String() != tt.want {
				t.Errorf("got %s, want %s", h, tt.want)
			}
		})
	}
}

func TestHash_JSON(t *testing.T) {
	type entry struct {
		Fingerprint Hash `json:"fingerprint"`
	}
	in := entry{Fingerprint: Hash{0xaa, 0xbb}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"aabb00`) {
		t.Fatalf("fingerprint should encode as hex: %s", data)
	}
	var out entry
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("decoded %s, want %s", out.Fingerprint, in.Fingerprint)
	}

	var empty entry
	if err := json.Unmarshal([]byte(`{"fingerprint":""}`), &empty); err != nil || !empty.Fingerprint.IsZero() {
		t.Errorf("empty fingerprint should decode to zero, err=%v", err)
	}
}
