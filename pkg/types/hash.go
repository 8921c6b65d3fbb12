package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HashSize is the length of a plan fingerprint in bytes.
const HashSize = 32

// Hash is a 256-bit digest. Plans are fingerprinted with it and the journal
// stores it next to each executed transaction.
type Hash [HashSize]byte

// IsZero reports whether no fingerprint was set.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String is the lowercase hex form without a 0x prefix.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short is the first eight hex digits, enough to tell plans apart in a table.
func (h Hash) Short() string {
	return h.String()[:8]
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON accepts the String form. An empty string leaves the zero
// hash, which is what journal entries written without a plan carry.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash decodes 64 hex digits, with or without a 0x prefix.
func ParseHash(s string) (Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Hash{}, fmt.Errorf("fingerprint %q: %w", s, err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("fingerprint must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}
