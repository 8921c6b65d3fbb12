package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
)

// DigestSize is the decoded length of an object digest.
const DigestSize = 32

// ObjectDigest is the base58 integrity digest of an object version.
type ObjectDigest string

// ParseDigest validates a base58 object digest.
func ParseDigest(s string) (ObjectDigest, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return "", fmt.Errorf("invalid digest %q: %w", s, err)
	}
	if len(b) != DigestSize {
		return "", fmt.Errorf("digest must decode to %d bytes, got %d", DigestSize, len(b))
	}
	return ObjectDigest(s), nil
}

// DigestFromBytes encodes a 32-byte value as an object digest.
func DigestFromBytes(b [DigestSize]byte) ObjectDigest {
	return ObjectDigest(base58.Encode(b[:]))
}

// TokenType names a coin's type, e.g. "0x2::iota::IOTA".
type TokenType string

// Normalize returns the token type with its package address in full-length
// form, so "0x2::iota::IOTA" and "0x000...02::iota::IOTA" compare equal.
func (t TokenType) Normalize() TokenType {
	parts := strings.SplitN(string(t), "::", 2)
	if len(parts) != 2 {
		return t
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return t
	}
	return TokenType(addr.String() + "::" + parts[1])
}

// Equal compares two token types after normalization.
func (t TokenType) Equal(o TokenType) bool {
	return t.Normalize() == o.Normalize()
}

// ObjectRef is the (id, version, digest) triple that pins an owned object.
type ObjectRef struct {
	ID      ObjectID     `json:"objectId"`
	Version uint64       `json:"version"`
	Digest  ObjectDigest `json:"digest"`
}

// Coin is a point-in-time snapshot of a coin object owned by one address.
type Coin struct {
	ObjectRef
	Type    TokenType `json:"coinType"`
	Balance uint64    `json:"balance"`
}

// Ref returns the coin's object reference.
func (c Coin) Ref() ObjectRef {
	return c.ObjectRef
}

// CoinPage is one page of a paginated coin listing.
type CoinPage struct {
	Data        []Coin `json:"data"`
	NextCursor  string `json:"nextCursor,omitempty"`
	HasNextPage bool   `json:"hasNextPage"`
}

// String implements fmt.Stringer for log output.
func (c Coin) String() string {
	return fmt.Sprintf("%s@%d(%d)", c.ID.Short(), c.Version, c.Balance)
}

// coinWire is the ledger RPC shape of a coin, balance as a decimal string.
type coinWire struct {
	ID      ObjectID     `json:"objectId"`
	Version uint64       `json:"version"`
	Digest  ObjectDigest `json:"digest"`
	Type    TokenType    `json:"coinType"`
	Balance string       `json:"balance"`
}

// MarshalJSON keeps balances as decimal strings on the wire, matching the
// ledger RPC, so amounts above 2^53 survive JavaScript consumers.
func (c Coin) MarshalJSON() ([]byte, error) {
	return json.Marshal(coinWire{
		ID:      c.ID,
		Version: c.Version,
		Digest:  c.Digest,
		Type:    c.Type,
		Balance: strconv.FormatUint(c.Balance, 10),
	})
}

// UnmarshalJSON accepts the string balance written by MarshalJSON.
func (c *Coin) UnmarshalJSON(data []byte) error {
	var w coinWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	bal, err := strconv.ParseUint(w.Balance, 10, 64)
	if err != nil {
		return fmt.Errorf("coin %s: invalid balance %q: %w", w.ID.Short(), w.Balance, err)
	}
	*c = Coin{
		ObjectRef: ObjectRef{ID: w.ID, Version: w.Version, Digest: w.Digest},
		Type:      w.Type,
		Balance:   bal,
	}
	return nil
}

// ErrBalanceOverflow is returned when a coin set sums past 2^64-1.
var ErrBalanceOverflow = errors.New("balance overflows uint64")

// SumBalances adds coin balances with overflow detection.
func SumBalances(coins []Coin) (uint64, error) {
	var total uint64
	for _, c := range coins {
		next := total + c.Balance
		if next < total {
			return 0, ErrBalanceOverflow
		}
		total = next
	}
	return total, nil
}
