package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// AddressSize is the length of an account address or object id in bytes.
const AddressSize = 32

// ErrInvalidAddress is returned for malformed addresses and object ids.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a 256-bit account address, rendered as 0x-prefixed hex.
type Address [AddressSize]byte

// ObjectID identifies an on-chain object. It shares the address encoding.
type ObjectID = Address

// ParseAddress parses a 0x-prefixed hex address. Short forms such as "0x2"
// are left-padded with zeros to the full 32 bytes.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return Address{}, fmt.Errorf("%w: %q missing 0x prefix", ErrInvalidAddress, s)
	}
	digits := s[2:]
	if digits == "" || len(digits) > AddressSize*2 {
		return Address{}, fmt.Errorf("%w: %q must have 1-%d hex digits", ErrInvalidAddress, s, AddressSize*2)
	}
	if len(digits) < AddressSize*2 {
		digits = strings.Repeat("0", AddressSize*2-len(digits)) + digits
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error.
// Intended for package-level constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the full-length 0x-prefixed lowercase hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Short returns the address with leading zero bytes trimmed ("0x2").
func (a Address) Short() string {
	s := strings.TrimLeft(hex.EncodeToString(a[:]), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// MarshalJSON encodes the address as a hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a hex string into an address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Compare orders addresses bytewise. It returns -1, 0 or +1.
func (a Address) Compare(b Address) int {
	for i := 0; i < AddressSize; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
