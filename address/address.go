// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package address defines the canonical identity of stakers and tokens, and the
// codecs converting between canonical and human readable forms.
package address

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Address is a canonical identity. It is compared and stored byte-wise.
type Address []byte

// IsEmpty returns whether the address is empty.
func (a Address) IsEmpty() bool {
	return len(a) == 0
}

// Equal returns whether two addresses are identical.
func (a Address) Equal(b Address) bool {
	return bytes.Equal(a, b)
}

// String returns the 0x-prefixed hex form of the canonical bytes.
func (a Address) String() string {
	return hexutil.Encode(a)
}

// Codec converts between human readable and canonical addresses.
type Codec interface {
	Canonicalize(human string) (Address, error)
	Humanize(addr Address) (string, error)
}

// NewCodec returns the codec by name, "plain" or "hex".
func NewCodec(name string) (Codec, error) {
	switch name {
	case "plain":
		return PlainCodec{}, nil
	case "hex":
		return HexCodec{}, nil
	}
	return nil, fmt.Errorf("unknown address codec %q", name)
}

// PlainCodec accepts lower case alphanumeric identities of 3 to 64 characters
// and stores them as is.
type PlainCodec struct{}

const (
	plainMinLen = 3
	plainMaxLen = 64
)

// Canonicalize implements Codec.
func (PlainCodec) Canonicalize(human string) (Address, error) {
	if len(human) < plainMinLen || len(human) > plainMaxLen {
		return nil, fmt.Errorf("invalid address %q: length must be in [%d, %d]", human, plainMinLen, plainMaxLen)
	}
	for _, c := range human {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return nil, fmt.Errorf("invalid address %q: must be lower case alphanumeric", human)
		}
	}
	return Address(human), nil
}

// Humanize implements Codec.
func (PlainCodec) Humanize(addr Address) (string, error) {
	if len(addr) < plainMinLen || len(addr) > plainMaxLen {
		return "", fmt.Errorf("invalid canonical address %v", addr)
	}
	return string(addr), nil
}

// HexCodec accepts 20-byte hex addresses, with or without 0x prefix and in any case.
type HexCodec struct{}

// Canonicalize implements Codec.
func (HexCodec) Canonicalize(human string) (Address, error) {
	if !common.IsHexAddress(human) {
		return nil, fmt.Errorf("invalid address %q", human)
	}
	return common.HexToAddress(strings.ToLower(human)).Bytes(), nil
}

// Humanize implements Codec.
func (HexCodec) Humanize(addr Address) (string, error) {
	if len(addr) != common.AddressLength {
		return "", fmt.Errorf("invalid canonical address %v", addr)
	}
	return common.BytesToAddress(addr).Hex(), nil
}
