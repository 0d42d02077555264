// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/staking/reverts"
)

// Kind is the asset kind.
type Kind uint8

const (
	Native Kind = iota + 1 // chain native denomination
	Token                  // contract token
)

const (
	keyNative byte = 'n'
	keyToken  byte = 't'

	maxDenomLen    = 128
	maxContractLen = 64

	prefixNative = "native:"
	prefixToken  = "token:"
)

// Info identifies an asset.
type Info struct {
	Kind     Kind
	Denom    string          // set when Kind is Native
	Contract address.Address // set when Kind is Token
}

func NativeInfo(denom string) Info {
	return Info{Kind: Native, Denom: denom}
}

func TokenInfo(contract address.Address) Info {
	return Info{Kind: Token, Contract: contract}
}

func (i Info) IsNative() bool {
	return i.Kind == Native
}

// Validate checks the identity is well formed.
func (i Info) Validate() error {
	switch i.Kind {
	case Native:
		if len(i.Denom) == 0 || len(i.Denom) > maxDenomLen {
			return fmt.Errorf("invalid denom %q", i.Denom)
		}
		return nil
	case Token:
		if len(i.Contract) == 0 || len(i.Contract) > maxContractLen {
			return fmt.Errorf("invalid contract %v", i.Contract)
		}
		return nil
	}
	return fmt.Errorf("invalid asset kind %d", i.Kind)
}

// Key returns the storage key of the asset.
func (i Info) Key() []byte {
	if i.IsNative() {
		return append([]byte{keyNative}, i.Denom...)
	}
	return append([]byte{keyToken}, i.Contract...)
}

// Bytes implements solidity.Key.
func (i Info) Bytes() []byte {
	return i.Key()
}

// FromKey decodes the storage key back to asset info.
func FromKey(key []byte) (Info, error) {
	if len(key) < 2 {
		return Info{}, fmt.Errorf("invalid asset key %x", key)
	}
	switch key[0] {
	case keyNative:
		return NativeInfo(string(key[1:])), nil
	case keyToken:
		return TokenInfo(address.Address(append([]byte(nil), key[1:]...))), nil
	}
	return Info{}, fmt.Errorf("invalid asset key %x", key)
}

func (i Info) Equal(o Info) bool {
	if i.Kind != o.Kind {
		return false
	}
	if i.IsNative() {
		return i.Denom == o.Denom
	}
	return i.Contract.Equal(o.Contract)
}

func (i Info) String() string {
	if i.IsNative() {
		return prefixNative + i.Denom
	}
	return prefixToken + i.Contract.String()
}

// Format returns the human readable form, "native:<denom>" or "token:<address>".
func (i Info) Format(codec address.Codec) (string, error) {
	if i.IsNative() {
		return prefixNative + i.Denom, nil
	}
	human, err := codec.Humanize(i.Contract)
	if err != nil {
		return "", err
	}
	return prefixToken + human, nil
}

// Parse parses the human readable form produced by Format.
func Parse(s string, codec address.Codec) (Info, error) {
	var info Info
	switch {
	case strings.HasPrefix(s, prefixNative):
		info = NativeInfo(strings.TrimPrefix(s, prefixNative))
	case strings.HasPrefix(s, prefixToken):
		addr, err := codec.Canonicalize(strings.TrimPrefix(s, prefixToken))
		if err != nil {
			return Info{}, err
		}
		info = TokenInfo(addr)
	default:
		return Info{}, fmt.Errorf("invalid asset %q: expect native:<denom> or token:<address>", s)
	}
	if err := info.Validate(); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Asset is an amount of an asset.
type Asset struct {
	Info   Info
	Amount *uint256.Int
}

// Merge adds amount of info into the list, appending a new entry if the asset is absent.
// Entries keep first-insertion order. The list is unchanged on overflow.
func Merge(list []Asset, info Info, amount *uint256.Int) ([]Asset, error) {
	for i := range list {
		if list[i].Info.Equal(info) {
			sum, overflow := new(uint256.Int).AddOverflow(list[i].Amount, amount)
			if overflow {
				return list, reverts.Newf(reverts.ArithmeticInvariantViolation, "amount of %v overflow", info)
			}
			list[i].Amount = sum
			return list, nil
		}
	}
	return append(list, Asset{Info: info, Amount: amount.Clone()}), nil
}
