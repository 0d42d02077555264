// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/kv"
	"github.com/vechain/lpstaking/staking/gascharger"
)

// Mapping is a key/value storage abstraction, similar to the mapping in Solidity,
// with values RLP encoded under a bucket prefix. Unlike Solidity mappings,
// entries can be ranged over in key order.
type Mapping[K Key, V any] struct {
	context *Context
	prefix  []byte
}

func NewMapping[K Key, V any](context *Context, prefix string) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, prefix: []byte(prefix + "/")}
}

func (m *Mapping[K, V]) storageKey(key []byte) []byte {
	k := make([]byte, 0, len(m.prefix)+len(key))
	return append(append(k, m.prefix...), key...)
}

// Get returns the value for the key, the zero value of V if absent.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	raw, err := m.context.state.Get(m.storageKey(key.Bytes()))
	if err != nil {
		return value, err
	}
	if len(raw) == 0 {
		return value, nil
	}
	m.context.UseGas(toWordSize(len(raw)) * gascharger.SloadGas)
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, errors.Wrap(err, "decode storage value")
	}
	return value, nil
}

// Exists returns whether the key is present.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	m.context.UseGas(gascharger.SloadGas)
	return m.context.state.Has(m.storageKey(key.Bytes()))
}

// Upsert writes the value, charging set gas for a new key and reset gas otherwise.
func (m *Mapping[K, V]) Upsert(key K, value V) error {
	sk := m.storageKey(key.Bytes())
	exists, err := m.context.state.Has(sk)
	if err != nil {
		return err
	}
	val, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode storage value")
	}
	if exists {
		m.context.UseGas(toWordSize(len(val)) * gascharger.SstoreResetGas)
	} else {
		m.context.UseGas(toWordSize(len(val)) * gascharger.SstoreSetGas)
	}
	m.context.state.Put(sk, val)
	return nil
}

// Delete removes the key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.UseGas(gascharger.SstoreResetGas)
	m.context.state.Delete(m.storageKey(key.Bytes()))
}

// Range walks entries in r, ascending or descending, until fn returns false.
// Both r and the key passed to fn are relative to the mapping.
func (m *Mapping[K, V]) Range(r kv.Range, reverse bool, fn func(key []byte, value V) (bool, error)) error {
	var full kv.Range
	if len(r.Limit) == 0 {
		full = kv.PrefixRange(m.prefix)
	} else {
		full.Limit = m.storageKey(r.Limit)
	}
	full.Start = m.storageKey(r.Start)

	return m.context.state.Iterate(full, reverse, func(key, raw []byte) (bool, error) {
		m.context.UseGas(toWordSize(len(raw)) * gascharger.SloadGas)
		var value V
		if err := rlp.DecodeBytes(raw, &value); err != nil {
			return false, errors.Wrap(err, "decode storage value")
		}
		return fn(key[len(m.prefix):], value)
	})
}
