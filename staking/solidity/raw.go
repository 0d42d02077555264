// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

// Raw is a single storage value.
type Raw[V any] struct {
	mapping *Mapping[BytesKey, V]
}

func NewRaw[V any](context *Context, name string) *Raw[V] {
	return &Raw[V]{mapping: NewMapping[BytesKey, V](context, name)}
}

func (r *Raw[V]) Get() (V, error) {
	return r.mapping.Get(nil)
}

func (r *Raw[V]) Upsert(value V) error {
	return r.mapping.Upsert(nil, value)
}
