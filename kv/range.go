// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded), empty means no limit
}

// PrefixRange returns the range covering all keys with the given prefix.
func PrefixRange(prefix []byte) Range {
	r := util.BytesPrefix(prefix)
	return Range{Start: r.Start, Limit: r.Limit}
}

// Contains reports whether the key falls in the range.
func (r Range) Contains(key []byte) bool {
	if bytes.Compare(key, r.Start) < 0 {
		return false
	}
	return len(r.Limit) == 0 || bytes.Compare(key, r.Limit) < 0
}

// After narrows the range to keys strictly greater than key.
func (r Range) After(key []byte) Range {
	// the smallest key greater than key is key+0x00
	start := append(append(make([]byte, 0, len(key)+1), key...), 0)
	if bytes.Compare(start, r.Start) > 0 {
		r.Start = start
	}
	return r
}

// Before narrows the range to keys strictly less than key.
func (r Range) Before(key []byte) Range {
	if len(r.Limit) == 0 || bytes.Compare(key, r.Limit) < 0 {
		r.Limit = append([]byte(nil), key...)
	}
	return r
}
