// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

type Key interface {
	Bytes() []byte
}

// BytesKey is a raw byte key.
type BytesKey []byte

func (k BytesKey) Bytes() []byte { return k }

// Join builds a composite key. The head part is length prefixed so that all
// keys sharing the same head form one contiguous range, see HeadPrefix.
// The head must be shorter than 256 bytes.
func Join(head, tail []byte) BytesKey {
	k := make([]byte, 0, 1+len(head)+len(tail))
	k = append(k, byte(len(head)))
	k = append(k, head...)
	return append(k, tail...)
}

// HeadPrefix returns the key prefix shared by all composite keys with the given head.
func HeadPrefix(head []byte) []byte {
	return Join(head, nil)
}
