// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	"fmt"

	"github.com/vechain/lpstaking/address"
)

// RandAddress returns a random 20-byte address, valid for the hex codec.
func RandAddress() address.Address {
	b := make([]byte, 20)
	rand.Read(b)
	return b
}

// RandPlainAddress returns a random address valid for the plain codec.
func RandPlainAddress() address.Address {
	return address.Address(fmt.Sprintf("addr%016x", RandInt()))
}
