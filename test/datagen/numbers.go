// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	mathrand "math/rand"

	"github.com/holiman/uint256"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.Intn(n) //#nosec G404
}

// RandAmount returns an amount in [1, max].
func RandAmount(max uint64) *uint256.Int {
	return uint256.NewInt(uint64(mathrand.Int63n(int64(max))) + 1) //#nosec G404
}
