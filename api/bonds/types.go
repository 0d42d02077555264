// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bonds

import "github.com/ethereum/go-ethereum/common/math"

type BondRequest struct {
	Staker string                `json:"staker"`
	Asset  string                `json:"asset"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// ReceiveRequest is a bond delivered by a transfer of the staking token, Sender.
type ReceiveRequest struct {
	Sender string                `json:"sender"`
	Staker string                `json:"staker"`
	Asset  string                `json:"asset"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type UnbondRequest struct {
	Staker string                `json:"staker"`
	Asset  string                `json:"asset"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}
