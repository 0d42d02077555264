// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import "github.com/vechain/lpstaking/api/types"

type DepositRequest struct {
	Sender  string        `json:"sender"`
	Rewards []types.Asset `json:"rewards"`
}

// WithdrawRequest withdraws from the position of Asset, or all positions when empty.
type WithdrawRequest struct {
	Staker string `json:"staker"`
	Asset  string `json:"asset,omitempty"`
}

type WithdrawOthersRequest struct {
	Sender  string   `json:"sender"`
	Stakers []string `json:"stakers"`
	Asset   string   `json:"asset,omitempty"`
}
