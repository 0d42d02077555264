// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import "github.com/vechain/lpstaking/api/types"

type InstantiateRequest struct {
	Owner    string `json:"owner"`
	Rewarder string `json:"rewarder"`
}

// UpdateRequest changes the identities that are not empty.
type UpdateRequest struct {
	Sender   string `json:"sender"`
	Owner    string `json:"owner,omitempty"`
	Rewarder string `json:"rewarder,omitempty"`
}

type RegisterAssetRequest struct {
	Sender       string `json:"sender"`
	Asset        string `json:"asset"`
	StakingToken string `json:"stakingToken"`
}

type WeightsRequest struct {
	Sender  string         `json:"sender"`
	Asset   string         `json:"asset"`
	Weights []types.Weight `json:"weights"`
}

type DeprecateRequest struct {
	Sender          string `json:"sender"`
	Asset           string `json:"asset"`
	NewStakingToken string `json:"newStakingToken"`
}

type StakersRequest struct {
	Sender  string   `json:"sender"`
	Asset   string   `json:"asset"`
	Stakers []string `json:"stakers"`
}
