// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/decimal"
	"github.com/vechain/lpstaking/staking/asset"
)

// Config holds the privileged identities.
type Config struct {
	Owner    address.Address // admin
	Rewarder address.Address // the only identity allowed to deposit rewards
}

// Payment is an instruction to transfer an asset. The caller builds the actual transfer.
type Payment struct {
	Recipient address.Address
	Info      asset.Info
	Amount    *uint256.Int
}

// UnbondResult is the outcome of an unbond: the principal return plus any
// reward paid out when the position closed.
type UnbondResult struct {
	Transfer       Payment
	RewardPayments []Payment
}

// Order is the staker ordering of paginated queries.
type Order int

const (
	Ascending  Order = 1
	Descending Order = 2
)

const (
	DefaultLimit uint32 = 10
	MaxLimit     uint32 = 30
)

// RewardInfo is the settled view of one position.
type RewardInfo struct {
	Info            asset.Info
	BondAmount      *uint256.Int
	PendingReward   *uint256.Int
	PendingWithdraw []asset.Asset
	ShouldMigrate   bool // the position is capped at the migration snapshot
}

// RewardInfoResponse lists the positions of a staker.
type RewardInfoResponse struct {
	Staker      address.Address
	RewardInfos []RewardInfo
}

// PoolInfoResponse is the state of a pool.
type PoolInfoResponse struct {
	Info                   asset.Info
	StakingToken           address.Address
	TotalBondAmount        *uint256.Int
	RewardIndex            decimal.Decimal
	PendingReward          *uint256.Int
	Migrated               bool
	IndexSnapshot          decimal.Decimal
	DeprecatedStakingToken address.Address
}

// Event records a completed action.
type Event struct {
	Action   string
	Sender   address.Address
	Staker   address.Address
	Asset    *asset.Info
	Amount   *uint256.Int
	Payments []Payment
}

// action names
const (
	ActionInstantiate          = "instantiate"
	ActionUpdateConfig         = "update_config"
	ActionRegisterAsset        = "register_asset"
	ActionUpdateRewardWeights  = "update_rewards_per_sec"
	ActionDeprecateToken       = "deprecate_staking_token"
	ActionUpdateListStakers    = "update_list_stakers"
	ActionBond                 = "bond"
	ActionUnbond               = "unbond"
	ActionDepositReward        = "deposit_reward"
	ActionWithdrawReward       = "withdraw_reward"
	ActionWithdrawRewardOthers = "withdraw_reward_others"
)
