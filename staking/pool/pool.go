// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/decimal"
	"github.com/vechain/lpstaking/staking/reverts"
)

// Migration is the state frozen when the pool's staking token was replaced.
type Migration struct {
	IndexSnapshot          decimal.Decimal
	DeprecatedStakingToken address.Address
}

// Pool is the aggregate staking state of one asset.
type Pool struct {
	StakingToken    address.Address
	TotalBondAmount *uint256.Int
	RewardIndex     decimal.Decimal
	PendingReward   *uint256.Int // received while nothing was bonded
	Migration       *Migration   `rlp:"nil"`
}

// New creates an empty pool.
func New(stakingToken address.Address) *Pool {
	return &Pool{
		StakingToken:    stakingToken,
		TotalBondAmount: new(uint256.Int),
		PendingReward:   new(uint256.Int),
	}
}

// IsMigrated returns whether the staking token was ever deprecated.
func (p *Pool) IsMigrated() bool {
	return p.Migration != nil
}

// Bond adds amount to the total bond.
func (p *Pool) Bond(amount *uint256.Int) error {
	total, overflow := new(uint256.Int).AddOverflow(p.TotalBondAmount, amount)
	if overflow {
		return reverts.New(reverts.ArithmeticInvariantViolation, "total bond amount overflow")
	}
	p.TotalBondAmount = total
	return nil
}

// Unbond subtracts amount from the total bond.
func (p *Pool) Unbond(amount *uint256.Int) error {
	total, underflow := new(uint256.Int).SubOverflow(p.TotalBondAmount, amount)
	if underflow {
		return reverts.New(reverts.ArithmeticInvariantViolation, "total bond amount underflow")
	}
	p.TotalBondAmount = total
	return nil
}
