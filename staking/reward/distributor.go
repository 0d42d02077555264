// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lpstaking/decimal"
	"github.com/vechain/lpstaking/staking/pool"
	"github.com/vechain/lpstaking/staking/position"
	"github.com/vechain/lpstaking/staking/reverts"
)

// Deposit folds amount into the pool's reward index. While nothing is bonded the
// amount is carried in PendingReward and released with the next deposit that
// finds a non-zero total bond.
//
// The division truncates, the remainder is lost.
func Deposit(p *pool.Pool, amount *uint256.Int) error {
	if p.TotalBondAmount.IsZero() {
		pending, overflow := new(uint256.Int).AddOverflow(p.PendingReward, amount)
		if overflow {
			return reverts.New(reverts.ArithmeticInvariantViolation, "pool pending reward overflow")
		}
		p.PendingReward = pending
		return nil
	}

	total, overflow := new(uint256.Int).AddOverflow(amount, p.PendingReward)
	if overflow {
		return reverts.New(reverts.ArithmeticInvariantViolation, "reward amount overflow")
	}
	increment, err := decimal.FromRatio(total, p.TotalBondAmount)
	if err != nil {
		return reverts.New(reverts.ArithmeticInvariantViolation, "reward per bond overflow")
	}
	index, err := p.RewardIndex.Add(increment)
	if err != nil {
		return reverts.New(reverts.ArithmeticInvariantViolation, "reward index overflow")
	}
	p.RewardIndex = index
	p.PendingReward = new(uint256.Int)
	return nil
}

// Convert splits the position's pending reward across the weight table:
//
//	share_i = floor(pending * w_i / sum(w))
//
// Zero weights and zero shares are skipped. With a zero total weight the reward
// stays pending.
func Convert(pos *position.Position, weights Weights) error {
	if pos.PendingReward.IsZero() {
		return nil
	}
	total, err := weights.Total()
	if err != nil {
		return err
	}
	if total.IsZero() {
		return nil
	}

	for _, rw := range weights {
		if rw.Weight.IsZero() {
			continue
		}
		// never overflows, share <= pending
		share, _ := new(uint256.Int).MulDivOverflow(pos.PendingReward, rw.Weight, total)
		if share.IsZero() {
			continue
		}
		if err := pos.AddWithdraw(rw.Info, share); err != nil {
			return err
		}
	}
	pos.PendingReward = new(uint256.Int)
	return nil
}
