// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lpstaking/decimal"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/reverts"
)

// Position is the stake of one staker in one pool.
type Position struct {
	NativeToken bool
	// pool index the position was last settled against
	Index      decimal.Decimal
	BondAmount *uint256.Int
	// settled, not yet split into reward assets
	PendingReward *uint256.Int
	// split, not yet paid
	PendingWithdraw []asset.Asset
}

// New creates an empty position in the pool of the given asset.
func New(info asset.Info) *Position {
	return &Position{
		NativeToken:   info.IsNative(),
		BondAmount:    new(uint256.Int),
		PendingReward: new(uint256.Int),
	}
}

// IsEmpty returns whether the position holds nothing and can be removed.
func (p *Position) IsEmpty() bool {
	return p.BondAmount.IsZero() && p.PendingReward.IsZero() && len(p.PendingWithdraw) == 0
}

// Settle moves the reward accrued since the last settlement into PendingReward:
//
//	delta = floor(bond * index) - floor(bond * p.Index)
func (p *Position) Settle(index decimal.Decimal) error {
	if index.Cmp(p.Index) < 0 {
		return reverts.Newf(reverts.ArithmeticInvariantViolation, "index %v below position index %v", index, p.Index)
	}
	accrued, err := index.MulFloor(p.BondAmount)
	if err != nil {
		return reverts.New(reverts.ArithmeticInvariantViolation, "accrued reward overflow")
	}
	settled, err := p.Index.MulFloor(p.BondAmount)
	if err != nil {
		return reverts.New(reverts.ArithmeticInvariantViolation, "settled reward overflow")
	}
	delta := new(uint256.Int).Sub(accrued, settled)

	pending, overflow := new(uint256.Int).AddOverflow(p.PendingReward, delta)
	if overflow {
		return reverts.New(reverts.ArithmeticInvariantViolation, "pending reward overflow")
	}
	p.PendingReward = pending
	p.Index = index
	return nil
}

// Bond adds amount to the bond.
func (p *Position) Bond(amount *uint256.Int) error {
	bond, overflow := new(uint256.Int).AddOverflow(p.BondAmount, amount)
	if overflow {
		return reverts.New(reverts.ArithmeticInvariantViolation, "bond amount overflow")
	}
	p.BondAmount = bond
	return nil
}

// Unbond subtracts amount from the bond.
func (p *Position) Unbond(amount *uint256.Int) error {
	if amount.Gt(p.BondAmount) {
		return reverts.Newf(reverts.InsufficientBondAmount, "cannot unbond %v, bonded %v", amount, p.BondAmount)
	}
	p.BondAmount = new(uint256.Int).Sub(p.BondAmount, amount)
	return nil
}

// AddWithdraw merges amount into the pending withdraw of the reward asset.
func (p *Position) AddWithdraw(info asset.Info, amount *uint256.Int) error {
	merged, err := asset.Merge(p.PendingWithdraw, info, amount)
	if err != nil {
		return err
	}
	p.PendingWithdraw = merged
	return nil
}

// DrainWithdraw empties and returns the pending withdraw.
func (p *Position) DrainWithdraw() []asset.Asset {
	drained := p.PendingWithdraw
	p.PendingWithdraw = nil
	return drained
}
