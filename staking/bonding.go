// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/position"
	"github.com/vechain/lpstaking/staking/reverts"
)

// Bond increases the staker's bond in the pool of the asset.
func (s *Staking) Bond(staker address.Address, info asset.Info, amount *uint256.Int) error {
	logger.Debug("bonding", "staker", staker, "asset", info, "amount", amount)

	if err := s.bond(staker, info, amount); err != nil {
		logger.Info("bond failed", "staker", staker, "asset", info, "error", err)
		return err
	}

	s.emit(&Event{Action: ActionBond, Sender: staker, Staker: staker, Asset: infoPtr(info), Amount: amount.Clone()})
	logger.Info("bonded", "staker", staker, "asset", info, "amount", amount)
	return nil
}

// ReceiveBond bonds principal delivered by a staking token transfer. The sender
// must be the current staking token of the pool.
func (s *Staking) ReceiveBond(sender, staker address.Address, info asset.Info, amount *uint256.Int) error {
	p, err := s.poolService.MustGet(info)
	if err != nil {
		return err
	}
	if !p.StakingToken.Equal(sender) {
		return reverts.Newf(reverts.Unauthorized, "sender is not the staking token of %v", info)
	}
	return s.Bond(staker, info, amount)
}

func (s *Staking) bond(staker address.Address, info asset.Info, amount *uint256.Int) error {
	if staker.IsEmpty() {
		return reverts.New(reverts.InvalidInput, "empty staker")
	}
	if amount == nil || amount.IsZero() {
		return reverts.New(reverts.InvalidInput, "amount must be positive")
	}
	p, err := s.poolService.MustGet(info)
	if err != nil {
		return err
	}
	pos, err := s.positionService.Get(staker, info)
	if err != nil {
		return err
	}
	if pos == nil {
		pos = position.New(info)
	}

	if p.IsMigrated() {
		migrated, err := s.migrationService.IsMigrated(info, staker)
		if err != nil {
			return err
		}
		if !migrated {
			if !pos.BondAmount.IsZero() {
				return reverts.New(reverts.PositionLocked,
					"the staking token of this asset has been deprecated, unbond the deprecated tokens to migrate the position")
			}
			// a fresh position accrues against the live index
			if err := s.migrationService.MarkMigrated(info, staker); err != nil {
				return err
			}
		}
	}

	if err := pos.Settle(p.RewardIndex); err != nil {
		return err
	}
	if err := p.Bond(amount); err != nil {
		return err
	}
	if err := pos.Bond(amount); err != nil {
		return err
	}

	if err := s.positionService.Save(staker, info, pos); err != nil {
		return err
	}
	if err := s.poolService.Save(info, p); err != nil {
		return err
	}
	return s.positionService.AddStaker(info, staker)
}

// Unbond decreases the staker's bond and returns the principal transfer. When the
// position closes, its pending withdraw is paid out as well.
func (s *Staking) Unbond(staker address.Address, info asset.Info, amount *uint256.Int) (*UnbondResult, error) {
	logger.Debug("unbonding", "staker", staker, "asset", info, "amount", amount)

	result, err := s.unbond(staker, info, amount)
	if err != nil {
		logger.Info("unbond failed", "staker", staker, "asset", info, "error", err)
		return nil, err
	}

	s.emit(&Event{
		Action:   ActionUnbond,
		Sender:   staker,
		Staker:   staker,
		Asset:    infoPtr(info),
		Amount:   amount.Clone(),
		Payments: append([]Payment{result.Transfer}, result.RewardPayments...),
	})
	logger.Info("unbonded", "staker", staker, "asset", info, "amount", amount, "rewardPayments", len(result.RewardPayments))
	return result, nil
}

func (s *Staking) unbond(staker address.Address, info asset.Info, amount *uint256.Int) (*UnbondResult, error) {
	if amount == nil || amount.IsZero() {
		return nil, reverts.New(reverts.InvalidInput, "amount must be positive")
	}
	p, err := s.poolService.MustGet(info)
	if err != nil {
		return nil, err
	}
	pos, err := s.positionService.Get(staker, info)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, reverts.Newf(reverts.NotFound, "no position of %v in %v", staker, info)
	}
	if amount.Gt(pos.BondAmount) {
		return nil, reverts.Newf(reverts.InsufficientBondAmount, "cannot unbond %v, bonded %v", amount, pos.BondAmount)
	}

	eff, err := s.migrationService.Resolve(p, info, staker)
	if err != nil {
		return nil, err
	}
	if err := pos.Settle(eff.Index); err != nil {
		return nil, err
	}

	// legacy positions are no longer part of the live total
	if !eff.Legacy {
		if err := p.Unbond(amount); err != nil {
			return nil, err
		}
	}
	if err := pos.Unbond(amount); err != nil {
		return nil, err
	}
	if eff.Legacy && pos.BondAmount.IsZero() {
		if err := s.migrationService.MarkMigrated(info, staker); err != nil {
			return nil, err
		}
	}

	var rewards []Payment
	if pos.BondAmount.IsZero() && pos.PendingReward.IsZero() {
		rewards = toPayments(staker, pos.DrainWithdraw())
		s.positionService.Remove(staker, info)
	} else if err := s.positionService.Save(staker, info, pos); err != nil {
		return nil, err
	}
	if err := s.poolService.Save(info, p); err != nil {
		return nil, err
	}

	return &UnbondResult{
		Transfer: Payment{
			Recipient: staker,
			Info:      asset.TokenInfo(eff.StakingToken),
			Amount:    amount.Clone(),
		},
		RewardPayments: rewards,
	}, nil
}
