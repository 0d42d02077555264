// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/position"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/reward"
)

// DepositReward folds each reward into the index of the pool of its asset.
func (s *Staking) DepositReward(sender address.Address, rewards []asset.Asset) error {
	logger.Debug("depositing reward", "sender", sender, "entries", len(rewards))

	if err := s.requireRewarder(sender); err != nil {
		return err
	}

	total := new(uint256.Int)
	for _, r := range rewards {
		if r.Amount == nil {
			return reverts.Newf(reverts.InvalidInput, "missing amount of %v", r.Info)
		}
		p, err := s.poolService.MustGet(r.Info)
		if err != nil {
			return err
		}
		if err := reward.Deposit(p, r.Amount); err != nil {
			logger.Info("deposit reward failed", "asset", r.Info, "error", err)
			return err
		}
		if err := s.poolService.Save(r.Info, p); err != nil {
			return err
		}
		total.Add(total, r.Amount)

		s.emit(&Event{Action: ActionDepositReward, Sender: sender, Asset: infoPtr(r.Info), Amount: r.Amount.Clone()})
	}

	logger.Info("deposited reward", "entries", len(rewards), "amount", total)
	return nil
}

// WithdrawReward settles the staker's positions, all of them or the one of info,
// and pays out their pending withdraw.
func (s *Staking) WithdrawReward(staker address.Address, info *asset.Info) ([]Payment, error) {
	logger.Debug("withdrawing reward", "staker", staker, "asset", assetLabel(info))

	assets, err := s.process(staker, info, true)
	if err != nil {
		logger.Info("withdraw reward failed", "staker", staker, "error", err)
		return nil, err
	}
	payments := toPayments(staker, assets)

	s.emit(&Event{Action: ActionWithdrawReward, Sender: staker, Staker: staker, Asset: info, Payments: payments})
	logger.Info("withdrew reward", "staker", staker, "payments", len(payments))
	return payments, nil
}

// WithdrawRewardOthers settles the positions of the given stakers into their
// pending withdraw, without paying anything out.
func (s *Staking) WithdrawRewardOthers(sender address.Address, stakers []address.Address, info *asset.Info) error {
	logger.Debug("withdrawing reward for others", "sender", sender, "stakers", len(stakers), "asset", assetLabel(info))

	if err := s.requireOwner(sender); err != nil {
		return err
	}
	for _, staker := range stakers {
		if _, err := s.process(staker, info, false); err != nil {
			logger.Info("withdraw reward for others failed", "staker", staker, "error", err)
			return err
		}
	}

	s.emit(&Event{Action: ActionWithdrawRewardOthers, Sender: sender, Asset: info})
	logger.Info("withdrew reward for others", "stakers", len(stakers))
	return nil
}

type entry struct {
	info asset.Info
	pos  *position.Position
}

func (s *Staking) positionsOf(staker address.Address, info *asset.Info) ([]entry, error) {
	if info != nil {
		pos, err := s.positionService.Get(staker, *info)
		if err != nil {
			return nil, err
		}
		if pos == nil {
			return nil, nil
		}
		return []entry{{*info, pos}}, nil
	}

	var entries []entry
	if err := s.positionService.RangeByStaker(staker, func(info asset.Info, pos *position.Position) (bool, error) {
		entries = append(entries, entry{info, pos})
		return true, nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to list positions")
	}
	return entries, nil
}

// process settles and converts the staker's positions. With doWithdraw the pending
// withdraw of every position is drained into the returned list, merged per asset.
func (s *Staking) process(staker address.Address, info *asset.Info, doWithdraw bool) ([]asset.Asset, error) {
	entries, err := s.positionsOf(staker, info)
	if err != nil {
		return nil, err
	}

	var assets []asset.Asset
	for _, e := range entries {
		p, err := s.poolService.MustGet(e.info)
		if err != nil {
			return nil, err
		}
		eff, err := s.migrationService.Resolve(p, e.info, staker)
		if err != nil {
			return nil, err
		}
		if err := e.pos.Settle(eff.Index); err != nil {
			return nil, err
		}
		weights, err := s.rewardService.Weights(e.info)
		if err != nil {
			return nil, err
		}
		if err := reward.Convert(e.pos, weights); err != nil {
			return nil, err
		}

		if doWithdraw {
			for _, a := range e.pos.DrainWithdraw() {
				if assets, err = asset.Merge(assets, a.Info, a.Amount); err != nil {
					return nil, err
				}
			}
		}

		if e.pos.IsEmpty() {
			s.positionService.Remove(staker, e.info)
		} else if err := s.positionService.Save(staker, e.info, e.pos); err != nil {
			return nil, err
		}
	}
	return assets, nil
}
