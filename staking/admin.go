// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/migration"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/reward"
)

// Instantiate sets the initial config. It can only be done once.
func (s *Staking) Instantiate(owner, rewarder address.Address) error {
	logger.Debug("instantiating", "owner", owner, "rewarder", rewarder)

	if owner.IsEmpty() || rewarder.IsEmpty() {
		return reverts.New(reverts.InvalidInput, "owner and rewarder are required")
	}
	existing, err := s.config.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get config")
	}
	if existing != nil {
		return reverts.New(reverts.AlreadyExists, "config already instantiated")
	}
	if err := s.config.Upsert(&Config{Owner: owner, Rewarder: rewarder}); err != nil {
		return errors.Wrap(err, "failed to set config")
	}

	s.emit(&Event{Action: ActionInstantiate, Sender: owner})
	logger.Info("instantiated", "owner", owner)
	return nil
}

// UpdateConfig replaces the owner and/or the rewarder. Empty addresses are left unchanged.
func (s *Staking) UpdateConfig(sender, owner, rewarder address.Address) error {
	logger.Debug("updating config", "sender", sender, "owner", owner, "rewarder", rewarder)

	if err := s.requireOwner(sender); err != nil {
		return err
	}
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if !owner.IsEmpty() {
		cfg.Owner = owner
	}
	if !rewarder.IsEmpty() {
		cfg.Rewarder = rewarder
	}
	if err := s.config.Upsert(cfg); err != nil {
		return errors.Wrap(err, "failed to set config")
	}

	s.emit(&Event{Action: ActionUpdateConfig, Sender: sender})
	logger.Info("updated config", "owner", cfg.Owner, "rewarder", cfg.Rewarder)
	return nil
}

// RegisterAsset creates the pool of an asset.
func (s *Staking) RegisterAsset(sender address.Address, info asset.Info, stakingToken address.Address) error {
	logger.Debug("registering asset", "sender", sender, "asset", info, "stakingToken", stakingToken)

	if err := s.requireOwner(sender); err != nil {
		return err
	}
	if err := info.Validate(); err != nil {
		return reverts.New(reverts.InvalidInput, err.Error())
	}
	if stakingToken.IsEmpty() {
		return reverts.New(reverts.InvalidInput, "staking token is required")
	}
	if _, err := s.poolService.Register(info, stakingToken); err != nil {
		logger.Info("register asset failed", "asset", info, "error", err)
		return err
	}

	s.emit(&Event{Action: ActionRegisterAsset, Sender: sender, Asset: infoPtr(info)})
	logger.Info("registered asset", "asset", info)
	return nil
}

// UpdateRewardWeights replaces the weight table of a pool. The reward accrued by
// every staker of the pool so far is split with the current table first.
func (s *Staking) UpdateRewardWeights(sender address.Address, info asset.Info, weights reward.Weights) error {
	logger.Debug("updating reward weights", "sender", sender, "asset", info, "entries", len(weights))

	if err := s.requireOwner(sender); err != nil {
		return err
	}
	if err := info.Validate(); err != nil {
		return reverts.New(reverts.InvalidInput, err.Error())
	}
	if _, err := s.poolService.MustGet(info); err != nil {
		return err
	}
	if err := weights.Validate(); err != nil {
		return err
	}

	// the iteration must not see the writes of process
	var stakers []address.Address
	if err := s.positionService.RangeStakers(info, nil, false, func(staker address.Address) (bool, error) {
		stakers = append(stakers, staker)
		return true, nil
	}); err != nil {
		return errors.Wrap(err, "failed to list stakers")
	}
	for _, staker := range stakers {
		if _, err := s.process(staker, &info, false); err != nil {
			logger.Info("update reward weights failed", "asset", info, "staker", staker, "error", err)
			return err
		}
	}

	if err := s.rewardService.SetWeights(info, weights); err != nil {
		return err
	}

	s.emit(&Event{Action: ActionUpdateRewardWeights, Sender: sender, Asset: infoPtr(info)})
	logger.Info("updated reward weights", "asset", info, "settledStakers", len(stakers))
	return nil
}

// DeprecateStakingToken migrates the pool to a new staking token.
func (s *Staking) DeprecateStakingToken(sender address.Address, info asset.Info, newStakingToken address.Address) error {
	logger.Debug("deprecating staking token", "sender", sender, "asset", info, "newStakingToken", newStakingToken)

	if err := s.requireOwner(sender); err != nil {
		return err
	}
	if newStakingToken.IsEmpty() {
		return reverts.New(reverts.InvalidInput, "new staking token is required")
	}
	p, err := s.poolService.MustGet(info)
	if err != nil {
		return err
	}
	if err := migration.Migrate(p, newStakingToken); err != nil {
		logger.Info("deprecate staking token failed", "asset", info, "error", err)
		return err
	}
	if err := s.poolService.Save(info, p); err != nil {
		return err
	}

	s.emit(&Event{Action: ActionDeprecateToken, Sender: sender, Asset: infoPtr(info)})
	logger.Info("deprecated staking token", "asset", info,
		"indexSnapshot", p.Migration.IndexSnapshot, "deprecated", p.Migration.DeprecatedStakingToken)
	return nil
}

// UpdateListStakers adds identities to the staker set of a pool.
func (s *Staking) UpdateListStakers(sender address.Address, info asset.Info, stakers []address.Address) error {
	logger.Debug("updating list stakers", "sender", sender, "asset", info, "count", len(stakers))

	if err := s.requireOwner(sender); err != nil {
		return err
	}
	if err := info.Validate(); err != nil {
		return reverts.New(reverts.InvalidInput, err.Error())
	}
	for _, staker := range stakers {
		if staker.IsEmpty() {
			return reverts.New(reverts.InvalidInput, "empty staker")
		}
		if err := s.positionService.AddStaker(info, staker); err != nil {
			return err
		}
	}

	s.emit(&Event{Action: ActionUpdateListStakers, Sender: sender, Asset: infoPtr(info)})
	logger.Info("updated list stakers", "asset", info, "count", len(stakers))
	return nil
}
