// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/pool"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/reward"
)

//
// Getters - no state change
//

// QueryConfig returns the config.
func (s *Staking) QueryConfig() (*Config, error) {
	return s.loadConfig()
}

// QueryPoolInfo returns the state of the pool of the asset.
func (s *Staking) QueryPoolInfo(info asset.Info) (*PoolInfoResponse, error) {
	p, err := s.poolService.MustGet(info)
	if err != nil {
		return nil, err
	}
	return newPoolInfoResponse(info, p), nil
}

// Pools returns the state of all pools in asset key order.
func (s *Staking) Pools() ([]*PoolInfoResponse, error) {
	var pools []*PoolInfoResponse
	if err := s.poolService.Range(func(info asset.Info, p *pool.Pool) (bool, error) {
		pools = append(pools, newPoolInfoResponse(info, p))
		return true, nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to list pools")
	}
	return pools, nil
}

func newPoolInfoResponse(info asset.Info, p *pool.Pool) *PoolInfoResponse {
	resp := &PoolInfoResponse{
		Info:            info,
		StakingToken:    p.StakingToken,
		TotalBondAmount: p.TotalBondAmount,
		RewardIndex:     p.RewardIndex,
		PendingReward:   p.PendingReward,
	}
	if p.Migration != nil {
		resp.Migrated = true
		resp.IndexSnapshot = p.Migration.IndexSnapshot
		resp.DeprecatedStakingToken = p.Migration.DeprecatedStakingToken
	}
	return resp
}

// QueryRewardWeights returns the weight table of the pool of the asset.
func (s *Staking) QueryRewardWeights(info asset.Info) (reward.Weights, error) {
	return s.rewardService.Weights(info)
}

// QueryRewardInfo returns the staker's positions, all of them or the one of info,
// as if settled now. Nothing is written.
func (s *Staking) QueryRewardInfo(staker address.Address, info *asset.Info) (*RewardInfoResponse, error) {
	entries, err := s.positionsOf(staker, info)
	if err != nil {
		return nil, err
	}

	resp := &RewardInfoResponse{Staker: staker, RewardInfos: []RewardInfo{}}
	for _, e := range entries {
		p, err := s.poolService.MustGet(e.info)
		if err != nil {
			return nil, err
		}
		eff, err := s.migrationService.Resolve(p, e.info, staker)
		if err != nil {
			return nil, err
		}
		// settles the decoded copy only
		if err := e.pos.Settle(eff.Index); err != nil {
			return nil, err
		}
		resp.RewardInfos = append(resp.RewardInfos, RewardInfo{
			Info:            e.info,
			BondAmount:      e.pos.BondAmount,
			PendingReward:   e.pos.PendingReward,
			PendingWithdraw: e.pos.PendingWithdraw,
			ShouldMigrate:   eff.Legacy,
		})
	}
	return resp, nil
}

// QueryAllRewardInfos pages through the stakers of the pool ordered by identity,
// starting after the exclusive cursor startAfter. A zero limit means DefaultLimit,
// and limits above MaxLimit are capped.
func (s *Staking) QueryAllRewardInfos(
	info asset.Info,
	startAfter address.Address,
	limit uint32,
	order Order,
) ([]*RewardInfoResponse, error) {
	var reverse bool
	switch order {
	case 0, Ascending:
	case Descending:
		reverse = true
	default:
		return nil, reverts.Newf(reverts.InvalidInput, "invalid order %d", order)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	var stakers []address.Address
	if err := s.positionService.RangeStakers(info, startAfter, reverse, func(staker address.Address) (bool, error) {
		stakers = append(stakers, staker)
		return uint32(len(stakers)) < limit, nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to list stakers")
	}

	responses := make([]*RewardInfoResponse, 0, len(stakers))
	for _, staker := range stakers {
		resp, err := s.QueryRewardInfo(staker, &info)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
