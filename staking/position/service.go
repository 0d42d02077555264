// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/kv"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/solidity"
)

const (
	bucketRewards = "rewards" // staker, asset => position
	bucketStakers = "stakers" // asset, staker => membership
)

// Service stores positions and the per pool staker sets.
type Service struct {
	positions *solidity.Mapping[solidity.BytesKey, *Position]
	stakers   *solidity.Mapping[solidity.BytesKey, bool]
}

func NewService(sctx *solidity.Context) *Service {
	return &Service{
		positions: solidity.NewMapping[solidity.BytesKey, *Position](sctx, bucketRewards),
		stakers:   solidity.NewMapping[solidity.BytesKey, bool](sctx, bucketStakers),
	}
}

func positionKey(staker address.Address, info asset.Info) solidity.BytesKey {
	return solidity.Join(staker, info.Key())
}

func stakerKey(info asset.Info, staker address.Address) solidity.BytesKey {
	return solidity.Join(info.Key(), staker)
}

// Get returns the position, nil if absent.
func (s *Service) Get(staker address.Address, info asset.Info) (*Position, error) {
	p, err := s.positions.Get(positionKey(staker, info))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	return p, nil
}

func (s *Service) Save(staker address.Address, info asset.Info, p *Position) error {
	if err := s.positions.Upsert(positionKey(staker, info), p); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}

// Remove deletes the position and the staker's membership of the pool.
func (s *Service) Remove(staker address.Address, info asset.Info) {
	s.positions.Delete(positionKey(staker, info))
	s.stakers.Delete(stakerKey(info, staker))
}

// RangeByStaker walks all positions of the staker in asset key order.
func (s *Service) RangeByStaker(staker address.Address, fn func(info asset.Info, p *Position) (bool, error)) error {
	head := solidity.HeadPrefix(staker)
	return s.positions.Range(kv.PrefixRange(head), false, func(key []byte, p *Position) (bool, error) {
		info, err := asset.FromKey(key[len(head):])
		if err != nil {
			return false, err
		}
		return fn(info, p)
	})
}

// AddStaker adds the staker to the pool's staker set, if absent.
func (s *Service) AddStaker(info asset.Info, staker address.Address) error {
	key := stakerKey(info, staker)
	exists, err := s.stakers.Exists(key)
	if err != nil {
		return errors.Wrap(err, "failed to get staker")
	}
	if exists {
		return nil
	}
	if err := s.stakers.Upsert(key, true); err != nil {
		return errors.Wrap(err, "failed to set staker")
	}
	return nil
}

// HasStaker returns whether the staker is in the pool's staker set.
func (s *Service) HasStaker(info asset.Info, staker address.Address) (bool, error) {
	return s.stakers.Exists(stakerKey(info, staker))
}

// RangeStakers walks the pool's stakers ordered by identity. A non-empty cursor
// excludes itself and every staker before it (after it when reverse).
func (s *Service) RangeStakers(
	info asset.Info,
	cursor address.Address,
	reverse bool,
	fn func(staker address.Address) (bool, error),
) error {
	head := solidity.HeadPrefix(info.Key())
	r := kv.PrefixRange(head)
	if len(cursor) > 0 {
		if reverse {
			r = r.Before(stakerKey(info, cursor))
		} else {
			r = r.After(stakerKey(info, cursor))
		}
	}
	return s.stakers.Range(r, reverse, func(key []byte, _ bool) (bool, error) {
		return fn(address.Address(append([]byte(nil), key[len(head):]...)))
	})
}
