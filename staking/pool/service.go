// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/kv"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/solidity"
)

const bucketPools = "pool"

type Service struct {
	pools *solidity.Mapping[asset.Info, *Pool]
}

func NewService(sctx *solidity.Context) *Service {
	return &Service{
		pools: solidity.NewMapping[asset.Info, *Pool](sctx, bucketPools),
	}
}

// Get returns the pool of the asset, nil if not registered.
func (s *Service) Get(info asset.Info) (*Pool, error) {
	p, err := s.pools.Get(info)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	return p, nil
}

// MustGet is like Get but reverts when the pool is not registered.
func (s *Service) MustGet(info asset.Info) (*Pool, error) {
	p, err := s.Get(info)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, reverts.Newf(reverts.NotFound, "pool %v", info)
	}
	return p, nil
}

// Register creates the pool with a zero index.
func (s *Service) Register(info asset.Info, stakingToken address.Address) (*Pool, error) {
	existing, err := s.Get(info)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reverts.Newf(reverts.AlreadyExists, "pool %v", info)
	}
	p := New(stakingToken)
	if err := s.Save(info, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Save(info asset.Info, p *Pool) error {
	if err := s.pools.Upsert(info, p); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	return nil
}

// Range walks all pools in asset key order.
func (s *Service) Range(fn func(info asset.Info, p *Pool) (bool, error)) error {
	return s.pools.Range(kv.Range{}, false, func(key []byte, p *Pool) (bool, error) {
		info, err := asset.FromKey(key)
		if err != nil {
			return false, err
		}
		return fn(info, p)
	})
}
