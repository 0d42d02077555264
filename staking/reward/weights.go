// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/solidity"
)

const bucketWeights = "weights" // pool asset => weight table

// Weight is the share of one reward asset in a pool's reward split.
type Weight struct {
	Info   asset.Info
	Weight *uint256.Int
}

// Weights is a pool's weight table.
type Weights []Weight

// Total returns the sum of all weights.
func (w Weights) Total() (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, rw := range w {
		if _, overflow := total.AddOverflow(total, rw.Weight); overflow {
			return nil, reverts.New(reverts.ArithmeticInvariantViolation, "total weight overflow")
		}
	}
	return total, nil
}

// Validate rejects malformed assets and duplicated entries.
func (w Weights) Validate() error {
	for i, rw := range w {
		if err := rw.Info.Validate(); err != nil {
			return reverts.New(reverts.InvalidInput, err.Error())
		}
		if rw.Weight == nil {
			return reverts.Newf(reverts.InvalidInput, "missing weight of %v", rw.Info)
		}
		for _, prev := range w[:i] {
			if prev.Info.Equal(rw.Info) {
				return reverts.Newf(reverts.InvalidInput, "duplicated reward asset %v", rw.Info)
			}
		}
	}
	_, err := w.Total()
	return err
}

type Service struct {
	weights *solidity.Mapping[asset.Info, Weights]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		weights: solidity.NewMapping[asset.Info, Weights](sctx, bucketWeights),
	}
}

// Weights returns the weight table of the pool, empty if never set.
func (s *Service) Weights(info asset.Info) (Weights, error) {
	w, err := s.weights.Get(info)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward weights")
	}
	return w, nil
}

// SetWeights replaces the weight table of the pool.
func (s *Service) SetWeights(info asset.Info, w Weights) error {
	if err := s.weights.Upsert(info, w); err != nil {
		return errors.Wrap(err, "failed to set reward weights")
	}
	return nil
}
