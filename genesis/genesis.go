// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/log"
	"github.com/vechain/lpstaking/runtime"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/reward"
)

var logger = log.WithContext("pkg", "genesis")

// ActionGenesis names the action that applies a genesis.
const ActionGenesis = "genesis"

// Genesis is the initial config and pools. Addresses are in the human form of
// the address codec, assets in the "native:<denom>" or "token:<address>" form.
type Genesis struct {
	Owner    string `yaml:"owner"`
	Rewarder string `yaml:"rewarder"`
	Pools    []Pool `yaml:"pools"`
}

type Pool struct {
	Asset        string   `yaml:"asset"`
	StakingToken string   `yaml:"stakingToken"`
	Weights      []Weight `yaml:"weights"`
}

type Weight struct {
	Asset  string `yaml:"asset"`
	Weight string `yaml:"weight"` // decimal or 0x prefixed hex
}

// Load reads a genesis from a yaml file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes a yaml genesis.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// Build converts the genesis into the staking calls that set it up.
func (g *Genesis) Build(codec address.Codec) (func(s *staking.Staking) error, error) {
	owner, err := codec.Canonicalize(g.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	rewarder, err := codec.Canonicalize(g.Rewarder)
	if err != nil {
		return nil, errors.Wrap(err, "rewarder")
	}

	type pool struct {
		info         asset.Info
		stakingToken address.Address
		weights      reward.Weights
	}
	pools := make([]pool, 0, len(g.Pools))
	for i, p := range g.Pools {
		info, err := asset.Parse(p.Asset, codec)
		if err != nil {
			return nil, errors.Wrapf(err, "pools[%d].asset", i)
		}
		token, err := codec.Canonicalize(p.StakingToken)
		if err != nil {
			return nil, errors.Wrapf(err, "pools[%d].stakingToken", i)
		}
		weights := make(reward.Weights, 0, len(p.Weights))
		for j, w := range p.Weights {
			winfo, err := asset.Parse(w.Asset, codec)
			if err != nil {
				return nil, errors.Wrapf(err, "pools[%d].weights[%d].asset", i, j)
			}
			weight, err := parseUint256(w.Weight)
			if err != nil {
				return nil, errors.Wrapf(err, "pools[%d].weights[%d].weight", i, j)
			}
			weights = append(weights, reward.Weight{Info: winfo, Weight: weight})
		}
		pools = append(pools, pool{info, token, weights})
	}

	return func(s *staking.Staking) error {
		if err := s.Instantiate(owner, rewarder); err != nil {
			return err
		}
		for _, p := range pools {
			if err := s.RegisterAsset(owner, p.info, p.stakingToken); err != nil {
				return errors.Wrapf(err, "register %v", p.info)
			}
			if len(p.weights) == 0 {
				continue
			}
			if err := s.UpdateRewardWeights(owner, p.info, p.weights); err != nil {
				return errors.Wrapf(err, "weights of %v", p.info)
			}
		}
		return nil
	}, nil
}

// Apply sets up the genesis unless the state is already instantiated.
// It returns whether the genesis was applied.
func (g *Genesis) Apply(rt *runtime.Runtime, codec address.Codec) (bool, error) {
	err := rt.Query(func(s *staking.Staking) error {
		_, err := s.QueryConfig()
		return err
	})
	switch {
	case err == nil:
		logger.Debug("state already instantiated, genesis skipped")
		return false, nil
	case !reverts.Is(err, reverts.NotFound):
		return false, err
	}

	fn, err := g.Build(codec)
	if err != nil {
		return false, err
	}
	receipt, err := rt.Execute(ActionGenesis, fn)
	if err != nil {
		return false, errors.Wrap(err, "apply genesis")
	}
	logger.Info("genesis applied", "pools", len(g.Pools), "gas", receipt.GasUsed)
	return true, nil
}

func parseUint256(s string) (*uint256.Int, error) {
	b, ok := math.ParseBig256(s)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("number %q overflows", s)
	}
	return v, nil
}
