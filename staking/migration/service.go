// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package migration

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/decimal"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/pool"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/solidity"
)

const bucketMigrated = "migrated" // asset, staker => flag

// Effective is the settlement context of a staker in a pool.
type Effective struct {
	Index        decimal.Decimal
	StakingToken address.Address
	Legacy       bool // the position predates the migration and is capped at the snapshot
}

type Service struct {
	flags *solidity.Mapping[solidity.BytesKey, bool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		flags: solidity.NewMapping[solidity.BytesKey, bool](sctx, bucketMigrated),
	}
}

func flagKey(info asset.Info, staker address.Address) solidity.BytesKey {
	return solidity.Join(info.Key(), staker)
}

// IsMigrated returns whether the staker's position was moved to the live index.
func (s *Service) IsMigrated(info asset.Info, staker address.Address) (bool, error) {
	migrated, err := s.flags.Get(flagKey(info, staker))
	if err != nil {
		return false, errors.Wrap(err, "failed to get migrated flag")
	}
	return migrated, nil
}

// MarkMigrated sets the staker's flag. The flag is never cleared.
func (s *Service) MarkMigrated(info asset.Info, staker address.Address) error {
	if err := s.flags.Upsert(flagKey(info, staker), true); err != nil {
		return errors.Wrap(err, "failed to set migrated flag")
	}
	return nil
}

// Resolve returns the index and staking token the staker settles against.
func (s *Service) Resolve(p *pool.Pool, info asset.Info, staker address.Address) (*Effective, error) {
	if p.IsMigrated() {
		migrated, err := s.IsMigrated(info, staker)
		if err != nil {
			return nil, err
		}
		if !migrated {
			return &Effective{
				Index:        p.Migration.IndexSnapshot,
				StakingToken: p.Migration.DeprecatedStakingToken,
				Legacy:       true,
			}, nil
		}
	}
	return &Effective{Index: p.RewardIndex, StakingToken: p.StakingToken}, nil
}

// Migrate freezes the pool's index for existing positions and replaces its staking token.
// Positions bonded so far leave the live total and settle against the snapshot until closed.
func Migrate(p *pool.Pool, newStakingToken address.Address) error {
	if p.IsMigrated() {
		return reverts.New(reverts.AlreadyMigrated, "staking token already deprecated")
	}
	p.Migration = &pool.Migration{
		IndexSnapshot:          p.RewardIndex,
		DeprecatedStakingToken: p.StakingToken,
	}
	p.StakingToken = newStakingToken
	p.TotalBondAmount = new(uint256.Int)
	return nil
}
