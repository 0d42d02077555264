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
)

// BondReport compares a pool's total bond with the bonds of its live positions.
type BondReport struct {
	Info            asset.Info
	TotalBondAmount *uint256.Int
	// sum over positions settling against the live index
	LiveBondAmount *uint256.Int
	// sum over positions capped at the migration snapshot
	LegacyBondAmount *uint256.Int
	Stakers          int
}

// Balanced returns whether the total bond equals the live bonds.
func (r *BondReport) Balanced() bool {
	return r.TotalBondAmount.Eq(r.LiveBondAmount)
}

// CheckBonds walks every staker of the pool and sums their bonds.
func (s *Staking) CheckBonds(info asset.Info) (*BondReport, error) {
	p, err := s.poolService.MustGet(info)
	if err != nil {
		return nil, err
	}
	report := &BondReport{
		Info:             info,
		TotalBondAmount:  p.TotalBondAmount.Clone(),
		LiveBondAmount:   new(uint256.Int),
		LegacyBondAmount: new(uint256.Int),
	}

	var stakers []address.Address
	if err := s.positionService.RangeStakers(info, nil, false, func(staker address.Address) (bool, error) {
		stakers = append(stakers, staker)
		return true, nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to list stakers")
	}

	for _, staker := range stakers {
		pos, err := s.positionService.Get(staker, info)
		if err != nil {
			return nil, err
		}
		if pos == nil {
			continue
		}
		eff, err := s.migrationService.Resolve(p, info, staker)
		if err != nil {
			return nil, err
		}
		if eff.Legacy {
			report.LegacyBondAmount.Add(report.LegacyBondAmount, pos.BondAmount)
		} else {
			report.LiveBondAmount.Add(report.LiveBondAmount, pos.BondAmount)
		}
		report.Stakers++
	}
	return report, nil
}
