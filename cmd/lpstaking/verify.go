// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/lpstaking/genesis"
	"github.com/vechain/lpstaking/runtime"
	"github.com/vechain/lpstaking/staking"
)

// verifyAction checks that the total bond of every pool matches the bonds of
// its live positions.
func verifyAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	_, gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(instanceDir, 128)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	rt := runtime.New(newStater(mainDB, 0), nil, 0)
	defer rt.Close()

	var reports []*staking.BondReport
	if err := rt.Query(func(s *staking.Staking) error {
		pools, err := s.Pools()
		if err != nil {
			return err
		}
		bar := pb.New(len(pools)).Prefix("Pools")
		bar.Start()
		defer bar.Finish()

		for _, p := range pools {
			report, err := s.CheckBonds(p.Info)
			if err != nil {
				return errors.Wrapf(err, "check pool %v", p.Info)
			}
			reports = append(reports, report)
			bar.Increment()
		}
		return nil
	}); err != nil {
		return err
	}

	unbalanced := 0
	for _, r := range reports {
		if !r.Balanced() {
			unbalanced++
			logger.Error("unbalanced pool",
				"asset", r.Info,
				"total", r.TotalBondAmount,
				"live", r.LiveBondAmount,
				"legacy", r.LegacyBondAmount,
				"stakers", r.Stakers,
			)
		} else {
			logger.Info("pool verified", "asset", r.Info, "total", r.TotalBondAmount, "stakers", r.Stakers)
		}
	}
	if unbalanced > 0 {
		return fmt.Errorf("%d of %d pools unbalanced", unbalanced, len(reports))
	}
	return nil
}

func printDevnetGenesis(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(genesis.NewDevnet()); err != nil {
		return errors.Wrap(err, "encode devnet genesis")
	}
	return enc.Close()
}
