// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/log"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/gascharger"
	"github.com/vechain/lpstaking/staking/migration"
	"github.com/vechain/lpstaking/staking/pool"
	"github.com/vechain/lpstaking/staking/position"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/reward"
	"github.com/vechain/lpstaking/staking/solidity"
	"github.com/vechain/lpstaking/state"
)

const bucketConfig = "config"

var logger = log.WithContext("pkg", "staking")

func SetLogger(l log.Logger) {
	logger = l
}

// Staking implements the reward accounting of LP staking pools over a state.
// It is not safe for concurrent use: the host runs one action at a time and
// discards the state when an action fails.
type Staking struct {
	config *solidity.Raw[*Config]

	poolService      *pool.Service
	positionService  *position.Service
	migrationService *migration.Service
	rewardService    *reward.Service

	events []*Event
}

// New create a new instance. A nil charger disables storage metering.
func New(state *state.State, charger *gascharger.Charger) *Staking {
	sctx := solidity.NewContext(state, charger)

	return &Staking{
		config:           solidity.NewRaw[*Config](sctx, bucketConfig),
		poolService:      pool.NewService(sctx),
		positionService:  position.NewService(sctx),
		migrationService: migration.New(sctx),
		rewardService:    reward.New(sctx),
	}
}

// Events returns the events of completed actions and resets the buffer.
func (s *Staking) Events() []*Event {
	events := s.events
	s.events = nil
	return events
}

func (s *Staking) emit(ev *Event) {
	s.events = append(s.events, ev)
}

func (s *Staking) loadConfig() (*Config, error) {
	cfg, err := s.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	if cfg == nil {
		return nil, reverts.New(reverts.NotFound, "config not instantiated")
	}
	return cfg, nil
}

func (s *Staking) requireOwner(sender address.Address) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Owner.Equal(sender) {
		return reverts.New(reverts.Unauthorized, "sender is not the owner")
	}
	return nil
}

func (s *Staking) requireRewarder(sender address.Address) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Rewarder.Equal(sender) {
		return reverts.New(reverts.Unauthorized, "sender is not the rewarder")
	}
	return nil
}

func toPayments(recipient address.Address, assets []asset.Asset) []Payment {
	payments := make([]Payment, 0, len(assets))
	for _, a := range assets {
		payments = append(payments, Payment{Recipient: recipient, Info: a.Info, Amount: a.Amount})
	}
	return payments
}

func infoPtr(info asset.Info) *asset.Info {
	return &info
}

func assetLabel(info *asset.Info) string {
	if info == nil {
		return "all"
	}
	return info.String()
}
