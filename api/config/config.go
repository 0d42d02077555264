// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/api/utils"
	"github.com/vechain/lpstaking/runtime"
	"github.com/vechain/lpstaking/staking"
)

type Config struct {
	rt   *runtime.Runtime
	conv types.Converter
}

func New(rt *runtime.Runtime, conv types.Converter) *Config {
	return &Config{rt, conv}
}

func (c *Config) respond(w http.ResponseWriter, receipt *runtime.Receipt, err error) error {
	if err != nil {
		return utils.StakingError(err)
	}
	out, err := c.conv.Receipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Config) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var cfg *staking.Config
	if err := c.rt.Query(func(s *staking.Staking) (err error) {
		cfg, err = s.QueryConfig()
		return
	}); err != nil {
		return utils.StakingError(err)
	}
	out, err := c.conv.Config(cfg)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Config) handleInstantiate(w http.ResponseWriter, req *http.Request) error {
	var body InstantiateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	owner, err := c.conv.ParseAddress(body.Owner)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "owner"))
	}
	rewarder, err := c.conv.ParseAddress(body.Rewarder)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "rewarder"))
	}

	receipt, err := c.rt.Execute(staking.ActionInstantiate, func(s *staking.Staking) error {
		return s.Instantiate(owner, rewarder)
	})
	return c.respond(w, receipt, err)
}

func (c *Config) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	var body UpdateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	sender, err := c.conv.ParseAddress(body.Sender)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "sender"))
	}
	owner, err := c.conv.ParseAddress(body.Owner)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "owner"))
	}
	rewarder, err := c.conv.ParseAddress(body.Rewarder)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "rewarder"))
	}

	receipt, err := c.rt.Execute(staking.ActionUpdateConfig, func(s *staking.Staking) error {
		return s.UpdateConfig(sender, owner, rewarder)
	})
	return c.respond(w, receipt, err)
}

func (c *Config) handleRegisterAsset(w http.ResponseWriter, req *http.Request) error {
	var body RegisterAssetRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	sender, err := c.conv.ParseAddress(body.Sender)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "sender"))
	}
	info, err := c.conv.ParseAssetInfo(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	token, err := c.conv.ParseAddress(body.StakingToken)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "stakingToken"))
	}

	receipt, err := c.rt.Execute(staking.ActionRegisterAsset, func(s *staking.Staking) error {
		return s.RegisterAsset(sender, info, token)
	})
	return c.respond(w, receipt, err)
}

func (c *Config) handleUpdateWeights(w http.ResponseWriter, req *http.Request) error {
	var body WeightsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	sender, err := c.conv.ParseAddress(body.Sender)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "sender"))
	}
	info, err := c.conv.ParseAssetInfo(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	weights, err := c.conv.ParseWeights(body.Weights)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "weights"))
	}

	receipt, err := c.rt.Execute(staking.ActionUpdateRewardWeights, func(s *staking.Staking) error {
		return s.UpdateRewardWeights(sender, info, weights)
	})
	return c.respond(w, receipt, err)
}

func (c *Config) handleDeprecate(w http.ResponseWriter, req *http.Request) error {
	var body DeprecateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	sender, err := c.conv.ParseAddress(body.Sender)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "sender"))
	}
	info, err := c.conv.ParseAssetInfo(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	token, err := c.conv.ParseAddress(body.NewStakingToken)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "newStakingToken"))
	}

	receipt, err := c.rt.Execute(staking.ActionDeprecateToken, func(s *staking.Staking) error {
		return s.DeprecateStakingToken(sender, info, token)
	})
	return c.respond(w, receipt, err)
}

func (c *Config) handleUpdateStakers(w http.ResponseWriter, req *http.Request) error {
	var body StakersRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	sender, err := c.conv.ParseAddress(body.Sender)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "sender"))
	}
	info, err := c.conv.ParseAssetInfo(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	stakers := make([]address.Address, 0, len(body.Stakers))
	for i, s := range body.Stakers {
		staker, err := c.conv.ParseAddress(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, fmt.Sprintf("stakers[%d]", i)))
		}
		stakers = append(stakers, staker)
	}

	receipt, err := c.rt.Execute(staking.ActionUpdateListStakers, func(s *staking.Staking) error {
		return s.UpdateListStakers(sender, info, stakers)
	})
	return c.respond(w, receipt, err)
}

func (c *Config) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /config").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetConfig))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /config").
		HandlerFunc(utils.WrapHandlerFunc(c.handleUpdate))
	sub.Path("/instantiate").
		Methods(http.MethodPost).
		Name("POST /config/instantiate").
		HandlerFunc(utils.WrapHandlerFunc(c.handleInstantiate))
	sub.Path("/assets").
		Methods(http.MethodPost).
		Name("POST /config/assets").
		HandlerFunc(utils.WrapHandlerFunc(c.handleRegisterAsset))
	sub.Path("/weights").
		Methods(http.MethodPost).
		Name("POST /config/weights").
		HandlerFunc(utils.WrapHandlerFunc(c.handleUpdateWeights))
	sub.Path("/deprecate").
		Methods(http.MethodPost).
		Name("POST /config/deprecate").
		HandlerFunc(utils.WrapHandlerFunc(c.handleDeprecate))
	sub.Path("/stakers").
		Methods(http.MethodPost).
		Name("POST /config/stakers").
		HandlerFunc(utils.WrapHandlerFunc(c.handleUpdateStakers))
}
