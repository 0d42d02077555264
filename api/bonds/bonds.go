// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bonds

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/api/utils"
	"github.com/vechain/lpstaking/runtime"
	"github.com/vechain/lpstaking/staking"
)

type Bonds struct {
	rt   *runtime.Runtime
	conv types.Converter
}

func New(rt *runtime.Runtime, conv types.Converter) *Bonds {
	return &Bonds{rt, conv}
}

func (b *Bonds) handleBond(w http.ResponseWriter, req *http.Request) error {
	var body BondRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	staker, err := b.conv.ParseAddress(body.Staker)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "staker"))
	}
	info, err := b.conv.ParseAssetInfo(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	amount, err := types.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}

	receipt, err := b.rt.Execute(staking.ActionBond, func(s *staking.Staking) error {
		return s.Bond(staker, info, amount)
	})
	if err != nil {
		return utils.StakingError(err)
	}
	out, err := b.conv.Receipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (b *Bonds) handleReceive(w http.ResponseWriter, req *http.Request) error {
	var body ReceiveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	sender, err := b.conv.ParseAddress(body.Sender)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "sender"))
	}
	staker, err := b.conv.ParseAddress(body.Staker)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "staker"))
	}
	info, err := b.conv.ParseAssetInfo(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	amount, err := types.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}

	receipt, err := b.rt.Execute(staking.ActionBond, func(s *staking.Staking) error {
		return s.ReceiveBond(sender, staker, info, amount)
	})
	if err != nil {
		return utils.StakingError(err)
	}
	out, err := b.conv.Receipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (b *Bonds) handleUnbond(w http.ResponseWriter, req *http.Request) error {
	var body UnbondRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	staker, err := b.conv.ParseAddress(body.Staker)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "staker"))
	}
	info, err := b.conv.ParseAssetInfo(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	amount, err := types.ParseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}

	var result *staking.UnbondResult
	receipt, err := b.rt.Execute(staking.ActionUnbond, func(s *staking.Staking) (err error) {
		result, err = s.Unbond(staker, info, amount)
		return
	})
	if err != nil {
		return utils.StakingError(err)
	}

	converted, err := b.conv.Receipt(receipt)
	if err != nil {
		return err
	}
	transfer, err := b.conv.Payments([]staking.Payment{result.Transfer})
	if err != nil {
		return err
	}
	rewards, err := b.conv.Payments(result.RewardPayments)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.UnbondResponse{
		Receipt:        *converted,
		Transfer:       transfer[0],
		RewardPayments: rewards,
	})
}

func (b *Bonds) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /bonds").
		HandlerFunc(utils.WrapHandlerFunc(b.handleBond))
	sub.Path("/receive").
		Methods(http.MethodPost).
		Name("POST /bonds/receive").
		HandlerFunc(utils.WrapHandlerFunc(b.handleReceive))
	sub.Path("/unbond").
		Methods(http.MethodPost).
		Name("POST /bonds/unbond").
		HandlerFunc(utils.WrapHandlerFunc(b.handleUnbond))
}
