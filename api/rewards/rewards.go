// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

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
	"github.com/vechain/lpstaking/staking/asset"
)

type Rewards struct {
	rt   *runtime.Runtime
	conv types.Converter
}

func New(rt *runtime.Runtime, conv types.Converter) *Rewards {
	return &Rewards{rt, conv}
}

func (r *Rewards) parseOptionalAsset(s string) (*asset.Info, error) {
	if s == "" {
		return nil, nil
	}
	info, err := r.conv.ParseAssetInfo(s)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *Rewards) handleGetRewardInfo(w http.ResponseWriter, req *http.Request) error {
	staker, err := r.conv.ParseAddress(mux.Vars(req)["staker"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "staker"))
	}
	info, err := r.parseOptionalAsset(req.URL.Query().Get("asset"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}

	var resp *staking.RewardInfoResponse
	if err := r.rt.Query(func(s *staking.Staking) (err error) {
		resp, err = s.QueryRewardInfo(staker, info)
		return
	}); err != nil {
		return utils.StakingError(err)
	}

	out, err := r.conv.RewardInfoResponse(resp)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (r *Rewards) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var body DepositRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	sender, err := r.conv.ParseAddress(body.Sender)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "sender"))
	}
	rewards, err := r.conv.ParseAssets(body.Rewards)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "rewards"))
	}

	receipt, err := r.rt.Execute(staking.ActionDepositReward, func(s *staking.Staking) error {
		return s.DepositReward(sender, rewards)
	})
	if err != nil {
		return utils.StakingError(err)
	}
	out, err := r.conv.Receipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (r *Rewards) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	staker, err := r.conv.ParseAddress(body.Staker)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "staker"))
	}
	info, err := r.parseOptionalAsset(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}

	var payments []staking.Payment
	receipt, err := r.rt.Execute(staking.ActionWithdrawReward, func(s *staking.Staking) (err error) {
		payments, err = s.WithdrawReward(staker, info)
		return
	})
	if err != nil {
		return utils.StakingError(err)
	}

	converted, err := r.conv.Receipt(receipt)
	if err != nil {
		return err
	}
	out, err := r.conv.Payments(payments)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.WithdrawResponse{Receipt: *converted, Payments: out})
}

func (r *Rewards) handleWithdrawOthers(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawOthersRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	sender, err := r.conv.ParseAddress(body.Sender)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "sender"))
	}
	stakers := make([]address.Address, 0, len(body.Stakers))
	for i, s := range body.Stakers {
		staker, err := r.conv.ParseAddress(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, fmt.Sprintf("stakers[%d]", i)))
		}
		stakers = append(stakers, staker)
	}
	info, err := r.parseOptionalAsset(body.Asset)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}

	receipt, err := r.rt.Execute(staking.ActionWithdrawRewardOthers, func(s *staking.Staking) error {
		return s.WithdrawRewardOthers(sender, stakers, info)
	})
	if err != nil {
		return utils.StakingError(err)
	}
	out, err := r.conv.Receipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/deposit").
		Methods(http.MethodPost).
		Name("POST /rewards/deposit").
		HandlerFunc(utils.WrapHandlerFunc(r.handleDeposit))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /rewards/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(r.handleWithdraw))
	sub.Path("/withdraw-others").
		Methods(http.MethodPost).
		Name("POST /rewards/withdraw-others").
		HandlerFunc(utils.WrapHandlerFunc(r.handleWithdrawOthers))
	sub.Path("/{staker}").
		Methods(http.MethodGet).
		Name("GET /rewards/{staker}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRewardInfo))
}
