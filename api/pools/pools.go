// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/api/utils"
	"github.com/vechain/lpstaking/runtime"
	"github.com/vechain/lpstaking/staking"
)

type Pools struct {
	rt   *runtime.Runtime
	conv types.Converter
}

func New(rt *runtime.Runtime, conv types.Converter) *Pools {
	return &Pools{rt, conv}
}

func (p *Pools) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	var pools []*staking.PoolInfoResponse
	if err := p.rt.Query(func(s *staking.Staking) (err error) {
		pools, err = s.Pools()
		return
	}); err != nil {
		return utils.StakingError(err)
	}

	out := make([]*types.PoolInfo, 0, len(pools))
	for _, pool := range pools {
		converted, err := p.conv.PoolInfo(pool)
		if err != nil {
			return err
		}
		out = append(out, converted)
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	info, err := p.conv.ParseAssetInfo(mux.Vars(req)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}

	var pool *staking.PoolInfoResponse
	if err := p.rt.Query(func(s *staking.Staking) (err error) {
		pool, err = s.QueryPoolInfo(info)
		return
	}); err != nil {
		return utils.StakingError(err)
	}

	out, err := p.conv.PoolInfo(pool)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetWeights(w http.ResponseWriter, req *http.Request) error {
	info, err := p.conv.ParseAssetInfo(mux.Vars(req)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}

	var out []types.Weight
	if err := p.rt.Query(func(s *staking.Staking) error {
		weights, err := s.QueryRewardWeights(info)
		if err != nil {
			return err
		}
		out, err = p.conv.Weights(weights)
		return err
	}); err != nil {
		return utils.StakingError(err)
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetRewardInfos(w http.ResponseWriter, req *http.Request) error {
	info, err := p.conv.ParseAssetInfo(mux.Vars(req)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}
	query := req.URL.Query()

	startAfter, err := p.conv.ParseAddress(query.Get("startAfter"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "startAfter"))
	}
	var limit uint64
	if s := query.Get("limit"); s != "" {
		if limit, err = strconv.ParseUint(s, 10, 32); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "limit"))
		}
	}
	order, err := parseOrder(query.Get("order"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "order"))
	}

	var infos []*staking.RewardInfoResponse
	if err := p.rt.Query(func(s *staking.Staking) (err error) {
		infos, err = s.QueryAllRewardInfos(info, startAfter, uint32(limit), order)
		return
	}); err != nil {
		return utils.StakingError(err)
	}

	out := make([]*types.RewardInfoResponse, 0, len(infos))
	for _, ri := range infos {
		converted, err := p.conv.RewardInfoResponse(ri)
		if err != nil {
			return err
		}
		out = append(out, converted)
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleCheckBonds(w http.ResponseWriter, req *http.Request) error {
	info, err := p.conv.ParseAssetInfo(mux.Vars(req)["asset"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "asset"))
	}

	var report *staking.BondReport
	if err := p.rt.Query(func(s *staking.Staking) (err error) {
		report, err = s.CheckBonds(info)
		return
	}); err != nil {
		return utils.StakingError(err)
	}

	out, err := p.conv.BondReport(report)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func parseOrder(s string) (staking.Order, error) {
	switch s {
	case "", "asc":
		return staking.Ascending, nil
	case "desc":
		return staking.Descending, nil
	}
	return 0, errors.New("should be asc or desc")
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("/{asset}").
		Methods(http.MethodGet).
		Name("GET /pools/{asset}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{asset}/weights").
		Methods(http.MethodGet).
		Name("GET /pools/{asset}/weights").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetWeights))
	sub.Path("/{asset}/rewards").
		Methods(http.MethodGet).
		Name("GET /pools/{asset}/rewards").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetRewardInfos))
	sub.Path("/{asset}/bonds").
		Methods(http.MethodGet).
		Name("GET /pools/{asset}/bonds").
		HandlerFunc(utils.WrapHandlerFunc(p.handleCheckBonds))
}
