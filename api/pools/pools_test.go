// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools_test

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/api/pools"
	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/test/testenv"
)

var (
	orai = asset.NativeInfo("orai")
	ts   *httptest.Server
)

func TestPools(t *testing.T) {
	env, err := testenv.New()
	require.NoError(t, err)
	defer env.Close()

	for i := 1; i <= 12; i++ {
		staker := address.Address(fmt.Sprintf("staker%02d", i))
		_, err := env.Runtime().Execute(staking.ActionBond, func(s *staking.Staking) error {
			return s.Bond(staker, orai, uint256.NewInt(uint64(i*10)))
		})
		require.NoError(t, err)
	}

	router := mux.NewRouter()
	pools.New(env.Runtime(), types.Converter{Codec: env.Codec()}).Mount(router, "/pools")
	ts = httptest.NewServer(router)
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"getPools":               getPools,
		"getPool":                getPool,
		"getPoolInvalidAsset":    getPoolInvalidAsset,
		"getPoolNotFound":        getPoolNotFound,
		"getWeights":             getWeights,
		"getRewardInfos":         getRewardInfos,
		"getRewardInfosDesc":     getRewardInfosDesc,
		"getRewardInfosBadQuery": getRewardInfosBadQuery,
		"getBonds":               getBonds,
	} {
		t.Run(name, tt)
	}
}

func getPools(t *testing.T) {
	res, status := httpGet(t, ts.URL+"/pools")
	require.Equal(t, http.StatusOK, status)

	var out []*types.PoolInfo
	require.NoError(t, json.Unmarshal(res, &out))
	require.Len(t, out, 2)

	assets := []string{out[0].Asset, out[1].Asset}
	assert.ElementsMatch(t, []string{"native:orai", "token:airi"}, assets)
}

func getPool(t *testing.T) {
	res, status := httpGet(t, ts.URL+"/pools/native:orai")
	require.Equal(t, http.StatusOK, status)

	var out types.PoolInfo
	require.NoError(t, json.Unmarshal(res, &out))
	assert.Equal(t, "native:orai", out.Asset)
	assert.Equal(t, "oraixlp", out.StakingToken)
	// 10 + 20 + ... + 120
	assert.Equal(t, int64(780), (*big.Int)(out.TotalBondAmount).Int64())
	assert.Equal(t, "0", out.RewardIndex)
	assert.False(t, out.Migrated)
	assert.Empty(t, out.DeprecatedStakingToken)
}

func getPoolInvalidAsset(t *testing.T) {
	_, status := httpGet(t, ts.URL+"/pools/orai")
	assert.Equal(t, http.StatusBadRequest, status)
}

func getPoolNotFound(t *testing.T) {
	_, status := httpGet(t, ts.URL+"/pools/native:unknown")
	assert.Equal(t, http.StatusNotFound, status)
}

func getWeights(t *testing.T) {
	res, status := httpGet(t, ts.URL+"/pools/token:airi/weights")
	require.Equal(t, http.StatusOK, status)

	var out []types.Weight
	require.NoError(t, json.Unmarshal(res, &out))
	require.Len(t, out, 2)

	weights := make(map[string]int64)
	for _, w := range out {
		weights[w.Asset] = (*big.Int)(w.Weight).Int64()
	}
	assert.Equal(t, map[string]int64{"native:orai": 100, "token:airi": 200}, weights)
}

func getRewardInfos(t *testing.T) {
	res, status := httpGet(t, ts.URL+"/pools/native:orai/rewards")
	require.Equal(t, http.StatusOK, status)

	var out []*types.RewardInfoResponse
	require.NoError(t, json.Unmarshal(res, &out))
	require.Len(t, out, int(staking.DefaultLimit))
	assert.Equal(t, "staker01", out[0].Staker)
	assert.Equal(t, "staker10", out[9].Staker)

	res, status = httpGet(t, ts.URL+"/pools/native:orai/rewards?startAfter=staker10&limit=5")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(res, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "staker11", out[0].Staker)
	require.Len(t, out[1].RewardInfos, 1)
	assert.Equal(t, int64(120), (*big.Int)(out[1].RewardInfos[0].BondAmount).Int64())
}

func getRewardInfosDesc(t *testing.T) {
	res, status := httpGet(t, ts.URL+"/pools/native:orai/rewards?order=desc&limit=3")
	require.Equal(t, http.StatusOK, status)

	var out []*types.RewardInfoResponse
	require.NoError(t, json.Unmarshal(res, &out))
	require.Len(t, out, 3)
	assert.Equal(t, "staker12", out[0].Staker)
	assert.Equal(t, "staker10", out[2].Staker)
}

func getRewardInfosBadQuery(t *testing.T) {
	for _, query := range []string{"order=up", "limit=-1", "limit=abc", "startAfter=X"} {
		_, status := httpGet(t, ts.URL+"/pools/native:orai/rewards?"+query)
		assert.Equal(t, http.StatusBadRequest, status, query)
	}
}

func getBonds(t *testing.T) {
	res, status := httpGet(t, ts.URL+"/pools/native:orai/bonds")
	require.Equal(t, http.StatusOK, status)

	var out types.BondReport
	require.NoError(t, json.Unmarshal(res, &out))
	assert.True(t, out.Balanced)
	assert.Equal(t, 12, out.Stakers)
	assert.Equal(t, int64(780), (*big.Int)(out.LiveBondAmount).Int64())
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
