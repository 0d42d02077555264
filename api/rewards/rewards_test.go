// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/api/rewards"
	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/test/testenv"
)

var ts *httptest.Server

func TestRewards(t *testing.T) {
	env, err := testenv.New()
	require.NoError(t, err)
	defer env.Close()

	_, err = env.Runtime().Execute(staking.ActionBond, func(s *staking.Staking) error {
		if err := s.Bond(address.Address("alice"), asset.NativeInfo("orai"), uint256.NewInt(100)); err != nil {
			return err
		}
		return s.Bond(address.Address("bob"), asset.TokenInfo(address.Address("airi")), uint256.NewInt(10))
	})
	require.NoError(t, err)

	router := mux.NewRouter()
	rewards.New(env.Runtime(), types.Converter{Codec: env.Codec()}).Mount(router, "/rewards")
	ts = httptest.NewServer(router)
	defer ts.Close()

	// ordered, each case builds on the state left by the previous ones
	for _, tt := range []struct {
		name string
		fn   func(*testing.T)
	}{
		{"depositUnauthorized", depositUnauthorized},
		{"deposit", deposit},
		{"getRewardInfo", getRewardInfo},
		{"getRewardInfoInvalid", getRewardInfoInvalid},
		{"withdraw", withdraw},
		{"withdrawOthersUnauthorized", withdrawOthersUnauthorized},
		{"withdrawOthers", withdrawOthers},
	} {
		t.Run(tt.name, tt.fn)
	}
}

func depositUnauthorized(t *testing.T) {
	_, status := httpPost(t, ts.URL+"/rewards/deposit", `{"sender":"mallory","rewards":[{"asset":"native:orai","amount":"1000"}]}`)
	assert.Equal(t, http.StatusForbidden, status)
}

func deposit(t *testing.T) {
	res, status := httpPost(t, ts.URL+"/rewards/deposit",
		`{"sender":"devrewarder","rewards":[{"asset":"native:orai","amount":"1000"},{"asset":"token:airi","amount":"300"}]}`)
	require.Equal(t, http.StatusOK, status, string(res))

	var receipt types.Receipt
	require.NoError(t, json.Unmarshal(res, &receipt))
	assert.Equal(t, staking.ActionDepositReward, receipt.Action)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, "native:orai", receipt.Events[0].Asset)
	assert.Equal(t, "token:airi", receipt.Events[1].Asset)
	assert.Equal(t, int64(300), (*big.Int)(receipt.Events[1].Amount).Int64())
}

func getRewardInfo(t *testing.T) {
	res, status := httpGet(t, ts.URL+"/rewards/alice")
	require.Equal(t, http.StatusOK, status, string(res))

	var out types.RewardInfoResponse
	require.NoError(t, json.Unmarshal(res, &out))
	assert.Equal(t, "alice", out.Staker)
	require.Len(t, out.RewardInfos, 1)
	assert.Equal(t, "native:orai", out.RewardInfos[0].Asset)
	assert.Equal(t, int64(100), (*big.Int)(out.RewardInfos[0].BondAmount).Int64())
	assert.Equal(t, int64(1000), (*big.Int)(out.RewardInfos[0].PendingReward).Int64())
	assert.False(t, out.RewardInfos[0].ShouldMigrate)

	res, status = httpGet(t, ts.URL+"/rewards/alice?asset=token:airi")
	require.Equal(t, http.StatusOK, status, string(res))
	require.NoError(t, json.Unmarshal(res, &out))
	assert.Empty(t, out.RewardInfos)
}

func getRewardInfoInvalid(t *testing.T) {
	_, status := httpGet(t, ts.URL+"/rewards/Alice")
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpGet(t, ts.URL+"/rewards/alice?asset=airi")
	assert.Equal(t, http.StatusBadRequest, status)
}

func withdraw(t *testing.T) {
	res, status := httpPost(t, ts.URL+"/rewards/withdraw", `{"staker":"alice"}`)
	require.Equal(t, http.StatusOK, status, string(res))

	var out types.WithdrawResponse
	require.NoError(t, json.Unmarshal(res, &out))
	assert.Equal(t, staking.ActionWithdrawReward, out.Action)
	require.Len(t, out.Payments, 1)
	assert.Equal(t, "alice", out.Payments[0].Recipient)
	assert.Equal(t, "native:orai", out.Payments[0].Asset)
	assert.Equal(t, int64(1000), (*big.Int)(out.Payments[0].Amount).Int64())

	// nothing left
	res, status = httpGet(t, ts.URL+"/rewards/alice")
	require.Equal(t, http.StatusOK, status)
	var info types.RewardInfoResponse
	require.NoError(t, json.Unmarshal(res, &info))
	require.Len(t, info.RewardInfos, 1)
	assert.Equal(t, int64(0), (*big.Int)(info.RewardInfos[0].PendingReward).Int64())
	assert.Empty(t, info.RewardInfos[0].PendingWithdraw)
}

func withdrawOthersUnauthorized(t *testing.T) {
	_, status := httpPost(t, ts.URL+"/rewards/withdraw-others", `{"sender":"devrewarder","stakers":["bob"]}`)
	assert.Equal(t, http.StatusForbidden, status)
}

func withdrawOthers(t *testing.T) {
	res, status := httpPost(t, ts.URL+"/rewards/withdraw-others", `{"sender":"devowner","stakers":["bob"],"asset":"token:airi"}`)
	require.Equal(t, http.StatusOK, status, string(res))

	res, status = httpGet(t, ts.URL+"/rewards/bob?asset=token:airi")
	require.Equal(t, http.StatusOK, status)

	var out types.RewardInfoResponse
	require.NoError(t, json.Unmarshal(res, &out))
	require.Len(t, out.RewardInfos, 1)
	ri := out.RewardInfos[0]
	assert.Equal(t, int64(0), (*big.Int)(ri.PendingReward).Int64())

	withdraws := make(map[string]int64)
	for _, a := range ri.PendingWithdraw {
		withdraws[a.Asset] = (*big.Int)(a.Amount).Int64()
	}
	assert.Equal(t, map[string]int64{"native:orai": 100, "token:airi": 200}, withdraws)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpPost(t *testing.T, url string, body string) ([]byte, int) {
	res, err := http.Post(url, "application/json", strings.NewReader(body)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
