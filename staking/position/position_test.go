// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/decimal"
	"github.com/vechain/lpstaking/lvldb"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/solidity"
	"github.com/vechain/lpstaking/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(solidity.NewContext(state.NewStater(db, 0).NewState(), nil))
}

func TestSettle(t *testing.T) {
	p := New(asset.NativeInfo("orai"))
	assert.True(t, p.NativeToken)
	assert.True(t, p.IsEmpty())

	// nothing bonded, nothing accrues
	require.NoError(t, p.Settle(decimal.MustParse("4")))
	assert.True(t, p.PendingReward.IsZero())
	assert.Equal(t, "4", p.Index.String())

	require.NoError(t, p.Bond(uint256.NewInt(100)))
	require.NoError(t, p.Settle(decimal.MustParse("6.5")))
	assert.Equal(t, uint64(250), p.PendingReward.Uint64())

	// idempotent
	require.NoError(t, p.Settle(decimal.MustParse("6.5")))
	assert.Equal(t, uint64(250), p.PendingReward.Uint64())

	err := p.Settle(decimal.MustParse("6"))
	assert.True(t, reverts.Is(err, reverts.ArithmeticInvariantViolation))
	assert.Equal(t, uint64(250), p.PendingReward.Uint64())
	assert.Equal(t, "6.5", p.Index.String())
}

func TestSettleFloors(t *testing.T) {
	p := New(asset.NativeInfo("orai"))
	require.NoError(t, p.Bond(uint256.NewInt(3)))

	// floor(3 * 0.5) - floor(3 * 0) = 1
	require.NoError(t, p.Settle(decimal.MustParse("0.5")))
	assert.Equal(t, uint64(1), p.PendingReward.Uint64())

	// floor(3 * 1) - floor(3 * 0.5) = 2, no reward lost across settlements
	require.NoError(t, p.Settle(decimal.MustParse("1")))
	assert.Equal(t, uint64(3), p.PendingReward.Uint64())
}

func TestSettleOverflow(t *testing.T) {
	p := New(asset.NativeInfo("orai"))
	p.BondAmount = new(uint256.Int).SetAllOne()
	err := p.Settle(decimal.MustParse("2"))
	assert.True(t, reverts.Is(err, reverts.ArithmeticInvariantViolation))
}

func TestUnbondAndWithdraw(t *testing.T) {
	p := New(asset.TokenInfo(address.Address("token")))
	assert.False(t, p.NativeToken)
	require.NoError(t, p.Bond(uint256.NewInt(100)))

	err := p.Unbond(uint256.NewInt(150))
	assert.True(t, reverts.Is(err, reverts.InsufficientBondAmount))
	assert.Equal(t, uint64(100), p.BondAmount.Uint64())

	require.NoError(t, p.Unbond(uint256.NewInt(100)))
	assert.True(t, p.IsEmpty())

	require.NoError(t, p.AddWithdraw(asset.NativeInfo("orai"), uint256.NewInt(5)))
	require.NoError(t, p.AddWithdraw(asset.NativeInfo("orai"), uint256.NewInt(7)))
	assert.False(t, p.IsEmpty())

	drained := p.DrainWithdraw()
	require.Len(t, drained, 1)
	assert.Equal(t, uint64(12), drained[0].Amount.Uint64())
	assert.True(t, p.IsEmpty())
}

func TestService(t *testing.T) {
	svc := newService(t)
	orai := asset.NativeInfo("orai")
	token := asset.TokenInfo(address.Address("token"))
	staker := address.Address("staker1")

	p, err := svc.Get(staker, orai)
	require.NoError(t, err)
	assert.Nil(t, p)

	p = New(orai)
	require.NoError(t, p.Bond(uint256.NewInt(10)))
	p.Index = decimal.MustParse("1.5")
	require.NoError(t, p.AddWithdraw(token, uint256.NewInt(3)))
	require.NoError(t, svc.Save(staker, orai, p))
	require.NoError(t, svc.Save(staker, token, New(token)))
	require.NoError(t, svc.Save(address.Address("staker2"), orai, New(orai)))

	got, err := svc.Get(staker, orai)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got.BondAmount.Uint64())
	assert.Equal(t, "1.5", got.Index.String())
	require.Len(t, got.PendingWithdraw, 1)
	assert.True(t, got.PendingWithdraw[0].Info.Equal(token))

	var infos []asset.Info
	require.NoError(t, svc.RangeByStaker(staker, func(info asset.Info, _ *Position) (bool, error) {
		infos = append(infos, info)
		return true, nil
	}))
	require.Len(t, infos, 2)
	assert.True(t, infos[0].Equal(orai))
	assert.True(t, infos[1].Equal(token))

	require.NoError(t, svc.AddStaker(orai, staker))
	has, err := svc.HasStaker(orai, staker)
	require.NoError(t, err)
	assert.True(t, has)

	svc.Remove(staker, orai)
	got, err = svc.Get(staker, orai)
	require.NoError(t, err)
	assert.Nil(t, got)
	has, err = svc.HasStaker(orai, staker)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRangeStakers(t *testing.T) {
	svc := newService(t)
	orai := asset.NativeInfo("orai")
	other := asset.NativeInfo("oraix")

	for _, s := range []string{"addr003", "addr001", "addr005", "addr002", "addr004"} {
		require.NoError(t, svc.AddStaker(orai, address.Address(s)))
	}
	require.NoError(t, svc.AddStaker(other, address.Address("addr000")))

	collect := func(cursor string, reverse bool, limit int) (out []string) {
		require.NoError(t, svc.RangeStakers(orai, address.Address(cursor), reverse, func(staker address.Address) (bool, error) {
			out = append(out, string(staker))
			return len(out) < limit, nil
		}))
		return
	}

	assert.Equal(t, []string{"addr001", "addr002", "addr003", "addr004", "addr005"}, collect("", false, 10))
	assert.Equal(t, []string{"addr005", "addr004", "addr003"}, collect("", true, 3))
	assert.Equal(t, []string{"addr003", "addr004"}, collect("addr002", false, 2))
	assert.Equal(t, []string{"addr002", "addr001"}, collect("addr003", true, 10))
	assert.Empty(t, collect("addr005", false, 10))
}
