// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/logdb"
	"github.com/vechain/lpstaking/lvldb"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/gascharger"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/state"
)

var (
	owner     = address.Address("owner")
	rewarder  = address.Address("rewarder")
	lpToken   = address.Address("lptoken")
	poolAsset = asset.NativeInfo("orai")
)

func newTestRuntime(t *testing.T, gasLimit uint64) *Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	ldb, err := logdb.NewMem()
	require.NoError(t, err)

	rt := New(state.NewStater(db, 1), ldb, gasLimit)
	t.Cleanup(func() {
		rt.Close()
		ldb.Close()
		db.Close()
	})
	return rt
}

func instantiate(t *testing.T, rt *Runtime) {
	_, err := rt.Execute(staking.ActionInstantiate, func(s *staking.Staking) error {
		if err := s.Instantiate(owner, rewarder); err != nil {
			return err
		}
		return s.RegisterAsset(owner, poolAsset, lpToken)
	})
	require.NoError(t, err)
}

func TestExecute(t *testing.T) {
	rt := newTestRuntime(t, 0)
	rt.clock = func() time.Time { return time.Unix(1700000000, 0) }

	ch := make(chan *Receipt, 4)
	sub := rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	instantiate(t, rt)

	receipt, err := rt.Execute(staking.ActionBond, func(s *staking.Staking) error {
		return s.Bond(address.Address("staker1"), poolAsset, uint256.NewInt(100))
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.CallID)
	assert.Equal(t, uint64(1700000000), receipt.Time)
	assert.Greater(t, receipt.GasUsed, uint64(0))
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, staking.ActionBond, receipt.Events[0].Action)

	require.Len(t, ch, 2)
	<-ch
	assert.Equal(t, receipt, <-ch)

	err = rt.Query(func(s *staking.Staking) error {
		p, err := s.QueryPoolInfo(poolAsset)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(100), p.TotalBondAmount.Uint64())
		return nil
	})
	require.NoError(t, err)

	events, err := rt.LogDB().FilterEvents(context.Background(), &logdb.EventFilter{CallID: receipt.CallID})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(1700000000), events[0].Time)
	assert.Equal(t, address.Address("staker1"), events[0].Staker)
}

func TestExecuteAllOrNothing(t *testing.T) {
	rt := newTestRuntime(t, 0)
	instantiate(t, rt)

	ch := make(chan *Receipt, 1)
	sub := rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	// the first bond succeeds inside the action, the second reverts
	_, err := rt.Execute(staking.ActionBond, func(s *staking.Staking) error {
		if err := s.Bond(address.Address("staker1"), poolAsset, uint256.NewInt(100)); err != nil {
			return err
		}
		return s.Bond(address.Address("staker2"), asset.NativeInfo("unknown"), uint256.NewInt(1))
	})
	assert.True(t, reverts.Is(err, reverts.NotFound))
	assert.Empty(t, ch)

	err = rt.Query(func(s *staking.Staking) error {
		p, err := s.QueryPoolInfo(poolAsset)
		require.NoError(t, err)
		assert.True(t, p.TotalBondAmount.IsZero())

		resp, err := s.QueryRewardInfo(address.Address("staker1"), nil)
		require.NoError(t, err)
		assert.Empty(t, resp.RewardInfos)
		return nil
	})
	require.NoError(t, err)

	events, err := rt.LogDB().FilterEvents(context.Background(), &logdb.EventFilter{Action: staking.ActionBond})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestExecuteOutOfGas(t *testing.T) {
	rt := newTestRuntime(t, gascharger.SstoreSetGas)

	_, err := rt.Execute(staking.ActionInstantiate, func(s *staking.Staking) error {
		if err := s.Instantiate(owner, rewarder); err != nil {
			return err
		}
		return s.RegisterAsset(owner, poolAsset, lpToken)
	})
	assert.ErrorIs(t, err, gascharger.ErrOutOfGas)
	assert.Equal(t, "out_of_gas", outcome(err))

	err = rt.Query(func(s *staking.Staking) error {
		_, err := s.QueryConfig()
		return err
	})
	assert.True(t, reverts.Is(err, reverts.NotFound))
}

func TestExecuteRepanics(t *testing.T) {
	rt := newTestRuntime(t, 0)

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = rt.Execute("panic", func(*staking.Staking) error {
			panic("boom")
		})
	})
	// the lock is released
	instantiate(t, rt)
}

func TestStalledSubscriberDoesNotBlockQuery(t *testing.T) {
	rt := newTestRuntime(t, 0)

	// nobody reads from ch until the end
	ch := make(chan *Receipt)
	sub := rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	executed := make(chan error, 1)
	go func() {
		_, err := rt.Execute(staking.ActionInstantiate, func(s *staking.Staking) error {
			return s.Instantiate(owner, rewarder)
		})
		executed <- err
	}()

	queried := make(chan error, 1)
	go func() {
		for {
			err := rt.Query(func(s *staking.Staking) error {
				_, err := s.QueryConfig()
				return err
			})
			if !reverts.Is(err, reverts.NotFound) {
				queried <- err
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	select {
	case err := <-queried:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("query blocked by a pending receipt")
	}

	receipt := <-ch
	assert.Equal(t, staking.ActionInstantiate, receipt.Action)
	assert.NoError(t, <-executed)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "reverted", outcome(reverts.New(reverts.Unauthorized, "no")))
	assert.Equal(t, "error", outcome(assert.AnError))
}
