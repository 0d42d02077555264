// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/lvldb"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/reward"
	"github.com/vechain/lpstaking/state"
)

var (
	owner    = address.Address("owner")
	rewarder = address.Address("rewarder")
	lpToken  = address.Address("lptoken")

	poolAsset = asset.TokenInfo(address.Address("assettoken"))
	orai      = asset.NativeInfo("orai")
	airi      = asset.TokenInfo(address.Address("airitoken"))
)

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

// newTestStakingRaw returns a staking over an empty store.
func newTestStakingRaw(t *testing.T) (*Staking, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db, 0).NewState()
	return New(st, nil), st
}

// newTestStaking returns an instantiated staking with poolAsset registered.
func newTestStaking(t *testing.T) (*Staking, *state.State) {
	s, st := newTestStakingRaw(t)
	require.NoError(t, s.Instantiate(owner, rewarder))
	require.NoError(t, s.RegisterAsset(owner, poolAsset, lpToken))
	return s, st
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	staking *Staking

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(staking *Staking) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), staking: staking}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Bond(staker string, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staking.Bond(address.Address(staker), poolAsset, u(amount)); err != nil {
			t.Fatalf("failed to bond %d for %s: %v", amount, staker, err)
		}
	})
}

func (st *TestSequence) Unbond(staker string, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.staking.Unbond(address.Address(staker), poolAsset, u(amount)); err != nil {
			t.Fatalf("failed to unbond %d for %s: %v", amount, staker, err)
		}
	})
}

func (st *TestSequence) Deposit(amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staking.DepositReward(rewarder, []asset.Asset{{Info: poolAsset, Amount: u(amount)}}); err != nil {
			t.Fatalf("failed to deposit %d: %v", amount, err)
		}
	})
}

func (st *TestSequence) SetWeights(weights reward.Weights) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staking.UpdateRewardWeights(owner, poolAsset, weights); err != nil {
			t.Fatalf("failed to update weights: %v", err)
		}
	})
}

func (st *TestSequence) Migrate(newToken string) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staking.DeprecateStakingToken(owner, poolAsset, address.Address(newToken)); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}
	})
}

func (st *TestSequence) AssertPool(totalBond, pendingReward uint64, index string) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		p, err := st.staking.QueryPoolInfo(poolAsset)
		require.NoError(t, err)
		assert.Equal(t, totalBond, p.TotalBondAmount.Uint64(), "total bond")
		assert.Equal(t, pendingReward, p.PendingReward.Uint64(), "pool pending reward")
		assert.Equal(t, index, p.RewardIndex.String(), "reward index")
	})
}

func (st *TestSequence) AssertRewardInfo(staker string, bond, pendingReward uint64, shouldMigrate bool) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		resp, err := st.staking.QueryRewardInfo(address.Address(staker), infoPtr(poolAsset))
		require.NoError(t, err)
		require.Len(t, resp.RewardInfos, 1, "position of %s", staker)
		ri := resp.RewardInfos[0]
		assert.Equal(t, bond, ri.BondAmount.Uint64(), "bond of %s", staker)
		assert.Equal(t, pendingReward, ri.PendingReward.Uint64(), "pending reward of %s", staker)
		assert.Equal(t, shouldMigrate, ri.ShouldMigrate, "should migrate of %s", staker)
	})
}

func (st *TestSequence) AssertNoPosition(staker string) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		resp, err := st.staking.QueryRewardInfo(address.Address(staker), nil)
		require.NoError(t, err)
		assert.Empty(t, resp.RewardInfos, "positions of %s", staker)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}
