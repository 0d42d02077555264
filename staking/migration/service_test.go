// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package migration

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/decimal"
	"github.com/vechain/lpstaking/lvldb"
	"github.com/vechain/lpstaking/staking/asset"
	"github.com/vechain/lpstaking/staking/pool"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/staking/solidity"
	"github.com/vechain/lpstaking/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(state.NewStater(db, 0).NewState(), nil))
}

func TestMigrate(t *testing.T) {
	p := pool.New(address.Address("oldlp"))
	p.RewardIndex = decimal.MustParse("4")
	p.TotalBondAmount = uint256.NewInt(100)

	require.NoError(t, Migrate(p, address.Address("newlp")))
	assert.True(t, p.IsMigrated())
	assert.Equal(t, "4", p.Migration.IndexSnapshot.String())
	assert.Equal(t, address.Address("oldlp"), p.Migration.DeprecatedStakingToken)
	assert.Equal(t, address.Address("newlp"), p.StakingToken)
	assert.True(t, p.TotalBondAmount.IsZero())

	err := Migrate(p, address.Address("newerlp"))
	assert.True(t, reverts.Is(err, reverts.AlreadyMigrated))
	assert.Equal(t, address.Address("newlp"), p.StakingToken)
	assert.Equal(t, address.Address("oldlp"), p.Migration.DeprecatedStakingToken)
}

func TestResolve(t *testing.T) {
	svc := newService(t)
	info := asset.NativeInfo("orai")
	staker := address.Address("staker1")

	p := pool.New(address.Address("oldlp"))
	p.RewardIndex = decimal.MustParse("4")

	eff, err := svc.Resolve(p, info, staker)
	require.NoError(t, err)
	assert.False(t, eff.Legacy)
	assert.Equal(t, address.Address("oldlp"), eff.StakingToken)

	require.NoError(t, Migrate(p, address.Address("newlp")))
	p.RewardIndex = decimal.MustParse("7")

	eff, err = svc.Resolve(p, info, staker)
	require.NoError(t, err)
	assert.True(t, eff.Legacy)
	assert.Equal(t, "4", eff.Index.String())
	assert.Equal(t, address.Address("oldlp"), eff.StakingToken)

	require.NoError(t, svc.MarkMigrated(info, staker))
	migrated, err := svc.IsMigrated(info, staker)
	require.NoError(t, err)
	assert.True(t, migrated)

	eff, err = svc.Resolve(p, info, staker)
	require.NoError(t, err)
	assert.False(t, eff.Legacy)
	assert.Equal(t, "7", eff.Index.String())
	assert.Equal(t, address.Address("newlp"), eff.StakingToken)

	// flags are per pool
	migrated, err = svc.IsMigrated(asset.NativeInfo("atom"), staker)
	require.NoError(t, err)
	assert.False(t, migrated)
}
