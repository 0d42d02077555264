// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/logdb"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/asset"
)

var (
	poolAsset = asset.TokenInfo(address.Address("assettoken"))
	orai      = asset.NativeInfo("orai")
)

func newEvents(n int) []*staking.Event {
	var events []*staking.Event
	for i := 0; i < n; i++ {
		staker := address.Address(fmt.Sprintf("staker%d", i%3))
		action := staking.ActionBond
		var payments []staking.Payment
		if i%2 == 1 {
			action = staking.ActionWithdrawReward
			payments = []staking.Payment{{Recipient: staker, Info: orai, Amount: uint256.NewInt(uint64(i))}}
		}
		events = append(events, &staking.Event{
			Action:   action,
			Sender:   staker,
			Staker:   staker,
			Asset:    &poolAsset,
			Amount:   uint256.NewInt(uint64(i + 1)),
			Payments: payments,
		})
	}
	return events
}

func TestEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	events := newEvents(10)
	batch := db.NewBatch("call1", 1000).Insert(events[:4]...)
	assert.Equal(t, 4, batch.Len())
	require.NoError(t, batch.Commit())
	require.NoError(t, db.NewBatch("call2", 2000).Insert(events[4:]...).Commit())
	// empty batch is a no-op
	require.NoError(t, db.NewBatch("call3", 3000).Commit())

	ctx := context.Background()

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 10)
	assert.Equal(t, "call1", all[0].CallID)
	assert.Equal(t, uint32(3), all[3].Index)
	assert.Equal(t, uint32(0), all[4].Index)
	assert.Equal(t, uint64(2000), all[4].Time)
	assert.True(t, all[0].Asset.Equal(poolAsset))
	assert.Equal(t, uint64(1), all[0].Amount.Uint64())
	assert.Empty(t, all[0].Payments)
	require.Len(t, all[1].Payments, 1)
	assert.True(t, all[1].Payments[0].Info.Equal(orai))
	assert.Equal(t, uint64(1), all[1].Payments[0].Amount.Uint64())
	assert.Equal(t, address.Address("staker1"), all[1].Payments[0].Recipient)

	tests := []struct {
		name   string
		filter *logdb.EventFilter
		want   int
	}{
		{"by call", &logdb.EventFilter{CallID: "call2"}, 6},
		{"by action", &logdb.EventFilter{Action: staking.ActionWithdrawReward}, 5},
		{"by staker", &logdb.EventFilter{Staker: address.Address("staker0")}, 4},
		{"by asset", &logdb.EventFilter{Asset: &poolAsset}, 10},
		{"by other asset", &logdb.EventFilter{Asset: &orai}, 0},
		{"combined", &logdb.EventFilter{Action: staking.ActionBond, Staker: address.Address("staker0")}, 2},
		{"paged", &logdb.EventFilter{Options: &logdb.Options{Offset: 8, Limit: 5}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	desc, err := db.FilterEvents(ctx, &logdb.EventFilter{Order: logdb.DESC, Options: &logdb.Options{Limit: 3}})
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, all[9].Seq, desc[0].Seq)
	assert.Equal(t, all[7].Seq, desc[2].Seq)
}

func TestEventsCanceled(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.NewBatch("call1", 1).Insert(newEvents(3)...).Commit())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.FilterEvents(ctx, nil)
	assert.Error(t, err)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	db, err := logdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.NewBatch("call1", 1).Insert(newEvents(2)...).Commit())
	db.Close()

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
