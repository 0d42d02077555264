// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/asset"
)

// Event represents staking.Event that can be stored in db.
type Event struct {
	Seq      uint64
	CallID   string // identifies the action call that emitted the event
	Index    uint32 // position within the call
	Time     uint64
	Action   string
	Sender   address.Address
	Staker   address.Address
	Asset    *asset.Info
	Amount   *uint256.Int
	Payments []staking.Payment
}

// newEvent converts staking.Event to Event.
func newEvent(callID string, index uint32, time uint64, ev *staking.Event) *Event {
	return &Event{
		CallID:   callID,
		Index:    index,
		Time:     time,
		Action:   ev.Action,
		Sender:   ev.Sender,
		Staker:   ev.Staker,
		Asset:    ev.Asset,
		Amount:   ev.Amount,
		Payments: ev.Payments,
	}
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Nil or empty fields match everything.
type EventFilter struct {
	CallID  string
	Action  string
	Staker  address.Address
	Asset   *asset.Info
	Options *Options
	Order   Order // default asc
}
