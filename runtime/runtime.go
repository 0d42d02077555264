// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/log"
	"github.com/vechain/lpstaking/logdb"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/gascharger"
	"github.com/vechain/lpstaking/staking/reverts"
	"github.com/vechain/lpstaking/state"
)

var logger = log.WithContext("pkg", "runtime")

// Receipt describes a committed action.
type Receipt struct {
	CallID  string
	Action  string
	Time    uint64
	GasUsed uint64
	Events  []*staking.Event
}

// Runtime executes staking actions one at a time against the committed state.
// An action either commits all of its writes or none of them.
type Runtime struct {
	stater   *state.Stater
	logDB    *logdb.LogDB
	gasLimit uint64
	clock    func() time.Time

	mu          sync.RWMutex
	sendMu      sync.Mutex // keeps receipts in commit order
	receiptFeed event.Feed
	scope       event.SubscriptionScope
}

// New create a Runtime. logDB is optional, and a zero gasLimit disables the limit.
func New(stater *state.Stater, logDB *logdb.LogDB, gasLimit uint64) *Runtime {
	return &Runtime{
		stater:   stater,
		logDB:    logDB,
		gasLimit: gasLimit,
		clock:    time.Now,
	}
}

// Execute runs fn over a fresh state. The state is committed only when fn
// succeeds within the gas limit. Subscribers are notified in commit order after
// the state lock is released.
func (rt *Runtime) Execute(action string, fn func(s *staking.Staking) error) (*Receipt, error) {
	receipt, err := func() (*Receipt, error) {
		rt.mu.Lock()
		defer rt.mu.Unlock()

		receipt, err := rt.execute(action, fn)
		if err == nil {
			rt.sendMu.Lock()
		}
		return receipt, err
	}()
	if err != nil {
		return nil, err
	}
	defer rt.sendMu.Unlock()

	rt.receiptFeed.Send(receipt)
	return receipt, nil
}

func (rt *Runtime) execute(action string, fn func(s *staking.Staking) error) (*Receipt, error) {
	start := time.Now()
	st := rt.stater.NewState()
	charger := gascharger.New(rt.gasLimit)

	events, err := run(staking.New(st, charger), fn)
	metricGasUsed().ObserveWithLabels(int64(charger.TotalGas()), map[string]string{"action": action})
	if err != nil {
		metricActionCounter().AddWithLabel(1, map[string]string{"action": action, "outcome": outcome(err)})
		logger.Debug("action discarded", "action", action, "gas", charger.TotalGas(), "error", err)
		return nil, err
	}

	if err := st.Stage().Commit(); err != nil {
		metricActionCounter().AddWithLabel(1, map[string]string{"action": action, "outcome": "error"})
		return nil, errors.Wrap(err, "commit state")
	}

	receipt := &Receipt{
		CallID:  uuid.NewRandom().String(),
		Action:  action,
		Time:    uint64(rt.clock().Unix()),
		GasUsed: charger.TotalGas(),
		Events:  events,
	}
	if rt.logDB != nil {
		if err := rt.logDB.NewBatch(receipt.CallID, receipt.Time).Insert(events...).Commit(); err != nil {
			// the state is already committed
			logger.Warn("failed to write events", "callID", receipt.CallID, "error", err)
		}
	}

	metricActionCounter().AddWithLabel(1, map[string]string{"action": action, "outcome": "success"})
	metricActionDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"action": action})
	logger.Debug("action committed", "action", action, "callID", receipt.CallID, "gas", receipt.GasUsed, "events", len(events))
	if logger.Enabled(context.Background(), log.LevelTrace) {
		logger.Trace("gas breakdown", "callID", receipt.CallID, "breakdown", charger.Breakdown())
	}

	return receipt, nil
}

// Query runs fn over a read-only view of the committed state.
func (rt *Runtime) Query(fn func(s *staking.Staking) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	return fn(staking.New(rt.stater.NewState(), nil))
}

// SubscribeReceipts delivers the receipt of every committed action.
func (rt *Runtime) SubscribeReceipts(ch chan *Receipt) event.Subscription {
	return rt.scope.Track(rt.receiptFeed.Subscribe(ch))
}

// LogDB returns the event log, nil if not configured.
func (rt *Runtime) LogDB() *logdb.LogDB {
	return rt.logDB
}

// Close unsubscribes all subscribers.
func (rt *Runtime) Close() {
	rt.scope.Close()
}

func run(s *staking.Staking, fn func(s *staking.Staking) error) (events []*staking.Event, err error) {
	defer func() {
		if e := recover(); e != nil {
			if e != gascharger.ErrOutOfGas {
				panic(e)
			}
			err = gascharger.ErrOutOfGas
		}
	}()

	if err := fn(s); err != nil {
		return nil, err
	}
	return s.Events(), nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, gascharger.ErrOutOfGas):
		return "out_of_gas"
	case reverts.IsRevertErr(err):
		return "reverted"
	default:
		return "error"
	}
}
