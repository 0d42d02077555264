// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/log"
	"github.com/vechain/lpstaking/staking"
	"github.com/vechain/lpstaking/staking/asset"
)

var logger = log.WithContext("pkg", "logdb")

const memPath = ":memory:"

const selectEvent = "SELECT seq, callID, eventIndex, time, action, sender, staker, asset, amount, payments FROM event"

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal=wal"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps the in-memory db alive and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
		newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() {
	db.stmtCache.Clear()
	db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewBatch starts a batch of events emitted by one action call.
func (db *LogDB) NewBatch(callID string, time uint64) *Batch {
	return &Batch{
		db:     db.db,
		callID: callID,
		time:   time,
	}
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, selectEvent+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := selectEvent + " WHERE 1"
	if filter.CallID != "" {
		args = append(args, filter.CallID)
		stmt += " AND callID = ?"
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		stmt += " AND action = ?"
	}
	if len(filter.Staker) > 0 {
		args = append(args, []byte(filter.Staker))
		stmt += " AND staker = ?"
	}
	if filter.Asset != nil {
		args = append(args, filter.Asset.Key())
		stmt += " AND asset = ?"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq      uint64
			callID   string
			index    uint32
			time     uint64
			action   string
			sender   []byte
			staker   []byte
			assetKey []byte
			amount   []byte
			payments []byte
		)
		if err := rows.Scan(
			&seq,
			&callID,
			&index,
			&time,
			&action,
			&sender,
			&staker,
			&assetKey,
			&amount,
			&payments,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Seq:    seq,
			CallID: callID,
			Index:  index,
			Time:   time,
			Action: action,
			Sender: sender,
			Staker: staker,
		}
		if len(assetKey) > 0 {
			info, err := asset.FromKey(assetKey)
			if err != nil {
				return nil, errors.Wrapf(err, "event %d", seq)
			}
			event.Asset = &info
		}
		if len(amount) > 0 {
			event.Amount = new(uint256.Int).SetBytes(amount)
		}
		if len(payments) > 0 {
			if err := rlp.DecodeBytes(payments, &event.Payments); err != nil {
				return nil, errors.Wrapf(err, "decode payments of event %d", seq)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Batch collects the events of one action call and writes them atomically.
type Batch struct {
	db     *sql.DB
	callID string
	time   uint64
	events []*Event
}

func (b *Batch) Insert(events ...*staking.Event) *Batch {
	for _, ev := range events {
		b.events = append(b.events, newEvent(b.callID, uint32(len(b.events)), b.time, ev))
	}
	return b
}

func (b *Batch) Len() int {
	return len(b.events)
}

func (b *Batch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (b *Batch) Commit() error {
	if len(b.events) == 0 {
		return nil
	}
	return b.execInTx(func(tx *sql.Tx) error {
		for _, event := range b.events {
			var (
				assetKey []byte
				amount   []byte
				payments []byte
			)
			if event.Asset != nil {
				assetKey = event.Asset.Key()
			}
			if event.Amount != nil {
				amount = event.Amount.Bytes()
			}
			if len(event.Payments) > 0 {
				enc, err := rlp.EncodeToBytes(event.Payments)
				if err != nil {
					return errors.Wrap(err, "encode payments")
				}
				payments = enc
			}
			if _, err := tx.Exec("INSERT INTO event(callID, eventIndex, time, action, sender, staker, asset, amount, payments) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.CallID,
				event.Index,
				event.Time,
				event.Action,
				[]byte(event.Sender),
				[]byte(event.Staker),
				assetKey,
				amount,
				payments,
			); err != nil {
				return err
			}
		}
		logger.Trace("committed events", "callID", b.callID, "count", len(b.events))
		return nil
	})
}
