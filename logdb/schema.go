// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for staking events
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	callID TEXT NOT NULL,
	eventIndex INTEGER NOT NULL,
	time INTEGER NOT NULL,
	action TEXT NOT NULL,
	sender BLOB,
	staker BLOB,
	asset BLOB,
	amount BLOB,
	payments BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(callID);
CREATE INDEX IF NOT EXISTS event_i1 ON event(action);
CREATE INDEX IF NOT EXISTS event_i2 ON event(staker);
CREATE INDEX IF NOT EXISTS event_i3 ON event(asset);
`
