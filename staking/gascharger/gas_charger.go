// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"errors"
	"fmt"
)

// storage operation costs, per 32-byte word
const (
	SloadGas       uint64 = 200
	SstoreSetGas   uint64 = 20000
	SstoreResetGas uint64 = 5000
)

// ErrOutOfGas is the panic value raised when a charge exceeds the limit.
var ErrOutOfGas = errors.New("out of gas")

// Charger meters the storage operations of one action against a gas limit.
type Charger struct {
	limit          uint64
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	customGas      uint64
	totalGas       uint64
}

// New creates a charger. Zero limit means unlimited.
func New(limit uint64) *Charger {
	return &Charger{limit: limit}
}

// Charge records the gas. It panics with ErrOutOfGas once the limit is exceeded,
// unwinding the whole action.
func (c *Charger) Charge(gas uint64) {
	c.totalGas += gas

	switch {
	// Handle multiples and single operations
	case gas%SstoreSetGas == 0 && gas > 0:
		c.sstoreSetOps += gas / SstoreSetGas

	case gas%SstoreResetGas == 0 && gas > 0:
		c.sstoreResetOps += gas / SstoreResetGas

	case gas%SloadGas == 0 && gas > 0:
		c.sloadOps += gas / SloadGas

	default:
		// Unknown/custom gas amount
		c.customGas += gas
	}

	if c.limit > 0 && c.totalGas > c.limit {
		panic(ErrOutOfGas)
	}
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE_SET: %d ops (%d gas) | SSTORE_RESET: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*SloadGas,
		c.sstoreSetOps,
		c.sstoreSetOps*SstoreSetGas,
		c.sstoreResetOps,
		c.sstoreResetOps*SstoreResetGas,
		c.customGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}
