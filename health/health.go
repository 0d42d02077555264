// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type LastAction struct {
	CallID    string     `json:"callID"`
	Action    string     `json:"action"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy      bool          `json:"healthy"`
	LastAction   *LastAction   `json:"lastAction"`
	Instantiated bool          `json:"instantiated"`
	ClockOffset  time.Duration `json:"clockOffset"`
}

// maxClockOffset is the tolerated local clock drift from the network time.
const maxClockOffset = 10 * time.Second

type Health struct {
	lock         sync.RWMutex
	lastAction   *LastAction
	instantiated bool
	clockOffset  time.Duration
}

// NewAction records a committed action.
func (h *Health) NewAction(callID, action string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := time.Now()
	h.lastAction = &LastAction{
		CallID:    callID,
		Action:    action,
		Timestamp: &now,
	}
}

func (h *Health) InstantiatedStatus(instantiated bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.instantiated = instantiated
}

func (h *Health) ClockOffset(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockOffset = offset
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	offset := h.clockOffset
	if offset < 0 {
		offset = -offset
	}
	return &Status{
		Healthy:      h.instantiated && offset <= maxClockOffset,
		LastAction:   h.lastAction,
		Instantiated: h.instantiated,
		ClockOffset:  h.clockOffset,
	}, nil
}
