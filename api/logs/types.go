// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CallID  string   `json:"callID,omitempty"`
	Action  string   `json:"action,omitempty"`
	Staker  string   `json:"staker,omitempty"`
	Asset   string   `json:"asset,omitempty"`
	Options *Options `json:"options,omitempty"`
	Order   string   `json:"order,omitempty"` // default asc
}
