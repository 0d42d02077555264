// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

// NewDevnet create genesis for development, using plain addresses.
func NewDevnet() *Genesis {
	return &Genesis{
		Owner:    "devowner",
		Rewarder: "devrewarder",
		Pools: []Pool{
			{
				Asset:        "native:orai",
				StakingToken: "oraixlp",
				Weights: []Weight{
					{Asset: "native:orai", Weight: "1"},
				},
			},
			{
				Asset:        "token:airi",
				StakingToken: "airixlp",
				Weights: []Weight{
					{Asset: "native:orai", Weight: "100"},
					{Asset: "token:airi", Weight: "200"},
				},
			},
		},
	}
}
