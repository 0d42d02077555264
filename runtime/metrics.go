// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/lpstaking/metrics"

var (
	metricActionCounter  = metrics.LazyLoadCounterVec("runtime_action_count", []string{"action", "outcome"})
	metricActionDuration = metrics.LazyLoadHistogramVec("runtime_action_duration_ms", []string{"action"}, metrics.BucketHTTPReqs)
	metricGasUsed        = metrics.LazyLoadHistogramVec("runtime_gas_used", []string{"action"}, metrics.BucketGas)
)
