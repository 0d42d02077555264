// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lpstaking/api/pools"
	"github.com/vechain/lpstaking/api/subscriptions"
	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/metrics"
	"github.com/vechain/lpstaking/test/testenv"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func TestMetricsMiddleware(t *testing.T) {
	env, err := testenv.New()
	require.NoError(t, err)
	defer env.Close()

	router := mux.NewRouter()
	pools.New(env.Runtime(), types.Converter{Codec: env.Codec()}).Mount(router, "/pools")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	httpGet(t, ts.URL+"/pools")
	httpGet(t, ts.URL+"/pools")
	_, code := httpGet(t, ts.URL+"/pools/orai")
	assert.Equal(t, http.StatusBadRequest, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["lpstaking_api_request_count"].GetMetric()
	require.Equal(t, 2, len(m), "should be 2 metric entries")
	assert.Equal(t, float64(2), m[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), m[1].GetCounter().GetValue())

	labels := m[0].GetLabel()
	require.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "200", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "name", labels[2].GetName())
	assert.Equal(t, "GET /pools", labels[2].GetValue())

	labels = m[1].GetLabel()
	require.Equal(t, 3, len(labels))
	assert.Equal(t, "400", labels[0].GetValue())
	assert.Equal(t, "GET /pools/{asset}", labels[2].GetValue())
}

func TestWebsocketMetrics(t *testing.T) {
	env, err := testenv.New()
	require.NoError(t, err)
	defer env.Close()

	router := mux.NewRouter()
	subs := subscriptions.New(env.Runtime(), types.Converter{Codec: env.Codec()}, []string{"*"})
	subs.Mount(router, "/subscriptions")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()
	defer subs.Close()

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/receipt"}
	conn1, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn1.Close()

	gauge := func() float64 {
		body, _ := httpGet(t, ts.URL+"/metrics")
		parser := expfmt.TextParser{}
		families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
		require.NoError(t, err)

		m := families["lpstaking_api_active_websocket_count"].GetMetric()
		require.Equal(t, 1, len(m), "should be 1 metric entries")
		labels := m[0].GetLabel()
		assert.Equal(t, "subject", labels[0].GetName())
		assert.Equal(t, "/subscriptions/receipt", labels[0].GetValue())
		return m[0].GetGauge().GetValue()
	}
	assert.Equal(t, float64(1), gauge())

	conn2, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn2.Close()
	assert.Equal(t, float64(2), gauge())
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
