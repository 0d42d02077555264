// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/api/bonds"
	"github.com/vechain/lpstaking/api/config"
	"github.com/vechain/lpstaking/api/logs"
	"github.com/vechain/lpstaking/api/middleware"
	"github.com/vechain/lpstaking/api/pools"
	"github.com/vechain/lpstaking/api/rewards"
	"github.com/vechain/lpstaking/api/subscriptions"
	"github.com/vechain/lpstaking/api/types"
	"github.com/vechain/lpstaking/log"
	"github.com/vechain/lpstaking/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	EnableMetrics        bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	LogsLimit            uint64
}

// New return api router
func New(rt *runtime.Runtime, codec address.Codec, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	conv := types.Converter{Codec: codec}

	router := mux.NewRouter()

	pools.New(rt, conv).
		Mount(router, "/pools")
	rewards.New(rt, conv).
		Mount(router, "/rewards")
	bonds.New(rt, conv).
		Mount(router, "/bonds")
	config.New(rt, conv).
		Mount(router, "/config")
	if db := rt.LogDB(); db != nil {
		logs.New(db, conv, opts.LogsLimit).
			Mount(router, "/logs")
	}
	subs := subscriptions.New(rt, conv, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	if opts.EnableReqLogger != nil {
		router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
