// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/api/admin"
	"github.com/vechain/lpstaking/api/admin/loglevel"
	"github.com/vechain/lpstaking/health"
)

func StartAdminServer(
	addr string,
	leveler loglevel.Leveler,
	apiLogs *atomic.Bool,
	healthStatus *health.Health,
) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	adminHandler := admin.New(leveler, apiLogs, healthStatus)

	srv := &http.Server{Handler: adminHandler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes sync.WaitGroup
	goes.Add(1)
	go func() {
		defer goes.Done()
		srv.Serve(listener)
	}()
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
