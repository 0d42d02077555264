// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lpstaking/api"
	"github.com/vechain/lpstaking/cmd/lpstaking/httpserver"
	"github.com/vechain/lpstaking/health"
	"github.com/vechain/lpstaking/log"
	"github.com/vechain/lpstaking/metrics"
	"github.com/vechain/lpstaking/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "lpstaking",
		Usage:     "Staking service for liquidity pool tokens",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			addressCodecFlag,
			memFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			gasLimitFlag,
			skipLogsFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "verify",
				Usage: "check the bonds of every pool against their stakers",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					addressCodecFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: verifyAction,
			},
			{
				Name:  "devnet-genesis",
				Usage: "print the devnet genesis in yaml",
				Action: func(*cli.Context) error {
					return printDevnetGenesis(os.Stdout)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	codec, gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse cache flag")
	}
	cacheMB = normalizeCacheSize(cacheMB)

	mainDB, logDB, dataDir, err := openDatabases(ctx, gene, cacheMB)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		metricsURL = url
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
	}

	rt := runtime.New(newStater(mainDB, cacheMB/2), logDB, ctx.Uint64(gasLimitFlag.Name))
	defer rt.Close()

	if _, err := gene.Apply(rt, codec); err != nil {
		return err
	}

	healthStatus := &health.Health{}
	healthStatus.InstantiatedStatus(true)

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, healthStatus)
		if err != nil {
			return fmt.Errorf("unable to start admin server - %w", err)
		}
		adminURL = url
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
	}

	apiHandler, apiCloser := api.New(rt, codec, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      apiLogs,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	defer func() { logger.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser, err := startAPIServer(ctx, apiHandler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(gene, codec, dataDir, apiURL, metricsURL, adminURL)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		trackActions(gctx, rt, healthStatus)
		return nil
	})
	if server := ctx.String(ntpServerFlag.Name); server != "" {
		g.Go(func() error {
			checkClockLoop(gctx, server, healthStatus)
			return nil
		})
	}

	<-exitSignal
	cancel()
	return g.Wait()
}
