// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/lpstaking/address"
	"github.com/vechain/lpstaking/genesis"
	"github.com/vechain/lpstaking/health"
	"github.com/vechain/lpstaking/kv"
	"github.com/vechain/lpstaking/log"
	"github.com/vechain/lpstaking/logdb"
	"github.com/vechain/lpstaking/lvldb"
	stakingrt "github.com/vechain/lpstaking/runtime"
	"github.com/vechain/lpstaking/state"
)

// stateBucket holds the staking state inside the main database.
const stateBucket = kv.Bucket("state/")

const (
	requestBodyLimitBytes = 200 * 1024
	clockCheckInterval    = 10 * time.Minute
	clockOffsetWarn       = 5 * time.Second
)

func initLogger(ctx *cli.Context) (*log.LevelHandler, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}

	var handler = log.NewTerminalHandler(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stderr)
	}
	leveler := log.NewLevelHandler(handler, log.FromLegacyLevel(lvl))
	log.SetDefault(leveler)
	return leveler, nil
}

// selectGenesis loads the genesis file, or falls back to the devnet. The devnet
// addresses are plain identities, so the devnet defaults to the plain codec.
func selectGenesis(ctx *cli.Context) (address.Codec, *genesis.Genesis, error) {
	codecName := ctx.String(addressCodecFlag.Name)

	var gene *genesis.Genesis
	if path := ctx.String(genesisFlag.Name); path != "" {
		g, err := genesis.Load(path)
		if err != nil {
			return nil, nil, err
		}
		gene = g
		if codecName == "" {
			codecName = "hex"
		}
	} else {
		gene = genesis.NewDevnet()
		if codecName == "" {
			codecName = "plain"
		}
	}

	codec, err := address.NewCodec(codecName)
	if err != nil {
		return nil, nil, err
	}
	return codec, gene, nil
}

// genesisID identifies a genesis by the hash of its yaml encoding.
func genesisID(gene *genesis.Genesis) (common.Hash, error) {
	data, err := yaml.Marshal(gene)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "encode genesis")
	}
	return crypto.Keccak256Hash(data), nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return "", err
	}
	id, err := genesisID(gene)
	if err != nil {
		return "", err
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id.Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// openDatabases opens the state and log databases. The log database is nil
// when logs are skipped.
func openDatabases(ctx *cli.Context, gene *genesis.Genesis, cacheMB int) (*lvldb.LevelDB, *logdb.LogDB, string, error) {
	if ctx.Bool(memFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, "", err
		}
		if ctx.Bool(skipLogsFlag.Name) {
			return mainDB, nil, "Memory", nil
		}
		logDB, err := logdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, nil, "", err
		}
		return mainDB, logDB, "Memory", nil
	}

	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return nil, nil, "", err
	}
	mainDB, err := openMainDB(instanceDir, cacheMB)
	if err != nil {
		return nil, nil, "", err
	}
	if ctx.Bool(skipLogsFlag.Name) {
		return mainDB, nil, instanceDir, nil
	}
	logDB, err := openLogDB(instanceDir)
	if err != nil {
		mainDB.Close()
		return nil, nil, "", err
	}
	return mainDB, logDB, instanceDir, nil
}

func openMainDB(instanceDir string, cacheMB int) (*lvldb.LevelDB, error) {
	dir := filepath.Join(instanceDir, "main.db")
	fdCache, err := suggestFDCache()
	if err != nil {
		return nil, err
	}
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func newStater(mainDB kv.Store, cacheMB int) *state.Stater {
	return state.NewStater(stateBucket.NewStore(mainDB), cacheMB)
}

func openLogDB(instanceDir string) (*logdb.LogDB, error) {
	dir := filepath.Join(instanceDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", dir)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() (int, error) {
	limit, err := fdlimit.Current()
	if err != nil {
		return 0, errors.Wrap(err, "get fd limit")
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 5120), nil
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d, must be less than or equal to %d", val, math.MaxInt)
	}
	return int(val), nil
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes sync.WaitGroup
	goes.Add(1)
	go func() {
		defer goes.Done()
		srv.Serve(listener)
	}()
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, requestBodyLimitBytes)
		h.ServeHTTP(w, r)
	})
}

// trackActions feeds committed actions to the health status until ctx is done.
func trackActions(ctx context.Context, rt *stakingrt.Runtime, h *health.Health) {
	ch := make(chan *stakingrt.Receipt, 16)
	sub := rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Err():
			return
		case receipt := <-ch:
			h.NewAction(receipt.CallID, receipt.Action)
		}
	}
}

func checkClockLoop(ctx context.Context, server string, h *health.Health) {
	ticker := time.NewTicker(clockCheckInterval)
	defer ticker.Stop()

	for {
		checkClockOffset(server, h)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func checkClockOffset(server string, h *health.Health) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	h.ClockOffset(resp.ClockOffset)
	if resp.ClockOffset > clockOffsetWarn || resp.ClockOffset < -clockOffsetWarn {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func handleExitSignal() <-chan struct{} {
	exitSignal := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		sig := <-sigCh
		logger.Info("exit for signal", "signal", sig)
		close(exitSignal)
	}()
	return exitSignal
}

func nodeName() string {
	return "LPStaking/" + fullVersion()
}

func printStartupMessage(gene *genesis.Genesis, codec address.Codec, dataDir, apiURL, metricsURL, adminURL string) {
	fmt.Printf(`Starting %v
    Owner       [ %v ]
    Rewarder    [ %v ]
    Pools       [ %v ]
    Codec       [ %T ]
    Data dir    [ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
    Admin       [ %v ]
`,
		nodeName(),
		gene.Owner,
		gene.Rewarder,
		len(gene.Pools),
		codec,
		dataDir,
		apiURL,
		func() string {
			if metricsURL == "" {
				return "Disabled"
			}
			return metricsURL
		}(),
		func() string {
			if adminURL == "" {
				return "Disabled"
			}
			return adminURL
		}(),
	)
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.lpstaking")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.lpstaking")
		default:
			return filepath.Join(home, ".org.vechain.lpstaking")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
