// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lpstaking/api/utils"
	"github.com/vechain/lpstaking/log"
)

// Leveler is a verbosity that can be changed at runtime, e.g. *log.LevelHandler.
type Leveler interface {
	Level() slog.Level
	SetLevel(level slog.Level)
}

type Request struct {
	Level string `json:"level"`
}

type Response struct {
	CurrentLevel string `json:"currentLevel"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

type LogLevel struct {
	leveler Leveler
}

func New(leveler Leveler) *LogLevel {
	return &LogLevel{
		leveler: leveler,
	}
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("get-log-level").
		HandlerFunc(utils.WrapHandlerFunc(l.getLogLevel))

	sub.Path("").
		Methods(http.MethodPost).
		Name("post-log-level").
		HandlerFunc(utils.WrapHandlerFunc(l.postLogLevel))
}

func (l *LogLevel) getLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, Response{
		CurrentLevel: l.leveler.Level().String(),
	})
}

func (l *LogLevel) postLogLevel(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "Invalid request body"))
	}

	level, ok := levels[req.Level]
	if !ok {
		// the 0 (crit) to 5 (trace) verbosity of the command line
		v, err := strconv.Atoi(req.Level)
		if err != nil || v < 0 || v > 5 {
			return utils.BadRequest(errors.New("Invalid verbosity level"))
		}
		level = log.FromLegacyLevel(v)
	}
	l.leveler.SetLevel(level)

	return utils.WriteJSON(w, Response{
		CurrentLevel: l.leveler.Level().String(),
	})
}
