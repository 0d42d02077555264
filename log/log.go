// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over the go-ethereum slog logger. Package level
// loggers created by WithContext resolve the root logger on every call, so
// they follow handler changes made by SetDefault after init.
package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	New(ctx ...any) Logger
	Enabled(ctx context.Context, level slog.Level) bool

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

type ctxLogger struct {
	ctx []any
}

// WithContext returns a logger carrying the given key/value pairs.
func WithContext(ctx ...any) Logger {
	return &ctxLogger{ctx: ctx}
}

// Root returns the root logger.
func Root() Logger {
	return &ctxLogger{}
}

func (l *ctxLogger) args(ctx []any) []any {
	if len(l.ctx) == 0 {
		return ctx
	}
	return append(append(make([]any, 0, len(l.ctx)+len(ctx)), l.ctx...), ctx...)
}

func (l *ctxLogger) New(ctx ...any) Logger {
	return &ctxLogger{ctx: l.args(ctx)}
}

func (l *ctxLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}

func (l *ctxLogger) Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, l.args(ctx)...) }
func (l *ctxLogger) Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, l.args(ctx)...) }
func (l *ctxLogger) Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, l.args(ctx)...) }
func (l *ctxLogger) Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, l.args(ctx)...) }
func (l *ctxLogger) Error(msg string, ctx ...any) { ethlog.Root().Error(msg, l.args(ctx)...) }
func (l *ctxLogger) Crit(msg string, ctx ...any)  { ethlog.Root().Crit(msg, l.args(ctx)...) }

// SetDefault installs the handler as the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// NewTerminalHandler returns a human readable handler.
func NewTerminalHandler(w io.Writer, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandler(w, useColor)
}

// NewJSONHandler returns a handler writing one JSON object per record.
func NewJSONHandler(w io.Writer) slog.Handler {
	return ethlog.JSONHandler(w)
}

// LevelHandler filters records below a verbosity that can be changed at runtime.
type LevelHandler struct {
	*ethlog.GlogHandler
	level slog.LevelVar
}

// NewLevelHandler wraps h with the initial verbosity.
func NewLevelHandler(h slog.Handler, level slog.Level) *LevelHandler {
	lh := &LevelHandler{GlogHandler: ethlog.NewGlogHandler(h)}
	lh.SetLevel(level)
	return lh
}

// SetLevel changes the verbosity.
func (h *LevelHandler) SetLevel(level slog.Level) {
	h.level.Set(level)
	h.GlogHandler.Verbosity(level)
}

// Level returns the current verbosity.
func (h *LevelHandler) Level() slog.Level {
	return h.level.Level()
}

// DiscardHandler returns a handler dropping every record.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// FromLegacyLevel converts the 0 (crit) to 5 (trace) verbosity scale.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}

func Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }
