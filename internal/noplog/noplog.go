// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package noplog provides a no-op log.Logger for tests and for embeddings
// that have not wired up a real logger.
package noplog

import (
	"context"
	"log/slog"

	"github.com/luxfi/log"
	"go.uber.org/zap"
)

// Logger discards everything logged to it.
type Logger struct{}

// New returns a no-op log.Logger.
func New() log.Logger { return Logger{} }

func (Logger) With(ctx ...interface{}) log.Logger { return Logger{} }
func (Logger) New(ctx ...interface{}) log.Logger  { return Logger{} }

func (Logger) Log(level slog.Level, msg string, ctx ...interface{}) {}
func (Logger) Trace(msg string, ctx ...interface{})                 {}
func (Logger) Debug(msg string, ctx ...interface{})                 {}
func (Logger) Info(msg string, ctx ...interface{})                  {}
func (Logger) Warn(msg string, ctx ...interface{})                  {}
func (Logger) Error(msg string, ctx ...interface{})                 {}
func (Logger) Crit(msg string, ctx ...interface{})                  {}

func (Logger) WriteLog(level slog.Level, msg string, attrs ...any) {}

func (Logger) Enabled(ctx context.Context, level slog.Level) bool { return false }
func (Logger) Handler() slog.Handler                              { return nil }

func (Logger) Fatal(msg string, fields ...zap.Field) {}
func (Logger) Verbo(msg string, fields ...zap.Field) {}

func (l Logger) WithFields(fields ...zap.Field) log.Logger   { return l }
func (l Logger) WithOptions(opts ...zap.Option) log.Logger   { return l }

func (Logger) SetLevel(level slog.Level)        {}
func (Logger) GetLevel() slog.Level             { return slog.Level(0) }
func (Logger) EnabledLevel(lvl slog.Level) bool { return false }

func (Logger) StopOnPanic() {}
func (Logger) RecoverAndPanic(f func())      { f() }
func (Logger) RecoverAndExit(f, exit func()) { f() }
func (Logger) Stop()                         {}

func (Logger) Write(p []byte) (n int, err error) { return len(p), nil }
