// go-nfclock
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-nfclock.
//
// go-nfclock is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-nfclock is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-nfclock; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package nfclock

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	debugEnabled atomic.Bool
	debugLogger  atomic.Pointer[zap.SugaredLogger]
)

// SetDebugEnabled turns library debug output on or off. It is off by default.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports whether library debug output is on
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// SetLogger routes library debug output to l. Passing nil restores the
// global zap logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		debugLogger.Store(nil)
		return
	}
	debugLogger.Store(l.Sugar())
}

func currentLogger() *zap.SugaredLogger {
	if l := debugLogger.Load(); l != nil {
		return l
	}
	return zap.S()
}

// Debugf writes a formatted debug line when debug output is enabled.
// Sub-packages use it so all library output goes through one switch.
func Debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	currentLogger().Debugf(format, args...)
}

// Debugln writes a debug line when debug output is enabled
func Debugln(args ...any) {
	if !debugEnabled.Load() {
		return
	}
	currentLogger().Debugln(args...)
}

func debugf(format string, args ...any) {
	Debugf(format, args...)
}

func debugln(args ...any) {
	Debugln(args...)
}
