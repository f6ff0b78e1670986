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

// Package logger builds the daemon's zap logger
package logger

import (
	"fmt"
	"io"
	"os"
)

// Log levels accepted in configuration
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output formats accepted in configuration
const (
	ConsoleFormat = "console"
	JSONFormat    = "json"
)

// ValidLevel reports whether level is one of the known level strings
func ValidLevel(level string) bool {
	switch level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	default:
		return false
	}
}

// ValidFormat reports whether format is a known output format
func ValidFormat(format string) bool {
	return format == ConsoleFormat || format == JSONFormat
}

// New returns a logger writing to stdout
func New(level, format string) (*Logger, error) {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter returns a logger writing to w
func NewWithWriter(level, format string, w io.Writer) (*Logger, error) {
	if !ValidLevel(level) {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	if format == "" {
		format = ConsoleFormat
	}
	if !ValidFormat(format) {
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return newZapLogger(level, format, w), nil
}
