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

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "console debug", level: DebugLevel, format: ConsoleFormat},
		{name: "json info", level: InfoLevel, format: JSONFormat},
		{name: "empty format is console", level: WarnLevel},
		{name: "unknown level", level: "trace", format: ConsoleFormat, wantErr: true},
		{name: "empty level", level: "", format: ConsoleFormat, wantErr: true},
		{name: "unknown format", level: ErrorLevel, format: "logfmt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, err := NewWithWriter(tt.level, tt.format, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l.SugaredLogger)
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := NewWithWriter(WarnLevel, ConsoleFormat, &buf)
	require.NoError(t, err)

	l.Infow("door opened")
	l.Warnw("reader not responding", "port", "/dev/ttyUSB0")

	out := buf.String()
	assert.NotContains(t, out, "door opened")
	assert.Contains(t, out, "reader not responding")
	assert.Contains(t, out, "WARN")
}

func TestLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := NewWithWriter(DebugLevel, JSONFormat, &buf)
	require.NoError(t, err)

	l.Debugw("tag read", "id", "04ABCDEF")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tag read", entry["msg"])
	assert.Equal(t, "04ABCDEF", entry["id"])
	assert.Equal(t, "debug", entry["level"])
}
